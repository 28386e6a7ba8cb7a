// Package ws serves the actuator protocol over a websocket, one synchronous
// CMD/RESULT exchange at a time per connection.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"fieldharvest.ai/internal/actuator"
	"fieldharvest.ai/internal/protocol"
	"fieldharvest.ai/internal/sim/field"
)

type Server struct {
	world *field.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *field.World, logger *log.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if !s.handshake(conn) {
			return
		}

		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeCmd {
				continue
			}
			var cmd protocol.CmdMsg
			if err := json.Unmarshal(msg, &cmd); err != nil {
				continue
			}
			res := s.execute(cmd)
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(res); err != nil {
				return
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) bool {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return false
	}
	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return false
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return false
	}
	name := hello.AgentName
	if name == "" {
		name = "agent"
	}

	width, length, unlimited, seed := s.world.Params()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		AgentID:         name,
		FieldParams: protocol.FieldParams{
			Width:         width,
			Length:        length,
			Slots:         field.Slots,
			FuelUnlimited: unlimited,
			Seed:          seed,
		},
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(welcome); err != nil {
		return false
	}
	if s.log != nil {
		s.log.Printf("agent %q joined field %dx%d", name, width, length)
	}
	return true
}

func (s *Server) execute(cmd protocol.CmdMsg) protocol.ResultMsg {
	res := protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ID:              cmd.ID,
		OK:              true,
	}
	fail := func(code, msg string) protocol.ResultMsg {
		res.OK = false
		res.Code = code
		res.Message = msg
		return res
	}

	switch cmd.Op {
	case protocol.OpStepForward:
		ok, _ := s.world.StepForward()
		if !ok {
			return fail(protocol.ErrBlocked, "movement obstructed or out of fuel")
		}
	case protocol.OpTurnLeft:
		_ = s.world.TurnLeft()
	case protocol.OpTurnRight:
		_ = s.world.TurnRight()
	case protocol.OpClearAhead:
		_ = s.world.ClearAhead()
	case protocol.OpClearBelow:
		_ = s.world.ClearBelow()
	case protocol.OpAttackAhead:
		_ = s.world.AttackAhead()
	case protocol.OpInspectBelow:
		present, identity, _ := s.world.InspectBelow()
		res.Present = present
		res.Identity = identity
	case protocol.OpSelectSlot:
		if err := s.world.SelectSlot(cmd.Slot); err != nil {
			return fail(protocol.ErrBadSlot, err.Error())
		}
	case protocol.OpSlotCount:
		n, err := s.world.SlotCount(cmd.Slot)
		if err != nil {
			return fail(protocol.ErrBadSlot, err.Error())
		}
		res.Count = n
	case protocol.OpDepositForward:
		count := cmd.Count
		if count == 0 {
			count = actuator.AllItems
		}
		_ = s.world.DepositForward(count)
	case protocol.OpWithdrawForward:
		ok, _ := s.world.WithdrawForward(cmd.Count)
		if !ok {
			return fail(protocol.ErrDepotEmpty, "nothing to withdraw")
		}
	case protocol.OpFuelLevel:
		level, _ := s.world.FuelLevel()
		res.FuelUnlimited = level.Unlimited()
		res.FuelUnits = level.Units()
	case protocol.OpConsumeFuel:
		amount := cmd.Count
		if amount == 0 {
			amount = 1
		}
		ok, _ := s.world.ConsumeSelectedAsFuel(amount)
		if !ok {
			return fail(protocol.ErrNotFuel, "selected slot is not fuel")
		}
	default:
		return fail(protocol.ErrUnknownOp, "unknown op "+cmd.Op)
	}
	return res
}
