package actuator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"fieldharvest.ai/internal/protocol"
)

// Client is the websocket-backed Actuator. Commands are strictly
// sequential: every call writes one CMD and blocks for its RESULT.
type Client struct {
	conn    *websocket.Conn
	agentID string
	params  protocol.FieldParams
	seq     uint64
	timeout time.Duration
}

// Dial connects, performs the HELLO/WELCOME handshake, and returns a ready
// client.
func Dial(url, name string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("actuator: dial %s: %w", url, err)
	}
	c := &Client{conn: conn, timeout: 30 * time.Second}

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		AgentName:       name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("actuator: send HELLO: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.timeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("actuator: await WELCOME: %w", err)
	}
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(msg, &welcome); err != nil || welcome.Type != protocol.TypeWelcome {
		conn.Close()
		return nil, fmt.Errorf("actuator: bad WELCOME")
	}
	c.agentID = welcome.AgentID
	c.params = welcome.FieldParams
	return c, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) AgentID() string { return c.agentID }

// FieldParams is what the field announced at handshake.
func (c *Client) FieldParams() protocol.FieldParams { return c.params }

func (c *Client) do(op string, slot, count int) (protocol.ResultMsg, error) {
	c.seq++
	cmd := protocol.CmdMsg{
		Type:            protocol.TypeCmd,
		ProtocolVersion: protocol.Version,
		ID:              fmt.Sprintf("C%d", c.seq),
		Op:              op,
		Slot:            slot,
		Count:           count,
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := c.conn.WriteJSON(cmd); err != nil {
		return protocol.ResultMsg{}, fmt.Errorf("actuator: send %s: %w", op, err)
	}
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return protocol.ResultMsg{}, fmt.Errorf("actuator: await RESULT for %s: %w", op, err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil || base.Type != protocol.TypeResult {
			continue
		}
		var res protocol.ResultMsg
		if err := json.Unmarshal(msg, &res); err != nil {
			continue
		}
		if res.ID != cmd.ID {
			continue
		}
		return res, nil
	}
}

// doOK runs ops whose only outcome is success or a hard failure.
func (c *Client) doOK(op string, slot, count int) error {
	res, err := c.do(op, slot, count)
	if err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("actuator: %s failed: %s %s", op, res.Code, res.Message)
	}
	return nil
}

func (c *Client) StepForward() (bool, error) {
	res, err := c.do(protocol.OpStepForward, 0, 0)
	if err != nil {
		return false, err
	}
	if !res.OK && res.Code == protocol.ErrBlocked {
		return false, nil
	}
	return res.OK, nil
}

func (c *Client) TurnLeft() error  { return c.doOK(protocol.OpTurnLeft, 0, 0) }
func (c *Client) TurnRight() error { return c.doOK(protocol.OpTurnRight, 0, 0) }

func (c *Client) ClearAhead() error  { return c.doOK(protocol.OpClearAhead, 0, 0) }
func (c *Client) ClearBelow() error  { return c.doOK(protocol.OpClearBelow, 0, 0) }
func (c *Client) AttackAhead() error { return c.doOK(protocol.OpAttackAhead, 0, 0) }

func (c *Client) InspectBelow() (bool, string, error) {
	res, err := c.do(protocol.OpInspectBelow, 0, 0)
	if err != nil {
		return false, "", err
	}
	if !res.OK {
		return false, "", nil
	}
	return res.Present, res.Identity, nil
}

func (c *Client) SelectSlot(i int) error { return c.doOK(protocol.OpSelectSlot, i, 0) }

func (c *Client) SlotCount(i int) (int, error) {
	res, err := c.do(protocol.OpSlotCount, i, 0)
	if err != nil {
		return 0, err
	}
	if !res.OK {
		return 0, fmt.Errorf("actuator: SLOT_COUNT failed: %s %s", res.Code, res.Message)
	}
	return res.Count, nil
}

func (c *Client) DepositForward(count int) error {
	return c.doOK(protocol.OpDepositForward, 0, count)
}

func (c *Client) WithdrawForward(count int) (bool, error) {
	res, err := c.do(protocol.OpWithdrawForward, 0, count)
	if err != nil {
		return false, err
	}
	if !res.OK && res.Code == protocol.ErrDepotEmpty {
		return false, nil
	}
	return res.OK, nil
}

func (c *Client) FuelLevel() (FuelLevel, error) {
	res, err := c.do(protocol.OpFuelLevel, 0, 0)
	if err != nil {
		return FuelLevel{}, err
	}
	if !res.OK {
		return FuelLevel{}, fmt.Errorf("actuator: FUEL_LEVEL failed: %s %s", res.Code, res.Message)
	}
	if res.FuelUnlimited {
		return Unlimited(), nil
	}
	return Finite(res.FuelUnits), nil
}

func (c *Client) ConsumeSelectedAsFuel(amount int) (bool, error) {
	res, err := c.do(protocol.OpConsumeFuel, 0, amount)
	if err != nil {
		return false, err
	}
	if !res.OK && res.Code == protocol.ErrNotFuel {
		return false, nil
	}
	return res.OK, nil
}

// Interface check.
var _ Actuator = (*Client)(nil)
