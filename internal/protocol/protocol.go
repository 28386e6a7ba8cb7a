package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeCmd     = "CMD"
	TypeResult  = "RESULT"
)

// Actuator operations carried by CMD messages.
const (
	OpStepForward     = "STEP_FORWARD"
	OpTurnLeft        = "TURN_LEFT"
	OpTurnRight       = "TURN_RIGHT"
	OpClearAhead      = "CLEAR_AHEAD"
	OpClearBelow      = "CLEAR_BELOW"
	OpAttackAhead     = "ATTACK_AHEAD"
	OpInspectBelow    = "INSPECT_BELOW"
	OpSelectSlot      = "SELECT_SLOT"
	OpSlotCount       = "SLOT_COUNT"
	OpDepositForward  = "DEPOSIT_FORWARD"
	OpWithdrawForward = "WITHDRAW_FORWARD"
	OpFuelLevel       = "FUEL_LEVEL"
	OpConsumeFuel     = "CONSUME_FUEL"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

var knownOps = map[string]struct{}{
	OpStepForward:     {},
	OpTurnLeft:        {},
	OpTurnRight:       {},
	OpClearAhead:      {},
	OpClearBelow:      {},
	OpAttackAhead:     {},
	OpInspectBelow:    {},
	OpSelectSlot:      {},
	OpSlotCount:       {},
	OpDepositForward:  {},
	OpWithdrawForward: {},
	OpFuelLevel:       {},
	OpConsumeFuel:     {},
}

func IsKnownOp(op string) bool {
	_, ok := knownOps[op]
	return ok
}
