package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrUnknownOp       = "E_UNKNOWN_OP"

	// World/actuator layer.
	ErrBlocked    = "E_BLOCKED"
	ErrNoFuel     = "E_NO_FUEL"
	ErrBadSlot    = "E_BAD_SLOT"
	ErrSlotFull   = "E_SLOT_FULL"
	ErrDepotEmpty = "E_DEPOT_EMPTY"
	ErrNotFuel    = "E_NOT_FUEL"
	ErrNothing    = "E_NOTHING_THERE"
	ErrInternal   = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrUnknownOp:       {},
	ErrBlocked:         {},
	ErrNoFuel:          {},
	ErrBadSlot:         {},
	ErrSlotFull:        {},
	ErrDepotEmpty:      {},
	ErrNotFuel:         {},
	ErrNothing:         {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
