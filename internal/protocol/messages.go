package protocol

// HELLO (agent -> field)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AgentName       string `json:"agent_name"`
}

// WELCOME (field -> agent)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	AgentID         string      `json:"agent_id"`
	FieldParams     FieldParams `json:"field_params"`
}

type FieldParams struct {
	Width         int   `json:"width"`
	Length        int   `json:"length"`
	Slots         int   `json:"slots"`
	FuelUnlimited bool  `json:"fuel_unlimited"`
	Seed          int64 `json:"seed"`
}

// CMD (agent -> field): one actuator operation. Commands are strictly
// request/response; the agent never has more than one in flight.
type CmdMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Op              string `json:"op"`
	Slot            int    `json:"slot,omitempty"`
	Count           int    `json:"count,omitempty"`
}

// RESULT (field -> agent)
type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`

	// INSPECT_BELOW
	Present  bool   `json:"present,omitempty"`
	Identity string `json:"identity,omitempty"`
	// SLOT_COUNT
	Count int `json:"count,omitempty"`
	// FUEL_LEVEL
	FuelUnits     int  `json:"fuel_units,omitempty"`
	FuelUnlimited bool `json:"fuel_unlimited,omitempty"`
}
