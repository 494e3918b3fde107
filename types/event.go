package types

import (
	"encoding/json"
	"fmt"
)

type EventName string

// Inbound event names relayed from the channel.
const (
	EventConnect  EventName = "connect"
	EventAck      EventName = "ack"
	EventErr      EventName = "err"
	EventError    EventName = "error"
	EventTransfer EventName = "transfer"
	EventAccount  EventName = "account"
)

var EventNameList = []EventName{
	EventConnect,
	EventAck,
	EventErr,
	EventError,
	EventTransfer,
	EventAccount,
}

func (name EventName) Valid() bool {
	for _, n := range EventNameList {
		if n == name {
			return true
		}
	}
	return false
}

// Event is a decoded inbound message. Payload is nil when the server sent no argument.
type Event struct {
	Name    EventName       `json:"name"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode unmarshals the payload into v.
func (ev Event) Decode(v any) error {
	if len(ev.Payload) == 0 {
		return fmt.Errorf("%s event has no payload", ev.Name)
	}
	return json.Unmarshal(ev.Payload, v)
}
