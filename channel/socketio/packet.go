package socketio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// engine.io packet types
const (
	engineOpen    = '0'
	engineClose   = '1'
	enginePing    = '2'
	enginePong    = '3'
	engineMessage = '4'
	engineUpgrade = '5'
	engineNoop    = '6'
)

// socket.io packet types, carried inside an engine.io message
const (
	packetConnect      = '0'
	packetDisconnect   = '1'
	packetEvent        = '2'
	packetAck          = '3'
	packetConnectError = '4'
	packetBinaryEvent  = '5'
	packetBinaryAck    = '6'
)

type openPacket struct {
	Sid          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int64    `json:"pingInterval"`
	PingTimeout  int64    `json:"pingTimeout"`
}

type packet struct {
	kind    byte
	event   string
	payload string
}

func parseOpen(frame string) (*openPacket, error) {
	if len(frame) == 0 || frame[0] != engineOpen {
		return nil, fmt.Errorf("expected engine.io open packet, got %q", truncate(frame))
	}
	var open openPacket
	if err := json.Unmarshal([]byte(frame[1:]), &open); err != nil {
		return nil, errors.Wrap(err, "decode open packet")
	}
	return &open, nil
}

// encodeEvent renders 42["event","payload"]; the payload is sent as a JSON string.
func encodeEvent(event string, payload string) ([]byte, error) {
	body, err := json.Marshal([]string{event, payload})
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, len(body)+2)
	frame = append(frame, engineMessage, packetEvent)
	return append(frame, body...), nil
}

// decodeMessage parses the socket.io packet inside an engine.io message frame
// (the leading '4' already stripped).
func decodeMessage(msg string) (*packet, error) {
	if msg == "" {
		return nil, fmt.Errorf("empty socket.io packet")
	}
	p := &packet{kind: msg[0]}
	rest := msg[1:]

	// optional namespace, terminated by a comma
	if strings.HasPrefix(rest, "/") {
		if i := strings.IndexByte(rest, ','); i >= 0 {
			rest = rest[i+1:]
		} else {
			rest = ""
		}
	}

	switch p.kind {
	case packetEvent, packetBinaryEvent:
		// optional ack id
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		rest = rest[i:]

		var args []json.RawMessage
		if err := json.Unmarshal([]byte(rest), &args); err != nil {
			return nil, errors.Wrap(err, "decode event arguments")
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("event packet without a name")
		}
		if err := json.Unmarshal(args[0], &p.event); err != nil {
			return nil, errors.Wrap(err, "decode event name")
		}
		if len(args) > 1 {
			p.payload = argString(args[1])
		}
	case packetConnectError:
		p.payload = argString(json.RawMessage(rest))
	}
	return p, nil
}

// argString unwraps a JSON string argument to its content and leaves any other JSON as text.
func argString(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return trimmed
}

func errorPayload(err error) string {
	bz, _ := json.Marshal(map[string]string{"message": err.Error()})
	return string(bz)
}

func truncate(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}
	return s
}
