package socketio

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent(t *testing.T) {
	frame, err := encodeEvent("statement", `{"apiVersion":2,"nonce":1}`)
	require.NoError(t, err)
	require.Equal(t, `42["statement","{\"apiVersion\":2,\"nonce\":1}"]`, string(frame))
}

func TestDecodeMessage(t *testing.T) {
	vectors := []struct {
		name    string
		msg     string
		kind    byte
		event   string
		payload string
		err     bool
	}{
		{name: "connect", msg: "0", kind: packetConnect},
		{name: "connect with sid", msg: `0{"sid":"x"}`, kind: packetConnect},
		{name: "string payload", msg: `2["ack","{\"ok\":true}"]`, kind: packetEvent, event: "ack", payload: `{"ok":true}`},
		{name: "object payload", msg: `2["account",{"balance":100}]`, kind: packetEvent, event: "account", payload: `{"balance":100}`},
		{name: "namespace and ack id", msg: `2/admin,17["err","{}"]`, kind: packetEvent, event: "err", payload: `{}`},
		{name: "no payload", msg: `2["ping"]`, kind: packetEvent, event: "ping"},
		{name: "connect error v4", msg: `4{"message":"Not authorized"}`, kind: packetConnectError, payload: `{"message":"Not authorized"}`},
		{name: "connect error v3", msg: `4"Not authorized"`, kind: packetConnectError, payload: `Not authorized`},
		{name: "empty", msg: ``, err: true},
		{name: "bad args", msg: `2{"a":1}`, err: true},
		{name: "empty args", msg: `2[]`, err: true},
		{name: "numeric name", msg: `2[5,"x"]`, err: true},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			p, err := decodeMessage(v.msg)
			if v.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, v.kind, p.kind)
			require.Equal(t, v.event, p.event)
			require.Equal(t, v.payload, p.payload)
		})
	}
}

func TestParseOpen(t *testing.T) {
	open, err := parseOpen(`0{"sid":"abc","upgrades":[],"pingInterval":25000,"pingTimeout":5000}`)
	require.NoError(t, err)
	require.Equal(t, "abc", open.Sid)
	require.EqualValues(t, 25000, open.PingInterval)
	require.EqualValues(t, 5000, open.PingTimeout)

	_, err = parseOpen(`40`)
	require.ErrorContains(t, err, "open packet")
	_, err = parseOpen(`0{`)
	require.Error(t, err)
}

func TestErrorPayload(t *testing.T) {
	require.Equal(t, `{"message":"dial: refused"}`, errorPayload(errors.New("dial: refused")))
}

func TestWebsocketURL(t *testing.T) {
	opts := defaultOptions()
	u, err := websocketURL("https://api.cryptocapital.co", opts)
	require.NoError(t, err)
	require.Equal(t, "wss://api.cryptocapital.co/socket.io/?EIO=3&transport=websocket", u)

	opts.EngineIOVersion = 4
	u, err = websocketURL("http://localhost:8080", opts)
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:8080/socket.io/?EIO=4&transport=websocket", u)

	_, err = websocketURL("ftp://host", opts)
	require.Error(t, err)
	_, err = websocketURL("https://", opts)
	require.Error(t, err)
}
