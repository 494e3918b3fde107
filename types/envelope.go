package types

import "encoding/json"

// ApiVersion is the protocol version stamped on every request.
const ApiVersion = 2

// Envelope is the signed, versioned request object sent to the server.
type Envelope struct {
	ApiVersion int    `json:"apiVersion"`
	Key        string `json:"key"`
	Nonce      int64  `json:"nonce"`
	Params     Params `json:"params"`
	Signed     string `json:"signed"`
}

func (env Envelope) MarshalJSON() ([]byte, error) {
	type plain Envelope
	out := plain(env)
	if out.Params == nil {
		out.Params = Params{}
	}
	return json.Marshal(out)
}
