package types

// Credential is a base64 encoded key pair. It is never mutated once a client holds it.
type Credential struct {
	PrivateKey string `json:"key" yaml:"key"`
	PublicKey  string `json:"pub" yaml:"pub"`
}

// Signature is a DER encoded ECDSA signature.
type Signature []byte
