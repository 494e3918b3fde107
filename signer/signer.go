package signer

//go:generate mockgen -source=signer.go -destination=mock/mock_signer.go -package=mock

import (
	"github.com/openweb3-io/cryptocapital/types"
)

// Signer produces signatures over canonical request strings.
type Signer interface {
	// PublicKey is the base64 public key placed in the envelope's key field.
	PublicKey() string
	// Sign hashes message internally; callers never pre-hash.
	Sign(message string) (types.Signature, error)
}

// Verifier checks a signature produced by a Signer on the same curve.
type Verifier interface {
	Verify(publicKey string, message string, signature types.Signature) (bool, error)
}

// KeyPairGenerator creates fresh credentials on a curve.
type KeyPairGenerator interface {
	Generate() (types.Credential, error)
}
