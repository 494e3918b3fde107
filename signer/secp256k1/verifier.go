package secp256k1

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/openweb3-io/cryptocapital/types"
)

type Verifier struct{}

var _ signer.Verifier = Verifier{}

func NewVerifier() Verifier {
	return Verifier{}
}

// Verify returns an error only when the key or signature cannot be parsed.
func (Verifier) Verify(publicKey string, message string, signature types.Signature) (bool, error) {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return false, err
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false, fmt.Errorf("invalid DER signature: %w", err)
	}
	return sig.Verify(chainhash.HashB([]byte(message)), pub), nil
}
