package secp256k1

import (
	"context"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/openweb3-io/cryptocapital/types"
)

// LocalSigner signs SHA-256 digests of request strings with an in-memory key (SHA256withECDSA).
type LocalSigner struct {
	key       *btcec.PrivateKey
	publicKey string
}

var _ signer.Signer = &LocalSigner{}

func NewLocalSigner(cred types.Credential) (*LocalSigner, error) {
	key, err := parseCredential(cred)
	if err != nil {
		return nil, err
	}
	return &LocalSigner{
		key:       key,
		publicKey: cred.PublicKey,
	}, nil
}

// NewSignerCreator adapts NewLocalSigner to a signer.SignerProvider registration.
func NewSignerCreator() signer.SignerCreator {
	return func(ctx context.Context, cred types.Credential) (signer.Signer, error) {
		s, err := NewLocalSigner(cred)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// PublicKey returns the configured public key verbatim; it is part of the signed string.
func (s *LocalSigner) PublicKey() string {
	return s.publicKey
}

// Sign returns an RFC 6979 DER signature over SHA-256(message).
func (s *LocalSigner) Sign(message string) (types.Signature, error) {
	digest := chainhash.HashB([]byte(message))
	sig := ecdsa.Sign(s.key, digest)
	return sig.Serialize(), nil
}
