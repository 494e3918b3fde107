package secp256k1

import (
	"fmt"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/openweb3-io/cryptocapital/types"
)

type keyGenOptions struct {
	compressed bool
}

type KeyGenOption func(*keyGenOptions)

// WithCompressedPublicKey emits 33 byte public keys instead of the default 65 byte form.
func WithCompressedPublicKey() KeyGenOption {
	return func(o *keyGenOptions) {
		o.compressed = true
	}
}

type KeyPairGenerator struct {
	opts keyGenOptions
}

var _ signer.KeyPairGenerator = &KeyPairGenerator{}

func NewKeyPairGenerator(options ...KeyGenOption) *KeyPairGenerator {
	g := &KeyPairGenerator{}
	for _, opt := range options {
		opt(&g.opts)
	}
	return g
}

// Generate draws a fresh key from crypto/rand.
func (g *KeyPairGenerator) Generate() (types.Credential, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return types.Credential{}, fmt.Errorf("failed to generate secp256k1 key: %w", err)
	}

	var pub []byte
	if g.opts.compressed {
		pub = key.PubKey().SerializeCompressed()
	} else {
		pub = key.PubKey().SerializeUncompressed()
	}

	return types.Credential{
		PrivateKey: signer.EncodeKey(key.Serialize()),
		PublicKey:  signer.EncodeKey(pub),
	}, nil
}
