package secp256k1

import (
	"encoding/hex"
	"fmt"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/openweb3-io/cryptocapital/types"
)

// CurveName is the provider key for this package.
const CurveName = "secp256k1"

const privateKeyLen = 32

// ParsePrivateKey decodes a base64 private scalar. It goes through the hex form the way
// the service's reference tooling does, so short keys (leading zero bytes dropped) still load.
func ParsePrivateKey(encoded string) (*btcec.PrivateKey, error) {
	hexKey, err := signer.KeyToHex(encoded)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKeyHex(hexKey)
}

func ParsePrivateKeyHex(hexKey string) (*btcec.PrivateKey, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	if len(raw) > privateKeyLen {
		return nil, fmt.Errorf("private key is %d bytes, expected at most %d", len(raw), privateKeyLen)
	}
	if len(raw) < privateKeyLen {
		padded := make([]byte, privateKeyLen)
		copy(padded[privateKeyLen-len(raw):], raw)
		raw = padded
	}

	// PrivKeyFromBytes reduces modulo n, so range check first.
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow {
		return nil, fmt.Errorf("private key is not below the curve order")
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("private key is zero")
	}

	key, _ := btcec.PrivKeyFromBytes(raw)
	return key, nil
}

// ParsePublicKey decodes a base64 SEC1 point, compressed or uncompressed.
func ParsePublicKey(encoded string) (*btcec.PublicKey, error) {
	raw, err := signer.DecodeKey(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 public key: %w", err)
	}
	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	return pub, nil
}

// ValidateCredential checks that both halves parse and that the public key belongs to the
// private key. The server verifies against the public key, so a mismatched pair never works.
func ValidateCredential(cred types.Credential) error {
	_, err := parseCredential(cred)
	return err
}

func parseCredential(cred types.Credential) (*btcec.PrivateKey, error) {
	if cred.PrivateKey == "" {
		return nil, types.WrapFieldErr(types.ErrConfiguration, "key", fmt.Errorf("private key is required"))
	}
	if cred.PublicKey == "" {
		return nil, types.WrapFieldErr(types.ErrConfiguration, "pub", fmt.Errorf("public key is required"))
	}
	priv, err := ParsePrivateKey(cred.PrivateKey)
	if err != nil {
		return nil, types.WrapFieldErr(types.ErrConfiguration, "key", err)
	}
	pub, err := ParsePublicKey(cred.PublicKey)
	if err != nil {
		return nil, types.WrapFieldErr(types.ErrConfiguration, "pub", err)
	}
	if !priv.PubKey().IsEqual(pub) {
		return nil, types.WrapFieldErr(types.ErrConfiguration, "pub", fmt.Errorf("public key does not match private key"))
	}
	return priv, nil
}
