package signer

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeKey decodes base64 key material. Padding is optional.
func DecodeKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, fmt.Errorf("empty key")
	}
	if strings.HasSuffix(encoded, "=") {
		return base64.StdEncoding.DecodeString(encoded)
	}
	return base64.RawStdEncoding.DecodeString(encoded)
}

// EncodeKey encodes raw key material as padded base64.
func EncodeKey(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// KeyToHex converts a base64 key into the lower-case hex the signature primitive consumes.
func KeyToHex(encoded string) (string, error) {
	raw, err := DecodeKey(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid base64 key: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// HexToKey converts hex key material, with or without a 0x prefix, to base64.
func HexToKey(hexKey string) (string, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return "", fmt.Errorf("invalid hex key: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty key")
	}
	return EncodeKey(raw), nil
}
