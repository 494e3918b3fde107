package testutil

import (
	"encoding/hex"
	"strings"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/openweb3-io/cryptocapital/types"
)

func FromHex(s string) []byte {
	bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		panic(err)
	}
	return bz
}

// MustCredential builds a credential from a hex private scalar with the uncompressed
// public key derived from it.
func MustCredential(privHex string) types.Credential {
	priv, _ := btcec.PrivKeyFromBytes(FromHex(privHex))
	return types.Credential{
		PrivateKey: signer.EncodeKey(priv.Serialize()),
		PublicKey:  signer.EncodeKey(priv.PubKey().SerializeUncompressed()),
	}
}
