package signer

import (
	"context"

	"github.com/openweb3-io/cryptocapital/types"
)

type SignerProvider interface {
	Register(curve string, creator SignerCreator)
	Provide(ctx context.Context, curve string, cred types.Credential) (Signer, error)
}
