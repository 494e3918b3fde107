package cryptocapital

import (
	"context"

	"github.com/openweb3-io/cryptocapital/builder"
	"github.com/openweb3-io/cryptocapital/types"
)

type IClient interface {
	/**
	 * sign and emit a request; the outcome arrives as an event
	 */
	Submit(ctx context.Context, op types.Operation, params types.Params) (*types.Envelope, error)

	Auth(ctx context.Context, params types.Params) (*types.Envelope, error)

	Transfer(ctx context.Context, args *builder.TransferArgs) (*types.Envelope, error)

	Statement(ctx context.Context, args *builder.StatementArgs) (*types.Envelope, error)

	Account(ctx context.Context, args *builder.AccountArgs) (*types.Envelope, error)

	/**
	 * receive inbound events by name
	 */
	Subscribe(name types.EventName, handler func(ev types.Event)) (cancel func())

	PublicKey() string

	Close() error
}
