package signer

import (
	"context"
	"fmt"

	"github.com/openweb3-io/cryptocapital/types"
)

type Options struct {
	failoverSignerCreator SignerCreator
}

type Option func(*Options)

func WithFailoverSignerCreator(v SignerCreator) Option {
	return func(o *Options) {
		o.failoverSignerCreator = v
	}
}

type SignerCreator = func(ctx context.Context, cred types.Credential) (Signer, error)

type signerProvider struct {
	opts       *Options
	creatorMap map[string]SignerCreator
}

func NewSignerProvider(o ...Option) SignerProvider {
	opts := &Options{}

	for _, opt := range o {
		opt(opts)
	}

	return &signerProvider{
		opts:       opts,
		creatorMap: make(map[string]SignerCreator),
	}
}

func (p *signerProvider) Register(curve string, creator SignerCreator) {
	p.creatorMap[curve] = creator
}

func (p *signerProvider) Provide(ctx context.Context, curve string, cred types.Credential) (Signer, error) {
	creator, ok := p.creatorMap[curve]
	if !ok {
		if p.opts.failoverSignerCreator == nil {
			return nil, fmt.Errorf("signer creator for curve %s not found", curve)
		}

		creator = p.opts.failoverSignerCreator
	}

	return creator(ctx, cred)
}
