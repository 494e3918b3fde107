package client

import (
	"github.com/openweb3-io/cryptocapital/builder"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/sirupsen/logrus"
)

type Options struct {
	nonceSource builder.NonceSource
	provider    signer.SignerProvider
	curve       string
	logger      *logrus.Entry
}

type Option func(*Options)

// WithNonceSource replaces the wall clock nonce, e.g. with builder.NewMonotonicClock().
func WithNonceSource(source builder.NonceSource) Option {
	return func(o *Options) {
		o.nonceSource = source
	}
}

// WithSignerProvider supplies the signer registry; by default only secp256k1 is registered.
func WithSignerProvider(provider signer.SignerProvider) Option {
	return func(o *Options) {
		o.provider = provider
	}
}

func WithCurve(curve string) Option {
	return func(o *Options) {
		o.curve = curve
	}
}

func WithLogger(logger *logrus.Entry) Option {
	return func(o *Options) {
		o.logger = logger
	}
}
