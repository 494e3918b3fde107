package factory

import (
	"context"

	"github.com/openweb3-io/cryptocapital"
	"github.com/openweb3-io/cryptocapital/builder"
	"github.com/openweb3-io/cryptocapital/client"
	"github.com/openweb3-io/cryptocapital/config"
	"github.com/openweb3-io/cryptocapital/factory/driver"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/openweb3-io/cryptocapital/signer/secp256k1"
	"github.com/sirupsen/logrus"
)

type IFactory interface {
	NewClient(ctx context.Context, cfg *config.Config) (cryptocapital.IClient, error)
}

type Factory struct {
	Drivers *driver.Registry
	Signers signer.SignerProvider
	Logger  *logrus.Logger
}

var _ IFactory = &Factory{}

func NewFactory() *Factory {
	signers := signer.NewSignerProvider()
	signers.Register(secp256k1.CurveName, secp256k1.NewSignerCreator())
	return &Factory{
		Drivers: driver.NewRegistry(),
		Signers: signers,
		Logger:  logrus.New(),
	}
}

// NewClient resolves the credential, builds the configured channel and returns a
// connected client.
func (f *Factory) NewClient(ctx context.Context, cfg *config.Config) (cryptocapital.IClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Debug {
		f.Logger.SetLevel(logrus.DebugLevel)
	}
	logger := logrus.NewEntry(f.Logger).WithField("endpoint", cfg.Endpoint)

	cred, err := cfg.Credential(ctx)
	if err != nil {
		return nil, err
	}
	ch, err := f.Drivers.NewChannel(cfg, logger)
	if err != nil {
		return nil, err
	}

	options := []client.Option{
		client.WithSignerProvider(f.Signers),
		client.WithCurve(cfg.Curve),
		client.WithLogger(logger),
	}
	if cfg.StrictNonce {
		options = append(options, client.WithNonceSource(builder.NewMonotonicClock()))
	}
	c, err := client.NewClient(cred, ch, options...)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return c, nil
}
