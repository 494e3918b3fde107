package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openweb3-io/cryptocapital/builder"
	"github.com/openweb3-io/cryptocapital/channel"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/openweb3-io/cryptocapital/signer/secp256k1"
	"github.com/openweb3-io/cryptocapital/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client signs requests, emits them on a channel and relays what the service sends back.
// Outcomes of a request arrive asynchronously as ack, err, transfer or account events.
type Client struct {
	channel channel.Channel
	builder *builder.RequestBuilder
	events  *Registry
	key     string
	log     *logrus.Entry
}

// NewClient validates cred, registers the relay on ch and opens it.
func NewClient(cred types.Credential, ch channel.Channel, options ...Option) (*Client, error) {
	if ch == nil {
		return nil, types.WrapErr(types.ErrConfiguration, fmt.Errorf("channel is required"))
	}
	opts := &Options{
		curve:  secp256k1.CurveName,
		logger: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range options {
		opt(opts)
	}

	provider := opts.provider
	if provider == nil {
		provider = signer.NewSignerProvider()
		provider.Register(secp256k1.CurveName, secp256k1.NewSignerCreator())
	}
	s, err := provider.Provide(context.Background(), opts.curve, cred)
	if err != nil {
		return nil, configurationErr(err)
	}

	var builderOpts []builder.BuilderOption
	if opts.nonceSource != nil {
		builderOpts = append(builderOpts, builder.WithNonceSource(opts.nonceSource))
	}
	b, err := builder.NewRequestBuilder(s, builderOpts...)
	if err != nil {
		return nil, err
	}

	c := &Client{
		channel: ch,
		builder: b,
		events:  NewRegistry(),
		key:     s.PublicKey(),
		log:     opts.logger.WithField("curve", opts.curve),
	}
	for _, name := range types.EventNameList {
		name := name
		ch.On(string(name), func(payload string) {
			c.relay(name, payload)
		})
	}

	if err := ch.Open(); err != nil {
		return nil, types.WrapErr(types.ErrConfiguration, errors.Wrap(err, "open channel"))
	}
	c.log.WithField("key", c.key).Debug("client ready")
	return c, nil
}

func configurationErr(err error) error {
	var rErr *types.Error
	if errors.As(err, &rErr) {
		return err
	}
	return types.WrapErr(types.ErrConfiguration, err)
}

// PublicKey is the key every envelope carries.
func (c *Client) PublicKey() string {
	return c.key
}

// Submit signs params for op and emits the envelope under the lower-case operation name.
// It does not wait for the service. A failed emit is published as an error event and the
// envelope is still returned.
func (c *Client) Submit(ctx context.Context, op types.Operation, params types.Params) (*types.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env, err := c.builder.Build(op, params)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, types.WrapErr(types.ErrValidation, errors.Wrap(err, "encode envelope"))
	}

	log := c.log.WithFields(logrus.Fields{
		"operation": op,
		"nonce":     env.Nonce,
	})
	if err := c.channel.Emit(op.EventName(), string(payload)); err != nil {
		log.WithError(err).Warn("emit failed")
		c.publishError(types.WrapErr(types.ErrTransport, err))
		return env, nil
	}
	log.Debug("submitted")
	return env, nil
}

// Auth opens the authenticated session; extra params are sent but not signed.
func (c *Client) Auth(ctx context.Context, params types.Params) (*types.Envelope, error) {
	return c.Submit(ctx, types.OperationAuth, params)
}

func (c *Client) Transfer(ctx context.Context, args *builder.TransferArgs) (*types.Envelope, error) {
	return c.submitArgs(ctx, args)
}

func (c *Client) Statement(ctx context.Context, args *builder.StatementArgs) (*types.Envelope, error) {
	return c.submitArgs(ctx, args)
}

func (c *Client) Account(ctx context.Context, args *builder.AccountArgs) (*types.Envelope, error) {
	return c.submitArgs(ctx, args)
}

func (c *Client) submitArgs(ctx context.Context, args builder.RequestArgs) (*types.Envelope, error) {
	if args == nil {
		return nil, types.WrapErr(types.ErrValidation, fmt.Errorf("arguments are required"))
	}
	return c.Submit(ctx, args.Operation(), args.Params())
}

// Subscribe registers h for inbound events called name.
func (c *Client) Subscribe(name types.EventName, h Handler) (cancel func()) {
	return c.events.Subscribe(name, h)
}

func (c *Client) Close() error {
	return c.channel.Close()
}

// relay turns a channel message into an Event. Payloads are passed on unchanged; a
// payload that is not JSON becomes an error event instead.
func (c *Client) relay(name types.EventName, payload string) {
	ev := types.Event{Name: name}
	if strings.TrimSpace(payload) != "" {
		if !json.Valid([]byte(payload)) {
			c.log.WithField("event", name).Warn("invalid JSON payload")
			c.publishError(types.WrapErr(types.ErrTransport, fmt.Errorf("invalid JSON in %s event", name)))
			return
		}
		ev.Payload = json.RawMessage(payload)
	}
	if n := c.events.Publish(ev); n == 0 {
		c.log.WithField("event", name).Debug("no subscriber")
	}
}

func (c *Client) publishError(err *types.Error) {
	bz, _ := json.Marshal(err)
	c.events.Publish(types.Event{Name: types.EventError, Payload: bz})
}
