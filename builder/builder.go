package builder

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/openweb3-io/cryptocapital/builder/validation"
	"github.com/openweb3-io/cryptocapital/signer"
	"github.com/openweb3-io/cryptocapital/types"
	"go.uber.org/zap"
)

// RequestBuilder turns operation params into signed envelopes.
type RequestBuilder struct {
	signer     signer.Signer
	nonces     NonceSource
	apiVersion int

	mu        sync.Mutex
	lastNonce int64
}

func NewRequestBuilder(s signer.Signer, options ...BuilderOption) (*RequestBuilder, error) {
	if s == nil {
		return nil, types.WrapErr(types.ErrConfiguration, fmt.Errorf("signer is required"))
	}
	opts := builderOptions{}
	for _, opt := range options {
		if err := opt(&opts); err != nil {
			return nil, types.WrapErr(types.ErrConfiguration, err)
		}
	}

	b := &RequestBuilder{
		signer:     s,
		nonces:     WallClock{},
		apiVersion: types.ApiVersion,
	}
	if nonces, ok := opts.GetNonceSource(); ok {
		b.nonces = nonces
	}
	if version, ok := opts.GetApiVersion(); ok {
		b.apiVersion = version
	}
	return b, nil
}

// Build validates params, draws a nonce and signs. Nothing is signed if validation fails.
func (b *RequestBuilder) Build(op types.Operation, params types.Params) (*types.Envelope, error) {
	if err := validation.ValidateParams(op, params); err != nil {
		return nil, err
	}
	return b.build(op, params, b.nonces.Next())
}

// BuildArgs is Build for typed arguments.
func (b *RequestBuilder) BuildArgs(args RequestArgs) (*types.Envelope, error) {
	return b.Build(args.Operation(), args.Params())
}

// BuildWithNonce signs with a caller supplied nonce.
func (b *RequestBuilder) BuildWithNonce(op types.Operation, params types.Params, nonce int64) (*types.Envelope, error) {
	if err := validation.ValidateParams(op, params); err != nil {
		return nil, err
	}
	return b.build(op, params, nonce)
}

func (b *RequestBuilder) build(op types.Operation, params types.Params, nonce int64) (*types.Envelope, error) {
	b.checkNonce(op, nonce)

	key := b.signer.PublicKey()
	// the envelope owns its own copy, so later changes to the caller's map cannot
	// diverge from what was signed
	params = params.Clone()

	message, err := SignableString(op, key, nonce, params)
	if err != nil {
		return nil, err
	}
	sig, err := b.signer.Sign(message)
	if err != nil {
		return nil, types.WrapErr(types.ErrSigning, err)
	}

	return &types.Envelope{
		ApiVersion: b.apiVersion,
		Key:        key,
		Nonce:      nonce,
		Params:     params,
		Signed:     base64.StdEncoding.EncodeToString(sig),
	}, nil
}

func (b *RequestBuilder) checkNonce(op types.Operation, nonce int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if nonce <= b.lastNonce {
		zap.S().Warnw("nonce did not increase, server may reject the request as a replay",
			"operation", op,
			"nonce", nonce,
			"previous", b.lastNonce,
		)
	}
	if nonce > b.lastNonce {
		b.lastNonce = nonce
	}
}

// SignableString is OPERATION + key + nonce + the operation's signed fields, in order,
// concatenated with no separators.
func SignableString(op types.Operation, key string, nonce int64, params types.Params) (string, error) {
	if !op.Valid() {
		return "", types.WrapFieldErr(types.ErrValidation, "operation", fmt.Errorf("unknown operation %q", op))
	}
	var sb strings.Builder
	sb.WriteString(string(op))
	sb.WriteString(key)
	sb.WriteString(strconv.FormatInt(nonce, 10))
	for _, field := range op.SignedFields() {
		value, err := params.Field(field)
		if err != nil {
			return "", types.WrapFieldErr(types.ErrValidation, field, err)
		}
		sb.WriteString(value)
	}
	return sb.String(), nil
}

// Verify recomputes the signable string of env and checks its signature.
func Verify(op types.Operation, env *types.Envelope, verifier signer.Verifier) error {
	message, err := SignableString(op, env.Key, env.Nonce, env.Params)
	if err != nil {
		return err
	}
	sig, err := base64.StdEncoding.DecodeString(env.Signed)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}
	ok, err := verifier.Verify(env.Key, message, sig)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("signature does not match %s envelope", op)
	}
	return nil
}
