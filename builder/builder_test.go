package builder_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/openweb3-io/cryptocapital/builder"
	"github.com/openweb3-io/cryptocapital/signer/mock"
	"github.com/openweb3-io/cryptocapital/signer/secp256k1"
	"github.com/openweb3-io/cryptocapital/types"
	"github.com/stretchr/testify/require"
)

const exampleNonce int64 = 1700000000000

func newBuilder(t *testing.T, options ...builder.BuilderOption) (*builder.RequestBuilder, types.Credential) {
	cred, err := secp256k1.NewKeyPairGenerator().Generate()
	require.NoError(t, err)
	s, err := secp256k1.NewLocalSigner(cred)
	require.NoError(t, err)
	b, err := builder.NewRequestBuilder(s, options...)
	require.NoError(t, err)
	return b, cred
}

func TestSignableString(t *testing.T) {
	pub := "BPUB=="
	transfer := types.Params{
		"accountNumber": "ACC123",
		"beneficiary":   "BEN456",
		"currency":      "USD",
		"amount":        100.5,
		"memo":          "not signed",
	}
	vectors := []struct {
		op     types.Operation
		params types.Params
		want   string
	}{
		{types.OperationAuth, nil, "AUTH" + pub + "1700000000000"},
		{types.OperationAuth, types.Params{"accountNumber": "ignored"}, "AUTH" + pub + "1700000000000"},
		{types.OperationTransfer, transfer, "TRANSFER" + pub + "1700000000000" + "ACC123" + "BEN456" + "USD" + "100.5"},
		{types.OperationStatement, types.Params{"accountNumber": "ACC123"}, "STATEMENT" + pub + "1700000000000" + "ACC123"},
		{types.OperationAccount, types.Params{"accountNumber": 42}, "ACCOUNT" + pub + "1700000000000" + "42"},
	}
	for _, v := range vectors {
		got, err := builder.SignableString(v.op, pub, exampleNonce, v.params)
		require.NoError(t, err)
		require.Equal(t, v.want, got)
	}

	_, err := builder.SignableString(types.Operation("WITHDRAW"), pub, exampleNonce, nil)
	require.ErrorIs(t, err, types.ErrValidation)
	_, err = builder.SignableString(types.OperationStatement, pub, exampleNonce, nil)
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestStatementExample(t *testing.T) {
	b, cred := newBuilder(t)

	env, err := b.BuildWithNonce(types.OperationStatement, types.Params{"accountNumber": "ACC123"}, exampleNonce)
	require.NoError(t, err)
	require.Equal(t, 2, env.ApiVersion)
	require.Equal(t, cred.PublicKey, env.Key)
	require.Equal(t, exampleNonce, env.Nonce)
	require.Equal(t, types.Params{"accountNumber": "ACC123"}, env.Params)

	sig, err := base64.StdEncoding.DecodeString(env.Signed)
	require.NoError(t, err)
	ok, err := secp256k1.NewVerifier().Verify(cred.PublicKey, "STATEMENT"+cred.PublicKey+"1700000000000"+"ACC123", sig)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, builder.Verify(types.OperationStatement, env, secp256k1.NewVerifier()))
}

func TestAllOperationsVerify(t *testing.T) {
	b, _ := newBuilder(t)
	transfer, err := builder.NewTransferArgs("ACC123", "BEN456", "EUR", types.MustAmount("250.00"))
	require.NoError(t, err)
	statement, err := builder.NewStatementArgs("ACC123")
	require.NoError(t, err)
	account, err := builder.NewAccountArgs("ACC123")
	require.NoError(t, err)

	for _, args := range []builder.RequestArgs{transfer, statement, account} {
		env, err := b.BuildArgs(args)
		require.NoError(t, err)
		require.NoError(t, builder.Verify(args.Operation(), env, secp256k1.NewVerifier()))
	}

	env, err := b.Build(types.OperationAuth, nil)
	require.NoError(t, err)
	require.NotNil(t, env.Params)
	require.NoError(t, builder.Verify(types.OperationAuth, env, secp256k1.NewVerifier()))
}

func TestTamperingIsDetected(t *testing.T) {
	b, _ := newBuilder(t)
	other, err := secp256k1.NewKeyPairGenerator().Generate()
	require.NoError(t, err)
	verifier := secp256k1.NewVerifier()

	fresh := func() *types.Envelope {
		env, err := b.BuildWithNonce(types.OperationTransfer, types.Params{
			"accountNumber": "ACC123",
			"beneficiary":   "BEN456",
			"currency":      "USD",
			"amount":        "10",
		}, exampleNonce)
		require.NoError(t, err)
		require.NoError(t, builder.Verify(types.OperationTransfer, env, verifier))
		return env
	}

	tampers := map[string]func(env *types.Envelope){
		"key":           func(env *types.Envelope) { env.Key = other.PublicKey },
		"nonce":         func(env *types.Envelope) { env.Nonce++ },
		"accountNumber": func(env *types.Envelope) { env.Params["accountNumber"] = "ACC999" },
		"beneficiary":   func(env *types.Envelope) { env.Params["beneficiary"] = "MALLORY" },
		"currency":      func(env *types.Envelope) { env.Params["currency"] = "BTC" },
		"amount":        func(env *types.Envelope) { env.Params["amount"] = "1000" },
	}
	for name, tamper := range tampers {
		env := fresh()
		tamper(env)
		require.Error(t, builder.Verify(types.OperationTransfer, env, verifier), name)
	}
}

// The server decodes the JSON and rebuilds the signed string from what it received.
func TestWireEnvelopeVerifies(t *testing.T) {
	b, _ := newBuilder(t)
	for name, amount := range map[string]any{
		"tiny float":     0.0000005,
		"huge float":     1.5e22,
		"plain float":    100.25,
		"integer":        42,
		"precise amount": types.MustAmount("1234567890.123456789012"),
		"trailing zeros": types.MustAmount("10.500"),
		"string amount":  "0.10",
		"json number":    json.Number("7.0"),
	} {
		t.Run(name, func(t *testing.T) {
			env, err := b.BuildWithNonce(types.OperationTransfer, types.Params{
				"accountNumber": "ACC123",
				"beneficiary":   "BEN456",
				"currency":      "USD",
				"amount":        amount,
			}, exampleNonce)
			require.NoError(t, err)

			wire, err := json.Marshal(env)
			require.NoError(t, err)
			var received types.Envelope
			require.NoError(t, json.Unmarshal(wire, &received))

			require.NoError(t, builder.Verify(types.OperationTransfer, &received, secp256k1.NewVerifier()))
		})
	}
}

func TestEnvelopeIsIsolatedFromCallerParams(t *testing.T) {
	b, _ := newBuilder(t)
	params := types.Params{"accountNumber": "ACC123"}
	env, err := b.Build(types.OperationAccount, params)
	require.NoError(t, err)

	params["accountNumber"] = "ACC999"
	require.Equal(t, "ACC123", env.Params["accountNumber"])
	require.NoError(t, builder.Verify(types.OperationAccount, env, secp256k1.NewVerifier()))
}

func TestValidationFailsBeforeSigning(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mock.NewMockSigner(ctrl)
	// no Sign or PublicKey expectations: any call fails the test

	b, err := builder.NewRequestBuilder(s)
	require.NoError(t, err)

	env, err := b.Build(types.OperationTransfer, types.Params{
		"accountNumber": "ACC123",
		"currency":      "USD",
		"amount":        "10",
	})
	require.ErrorIs(t, err, types.ErrValidation)
	require.Nil(t, env)
}

func TestSigningError(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mock.NewMockSigner(ctrl)
	s.EXPECT().PublicKey().Return("cHVi")
	s.EXPECT().Sign("ACCOUNTcHVi"+"1700000000000"+"ACC123").Return(nil, errors.New("hsm unavailable"))

	b, err := builder.NewRequestBuilder(s)
	require.NoError(t, err)

	env, err := b.BuildWithNonce(types.OperationAccount, types.Params{"accountNumber": "ACC123"}, exampleNonce)
	require.ErrorIs(t, err, types.ErrSigning)
	require.Nil(t, env)
}

func TestBuilderOptions(t *testing.T) {
	fixed := time.UnixMilli(exampleNonce)
	b, _ := newBuilder(t,
		builder.WithClock(func() time.Time { return fixed }),
		builder.WithApiVersion(3),
	)
	env, err := b.Build(types.OperationAuth, nil)
	require.NoError(t, err)
	require.Equal(t, exampleNonce, env.Nonce)
	require.Equal(t, 3, env.ApiVersion)

	// equal nonces are still built; the builder only warns
	env, err = b.Build(types.OperationAuth, nil)
	require.NoError(t, err)
	require.Equal(t, exampleNonce, env.Nonce)

	_, err = builder.NewRequestBuilder(nil)
	require.ErrorIs(t, err, types.ErrConfiguration)

	ctrl := gomock.NewController(t)
	_, err = builder.NewRequestBuilder(mock.NewMockSigner(ctrl), builder.WithApiVersion(0))
	require.ErrorIs(t, err, types.ErrConfiguration)
	_, err = builder.NewRequestBuilder(mock.NewMockSigner(ctrl), builder.WithNonceSource(nil))
	require.ErrorIs(t, err, types.ErrConfiguration)
	_, err = builder.NewRequestBuilder(mock.NewMockSigner(ctrl), builder.WithClock(nil))
	require.ErrorIs(t, err, types.ErrConfiguration)
}

func TestTypedArgsValidation(t *testing.T) {
	_, err := builder.NewTransferArgs("ACC123", "", "USD", types.MustAmount("1"))
	require.ErrorIs(t, err, types.ErrValidation)
	_, err = builder.NewTransferArgs("ACC123", "BEN456", "USD", types.MustAmount("0"))
	require.ErrorIs(t, err, types.ErrValidation)
	_, err = builder.NewStatementArgs("")
	require.ErrorIs(t, err, types.ErrValidation)
	_, err = builder.NewAccountArgs("")
	require.ErrorIs(t, err, types.ErrValidation)

	args, err := builder.NewTransferArgs("ACC123", "BEN456", "USD", types.MustAmount("100.50"))
	require.NoError(t, err)
	require.Equal(t, "BEN456", args.GetBeneficiary())
	msg, err := builder.SignableString(types.OperationTransfer, "k", 1, args.Params())
	require.NoError(t, err)
	require.Equal(t, "TRANSFERk1ACC123BEN456USD100.5", msg)
}
