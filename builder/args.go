package builder

import (
	"fmt"
	"time"

	"github.com/openweb3-io/cryptocapital/types"
)

// All possible builder arguments go in here, privately available.
type builderOptions struct {
	nonceSource *NonceSource
	apiVersion  *int
}

func get[T any](arg *T) (T, bool) {
	if arg == nil {
		var zero T
		return zero, false
	}
	return *arg, true
}

func (opts *builderOptions) GetNonceSource() (NonceSource, bool) { return get(opts.nonceSource) }
func (opts *builderOptions) GetApiVersion() (int, bool)          { return get(opts.apiVersion) }

type BuilderOption func(opts *builderOptions) error

// WithNonceSource replaces the default wall clock, e.g. with a MonotonicClock when the
// caller submits faster than once per millisecond.
func WithNonceSource(source NonceSource) BuilderOption {
	return func(opts *builderOptions) error {
		if source == nil {
			return fmt.Errorf("nonce source must not be nil")
		}
		opts.nonceSource = &source
		return nil
	}
}

// WithClock keeps wall clock nonces but reads time from now.
func WithClock(now func() time.Time) BuilderOption {
	return func(opts *builderOptions) error {
		if now == nil {
			return fmt.Errorf("clock must not be nil")
		}
		var source NonceSource = WallClock{Now: now}
		opts.nonceSource = &source
		return nil
	}
}

func WithApiVersion(version int) BuilderOption {
	return func(opts *builderOptions) error {
		if version <= 0 {
			return fmt.Errorf("invalid api version %d", version)
		}
		opts.apiVersion = &version
		return nil
	}
}

// Request arguments are converted to wire params by the typed argument structs.
type RequestArgs interface {
	Operation() types.Operation
	Params() types.Params
}
