package socketio

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPath             = "/socket.io/"
	DefaultEngineIOVersion  = 3
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultReconnectInitial = 500 * time.Millisecond
	DefaultReconnectMax     = 30 * time.Second
	DefaultBackoffMultiple  = 2.0
	DefaultSendQueue        = 256

	defaultPingInterval = 25 * time.Second
	defaultPingTimeout  = 20 * time.Second
)

type Options struct {
	Path             string
	EngineIOVersion  int
	Header           http.Header
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReconnectInitial time.Duration
	ReconnectMax     time.Duration
	BackoffMultiple  float64
	// SendQueue bounds the frames buffered while disconnected.
	SendQueue int
	Logger    *logrus.Entry
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Path:             DefaultPath,
		EngineIOVersion:  DefaultEngineIOVersion,
		HandshakeTimeout: DefaultHandshakeTimeout,
		WriteTimeout:     DefaultWriteTimeout,
		ReconnectInitial: DefaultReconnectInitial,
		ReconnectMax:     DefaultReconnectMax,
		BackoffMultiple:  DefaultBackoffMultiple,
		SendQueue:        DefaultSendQueue,
		Logger:           logrus.NewEntry(logrus.StandardLogger()),
	}
}

func WithPath(path string) Option {
	return func(o *Options) {
		if path != "" {
			o.Path = path
		}
	}
}

// WithEngineIOVersion selects the engine.io protocol revision (3 or 4).
func WithEngineIOVersion(version int) Option {
	return func(o *Options) {
		if version != 0 {
			o.EngineIOVersion = version
		}
	}
}

func WithHeader(header http.Header) Option {
	return func(o *Options) {
		o.Header = header
	}
}

func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.HandshakeTimeout = timeout
		}
	}
}

func WithReconnect(initial, max time.Duration) Option {
	return func(o *Options) {
		if initial > 0 {
			o.ReconnectInitial = initial
		}
		if max > 0 {
			o.ReconnectMax = max
		}
	}
}

func WithSendQueue(frames int) Option {
	return func(o *Options) {
		if frames > 0 {
			o.SendQueue = frames
		}
	}
}

func WithLogger(logger *logrus.Entry) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
