package driver

import (
	"fmt"
	"sort"

	"github.com/openweb3-io/cryptocapital/channel"
	"github.com/openweb3-io/cryptocapital/channel/socketio"
	"github.com/openweb3-io/cryptocapital/config"
	"github.com/openweb3-io/cryptocapital/types"
	"github.com/sirupsen/logrus"
)

const SocketIO = "socketio"

type ChannelCreator func(cfg *config.Config, logger *logrus.Entry) (channel.Channel, error)

// Registry maps transport driver names to channel constructors.
type Registry struct {
	creators map[string]ChannelCreator
}

// NewRegistry returns a registry with the built-in drivers.
func NewRegistry() *Registry {
	r := &Registry{creators: make(map[string]ChannelCreator)}
	r.RegisterChannel(SocketIO, NewSocketIOChannel)
	return r
}

func (r *Registry) RegisterChannel(name string, creator ChannelCreator) {
	r.creators[name] = creator
}

func (r *Registry) Drivers() []string {
	names := make([]string, 0, len(r.creators))
	for name := range r.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) NewChannel(cfg *config.Config, logger *logrus.Entry) (channel.Channel, error) {
	creator, ok := r.creators[cfg.Transport.Driver]
	if !ok {
		return nil, types.WrapFieldErr(types.ErrConfiguration, "transport.driver",
			fmt.Errorf("no channel driver %q, options: %v", cfg.Transport.Driver, r.Drivers()))
	}
	ch, err := creator(cfg, logger)
	if err != nil {
		return nil, types.WrapErr(types.ErrConfiguration, err)
	}
	return ch, nil
}

func NewSocketIOChannel(cfg *config.Config, logger *logrus.Entry) (channel.Channel, error) {
	t := cfg.Transport
	return socketio.New(cfg.Endpoint,
		socketio.WithPath(t.Path),
		socketio.WithEngineIOVersion(t.EngineIOVersion),
		socketio.WithHandshakeTimeout(t.HandshakeTimeout),
		socketio.WithReconnect(t.ReconnectInitial, t.ReconnectMax),
		socketio.WithSendQueue(t.SendQueue),
		socketio.WithLogger(logger.WithField("driver", SocketIO)),
	)
}
