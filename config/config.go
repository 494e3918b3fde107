package config

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/openweb3-io/cryptocapital/types"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CRYPTOCAP_TRANSPORT_SEND_QUEUE.
const EnvPrefix = "CRYPTOCAP"

//go:embed defaults.yaml
var defaultsYAML []byte

type TransportConfig struct {
	Driver           string        `mapstructure:"driver" json:"driver" yaml:"driver"`
	Path             string        `mapstructure:"path" json:"path" yaml:"path"`
	EngineIOVersion  int           `mapstructure:"engine_io_version" json:"engine_io_version" yaml:"engine_io_version"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout" json:"handshake_timeout" yaml:"handshake_timeout"`
	ReconnectInitial time.Duration `mapstructure:"reconnect_initial" json:"reconnect_initial" yaml:"reconnect_initial"`
	ReconnectMax     time.Duration `mapstructure:"reconnect_max" json:"reconnect_max" yaml:"reconnect_max"`
	SendQueue        int           `mapstructure:"send_queue" json:"send_queue" yaml:"send_queue"`
}

type Config struct {
	Endpoint string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`
	// Key and Pub are secret references to the base64 private and public key.
	Key   Secret `mapstructure:"key" json:"key" yaml:"key"`
	Pub   Secret `mapstructure:"pub" json:"pub" yaml:"pub"`
	Curve string `mapstructure:"curve" json:"curve" yaml:"curve"`
	Debug bool   `mapstructure:"debug" json:"debug" yaml:"debug"`
	// StrictNonce swaps the wall clock nonce for one that always increases.
	StrictNonce bool            `mapstructure:"strict_nonce" json:"strict_nonce" yaml:"strict_nonce"`
	Transport   TransportConfig `mapstructure:"transport" json:"transport" yaml:"transport"`
}

// Load merges the built-in defaults, the optional file at path and CRYPTOCAP_* environment
// variables, in increasing priority.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultsYAML)); err != nil {
		return nil, errors.Wrap(err, "read defaults")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, types.WrapErr(types.ErrConfiguration, errors.Wrapf(err, "read config %s", path))
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, types.WrapErr(types.ErrConfiguration, errors.Wrap(err, "decode config"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Endpoint == "" {
		return types.WrapFieldErr(types.ErrConfiguration, "endpoint", fmt.Errorf("endpoint is required"))
	}
	if cfg.Key == "" || cfg.Pub == "" {
		return types.WrapFieldErr(types.ErrConfiguration, "key", fmt.Errorf("key and pub are required"))
	}
	if cfg.Transport.SendQueue < 0 {
		return types.WrapFieldErr(types.ErrConfiguration, "transport.send_queue", fmt.Errorf("must not be negative"))
	}
	if cfg.Transport.ReconnectMax > 0 && cfg.Transport.ReconnectInitial > cfg.Transport.ReconnectMax {
		return types.WrapFieldErr(types.ErrConfiguration, "transport.reconnect_initial", fmt.Errorf("exceeds reconnect_max"))
	}
	return nil
}

// Credential resolves the key references.
func (cfg *Config) Credential(ctx context.Context) (types.Credential, error) {
	key, err := cfg.Key.Load(ctx)
	if err != nil {
		return types.Credential{}, types.WrapFieldErr(types.ErrConfiguration, "key", err)
	}
	pub, err := cfg.Pub.Load(ctx)
	if err != nil {
		return types.Credential{}, types.WrapFieldErr(types.ErrConfiguration, "pub", err)
	}
	return types.Credential{PrivateKey: key, PublicKey: pub}, nil
}

// Redacted is a copy safe to print: references are kept, literal keys are masked.
func (cfg *Config) Redacted() *Config {
	out := *cfg
	out.Key = cfg.Key.Redacted()
	out.Pub = cfg.Pub.Redacted()
	return &out
}
