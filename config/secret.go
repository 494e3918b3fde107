package config

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	vault "github.com/hashicorp/vault/api"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// Secret is either a literal value or a reference of the form <type>:<args>.
type Secret string

type SecretType string

const (
	EnvironmentVariable SecretType = "env"
	File                SecretType = "file"
	Vault               SecretType = "vault"
	GoogleSecretManager SecretType = "gsm"
)

var SecretTypes = []SecretType{EnvironmentVariable, File, Vault, GoogleSecretManager}

// GsmCredentialsEnv optionally names a service account file for gsm references.
const GsmCredentialsEnv = EnvPrefix + "_GSM_CREDENTIALS"

const redacted = "<redacted>"

// Type splits a reference into its type and arguments. A literal has an empty type.
func (s Secret) Type() (SecretType, string) {
	for _, t := range SecretTypes {
		prefix := string(t) + ":"
		if strings.HasPrefix(string(s), prefix) {
			return t, strings.TrimPrefix(string(s), prefix)
		}
	}
	return "", string(s)
}

func (s Secret) HasTypePrefix() bool {
	t, _ := s.Type()
	return t != ""
}

func (s Secret) Redacted() Secret {
	if s == "" || s.HasTypePrefix() {
		return s
	}
	return redacted
}

// Load resolves the secret value. Surrounding whitespace is trimmed and an empty result is an error.
func (s Secret) Load(ctx context.Context) (string, error) {
	t, args := s.Type()
	var value string
	var err error
	switch t {
	case EnvironmentVariable:
		value = os.Getenv(args)
		if value == "" {
			err = fmt.Errorf("environment variable %s is not set", args)
		}
	case File:
		value, err = loadFile(args)
	case Vault:
		value, err = loadVault(ctx, args)
	case GoogleSecretManager:
		value, err = loadGsm(ctx, args)
	default:
		value = args
	}
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("secret %s is empty", s.Redacted())
	}
	return value, nil
}

func loadFile(name string) (string, error) {
	if strings.HasPrefix(name, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home directory")
		}
		name = filepath.Join(home, name[2:])
	}
	bz, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Wrap(err, "read secret file")
	}
	return string(bz), nil
}

// loadVault reads vault:ADDR,PATH where the last PATH segment names the field.
// KV v2 paths include the data/ segment.
func loadVault(ctx context.Context, args string) (string, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("vault secret must be vault:ADDR,PATH")
	}
	addr := parts[0]
	secretPath, field := path.Split(strings.Trim(parts[1], "/"))
	secretPath = strings.TrimSuffix(secretPath, "/")
	if secretPath == "" || field == "" {
		return "", fmt.Errorf("vault path %q must end in a field name", parts[1])
	}

	cfg := vault.DefaultConfig()
	cfg.Address = addr
	client, err := vault.NewClient(cfg)
	if err != nil {
		return "", errors.Wrap(err, "vault client")
	}
	secret, err := client.Logical().ReadWithContext(ctx, secretPath)
	if err != nil {
		return "", errors.Wrap(err, "vault read")
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault secret %s not found", secretPath)
	}
	data := secret.Data
	if inner, ok := data["data"].(map[string]interface{}); ok {
		data = inner
	}
	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("vault secret %s has no field %s", secretPath, field)
	}
	return value, nil
}

// loadGsm reads gsm:PROJECT,NAME[,VERSION]; the version defaults to latest.
func loadGsm(ctx context.Context, args string) (string, error) {
	parts := strings.Split(args, ",")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("gsm secret must be gsm:PROJECT,NAME[,VERSION]")
	}
	version := "latest"
	if len(parts) == 3 && parts[2] != "" {
		version = parts[2]
	}

	var opts []option.ClientOption
	if credentials := os.Getenv(GsmCredentialsEnv); credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return "", errors.Wrap(err, "secret manager client")
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/%s", parts[0], parts[1], version),
	})
	if err != nil {
		return "", errors.Wrap(err, "access secret version")
	}
	return string(resp.GetPayload().GetData()), nil
}
