// Package secrets exports secrets kept in an OpenBao KV v2 store as
// environment variables before configuration is loaded.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
)

var ErrSecretNotFound = errors.New("openbao secret path not found")

type Config struct {
	Addr      string `env:"OPENBAO_ADDR"`
	Token     string `env:"OPENBAO_TOKEN"`
	Path      string `env:"OPENBAO_SECRET_PATH"`
	Mount     string `env:"OPENBAO_MOUNT" envDefault:"secret"`
	Namespace string `env:"OPENBAO_NAMESPACE"`
}

// Enabled reports whether address, token and path are all set.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Addr) != "" && c.Token != "" && strings.Trim(c.Path, "/ ") != ""
}

// Bootstrap reads the configured secret and sets each key as an environment
// variable. It returns the number of keys exported and is a no-op when
// OpenBao is not configured.
func Bootstrap(ctx context.Context) (int, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return 0, fmt.Errorf("parse openbao config: %w", err)
	}
	if !cfg.Enabled() {
		return 0, nil
	}
	values, err := Read(ctx, cfg)
	if err != nil {
		return 0, err
	}
	for k, v := range values {
		if err := os.Setenv(k, v); err != nil {
			return 0, fmt.Errorf("export %s: %w", k, err)
		}
	}
	return len(values), nil
}

// Read fetches the latest version of the secret at cfg.Path.
func Read(ctx context.Context, cfg Config) (map[string]string, error) {
	client := upstream.New("openbao", cfg.Addr, upstream.WithHTTPClient(&http.Client{
		Transport: vaultHeaders{token: cfg.Token, namespace: strings.TrimSpace(cfg.Namespace), next: http.DefaultTransport},
	}))

	var payload struct {
		Data struct {
			Data map[string]any `json:"data"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/v1/%s/data/%s", strings.Trim(cfg.Mount, "/ "), strings.Trim(cfg.Path, "/ "))
	err := client.JSON(ctx, http.MethodGet, path, nil, http.StatusOK, &payload)
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return nil, ErrSecretNotFound
	case err != nil:
		return nil, fmt.Errorf("read openbao secret: %w", err)
	}

	out := make(map[string]string, len(payload.Data.Data))
	for k, v := range payload.Data.Data {
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool:
			out[k] = fmt.Sprint(val)
		case float64:
			out[k] = decimal.NewFromFloat(val).String()
		}
	}
	return out, nil
}

type vaultHeaders struct {
	token     string
	namespace string
	next      http.RoundTripper
}

func (v vaultHeaders) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("X-Vault-Token", v.token)
	if v.namespace != "" {
		r.Header.Set("X-Vault-Namespace", v.namespace)
	}
	return v.next.RoundTrip(r)
}
