package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	apiKeys map[string]struct{}
	enabled bool
	logger  *slog.Logger
}

// NewAuthConfigWithKeys creates a new AuthConfig with multiple API keys.
// Empty keys are ignored; with no keys authentication is disabled.
func NewAuthConfigWithKeys(apiKeys []string) AuthConfig {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return AuthConfig{enabled: false}
	}
	return AuthConfig{
		apiKeys: keys,
		enabled: true,
	}
}

// WithLogger returns a copy of the config that logs rejected requests.
func (c AuthConfig) WithLogger(logger *slog.Logger) AuthConfig {
	c.logger = logger
	return c
}

// Enabled returns true if authentication is enabled.
func (c AuthConfig) Enabled() bool { return c.enabled }

func (c AuthConfig) valid(key string) bool {
	for k := range c.apiKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

// WriteProtect returns a middleware that requires a valid X-API-KEY header
// on mutating methods (POST, PUT, PATCH, DELETE). Safe methods pass through.
// If the config has no API keys set, every request passes through.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.enabled || safeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-KEY")
			if apiKey == "" {
				WriteError(w, r, NewAuthenticationError("X-API-KEY header is required"), config.logger)
				return
			}
			if !config.valid(apiKey) {
				WriteError(w, r, NewAuthenticationError("Invalid API key"), config.logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteProtectAuth creates write-protect middleware from a slice of API keys.
func WriteProtectAuth(apiKeys []string) func(http.Handler) http.Handler {
	return WriteProtect(NewAuthConfigWithKeys(apiKeys))
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
