// Package ollamaclient builds clients for a local Ollama server and interprets
// their errors. It is shared by the embedding and LLM adapters.
package ollamaclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// New creates a client for baseURL with the given request timeout.
// An empty baseURL uses OLLAMA_HOST, falling back to http://127.0.0.1:11434.
func New(baseURL string, timeout time.Duration) (*api.Client, error) {
	base := envconfig.Host()
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
		}
		base = parsed
	}
	return api.NewClient(base, &http.Client{Timeout: timeout}), nil
}

// CheckModel verifies the server is reachable and has model pulled.
// A model without a tag matches any local tag of that model.
func CheckModel(ctx context.Context, client *api.Client, model string) error {
	resp, err := client.List(ctx)
	if err != nil {
		return err
	}
	for _, m := range resp.Models {
		if ModelMatches(m.Name, model) || ModelMatches(m.Model, model) {
			return nil
		}
	}
	return fmt.Errorf("model %q is not available locally, run 'ollama pull %s'", model, model)
}

// ModelMatches reports whether a local model name satisfies a requested one.
func ModelMatches(local, requested string) bool {
	if local == requested {
		return true
	}
	if strings.Contains(requested, ":") {
		return false
	}
	name, _, _ := strings.Cut(local, ":")
	return name == requested
}

// Wrap annotates err from an Ollama call. Errors the server reported (bad model,
// bad request) are wrapped as-is; transport failures are also marked with
// unavailable so callers can tell a stopped server from a bad request.
func Wrap(ctx context.Context, op string, err error, unavailable error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("ollama %s: %w", op, ctxErr)
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Errorf("ollama %s: %w", op, err)
	}
	return fmt.Errorf("ollama %s: %w: %w", op, unavailable, err)
}
