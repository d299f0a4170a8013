package providers

import (
	"context"
	"errors"
	"fmt"
)

// ConnectionResult is the outcome of a credential probe, shaped for direct
// return over the API.
type ConnectionResult struct {
	OK      bool     `json:"ok"`
	Balance *Balance `json:"balance,omitempty"`
	Message string   `json:"message"`
}

// TestConnection probes a credential against a provider without touching any
// stored state. Auth failures and transient faults are folded into the result
// so callers get a single shape either way.
func TestConnection(ctx context.Context, registry *Registry, provider, credential string) ConnectionResult {
	adapter, err := registry.Get(provider)
	if err != nil {
		return ConnectionResult{Message: err.Error()}
	}

	balance, err := adapter.FetchBalance(ctx, credential)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return ConnectionResult{Message: fmt.Sprintf("credential rejected by %s (HTTP %d)", provider, authErr.Status)}
		}
		return ConnectionResult{Message: fmt.Sprintf("%s unreachable: %v", provider, err)}
	}

	return ConnectionResult{
		OK:      true,
		Balance: &balance,
		Message: "connection ok",
	}
}
