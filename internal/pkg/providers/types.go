package providers

import (
	"context"
	"fmt"
)

// Balance is the normalized account balance returned by a provider.
type Balance struct {
	Amount   float64 `json:"amount"`
	Limit    float64 `json:"limit"`
	Currency string  `json:"currency"`
}

// Resource is one normalized inventory entry (VPS instance or proxy).
type Resource struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Status     string `json:"status"`
	Address    string `json:"address"`
	Location   string `json:"location"`
	Expiry     string `json:"expiry,omitempty"`
	Metadata   string `json:"metadata,omitempty"`
}

// Adapter is implemented once per provider. Both calls carry a context and
// must respect the client timeout; neither retries internally.
type Adapter interface {
	Name() string
	FetchBalance(ctx context.Context, credential string) (Balance, error)
	FetchInventory(ctx context.Context, credential string) ([]Resource, error)
}

// AuthError marks a credential as invalid or revoked. Permanent until the
// owner rotates the credential; the sync engine flags the account and stops
// retrying.
type AuthError struct {
	Provider string
	Status   int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication failed (status %d)", e.Provider, e.Status)
}

// TransientError covers network failures and upstream 5xx responses. The sync
// engine leaves last_synced_at untouched so the account is retried on the
// next due check.
type TransientError struct {
	Provider string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
