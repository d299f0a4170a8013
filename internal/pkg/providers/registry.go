package providers

import (
	"fmt"
	"sync"

	"github.com/TuanPhamVN/CloudSentry/app/models"
)

// BalancePolicy is the fixed low-balance threshold for one provider, in the
// provider's billing currency. Not user-configurable.
type BalancePolicy struct {
	Threshold float64
	Currency  string
}

// balancePolicies follows the upstream billing currencies: BitLaunch and
// ZingProxy bill in US dollars, CloudFly bills in Vietnamese dong.
var balancePolicies = map[string]BalancePolicy{
	models.ProviderBitLaunch: {Threshold: 10, Currency: "USD"},
	models.ProviderZingProxy: {Threshold: 5, Currency: "USD"},
	models.ProviderCloudFly:  {Threshold: 200000, Currency: "VND"},
}

// PolicyFor returns the balance policy for a provider name.
func PolicyFor(provider string) (BalancePolicy, bool) {
	p, ok := balancePolicies[provider]
	return p, ok
}

// Registry manages provider adapters by name.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates a registry pre-populated with all supported providers.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register(NewBitLaunchAdapter())
	r.Register(NewZingProxyAdapter())
	r.Register(NewCloudFlyAdapter())
	return r
}

// NewEmptyRegistry creates a registry with no adapters, for tests that plug
// in fakes.
func NewEmptyRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter, replacing any existing one with the same name.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Name()] = a
}

// Get returns the adapter for a provider name.
func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not supported", name)
	}
	return a, nil
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}
