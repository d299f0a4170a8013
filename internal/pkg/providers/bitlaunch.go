package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/env"
)

const defaultBitLaunchBaseURL = "https://app.bitlaunch.io/api"

// BitLaunchAdapter talks to the BitLaunch REST API. The API reports balances
// in milli-dollars (1063 = $1.063), so amounts are divided by 1000 before
// they leave this package.
type BitLaunchAdapter struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewBitLaunchAdapter() *BitLaunchAdapter {
	return &BitLaunchAdapter{
		BaseURL: strings.TrimRight(env.GetEnv("BITLAUNCH_API_BASE_URL", defaultBitLaunchBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (a *BitLaunchAdapter) Name() string { return models.ProviderBitLaunch }

type bitlaunchAccountResponse struct {
	Account struct {
		Email   string  `json:"email"`
		Balance float64 `json:"balance"`
		Limit   float64 `json:"limit"`
	} `json:"account"`
}

type bitlaunchServer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	IPv4   string `json:"ipv4"`
	Region string `json:"region"`
	Host   int    `json:"host"`
}

type bitlaunchServersResponse struct {
	Servers []bitlaunchServer `json:"servers"`
}

func (a *BitLaunchAdapter) FetchBalance(ctx context.Context, credential string) (Balance, error) {
	var out bitlaunchAccountResponse
	if err := a.getJSON(ctx, credential, "/account", &out); err != nil {
		return Balance{}, err
	}

	return Balance{
		Amount:   out.Account.Balance / 1000,
		Limit:    out.Account.Limit / 1000,
		Currency: "USD",
	}, nil
}

func (a *BitLaunchAdapter) FetchInventory(ctx context.Context, credential string) ([]Resource, error) {
	var out bitlaunchServersResponse
	if err := a.getJSON(ctx, credential, "/servers", &out); err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(out.Servers))
	for _, s := range out.Servers {
		meta, _ := json.Marshal(map[string]interface{}{"host": s.Host})
		resources = append(resources, Resource{
			ExternalID: s.ID,
			Name:       s.Name,
			Kind:       models.ResourceKindVPS,
			Status:     s.Status,
			Address:    s.IPv4,
			Location:   s.Region,
			// BitLaunch servers are billed hourly and carry no expiry date
			Metadata: string(meta),
		})
	}
	return resources, nil
}

func (a *BitLaunchAdapter) getJSON(ctx context.Context, credential, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Accept", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return &TransientError{Provider: a.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Provider: a.Name(), Status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return &TransientError{Provider: a.Name(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransientError{Provider: a.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
