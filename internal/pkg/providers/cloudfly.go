package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/env"
)

const defaultCloudFlyBaseURL = "https://api.cloudfly.vn"

// CloudFlyAdapter talks to the CloudFly API. The user endpoint nests the
// wallet under clients[0]; balances are in Vietnamese dong. CloudFly has no
// account limit concept.
type CloudFlyAdapter struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewCloudFlyAdapter() *CloudFlyAdapter {
	return &CloudFlyAdapter{
		BaseURL: strings.TrimRight(env.GetEnv("CLOUDFLY_API_BASE_URL", defaultCloudFlyBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (a *CloudFlyAdapter) Name() string { return models.ProviderCloudFly }

type cloudflyUserResponse struct {
	Clients []struct {
		Wallet struct {
			MainBalance float64 `json:"main_balance"`
		} `json:"wallet"`
	} `json:"clients"`
}

type cloudflyInstance struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	AccessIPv4 string `json:"access_ipv4"`
	RegionName string `json:"region_name"`
	FlavorName string `json:"flavor_name"`
}

type cloudflyInstancesResponse struct {
	Results []cloudflyInstance `json:"results"`
}

func (a *CloudFlyAdapter) FetchBalance(ctx context.Context, credential string) (Balance, error) {
	var out cloudflyUserResponse
	if err := a.getJSON(ctx, credential, "/backend/api/users", &out); err != nil {
		return Balance{}, err
	}

	var amount float64
	if len(out.Clients) > 0 {
		amount = out.Clients[0].Wallet.MainBalance
	}
	return Balance{Amount: amount, Currency: "VND"}, nil
}

func (a *CloudFlyAdapter) FetchInventory(ctx context.Context, credential string) ([]Resource, error) {
	var out cloudflyInstancesResponse
	if err := a.getJSON(ctx, credential, "/backend/api/instances", &out); err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(out.Results))
	for _, inst := range out.Results {
		meta, _ := json.Marshal(map[string]interface{}{"flavor": inst.FlavorName})
		resources = append(resources, Resource{
			ExternalID: strconv.Itoa(inst.ID),
			Name:       inst.Name,
			Kind:       models.ResourceKindVPS,
			Status:     inst.Status,
			Address:    inst.AccessIPv4,
			Location:   inst.RegionName,
			Metadata:   string(meta),
		})
	}
	return resources, nil
}

func (a *CloudFlyAdapter) getJSON(ctx context.Context, credential, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+credential)
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
