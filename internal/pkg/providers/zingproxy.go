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

const defaultZingProxyBaseURL = "https://api.zingproxy.com"

// ZingProxyAdapter talks to the ZingProxy API using a bearer access token.
// The proxy inventory endpoint splits proxies into three pools which are
// flattened into one normalized set.
type ZingProxyAdapter struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewZingProxyAdapter() *ZingProxyAdapter {
	return &ZingProxyAdapter{
		BaseURL: strings.TrimRight(env.GetEnv("ZINGPROXY_API_BASE_URL", defaultZingProxyBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (a *ZingProxyAdapter) Name() string { return models.ProviderZingProxy }

type zingproxyAccountResponse struct {
	Status string `json:"status"`
	User   struct {
		Email   string  `json:"email"`
		Balance float64 `json:"balance"`
	} `json:"user"`
}

type zingproxyEntry struct {
	UID         string `json:"uId"`
	ResourceID  string `json:"resourceId"`
	IP          string `json:"ip"`
	HostIP      string `json:"hostIp"`
	PortHTTP    int    `json:"portHttp"`
	PortSocks5  int    `json:"portSocks5"`
	State       string `json:"state"`
	DateEnd     string `json:"dateEnd"`
	CountryCode string `json:"countryCode"`
	Username    string `json:"username"`
	Note        string `json:"note"`
	AutoRenew   bool   `json:"autoRenew"`
}

type zingproxyListResponse struct {
	DatacenterIPv4Proxies     []zingproxyEntry `json:"datacenterIPv4Proxies"`
	DatacenterIPv6Proxies     []zingproxyEntry `json:"datacenterIPv6Proxies"`
	VietnamResidentialProxies []zingproxyEntry `json:"vietnamResidentialProxies"`
}

func (a *ZingProxyAdapter) FetchBalance(ctx context.Context, credential string) (Balance, error) {
	var out zingproxyAccountResponse
	if err := a.getJSON(ctx, credential, "/account/details", &out); err != nil {
		return Balance{}, err
	}
	if out.Status != "success" {
		return Balance{}, &TransientError{Provider: a.Name(), Err: fmt.Errorf("unexpected api status %q", out.Status)}
	}

	return Balance{Amount: out.User.Balance, Currency: "USD"}, nil
}

func (a *ZingProxyAdapter) FetchInventory(ctx context.Context, credential string) ([]Resource, error) {
	var out zingproxyListResponse
	if err := a.getJSON(ctx, credential, "/proxy/get-all-active-proxies", &out); err != nil {
		return nil, err
	}

	var resources []Resource
	for _, pool := range []struct {
		kind    string
		entries []zingproxyEntry
	}{
		{"datacenter_ipv4", out.DatacenterIPv4Proxies},
		{"datacenter_ipv6", out.DatacenterIPv6Proxies},
		{"vietnam_residential", out.VietnamResidentialProxies},
	} {
		for _, p := range pool.entries {
			resources = append(resources, normalizeZingProxy(p, pool.kind))
		}
	}
	return resources, nil
}

func normalizeZingProxy(p zingproxyEntry, poolKind string) Resource {
	id := p.UID
	if id == "" {
		id = p.ResourceID
	}
	ip := p.IP
	if ip == "" {
		ip = p.HostIP
	}
	location := p.CountryCode
	if location == "" {
		location = "vn"
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"pool":        poolKind,
		"port_http":   p.PortHTTP,
		"port_socks5": p.PortSocks5,
		"username":    p.Username,
		"note":        p.Note,
		"auto_renew":  p.AutoRenew,
	})

	return Resource{
		ExternalID: id,
		Name:       fmt.Sprintf("%s:%d", ip, p.PortHTTP),
		Kind:       models.ResourceKindProxy,
		Status:     p.State,
		Address:    ip,
		Location:   location,
		Expiry:     p.DateEnd,
		Metadata:   string(meta),
	}
}

func (a *ZingProxyAdapter) getJSON(ctx context.Context, credential, endpoint string, out interface{}) error {
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
