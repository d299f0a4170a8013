package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TuanPhamVN/CloudSentry/app/models"
)

func newBitLaunchTestAdapter(url string) *BitLaunchAdapter {
	return &BitLaunchAdapter{
		BaseURL:    url,
		HTTPClient: &http.Client{Timeout: time.Second},
	}
}

func TestBitLaunchFetchBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"account":{"email":"ops@example.com","balance":1063,"limit":50000}}`))
	}))
	defer srv.Close()

	balance, err := newBitLaunchTestAdapter(srv.URL).FetchBalance(context.Background(), "test-token")
	require.NoError(t, err)

	// API reports milli-dollars
	assert.Equal(t, 1.063, balance.Amount)
	assert.Equal(t, 50.0, balance.Limit)
	assert.Equal(t, "USD", balance.Currency)
}

func TestBitLaunchFetchInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/servers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"servers":[
			{"id":"srv-1","name":"web-1","status":"running","ipv4":"1.2.3.4","region":"ams","host":4},
			{"id":"srv-2","name":"db-1","status":"stopped","ipv4":"5.6.7.8","region":"nyc","host":0}
		]}`))
	}))
	defer srv.Close()

	resources, err := newBitLaunchTestAdapter(srv.URL).FetchInventory(context.Background(), "test-token")
	require.NoError(t, err)
	require.Len(t, resources, 2)

	assert.Equal(t, "srv-1", resources[0].ExternalID)
	assert.Equal(t, "web-1", resources[0].Name)
	assert.Equal(t, models.ResourceKindVPS, resources[0].Kind)
	assert.Equal(t, "1.2.3.4", resources[0].Address)
	assert.Equal(t, "ams", resources[0].Location)
	assert.Empty(t, resources[0].Expiry)
	assert.JSONEq(t, `{"host":4}`, resources[0].Metadata)
}

func TestBitLaunchErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantAuth  bool
		wantTrans bool
	}{
		{"unauthorized", http.StatusUnauthorized, true, false},
		{"forbidden", http.StatusForbidden, true, false},
		{"server error", http.StatusInternalServerError, false, true},
		{"rate limited", http.StatusTooManyRequests, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newBitLaunchTestAdapter(srv.URL).FetchBalance(context.Background(), "bad")
			require.Error(t, err)

			var authErr *AuthError
			var transErr *TransientError
			assert.Equal(t, tt.wantAuth, errors.As(err, &authErr))
			assert.Equal(t, tt.wantTrans, errors.As(err, &transErr))
			if tt.wantAuth {
				assert.Equal(t, tt.status, authErr.Status)
				assert.Equal(t, models.ProviderBitLaunch, authErr.Provider)
			}
		})
	}
}

func TestBitLaunchNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newBitLaunchTestAdapter(srv.URL).FetchBalance(context.Background(), "token")
	require.Error(t, err)

	var transErr *TransientError
	assert.True(t, errors.As(err, &transErr))
}
