package alerting

import (
	"fmt"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/providers"
)

// BalanceWarning is a derived low-balance signal for one provider account.
// Never persisted.
type BalanceWarning struct {
	AccountRef string  `json:"account_ref"`
	Provider   string  `json:"provider"`
	Balance    float64 `json:"balance"`
	Threshold  float64 `json:"threshold"`
	Currency   string  `json:"currency"`
	Critical   bool    `json:"critical"`
}

// CollectBalanceWarnings applies each provider's fixed threshold to the given
// accounts. A warning fires on balance strictly below the threshold and
// escalates to critical below half the threshold.
func CollectBalanceWarnings(accounts []models.ProviderAccount) []BalanceWarning {
	warnings := make([]BalanceWarning, 0)
	for _, acc := range accounts {
		policy, ok := providers.PolicyFor(acc.Provider)
		if !ok {
			continue
		}
		if acc.Balance >= policy.Threshold {
			continue
		}
		warnings = append(warnings, BalanceWarning{
			AccountRef: fmt.Sprintf("%s (%s)", acc.Email, acc.Provider),
			Provider:   acc.Provider,
			Balance:    acc.Balance,
			Threshold:  policy.Threshold,
			Currency:   policy.Currency,
			Critical:   acc.Balance < policy.Threshold/2,
		})
	}
	return warnings
}
