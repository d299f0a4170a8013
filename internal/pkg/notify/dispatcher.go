package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/app/repository"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/alerting"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/rocketchat"
)

// maxSummaryResources caps the expiring-resource list in the daily summary so
// large fleets stay readable. The alert digest is never truncated.
const maxSummaryResources = 10

// Dispatcher assembles and delivers a recipient's daily messages: a summary
// of their accounts and, when anything is at risk, an alert digest.
type Dispatcher struct {
	factory *repository.Factory
	gateway Gateway
}

func NewDispatcher(factory *repository.Factory, gateway Gateway) *Dispatcher {
	return &Dispatcher{factory: factory, gateway: gateway}
}

// DispatchFor builds and sends the daily summary and alert digest for one
// recipient. Returns true when the summary was delivered; the digest rides on
// the same credentials and its outcome is logged, not propagated.
func (d *Dispatcher) DispatchFor(ctx context.Context, cfg *models.NotifyConfig, now time.Time) bool {
	repos := d.factory.GetRepositories()

	accounts, err := repos.Account.ListActiveByUser(cfg.UserID)
	if err != nil {
		log.Errorf("[Notify] Failed to load accounts for user %d: %v", cfg.UserID, err)
		return false
	}
	resources, err := repos.Resource.ListByUser(cfg.UserID)
	if err != nil {
		log.Errorf("[Notify] Failed to load resources for user %d: %v", cfg.UserID, err)
		return false
	}

	expiryWarnings := alerting.CollectExpiryWarnings(resources, cfg.NotifyDays, now)
	balanceWarnings := alerting.CollectBalanceWarnings(accounts)

	summary := buildSummary(accounts, resources, expiryWarnings, now)
	delivered := d.gateway.Send(ctx, cfg,
		fmt.Sprintf("Daily infrastructure summary — %s", now.Format("2006-01-02")),
		summary, rocketchat.ColorGood)
	if !delivered {
		log.Warnf("[Notify] Summary for user %d not delivered", cfg.UserID)
	}

	if len(expiryWarnings) == 0 && len(balanceWarnings) == 0 {
		return delivered
	}

	digest, color := buildDigest(expiryWarnings, balanceWarnings)
	if !d.gateway.Send(ctx, cfg, "Attention required", digest, color) {
		log.Warnf("[Notify] Alert digest for user %d not delivered", cfg.UserID)
	}

	return delivered
}

func buildSummary(accounts []models.ProviderAccount, resources []models.ManagedResource, expiring []alerting.ExpiryWarning, now time.Time) string {
	var b strings.Builder

	counts := make(map[uint]int, len(accounts))
	for _, res := range resources {
		counts[res.ProviderAccountID]++
	}

	b.WriteString(fmt.Sprintf("*Accounts:* %d\n", len(accounts)))
	for _, acc := range accounts {
		line := fmt.Sprintf("- %s (%s): %.2f", acc.Email, acc.Provider, acc.Balance)
		if acc.BalanceLimit > 0 {
			line += fmt.Sprintf(" / %.2f", acc.BalanceLimit)
		}
		line += fmt.Sprintf(", %d resources", counts[acc.ID])
		if acc.AuthFailed {
			line += " [auth failed]"
		} else if acc.LastSyncedAt != nil {
			line += fmt.Sprintf(", synced %s", acc.LastSyncedAt.Format("2006-01-02 15:04"))
		} else {
			line += ", never synced"
		}
		b.WriteString(line + "\n")
	}

	if len(expiring) > 0 {
		sort.Slice(expiring, func(i, j int) bool { return expiring[i].DaysLeft < expiring[j].DaysLeft })
		shown := expiring
		if len(shown) > maxSummaryResources {
			shown = shown[:maxSummaryResources]
		}
		b.WriteString(fmt.Sprintf("\n*Expiring soon (%d):*\n", len(expiring)))
		for _, w := range shown {
			b.WriteString(fmt.Sprintf("- %s %s: %s\n", w.ResourceType, w.Name, daysLeftLabel(w.DaysLeft)))
		}
		if len(expiring) > maxSummaryResources {
			b.WriteString(fmt.Sprintf("… and %d more\n", len(expiring)-maxSummaryResources))
		}
	}

	return b.String()
}

// colorRank orders the palette so the digest color only ever escalates.
var colorRank = map[string]int{
	rocketchat.ColorGood:    0,
	rocketchat.ColorWarning: 1,
	rocketchat.ColorDanger:  2,
}

func escalate(current *string, to string) {
	if colorRank[to] > colorRank[*current] {
		*current = to
	}
}

// buildDigest renders all warnings and picks the attachment color: danger for
// anything expired or critically low, warning for near-term items, otherwise
// the informational tier (a digest of items still days away stays green).
func buildDigest(expiring []alerting.ExpiryWarning, balances []alerting.BalanceWarning) (string, string) {
	var b strings.Builder
	color := rocketchat.ColorGood

	if len(balances) > 0 {
		b.WriteString("*Low balances:*\n")
		for _, w := range balances {
			escalate(&color, rocketchat.ColorWarning)
			line := fmt.Sprintf("- %s: %.2f %s (threshold %.2f)", w.AccountRef, w.Balance, w.Currency, w.Threshold)
			if w.Critical {
				line += " CRITICAL"
				escalate(&color, rocketchat.ColorDanger)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(expiring) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("*Expiring resources:*\n")
		for _, w := range expiring {
			b.WriteString(fmt.Sprintf("- %s %s: %s\n", w.ResourceType, w.Name, daysLeftLabel(w.DaysLeft)))
			switch w.Severity {
			case alerting.SeverityExpired:
				escalate(&color, rocketchat.ColorDanger)
			case alerting.SeverityToday, alerting.SeverityTomorrow, alerting.SeveritySoon:
				escalate(&color, rocketchat.ColorWarning)
			}
		}
	}

	return b.String(), color
}

func daysLeftLabel(daysLeft int) string {
	switch {
	case daysLeft < -1:
		return fmt.Sprintf("expired %d days ago", -daysLeft)
	case daysLeft == -1:
		return "expired yesterday"
	case daysLeft == 0:
		return "expires today"
	case daysLeft == 1:
		return "expires tomorrow"
	default:
		return fmt.Sprintf("expires in %d days", daysLeft)
	}
}
