package alerting

import (
	"time"

	"github.com/TuanPhamVN/CloudSentry/app/models"
)

// Severity is the risk tier of an expiry signal.
type Severity string

const (
	SeverityExpired  Severity = "expired"
	SeverityToday    Severity = "today"
	SeverityTomorrow Severity = "tomorrow"
	SeveritySoon     Severity = "soon"
	SeverityInfo     Severity = "info"
)

// ExpiryWarning is a derived signal for one resource inside the lookahead
// window. Never persisted.
type ExpiryWarning struct {
	ResourceType string   `json:"resource_type"`
	Name         string   `json:"name"`
	DaysLeft     int      `json:"days_left"`
	Severity     Severity `json:"severity"`
}

// expiryLayouts covers the encodings seen across providers: date-only
// strings from manual entry and RFC3339 timestamps from proxy APIs.
var expiryLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// DaysUntil parses an expiry string to a calendar date and returns the signed
// number of days from today. ok is false for absent or unparsable expiry.
func DaysUntil(expiry string, today time.Time) (int, bool) {
	if expiry == "" {
		return 0, false
	}

	var expiryDate time.Time
	parsed := false
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, expiry); err == nil {
			expiryDate = t
			parsed = true
			break
		}
	}
	if !parsed {
		return 0, false
	}

	y1, m1, d1 := expiryDate.Date()
	y2, m2, d2 := today.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24), true
}

// SeverityFor maps a days-left count to its risk tier.
func SeverityFor(daysLeft int) Severity {
	switch {
	case daysLeft < 0:
		return SeverityExpired
	case daysLeft == 0:
		return SeverityToday
	case daysLeft == 1:
		return SeverityTomorrow
	case daysLeft <= 3:
		return SeveritySoon
	default:
		return SeverityInfo
	}
}

// CollectExpiryWarnings surfaces every resource whose expiry falls within the
// lookahead window. Already-expired resources are always included; resources
// without a parsable expiry (most provider-managed VPS) are silently skipped.
func CollectExpiryWarnings(resources []models.ManagedResource, lookaheadDays int, today time.Time) []ExpiryWarning {
	warnings := make([]ExpiryWarning, 0)
	for _, res := range resources {
		daysLeft, ok := DaysUntil(res.Expiry, today)
		if !ok {
			continue
		}
		if daysLeft > lookaheadDays {
			continue
		}
		warnings = append(warnings, ExpiryWarning{
			ResourceType: res.Kind,
			Name:         res.Name,
			DaysLeft:     daysLeft,
			Severity:     SeverityFor(daysLeft),
		})
	}
	return warnings
}
