package provider

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/affistats/insights-manager/internal/entity"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02.01.2006",
	"20060102",
}

// NormalizeDate coerces a raw cell into a timestamp. Accepted inputs are
// time.Time, parseable strings and epoch numbers (seconds or milliseconds).
// The second return is false when the value cannot be interpreted as a date.
func NormalizeDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
		if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
			return fromEpoch(epoch), true
		}
		return time.Time{}, false
	case int:
		return fromEpoch(int64(val)), true
	case int64:
		return fromEpoch(val), true
	case float64:
		return fromEpoch(int64(val)), true
	default:
		return time.Time{}, false
	}
}

// Epoch values above this are treated as milliseconds.
const epochMillisThreshold = int64(1e12)

func fromEpoch(epoch int64) time.Time {
	if epoch > epochMillisThreshold {
		return time.UnixMilli(epoch).UTC()
	}
	return time.Unix(epoch, 0).UTC()
}

// NormalizeInt coerces a raw cell into an int, stripping any non-numeric
// characters from strings. Unparseable input defaults to 0.
func NormalizeInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		s := stripNonNumeric(val)
		if s == "" {
			return 0
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

// NormalizeDecimal coerces a raw cell into a decimal, stripping currency
// symbols and separators from strings. Unparseable input defaults to zero.
func NormalizeDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case string:
		s := stripNonNumeric(val)
		if s == "" {
			return decimal.Zero
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
		return decimal.Zero
	case decimal.Decimal:
		return val
	default:
		return decimal.Zero
	}
}

// NormalizeString coerces a raw cell into a trimmed string, nil becomes "".
func NormalizeString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RecordID derives a deterministic record identifier from the provider type,
// timestamp, campaign, source and row index. It is stable across identical
// re-fetches but not globally unique when the upstream data changes.
func RecordID(p entity.ProviderType, ts time.Time, campaignID, source string, row int) string {
	return fmt.Sprintf("%s-%d-%s-%s-%d", p, ts.Unix(), campaignID, source, row)
}

// ValidateRecord returns one message per missing or invalid required field.
func ValidateRecord(rec *entity.AnalyticsRecord) []string {
	var errs []string
	if rec.CampaignID == "" {
		errs = append(errs, "missing campaign_id")
	}
	if rec.Source == "" {
		errs = append(errs, "missing source")
	}
	if rec.Timestamp.IsZero() {
		errs = append(errs, "invalid timestamp")
	}
	if rec.Clicks < 0 {
		errs = append(errs, "negative clicks")
	}
	if rec.Cost.IsNegative() {
		errs = append(errs, "negative cost")
	}
	return errs
}
