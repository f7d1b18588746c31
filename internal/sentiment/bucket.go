package sentiment

import (
	"strings"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
)

const (
	successAbove = 70.0
	warningAbove = 50.0
)

var tierColors = map[domain.Tier]string{
	domain.TierSuccess: "#48c78e",
	domain.TierWarning: "#feca57",
	domain.TierAlert:   "#ff6b6b",
}

// BucketFor maps a label to its presentation bucket.
// Matching is case-insensitive substring matching; "positive" takes priority
// over "negative", and anything else is neutral.
func BucketFor(label string) domain.Bucket {
	lower := strings.ToLower(label)

	if strings.Contains(lower, "positive") {
		return domain.BucketPositive
	}
	if strings.Contains(lower, "negative") {
		return domain.BucketNegative
	}
	return domain.BucketNeutral
}

// TierFor returns the confidence band for a percentage. Both thresholds are
// exclusive: exactly 70 is a warning and exactly 50 an alert.
func TierFor(confidence float64) domain.Tier {
	switch {
	case confidence > successAbove:
		return domain.TierSuccess
	case confidence > warningAbove:
		return domain.TierWarning
	default:
		return domain.TierAlert
	}
}

// TierColor returns the bar color of a tier.
func TierColor(t domain.Tier) string {
	return tierColors[t]
}
