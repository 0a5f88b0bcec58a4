package insight

import (
	"strings"
	"time"
)

// NormalizeKey is the canonical form of an industry key in every store: trimmed and lowercased.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

type DemandLevel string

const (
	DemandHigh   DemandLevel = "HIGH"
	DemandMedium DemandLevel = "MEDIUM"
	DemandLow    DemandLevel = "LOW"
)

// ParseDemandLevel trims and uppercases s. Unknown values collapse to DemandMedium.
func ParseDemandLevel(s string) DemandLevel {
	switch DemandLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case DemandHigh:
		return DemandHigh
	case DemandLow:
		return DemandLow
	default:
		return DemandMedium
	}
}

type MarketOutlook string

const (
	OutlookPositive MarketOutlook = "POSITIVE"
	OutlookNeutral  MarketOutlook = "NEUTRAL"
	OutlookNegative MarketOutlook = "NEGATIVE"
)

// ParseMarketOutlook trims and uppercases s. Unknown values collapse to OutlookNeutral.
func ParseMarketOutlook(s string) MarketOutlook {
	switch MarketOutlook(strings.ToUpper(strings.TrimSpace(s))) {
	case OutlookPositive:
		return OutlookPositive
	case OutlookNegative:
		return OutlookNegative
	default:
		return OutlookNeutral
	}
}

type SalaryBand struct {
	Role     string `json:"role"`
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Median   int64  `json:"median"`
	Location string `json:"location"`
}

// Record is the cached market analysis for one industry key.
type Record struct {
	IndustryKey       string        `json:"industryKey"`
	SalaryBands       []SalaryBand  `json:"salaryRanges"`
	GrowthRatePercent float64       `json:"growthRate"`
	DemandLevel       DemandLevel   `json:"demandLevel"`
	TopSkills         []string      `json:"topSkills"`
	MarketOutlook     MarketOutlook `json:"marketOutlook"`
	KeyTrends         []string      `json:"keyTrends"`
	RecommendedSkills []string      `json:"recommendedSkills"`
	LastUpdated       time.Time     `json:"lastUpdated"`
	NextUpdate        time.Time     `json:"nextUpdate"`

	// Placeholder marks generic records that do not describe IndustryKey. They are never persisted.
	Placeholder bool `json:"placeholder,omitempty"`
}

// IsFresh reports whether r was updated less than window before now.
func (r Record) IsFresh(now time.Time, window time.Duration) bool {
	return now.Sub(r.LastUpdated) < window
}

// Stamp sets the update timestamps for a record generated at now.
func (r *Record) Stamp(now time.Time, window time.Duration) {
	r.LastUpdated = now
	r.NextUpdate = now.Add(window)
}
