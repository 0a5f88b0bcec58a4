package insight

import (
	"testing"
	"time"
)

func TestParseDemandLevel(t *testing.T) {
	cases := map[string]DemandLevel{
		"high":    DemandHigh,
		" LOW ":   DemandLow,
		"Medium":  DemandMedium,
		"extreme": DemandMedium,
		"":        DemandMedium,
	}
	for in, want := range cases {
		if got := ParseDemandLevel(in); got != want {
			t.Fatalf("ParseDemandLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseMarketOutlook(t *testing.T) {
	cases := map[string]MarketOutlook{
		"positive": OutlookPositive,
		"NEGATIVE": OutlookNegative,
		"bullish":  OutlookNeutral,
	}
	for in, want := range cases {
		if got := ParseMarketOutlook(in); got != want {
			t.Fatalf("ParseMarketOutlook(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestRecord_IsFreshBoundary(t *testing.T) {
	window := 7 * 24 * time.Hour
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	if !(Record{LastUpdated: now.Add(-window + time.Second)}).IsFresh(now, window) {
		t.Fatalf("window-1s should be fresh")
	}
	if (Record{LastUpdated: now.Add(-window)}).IsFresh(now, window) {
		t.Fatalf("exactly window should be stale")
	}
	if (Record{LastUpdated: now.Add(-window - time.Second)}).IsFresh(now, window) {
		t.Fatalf("window+1s should be stale")
	}
}

func TestPlaceholder(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	r := Placeholder("tech-software", now, time.Hour)

	if !r.Placeholder {
		t.Fatalf("expected placeholder flag")
	}
	if r.IndustryKey != "tech-software" {
		t.Fatalf("industry key = %q", r.IndustryKey)
	}
	if len(r.SalaryBands) != 3 || len(r.TopSkills) == 0 || len(r.KeyTrends) == 0 || len(r.RecommendedSkills) == 0 {
		t.Fatalf("placeholder lists must be populated: %+v", r)
	}
	if r.DemandLevel != DemandMedium || r.MarketOutlook != OutlookNeutral {
		t.Fatalf("unexpected enums: %s %s", r.DemandLevel, r.MarketOutlook)
	}
	if !r.NextUpdate.Equal(now.Add(time.Hour)) {
		t.Fatalf("next update = %v", r.NextUpdate)
	}
}
