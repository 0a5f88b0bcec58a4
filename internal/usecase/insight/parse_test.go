package insight

import (
	"errors"
	"math"
	"testing"

	domain "career-crafter/internal/domain/insight"
)

func TestParseRecord_FencedJSON(t *testing.T) {
	rec, err := ParseRecord("```json\n"+financeJSON+"\n```", "finance", 15)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.IndustryKey != "finance" || rec.GrowthRatePercent != 8.2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestParseRecord_InvalidEnumDefaults(t *testing.T) {
	rec, err := ParseRecord(`{"demandLevel":"extreme","marketOutlook":"sideways","growthRate":1}`, "x", 15)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.DemandLevel != domain.DemandMedium {
		t.Fatalf("demand = %s", rec.DemandLevel)
	}
	if rec.MarketOutlook != domain.OutlookNeutral {
		t.Fatalf("outlook = %s", rec.MarketOutlook)
	}
}

func TestParseRecord_EmptyListsGetPlaceholders(t *testing.T) {
	rec, err := ParseRecord(`{"salaryRange":[],"topSkills":[],"keyTrends":["", "  "],"growthRate":2}`, "x", 15)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rec.TopSkills) != 1 || rec.TopSkills[0] != domain.PlaceholderText {
		t.Fatalf("top skills = %v", rec.TopSkills)
	}
	if len(rec.KeyTrends) != 1 || len(rec.RecommendedSkills) != 1 {
		t.Fatalf("lists must never be empty: %+v", rec)
	}
	if len(rec.SalaryBands) != 1 || rec.SalaryBands[0].Role != domain.PlaceholderRole {
		t.Fatalf("salary bands = %+v", rec.SalaryBands)
	}
}

func TestParseRecord_GrowthRateCoercion(t *testing.T) {
	cases := map[string]float64{
		`{"growthRate":"8.5%"}`:  8.5,
		`{"growthRate":"about"}`: 15,
		`{"growthRate":null}`:    15,
		`{}`:                     15,
	}
	for in, want := range cases {
		rec, err := ParseRecord(in, "x", 15)
		if err != nil {
			t.Fatalf("%s: unexpected err: %v", in, err)
		}
		if rec.GrowthRatePercent != want {
			t.Fatalf("%s: growth = %v, want %v", in, rec.GrowthRatePercent, want)
		}
	}
}

func TestParseRecord_SalaryNormalization(t *testing.T) {
	rec, err := ParseRecord(`{"salaryRange":[{"role":"Dev","min":900000.6,"max":"3,00,000","location":"Pune"}]}`, "x", 15)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b := rec.SalaryBands[0]
	if b.Min != 300000 || b.Max != 900001 {
		t.Fatalf("min/max must be rounded and ordered: %+v", b)
	}
	if b.Median != (b.Min+b.Max)/2 {
		t.Fatalf("missing median should be the midpoint: %+v", b)
	}
}

func TestParseRecord_NotJSON(t *testing.T) {
	if _, err := ParseRecord("no json here", "x", 15); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if _, err := ParseRecord("  ", "x", 15); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParseRecord_HugeSalaryClamped(t *testing.T) {
	text := `{"salaryRanges": [{"role": "Oracle", "min": -1e30, "max": 1e30, "median": "9999999999999999999999", "location": "Pune"}]}`
	rec, err := ParseRecord(text, "finance", 15)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b := rec.SalaryBands[0]
	if b.Min != math.MinInt64 || b.Max != math.MaxInt64 || b.Median != math.MaxInt64 {
		t.Fatalf("band not clamped: %+v", b)
	}

	rec, err = ParseRecord(`{"salaryRanges": [{"role": "Oracle", "min": 1e30, "max": 2e30}]}`, "finance", 15)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := rec.SalaryBands[0].Median; got != math.MaxInt64 {
		t.Fatalf("derived median overflowed: %d", got)
	}
}

func TestClampInt64(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{1234567, 1234567},
		{-42, -42},
		{9.3e18, math.MaxInt64},
		{-9.3e18, math.MinInt64},
		{math.Ldexp(1, 63), math.MaxInt64},
		{-math.Ldexp(1, 63), math.MinInt64},
	}
	for _, tc := range cases {
		if got := clampInt64(tc.in); got != tc.want {
			t.Fatalf("clampInt64(%g) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
