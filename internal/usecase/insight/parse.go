package insight

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	domain "career-crafter/internal/domain/insight"
	"career-crafter/internal/pkg/llm"
)

type rawBand struct {
	Role     any `json:"role"`
	Min      any `json:"min"`
	Max      any `json:"max"`
	Median   any `json:"median"`
	Location any `json:"location"`
}

type rawInsight struct {
	SalaryRange       []rawBand `json:"salaryRange"`
	SalaryRanges      []rawBand `json:"salaryRanges"`
	GrowthRate        any       `json:"growthRate"`
	DemandLevel       any       `json:"demandLevel"`
	TopSkills         []any     `json:"topSkills"`
	MarketOutlook     any       `json:"marketOutlook"`
	KeyTrends         []any     `json:"keyTrends"`
	RecommendedSkills []any     `json:"recommendedSkills"`
}

// ParseRecord strips fences from text, decodes the JSON object and normalizes it into a record
// for key. Timestamps are left for the caller to stamp.
func ParseRecord(text, key string, defaultGrowth float64) (domain.Record, error) {
	body := llm.ExtractJSONObject(text)
	if body == "" {
		return domain.Record{}, fmt.Errorf("%w: empty response", ErrParse)
	}

	var raw rawInsight
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	bands := raw.SalaryRange
	if len(bands) == 0 {
		bands = raw.SalaryRanges
	}

	growth, ok := toFloat(raw.GrowthRate)
	if !ok {
		growth = defaultGrowth
	}

	return domain.Record{
		IndustryKey:       key,
		SalaryBands:       normalizeBands(bands),
		GrowthRatePercent: growth,
		DemandLevel:       domain.ParseDemandLevel(toString(raw.DemandLevel)),
		TopSkills:         normalizeStrings(raw.TopSkills),
		MarketOutlook:     domain.ParseMarketOutlook(toString(raw.MarketOutlook)),
		KeyTrends:         normalizeStrings(raw.KeyTrends),
		RecommendedSkills: normalizeStrings(raw.RecommendedSkills),
	}, nil
}

func normalizeBands(in []rawBand) []domain.SalaryBand {
	out := make([]domain.SalaryBand, 0, len(in))
	for _, b := range in {
		role := toString(b.Role)
		if role == "" {
			continue
		}
		lo, _ := toInt(b.Min)
		hi, _ := toInt(b.Max)
		if lo > hi {
			lo, hi = hi, lo
		}
		mid, ok := toInt(b.Median)
		if !ok || mid == 0 {
			mid = lo/2 + hi/2 + (lo%2+hi%2)/2
		}
		out = append(out, domain.SalaryBand{
			Role:     role,
			Min:      lo,
			Max:      hi,
			Median:   mid,
			Location: toString(b.Location),
		})
	}
	if len(out) == 0 {
		out = append(out, domain.PlaceholderBand())
	}
	return out
}

func normalizeStrings(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if s := toString(v); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = append(out, domain.PlaceholderText)
	}
	return out
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

var numberNoise = strings.NewReplacer("₹", "", "$", "", ",", "", "%", "", " ", "", "\u00a0", "")

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		s := numberNoise.Replace(strings.TrimSpace(t))
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt(v any) (int64, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return clampInt64(math.Round(f)), true
}

// twoTo63 is the first float64 outside the int64 range.
const twoTo63 = float64(1 << 63)

func clampInt64(f float64) int64 {
	switch {
	case f >= twoTo63:
		return math.MaxInt64
	case f < -twoTo63:
		return math.MinInt64
	default:
		return int64(f)
	}
}
