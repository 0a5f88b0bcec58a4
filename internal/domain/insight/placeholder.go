package insight

import "time"

const (
	PlaceholderText        = "Not available"
	PlaceholderRole        = "General Professional"
	DefaultGrowthRate      = 15.0
	placeholderSalaryMin   = 300000
	placeholderSalaryMax   = 1200000
	placeholderSalaryMid   = 600000
	placeholderSalaryPlace = "Not specified"
)

// Placeholder builds the generic, clearly labeled record used by explicit fallback paths.
func Placeholder(label string, now time.Time, window time.Duration) Record {
	roles := []string{"Entry Level Professional", "Mid Level Professional", "Senior Professional"}
	bands := make([]SalaryBand, 0, len(roles))
	for i, role := range roles {
		scale := int64(i + 1)
		bands = append(bands, SalaryBand{
			Role:     role,
			Min:      placeholderSalaryMin * scale,
			Max:      placeholderSalaryMax * scale,
			Median:   placeholderSalaryMid * scale,
			Location: placeholderSalaryPlace,
		})
	}

	r := Record{
		IndustryKey:       label,
		SalaryBands:       bands,
		GrowthRatePercent: DefaultGrowthRate,
		DemandLevel:       DemandMedium,
		TopSkills:         []string{"Communication", "Problem Solving", "Teamwork", "Adaptability", "Time Management"},
		MarketOutlook:     OutlookNeutral,
		KeyTrends:         []string{"Digital Transformation", "Remote Work", "Automation", "Data-Driven Decisions", "Continuous Learning"},
		RecommendedSkills: []string{"Data Literacy", "Project Management", "Cloud Fundamentals", "AI Tools", "Leadership"},
		Placeholder:       true,
	}
	r.Stamp(now, window)
	return r
}

// PlaceholderBand is substituted when a generated record has no usable salary bands.
func PlaceholderBand() SalaryBand {
	return SalaryBand{Role: PlaceholderRole, Location: placeholderSalaryPlace}
}
