package insight

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the generation request for one industry.
func BuildPrompt(req Request, p Policy) string {
	var b strings.Builder

	subject := req.IndustryKey
	if req.SubIndustry != "" {
		subject = fmt.Sprintf("%s (specifically %s)", req.IndustryKey, req.SubIndustry)
	}
	fmt.Fprintf(&b, "Analyze the current state of the %s industry in %s and provide insights in ONLY the following JSON format without any additional notes or explanations:\n", subject, p.Market)
	b.WriteString(`{
  "salaryRange": [
    { "role": "string", "min": number, "max": number, "median": number, "location": "string" }
  ],
  "growthRate": number,
  "demandLevel": "HIGH" | "MEDIUM" | "LOW",
  "topSkills": ["skill1", "skill2"],
  "marketOutlook": "POSITIVE" | "NEUTRAL" | "NEGATIVE",
  "keyTrends": ["trend1", "trend2"],
  "recommendedSkills": ["skill1", "skill2"]
}
`)
	b.WriteString("\nIMPORTANT:\n")
	b.WriteString("- Return ONLY the JSON. No additional text, notes, or markdown formatting.\n")
	fmt.Fprintf(&b, "- Include at least 5 common roles for salary ranges, with locations in %s.\n", p.Market)
	fmt.Fprintf(&b, "- Salary figures are annual amounts in %s as plain integers without symbols or separators.\n", p.Currency)
	b.WriteString("- growthRate is a plain percentage number, e.g. 8.5.\n")
	b.WriteString("- demandLevel must be one of HIGH, MEDIUM, LOW. marketOutlook must be one of POSITIVE, NEUTRAL, NEGATIVE.\n")
	b.WriteString("- Include at least 5 topSkills, 5 keyTrends and 5 recommendedSkills.\n")
	if req.SubIndustry != "" {
		fmt.Fprintf(&b, "- Focus the analysis on the %s segment.\n", req.SubIndustry)
	}
	if len(req.UserSkills) > 0 {
		fmt.Fprintf(&b, "- Recommend skills that complement: %s.\n", strings.Join(req.UserSkills, ", "))
	}
	return b.String()
}
