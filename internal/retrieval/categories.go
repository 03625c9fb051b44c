package retrieval

import "regexp"

// queryPatterns maps query intents to the category filters that should
// steer retrieval. Patterns are matched case-insensitively against the
// raw query; all matching families contribute their filters.
var queryPatterns = []struct {
	re      *regexp.Regexp
	filters []string
}{
	{
		regexp.MustCompile(`(?i)\b(work(ing)?|jobs?|roles?|compan(y|ies)|careers?|employers?|positions?|experiences?)\b`),
		[]string{"resume_experience", "linkedin_experience"},
	},
	{
		regexp.MustCompile(`(?i)\b(journey|stor(y|ies)|learn(ed|ing|ings)?|growth|reflect(ion|ions|ing|ed)?|retrospectives?|year in review)\b`),
		[]string{"journey_narrative"},
	},
	{
		regexp.MustCompile(`(?i)\b(skills?|technolog(y|ies)|languages?|frameworks?|tool(s|ing)?|stacks?|proficien(t|cy|cies))\b`),
		[]string{"resume_skills", "github"},
	},
	{
		regexp.MustCompile(`(?i)\b(projects?|repos?|repositor(y|ies)|built|building|open[- ]source|code(base)?)\b`),
		[]string{"github"},
	},
	{
		regexp.MustCompile(`(?i)\b(education|degrees?|universit(y|ies)|college|school|stud(y|ied|ies)|gpa)\b`),
		[]string{"resume_education"},
	},
}

// AnalyzeQueryForCategories suggests category filters for a query. An
// empty slice means no filter, search everything.
func AnalyzeQueryForCategories(query string) []string {
	var filters []string
	seen := make(map[string]bool)
	for _, p := range queryPatterns {
		if !p.re.MatchString(query) {
			continue
		}
		for _, f := range p.filters {
			if !seen[f] {
				seen[f] = true
				filters = append(filters, f)
			}
		}
	}
	return filters
}
