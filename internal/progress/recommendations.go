package progress

import (
	"fmt"
	"strings"

	"brightsteps/internal/models"
)

// BuildRecommendations turns flagged domain scores into guidance records.
// At-risk domains get a high-priority referral, monitoring-zone domains a
// medium-priority monitoring entry; typical domains produce nothing.
func BuildRecommendations(assessmentID string, scores []models.DomainScore) []models.Recommendation {
	var recs []models.Recommendation
	for _, score := range scores {
		switch score.RiskLevel {
		case models.RiskAtRisk:
			recs = append(recs, models.Recommendation{
				AssessmentID: assessmentID,
				Priority:     "high",
				Domain:       score.Domain,
				Type:         "referral",
				Title:        fmt.Sprintf("Further evaluation recommended for %s", domainTitle(score.Domain)),
				Description: fmt.Sprintf("Score of %.1f is below the cutoff of %.2f. Professional evaluation is recommended.",
					score.RawScore, score.CutoffScore),
			})
		case models.RiskMonitoring:
			recs = append(recs, models.Recommendation{
				AssessmentID: assessmentID,
				Priority:     "medium",
				Domain:       score.Domain,
				Type:         "monitoring",
				Title:        fmt.Sprintf("Monitor %s development", domainTitle(score.Domain)),
				Description: fmt.Sprintf("Score of %.1f is in the monitoring zone. Continue with suggested activities and reassess in 2-3 months.",
					score.RawScore),
			})
		}
	}
	return recs
}

// domainTitle renders a domain value for user-facing text, e.g.
// "gross_motor" becomes "Gross Motor".
func domainTitle(domain models.Domain) string {
	words := strings.Split(string(domain), "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
