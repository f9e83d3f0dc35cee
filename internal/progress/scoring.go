package progress

import (
	"math"
	"strings"

	"brightsteps/internal/models"
)

// maxDomainScore is the maximum raw score per domain (six items, ten points
// each)
const maxDomainScore = 60

// ScoreResponses computes domain scores from questionnaire responses for
// the given age interval. Each item id carries its domain prefix
// (comm/gm/fm/ps/pss followed by the item number).
func ScoreResponses(responses []models.QuestionnaireResponse, ageMonths int) []models.DomainScore {
	scores := make([]models.DomainScore, 0, len(models.AllDomains))

	for _, domain := range models.AllDomains {
		var raw float64
		for _, r := range responses {
			if itemDomain(r.ItemID) == domain {
				raw += r.Response.Points()
			}
		}

		cutoffs := CutoffFor(ageMonths, domain)

		riskLevel := models.RiskTypical
		switch {
		case raw < cutoffs.Cutoff:
			riskLevel = models.RiskAtRisk
		case raw < cutoffs.Monitoring:
			riskLevel = models.RiskMonitoring
		}

		z := (raw - cutoffs.Mean) / cutoffs.Std
		zRounded := math.Round(z*100) / 100
		percentile := int(normalCDF(z) * 100)

		scores = append(scores, models.DomainScore{
			Domain:              domain,
			RawScore:            raw,
			MaxScore:            maxDomainScore,
			Percentile:          &percentile,
			ZScore:              &zRounded,
			RiskLevel:           riskLevel,
			CutoffScore:         cutoffs.Cutoff,
			MonitoringZoneLimit: cutoffs.Monitoring,
		})
	}

	return scores
}

// OverallRisk aggregates domain risk levels: two or more at-risk domains
// raise a concern, one is at-risk, any monitoring-zone domain is
// monitoring, otherwise typical.
func OverallRisk(scores []models.DomainScore) models.RiskLevel {
	atRisk := 0
	monitoring := false
	for _, s := range scores {
		switch s.RiskLevel {
		case models.RiskAtRisk:
			atRisk++
		case models.RiskMonitoring:
			monitoring = true
		}
	}

	switch {
	case atRisk >= 2:
		return models.RiskConcern
	case atRisk == 1:
		return models.RiskAtRisk
	case monitoring:
		return models.RiskMonitoring
	}
	return models.RiskTypical
}

// itemDomain maps a questionnaire item id to its domain. The longest prefix
// wins so "pss" items never count toward problem solving.
func itemDomain(itemID string) models.Domain {
	if strings.HasPrefix(itemID, models.DomainPersonalSocial.ItemPrefix()) {
		return models.DomainPersonalSocial
	}
	for _, domain := range models.AllDomains {
		if strings.HasPrefix(itemID, domain.ItemPrefix()) {
			return domain
		}
	}
	return ""
}

// normalCDF is the standard normal cumulative distribution function
func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
