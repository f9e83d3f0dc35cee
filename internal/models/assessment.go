package models

import "time"

// Domain is one of the five fixed developmental categories
type Domain string

const (
	DomainCommunication  Domain = "communication"
	DomainGrossMotor     Domain = "gross_motor"
	DomainFineMotor      Domain = "fine_motor"
	DomainProblemSolving Domain = "problem_solving"
	DomainPersonalSocial Domain = "personal_social"
)

// AllDomains lists the domains in questionnaire order
var AllDomains = []Domain{
	DomainCommunication,
	DomainGrossMotor,
	DomainFineMotor,
	DomainProblemSolving,
	DomainPersonalSocial,
}

// ItemPrefix returns the questionnaire item id prefix for the domain
func (d Domain) ItemPrefix() string {
	switch d {
	case DomainCommunication:
		return "comm"
	case DomainGrossMotor:
		return "gm"
	case DomainFineMotor:
		return "fm"
	case DomainProblemSolving:
		return "ps"
	case DomainPersonalSocial:
		return "pss"
	}
	return ""
}

// RiskLevel classifies a domain score against normative cutoffs
type RiskLevel string

const (
	RiskTypical    RiskLevel = "typical"
	RiskMonitoring RiskLevel = "monitoring"
	RiskAtRisk     RiskLevel = "at_risk"
	RiskConcern    RiskLevel = "concern"
)

// AssessmentStatus tracks the assessment lifecycle
type AssessmentStatus string

const (
	AssessmentDraft      AssessmentStatus = "draft"
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
	AssessmentArchived   AssessmentStatus = "archived"
)

// ResponseValue is a questionnaire answer
type ResponseValue string

const (
	ResponseYes       ResponseValue = "yes"
	ResponseSometimes ResponseValue = "sometimes"
	ResponseNotYet    ResponseValue = "not_yet"
)

// Points returns the score contribution of the response
func (v ResponseValue) Points() float64 {
	switch v {
	case ResponseYes:
		return 10
	case ResponseSometimes:
		return 5
	}
	return 0
}

// QuestionnaireResponse is a single answered item
type QuestionnaireResponse struct {
	ItemID   string
	Response ResponseValue
	Notes    string
}

// DomainScore belongs to exactly one assessment and one domain. Percentile
// is nullable: scoring may be unable to place a raw score against norms.
type DomainScore struct {
	Domain              Domain
	RawScore            float64
	MaxScore            int
	Percentile          *int
	ZScore              *float64
	RiskLevel           RiskLevel
	CutoffScore         float64
	MonitoringZoneLimit float64
}

// Assessment is a completed or in-flight questionnaire for a child
type Assessment struct {
	ID              string
	ChildID         string
	AgeAtAssessment int
	Version         int
	Status          AssessmentStatus
	CompletedBy     string
	StartedAt       time.Time
	CompletedAt     *time.Time
	OverallRisk     RiskLevel
	DomainScores    []DomainScore
	Notes           string
}

// IsCompleted reports whether the assessment is eligible for progress
// comparison
func (a *Assessment) IsCompleted() bool {
	return a.Status == AssessmentCompleted
}

// Recommendation is guidance generated from a scored assessment
type Recommendation struct {
	ID           string
	AssessmentID string
	Priority     string
	Domain       Domain
	Type         string
	Title        string
	Description  string
	CreatedAt    time.Time
}
