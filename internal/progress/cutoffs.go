package progress

import "brightsteps/internal/models"

// Cutoff holds the normative scoring thresholds for one age interval and
// domain (ASQ-3 normative data).
type Cutoff struct {
	Cutoff     float64
	Monitoring float64
	Mean       float64
	Std        float64
}

// ageIntervals lists the questionnaire age intervals in months, ascending
var ageIntervals = []int{2, 4, 6, 8, 9, 10, 12, 14, 16, 18, 20, 22, 24, 27, 30, 33, 36, 42, 48, 54, 60}

var cutoffScores = map[int]map[models.Domain]Cutoff{
	2: {
		models.DomainCommunication:  {Cutoff: 20.12, Monitoring: 32.45, Mean: 44.78, Std: 12.33},
		models.DomainGrossMotor:     {Cutoff: 25.88, Monitoring: 38.62, Mean: 51.36, Std: 12.74},
		models.DomainFineMotor:      {Cutoff: 22.45, Monitoring: 35.78, Mean: 49.11, Std: 13.33},
		models.DomainProblemSolving: {Cutoff: 24.56, Monitoring: 37.23, Mean: 49.90, Std: 12.67},
		models.DomainPersonalSocial: {Cutoff: 23.78, Monitoring: 36.45, Mean: 49.12, Std: 12.67},
	},
	4: {
		models.DomainCommunication:  {Cutoff: 18.45, Monitoring: 31.23, Mean: 44.01, Std: 12.78},
		models.DomainGrossMotor:     {Cutoff: 22.34, Monitoring: 35.67, Mean: 49.00, Std: 13.33},
		models.DomainFineMotor:      {Cutoff: 25.67, Monitoring: 38.12, Mean: 50.57, Std: 12.45},
		models.DomainProblemSolving: {Cutoff: 23.89, Monitoring: 36.78, Mean: 49.67, Std: 12.89},
		models.DomainPersonalSocial: {Cutoff: 24.12, Monitoring: 37.01, Mean: 49.90, Std: 12.89},
	},
	6: {
		models.DomainCommunication:  {Cutoff: 16.78, Monitoring: 29.89, Mean: 43.00, Std: 13.11},
		models.DomainGrossMotor:     {Cutoff: 20.45, Monitoring: 33.78, Mean: 47.11, Std: 13.33},
		models.DomainFineMotor:      {Cutoff: 26.78, Monitoring: 39.12, Mean: 51.46, Std: 12.34},
		models.DomainProblemSolving: {Cutoff: 24.56, Monitoring: 37.23, Mean: 49.90, Std: 12.67},
		models.DomainPersonalSocial: {Cutoff: 22.89, Monitoring: 35.78, Mean: 48.67, Std: 12.89},
	},
	8: {
		models.DomainCommunication:  {Cutoff: 15.23, Monitoring: 28.12, Mean: 41.01, Std: 12.89},
		models.DomainGrossMotor:     {Cutoff: 19.78, Monitoring: 33.12, Mean: 46.46, Std: 13.34},
		models.DomainFineMotor:      {Cutoff: 27.12, Monitoring: 39.45, Mean: 51.78, Std: 12.33},
		models.DomainProblemSolving: {Cutoff: 24.89, Monitoring: 37.56, Mean: 50.23, Std: 12.67},
		models.DomainPersonalSocial: {Cutoff: 22.34, Monitoring: 35.23, Mean: 48.12, Std: 12.89},
	},
	9: {
		models.DomainCommunication:  {Cutoff: 15.45, Monitoring: 28.34, Mean: 41.23, Std: 12.89},
		models.DomainGrossMotor:     {Cutoff: 20.12, Monitoring: 33.56, Mean: 47.00, Std: 13.44},
		models.DomainFineMotor:      {Cutoff: 27.45, Monitoring: 39.67, Mean: 51.89, Std: 12.22},
		models.DomainProblemSolving: {Cutoff: 25.01, Monitoring: 37.67, Mean: 50.33, Std: 12.66},
		models.DomainPersonalSocial: {Cutoff: 22.45, Monitoring: 35.34, Mean: 48.23, Std: 12.89},
	},
	10: {
		models.DomainCommunication:  {Cutoff: 15.56, Monitoring: 28.45, Mean: 41.34, Std: 12.89},
		models.DomainGrossMotor:     {Cutoff: 20.89, Monitoring: 34.23, Mean: 47.57, Std: 13.34},
		models.DomainFineMotor:      {Cutoff: 27.67, Monitoring: 39.78, Mean: 51.89, Std: 12.11},
		models.DomainProblemSolving: {Cutoff: 25.12, Monitoring: 37.78, Mean: 50.44, Std: 12.66},
		models.DomainPersonalSocial: {Cutoff: 22.56, Monitoring: 35.45, Mean: 48.34, Std: 12.89},
	},
	12: {
		models.DomainCommunication:  {Cutoff: 15.64, Monitoring: 28.52, Mean: 41.40, Std: 12.88},
		models.DomainGrossMotor:     {Cutoff: 21.93, Monitoring: 35.18, Mean: 48.43, Std: 13.25},
		models.DomainFineMotor:      {Cutoff: 27.82, Monitoring: 39.49, Mean: 51.16, Std: 11.67},
		models.DomainProblemSolving: {Cutoff: 25.21, Monitoring: 37.74, Mean: 50.27, Std: 12.53},
		models.DomainPersonalSocial: {Cutoff: 22.45, Monitoring: 35.67, Mean: 48.89, Std: 13.22},
	},
	14: {
		models.DomainCommunication:  {Cutoff: 15.12, Monitoring: 28.01, Mean: 40.90, Std: 12.89},
		models.DomainGrossMotor:     {Cutoff: 30.45, Monitoring: 41.23, Mean: 52.01, Std: 10.78},
		models.DomainFineMotor:      {Cutoff: 28.89, Monitoring: 40.12, Mean: 51.35, Std: 11.23},
		models.DomainProblemSolving: {Cutoff: 25.45, Monitoring: 37.89, Mean: 50.33, Std: 12.44},
		models.DomainPersonalSocial: {Cutoff: 24.12, Monitoring: 37.01, Mean: 49.90, Std: 12.89},
	},
	16: {
		models.DomainCommunication:  {Cutoff: 14.98, Monitoring: 27.85, Mean: 40.72, Std: 12.87},
		models.DomainGrossMotor:     {Cutoff: 33.12, Monitoring: 43.56, Mean: 54.00, Std: 10.44},
		models.DomainFineMotor:      {Cutoff: 29.78, Monitoring: 40.67, Mean: 51.56, Std: 10.89},
		models.DomainProblemSolving: {Cutoff: 25.67, Monitoring: 38.12, Mean: 50.57, Std: 12.45},
		models.DomainPersonalSocial: {Cutoff: 25.34, Monitoring: 38.01, Mean: 50.68, Std: 12.67},
	},
	18: {
		models.DomainCommunication:  {Cutoff: 14.85, Monitoring: 27.68, Mean: 40.51, Std: 12.83},
		models.DomainGrossMotor:     {Cutoff: 35.16, Monitoring: 45.27, Mean: 55.38, Std: 10.11},
		models.DomainFineMotor:      {Cutoff: 30.71, Monitoring: 41.25, Mean: 51.79, Std: 10.54},
		models.DomainProblemSolving: {Cutoff: 25.84, Monitoring: 38.33, Mean: 50.82, Std: 12.49},
		models.DomainPersonalSocial: {Cutoff: 26.45, Monitoring: 38.92, Mean: 51.39, Std: 12.47},
	},
	20: {
		models.DomainCommunication:  {Cutoff: 16.45, Monitoring: 29.78, Mean: 43.11, Std: 13.33},
		models.DomainGrossMotor:     {Cutoff: 35.45, Monitoring: 45.12, Mean: 54.79, Std: 9.67},
		models.DomainFineMotor:      {Cutoff: 30.67, Monitoring: 41.45, Mean: 52.23, Std: 10.78},
		models.DomainProblemSolving: {Cutoff: 26.89, Monitoring: 39.23, Mean: 51.57, Std: 12.34},
		models.DomainPersonalSocial: {Cutoff: 28.45, Monitoring: 40.12, Mean: 51.79, Std: 11.67},
	},
	22: {
		models.DomainCommunication:  {Cutoff: 17.89, Monitoring: 31.23, Mean: 44.57, Std: 13.34},
		models.DomainGrossMotor:     {Cutoff: 36.12, Monitoring: 45.67, Mean: 55.22, Std: 9.55},
		models.DomainFineMotor:      {Cutoff: 31.12, Monitoring: 41.89, Mean: 52.66, Std: 10.77},
		models.DomainProblemSolving: {Cutoff: 27.45, Monitoring: 39.78, Mean: 52.11, Std: 12.33},
		models.DomainPersonalSocial: {Cutoff: 29.34, Monitoring: 40.89, Mean: 52.44, Std: 11.55},
	},
	24: {
		models.DomainCommunication:  {Cutoff: 19.52, Monitoring: 32.97, Mean: 46.42, Std: 13.45},
		models.DomainGrossMotor:     {Cutoff: 36.71, Monitoring: 46.03, Mean: 55.35, Std: 9.32},
		models.DomainFineMotor:      {Cutoff: 31.52, Monitoring: 42.18, Mean: 52.84, Std: 10.66},
		models.DomainProblemSolving: {Cutoff: 27.98, Monitoring: 40.12, Mean: 52.26, Std: 12.14},
		models.DomainPersonalSocial: {Cutoff: 30.25, Monitoring: 41.87, Mean: 53.49, Std: 11.62},
	},
	27: {
		models.DomainCommunication:  {Cutoff: 22.34, Monitoring: 35.67, Mean: 49.00, Std: 13.33},
		models.DomainGrossMotor:     {Cutoff: 36.89, Monitoring: 46.23, Mean: 55.57, Std: 9.34},
		models.DomainFineMotor:      {Cutoff: 29.45, Monitoring: 40.78, Mean: 52.11, Std: 11.33},
		models.DomainProblemSolving: {Cutoff: 28.67, Monitoring: 40.89, Mean: 53.11, Std: 12.22},
		models.DomainPersonalSocial: {Cutoff: 32.12, Monitoring: 43.45, Mean: 54.78, Std: 11.33},
	},
	30: {
		models.DomainCommunication:  {Cutoff: 25.67, Monitoring: 38.12, Mean: 50.57, Std: 12.45},
		models.DomainGrossMotor:     {Cutoff: 36.78, Monitoring: 46.12, Mean: 55.46, Std: 9.34},
		models.DomainFineMotor:      {Cutoff: 28.34, Monitoring: 39.89, Mean: 51.44, Std: 11.55},
		models.DomainProblemSolving: {Cutoff: 29.45, Monitoring: 41.67, Mean: 53.89, Std: 12.22},
		models.DomainPersonalSocial: {Cutoff: 33.56, Monitoring: 44.23, Mean: 54.90, Std: 10.67},
	},
	33: {
		models.DomainCommunication:  {Cutoff: 28.12, Monitoring: 40.34, Mean: 52.56, Std: 12.22},
		models.DomainGrossMotor:     {Cutoff: 36.78, Monitoring: 46.12, Mean: 55.46, Std: 9.34},
		models.DomainFineMotor:      {Cutoff: 27.89, Monitoring: 39.56, Mean: 51.23, Std: 11.67},
		models.DomainProblemSolving: {Cutoff: 30.34, Monitoring: 42.23, Mean: 54.12, Std: 11.89},
		models.DomainPersonalSocial: {Cutoff: 34.23, Monitoring: 44.78, Mean: 55.33, Std: 10.55},
	},
	36: {
		models.DomainCommunication:  {Cutoff: 30.66, Monitoring: 42.12, Mean: 53.58, Std: 11.46},
		models.DomainGrossMotor:     {Cutoff: 36.82, Monitoring: 46.27, Mean: 55.72, Std: 9.45},
		models.DomainFineMotor:      {Cutoff: 27.56, Monitoring: 39.44, Mean: 51.32, Std: 11.88},
		models.DomainProblemSolving: {Cutoff: 31.24, Monitoring: 42.87, Mean: 54.50, Std: 11.63},
		models.DomainPersonalSocial: {Cutoff: 35.16, Monitoring: 45.33, Mean: 55.50, Std: 10.17},
	},
	42: {
		models.DomainCommunication:  {Cutoff: 35.78, Monitoring: 46.12, Mean: 56.46, Std: 10.34},
		models.DomainGrossMotor:     {Cutoff: 36.45, Monitoring: 46.23, Mean: 56.01, Std: 9.78},
		models.DomainFineMotor:      {Cutoff: 29.12, Monitoring: 40.89, Mean: 52.66, Std: 11.77},
		models.DomainProblemSolving: {Cutoff: 31.12, Monitoring: 43.01, Mean: 54.90, Std: 11.89},
		models.DomainPersonalSocial: {Cutoff: 37.45, Monitoring: 47.12, Mean: 56.79, Std: 9.67},
	},
	48: {
		models.DomainCommunication:  {Cutoff: 40.71, Monitoring: 49.52, Mean: 58.33, Std: 8.81},
		models.DomainGrossMotor:     {Cutoff: 35.88, Monitoring: 46.16, Mean: 56.44, Std: 10.28},
		models.DomainFineMotor:      {Cutoff: 30.51, Monitoring: 42.09, Mean: 53.67, Std: 11.58},
		models.DomainProblemSolving: {Cutoff: 30.93, Monitoring: 43.13, Mean: 55.33, Std: 12.20},
		models.DomainPersonalSocial: {Cutoff: 39.52, Monitoring: 48.27, Mean: 57.02, Std: 8.75},
	},
	54: {
		models.DomainCommunication:  {Cutoff: 41.89, Monitoring: 50.45, Mean: 59.01, Std: 8.56},
		models.DomainGrossMotor:     {Cutoff: 38.12, Monitoring: 47.67, Mean: 57.22, Std: 9.55},
		models.DomainFineMotor:      {Cutoff: 29.67, Monitoring: 41.89, Mean: 54.11, Std: 12.22},
		models.DomainProblemSolving: {Cutoff: 33.12, Monitoring: 44.78, Mean: 56.44, Std: 11.66},
		models.DomainPersonalSocial: {Cutoff: 40.23, Monitoring: 49.01, Mean: 57.79, Std: 8.78},
	},
	60: {
		models.DomainCommunication:  {Cutoff: 42.88, Monitoring: 51.16, Mean: 59.44, Std: 8.28},
		models.DomainGrossMotor:     {Cutoff: 40.27, Monitoring: 49.13, Mean: 57.99, Std: 8.86},
		models.DomainFineMotor:      {Cutoff: 28.72, Monitoring: 41.52, Mean: 54.32, Std: 12.80},
		models.DomainProblemSolving: {Cutoff: 35.26, Monitoring: 46.38, Mean: 57.50, Std: 11.12},
		models.DomainPersonalSocial: {Cutoff: 40.88, Monitoring: 49.73, Mean: 58.58, Std: 8.85},
	},
}

// CutoffFor returns the normative thresholds for an age and domain, using
// an exact age-interval match first and the closest interval otherwise.
// The lower interval wins when two are equidistant.
func CutoffFor(ageMonths int, domain models.Domain) Cutoff {
	if byDomain, ok := cutoffScores[ageMonths]; ok {
		if c, ok := byDomain[domain]; ok {
			return c
		}
	}

	closest := ageIntervals[0]
	best := abs(ageMonths - closest)
	for _, age := range ageIntervals[1:] {
		if d := abs(ageMonths - age); d < best {
			closest = age
			best = d
		}
	}
	return cutoffScores[closest][domain]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
