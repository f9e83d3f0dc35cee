// Package catalog holds the static milestone catalog: a read-only table of
// developmental achievements keyed by domain, age threshold, and the
// percentile required for score-based derivation.
package catalog

import "brightsteps/internal/models"

var milestones = []models.Milestone{
	{ID: "ms-social-smile", Domain: models.DomainPersonalSocial, AgeMonths: 2, Description: "Smiles at people", PercentileAchieved: 25},
	{ID: "ms-coos", Domain: models.DomainCommunication, AgeMonths: 2, Description: "Coos and makes gurgling sounds", PercentileAchieved: 25},
	{ID: "ms-head-up", Domain: models.DomainGrossMotor, AgeMonths: 2, Description: "Holds head up during tummy time", PercentileAchieved: 30},
	{ID: "ms-follows-objects", Domain: models.DomainProblemSolving, AgeMonths: 4, Description: "Follows moving things with eyes", PercentileAchieved: 30},
	{ID: "ms-reaches", Domain: models.DomainFineMotor, AgeMonths: 4, Description: "Reaches for a toy with one hand", PercentileAchieved: 30},
	{ID: "ms-rolls-over", Domain: models.DomainGrossMotor, AgeMonths: 6, Description: "Rolls over in both directions", PercentileAchieved: 30},
	{ID: "ms-babbles", Domain: models.DomainCommunication, AgeMonths: 6, Description: "Babbles with expression", PercentileAchieved: 25},
	{ID: "ms-passes-objects", Domain: models.DomainFineMotor, AgeMonths: 6, Description: "Passes things from hand to hand", PercentileAchieved: 30},
	{ID: "ms-stranger-aware", Domain: models.DomainPersonalSocial, AgeMonths: 6, Description: "Knows familiar faces", PercentileAchieved: 25},
	{ID: "ms-sits-unsupported", Domain: models.DomainGrossMotor, AgeMonths: 9, Description: "Sits without support", PercentileAchieved: 30},
	{ID: "ms-object-permanence", Domain: models.DomainProblemSolving, AgeMonths: 9, Description: "Looks for hidden objects", PercentileAchieved: 30},
	{ID: "ms-responds-name", Domain: models.DomainCommunication, AgeMonths: 9, Description: "Responds to own name", PercentileAchieved: 25},
	{ID: "ms-pincer-grasp", Domain: models.DomainFineMotor, AgeMonths: 12, Description: "Uses pincer grasp", PercentileAchieved: 30},
	{ID: "ms-first-words", Domain: models.DomainCommunication, AgeMonths: 12, Description: "Says mama or dada with meaning", PercentileAchieved: 25},
	{ID: "ms-stands-alone", Domain: models.DomainGrossMotor, AgeMonths: 12, Description: "Stands alone briefly", PercentileAchieved: 30},
	{ID: "ms-waves-bye", Domain: models.DomainPersonalSocial, AgeMonths: 12, Description: "Waves bye-bye", PercentileAchieved: 25},
	{ID: "ms-walks-alone", Domain: models.DomainGrossMotor, AgeMonths: 15, Description: "Walks alone", PercentileAchieved: 30},
	{ID: "ms-uses-cup", Domain: models.DomainPersonalSocial, AgeMonths: 15, Description: "Drinks from a cup", PercentileAchieved: 30},
	{ID: "ms-scribbles", Domain: models.DomainFineMotor, AgeMonths: 18, Description: "Scribbles on own", PercentileAchieved: 30},
	{ID: "ms-several-words", Domain: models.DomainCommunication, AgeMonths: 18, Description: "Says several single words", PercentileAchieved: 25},
	{ID: "ms-points-wants", Domain: models.DomainCommunication, AgeMonths: 18, Description: "Points to show what they want", PercentileAchieved: 25},
	{ID: "ms-kicks-ball", Domain: models.DomainGrossMotor, AgeMonths: 24, Description: "Kicks a ball", PercentileAchieved: 30},
	{ID: "ms-two-word-sentences", Domain: models.DomainCommunication, AgeMonths: 24, Description: "Uses two-word sentences", PercentileAchieved: 25},
	{ID: "ms-follows-instructions", Domain: models.DomainProblemSolving, AgeMonths: 24, Description: "Follows two-step instructions", PercentileAchieved: 30},
	{ID: "ms-parallel-play", Domain: models.DomainPersonalSocial, AgeMonths: 24, Description: "Plays alongside other children", PercentileAchieved: 25},
	{ID: "ms-turns-pages", Domain: models.DomainFineMotor, AgeMonths: 24, Description: "Turns book pages one at a time", PercentileAchieved: 30},
	{ID: "ms-jumps", Domain: models.DomainGrossMotor, AgeMonths: 30, Description: "Jumps with both feet", PercentileAchieved: 30},
	{ID: "ms-sorts-shapes", Domain: models.DomainProblemSolving, AgeMonths: 30, Description: "Sorts shapes and colors", PercentileAchieved: 30},
	{ID: "ms-names-friend", Domain: models.DomainPersonalSocial, AgeMonths: 36, Description: "Names a friend", PercentileAchieved: 25},
	{ID: "ms-pedals-tricycle", Domain: models.DomainGrossMotor, AgeMonths: 36, Description: "Pedals a tricycle", PercentileAchieved: 30},
	{ID: "ms-three-word-sentences", Domain: models.DomainCommunication, AgeMonths: 36, Description: "Speaks in three-word sentences", PercentileAchieved: 25},
	{ID: "ms-copies-circle", Domain: models.DomainFineMotor, AgeMonths: 36, Description: "Copies a circle", PercentileAchieved: 30},
	{ID: "ms-counts-ten", Domain: models.DomainProblemSolving, AgeMonths: 48, Description: "Counts ten or more things", PercentileAchieved: 30},
	{ID: "ms-hops-one-foot", Domain: models.DomainGrossMotor, AgeMonths: 48, Description: "Hops on one foot", PercentileAchieved: 30},
	{ID: "ms-tells-stories", Domain: models.DomainCommunication, AgeMonths: 48, Description: "Tells simple stories", PercentileAchieved: 25},
	{ID: "ms-draws-person", Domain: models.DomainFineMotor, AgeMonths: 60, Description: "Draws a person with six body parts", PercentileAchieved: 30},
	{ID: "ms-prints-letters", Domain: models.DomainFineMotor, AgeMonths: 60, Description: "Prints some letters and numbers", PercentileAchieved: 30},
	{ID: "ms-takes-turns", Domain: models.DomainPersonalSocial, AgeMonths: 60, Description: "Takes turns in games", PercentileAchieved: 25},
}

// All returns the full catalog
func All() []models.Milestone {
	result := make([]models.Milestone, len(milestones))
	copy(result, milestones)
	return result
}

// AtOrBelow returns catalog milestones whose age threshold the child has
// reached
func AtOrBelow(ageMonths int) []models.Milestone {
	var result []models.Milestone
	for _, m := range milestones {
		if m.AgeMonths <= ageMonths {
			result = append(result, m)
		}
	}
	return result
}

// Above returns catalog milestones whose age threshold is ahead of the
// child's age
func Above(ageMonths int) []models.Milestone {
	var result []models.Milestone
	for _, m := range milestones {
		if m.AgeMonths > ageMonths {
			result = append(result, m)
		}
	}
	return result
}

// ByID looks up a milestone by id
func ByID(id string) (models.Milestone, bool) {
	for _, m := range milestones {
		if m.ID == id {
			return m, true
		}
	}
	return models.Milestone{}, false
}
