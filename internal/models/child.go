package models

import (
	"strings"
	"time"
)

// DemoIDPrefix marks child ids generated on-device in demo mode so they can
// never collide with remote-issued ids.
const DemoIDPrefix = "demo-"

// Child represents a child profile
type Child struct {
	ID             string     `json:"id"`
	ParentID       string     `json:"parent_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	DateOfBirth    time.Time  `json:"date_of_birth"`
	Gender         string     `json:"gender"`
	PrematureWeeks int        `json:"premature_weeks"`
	PhotoURL       string     `json:"photo_url,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsDemo reports whether the child was created in demo mode
func (c *Child) IsDemo() bool {
	return strings.HasPrefix(c.ID, DemoIDPrefix)
}

// AgeInMonths returns the child's age in months at the given time,
// corrected for prematurity
func (c *Child) AgeInMonths(now time.Time) int {
	if c.DateOfBirth.IsZero() || now.Before(c.DateOfBirth) {
		return 0
	}
	months := int(now.Sub(c.DateOfBirth).Hours() / 24 / 30)
	months -= c.PrematureWeeks / 4
	if months < 0 {
		return 0
	}
	return months
}

// ChildInput holds the fields needed to create a child profile
type ChildInput struct {
	FirstName      string
	LastName       string
	DateOfBirth    time.Time
	Gender         string
	PrematureWeeks int
	PhotoURL       string
	Notes          string
}

// ChildPatch holds optional fields for a partial update; nil means unchanged
type ChildPatch struct {
	FirstName      *string
	LastName       *string
	DateOfBirth    *time.Time
	Gender         *string
	PrematureWeeks *int
	PhotoURL       *string
	Notes          *string
}

// Apply merges the patch into the child, refreshing the updated timestamp
func (p ChildPatch) Apply(c *Child, now time.Time) {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.DateOfBirth != nil {
		c.DateOfBirth = *p.DateOfBirth
	}
	if p.Gender != nil {
		c.Gender = *p.Gender
	}
	if p.PrematureWeeks != nil {
		c.PrematureWeeks = *p.PrematureWeeks
	}
	if p.PhotoURL != nil {
		c.PhotoURL = *p.PhotoURL
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	c.UpdatedAt = now
}
