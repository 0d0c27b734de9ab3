package store

import (
	"strings"
	"time"
)

// PatientKey is the fixed identifier of the single patient record.
const PatientKey = "current"

// Event is a dated calendar entry shown on the home page.
type Event struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Normalize trims the text fields and moves timestamps to UTC.
func (e *Event) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	e.Date = e.Date.UTC()
	if !e.CreatedAt.IsZero() {
		e.CreatedAt = e.CreatedAt.UTC()
	}
}

// FamilyMember is one node of the family tree.
type FamilyMember struct {
	ID           string `json:"_id"`
	PersonName   string `json:"personName" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
}

// Memory is a remembered moment with a person.
type Memory struct {
	ID           string   `json:"_id"`
	PersonName   string   `json:"personName" validate:"required"`
	Relationship string   `json:"relationship" validate:"required"`
	MemoryText   string   `json:"memoryText" validate:"required"`
	Tags         []string `json:"tags"`
}

// MemoryPatch carries the fields of a partial memory update. Nil fields are
// left untouched.
type MemoryPatch struct {
	PersonName   *string   `json:"personName"`
	Relationship *string   `json:"relationship"`
	MemoryText   *string   `json:"memoryText"`
	Tags         *[]string `json:"tags"`
}

// Apply copies the supplied fields onto m.
func (p MemoryPatch) Apply(m *Memory) {
	if p.PersonName != nil {
		m.PersonName = *p.PersonName
	}
	if p.Relationship != nil {
		m.Relationship = *p.Relationship
	}
	if p.MemoryText != nil {
		m.MemoryText = *p.MemoryText
	}
	if p.Tags != nil {
		m.Tags = *p.Tags
	}
}

// Empty reports whether the patch changes nothing.
func (p MemoryPatch) Empty() bool {
	return p.PersonName == nil && p.Relationship == nil && p.MemoryText == nil && p.Tags == nil
}

// PatientInfo describes the person the app is built around.
type PatientInfo struct {
	ID                 string   `json:"_id"`
	Name               string   `json:"name" validate:"required"`
	Age                *int     `json:"age,omitempty" validate:"omitempty,min=0"`
	FavoriteActivities []string `json:"favoriteActivities"`
	NotableLifeEvents  []string `json:"notableLifeEvents"`
	Hobbies            []string `json:"hobbies"`
	MedicalNotes       string   `json:"medicalNotes"`
}
