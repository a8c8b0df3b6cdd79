package domain

import "time"

// EnhancedRecord is a ContentRecord with purpose classification attached.
type EnhancedRecord struct {
	ContentRecord

	PrimaryPurpose    Purpose   `json:"primaryPurpose"`
	SecondaryPurposes []Purpose `json:"secondaryPurposes"`
	PurposeRelevance  float64   `json:"purposeRelevance"`
	Details           Details   `json:"details,omitempty"`
}

// Details is the type-specific payload of an enhanced record. The set of
// implementations is closed to this package.
type Details interface {
	Purpose() Purpose
	sealed()
}

// ToolDetails is attached to records classified as tools.
type ToolDetails struct {
	ToolType              string   `json:"toolType"`
	TargetAudience        []string `json:"targetAudience"`
	ImplementationContext string   `json:"implementationContext"`
	Prerequisites         []string `json:"prerequisites"`
}

// UpdateDetails is attached to records classified as updates.
type UpdateDetails struct {
	UpdateType   string   `json:"updateType"`
	Publisher    string   `json:"publisher"`
	Highlights   []string `json:"highlights"`
	CallToAction string   `json:"callToAction"`
}

// StoryDetails is attached to records classified as stories.
type StoryDetails struct {
	Storyteller string `json:"storyteller"`
	Location    string `json:"location"`
}

// EventDetails is attached to records classified as events.
type EventDetails struct {
	StartsAt        time.Time `json:"startsAt"`
	Venue           string    `json:"venue"`
	RegistrationURL string    `json:"registrationUrl"`
}

func (ToolDetails) Purpose() Purpose   { return PurposeTool }
func (UpdateDetails) Purpose() Purpose { return PurposeUpdate }
func (StoryDetails) Purpose() Purpose  { return PurposeStory }
func (EventDetails) Purpose() Purpose  { return PurposeEvent }

func (ToolDetails) sealed()   {}
func (UpdateDetails) sealed() {}
func (StoryDetails) sealed()  {}
func (EventDetails) sealed()  {}

// Tool returns the tool payload when the record carries one.
func (e EnhancedRecord) Tool() (ToolDetails, bool) {
	d, ok := e.Details.(ToolDetails)
	return d, ok
}

// Update returns the update payload when the record carries one.
func (e EnhancedRecord) Update() (UpdateDetails, bool) {
	d, ok := e.Details.(UpdateDetails)
	return d, ok
}

// Story returns the story payload when the record carries one.
func (e EnhancedRecord) Story() (StoryDetails, bool) {
	d, ok := e.Details.(StoryDetails)
	return d, ok
}

// Event returns the event payload when the record carries one.
func (e EnhancedRecord) Event() (EventDetails, bool) {
	d, ok := e.Details.(EventDetails)
	return d, ok
}

// HasSecondary reports whether p is one of the record's secondary purposes.
func (e EnhancedRecord) HasSecondary(p Purpose) bool {
	for _, s := range e.SecondaryPurposes {
		if s == p {
			return true
		}
	}
	return false
}
