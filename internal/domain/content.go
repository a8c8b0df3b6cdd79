package domain

import "time"

// Theme is an identifier-keyed tag; scoring compares ID only.
type Theme struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Topic is an identifier-keyed tag; scoring compares ID only.
type Topic struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// ContentRecord is a raw, loosely typed record produced by a content source.
type ContentRecord struct {
	ID          string    `json:"id" yaml:"id" validate:"required,notblank"`
	Title       string    `json:"title" yaml:"title" validate:"required,notblank"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Authors     []string  `json:"authors,omitempty" yaml:"authors,omitempty"`
	Themes      []Theme   `json:"themes,omitempty" yaml:"themes,omitempty"`
	Topics      []Topic   `json:"topics,omitempty" yaml:"topics,omitempty"`
	Hints       Hints     `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// Hints is the optional bag of type-specific data a source may attach.
type Hints struct {
	Type   string       `json:"type,omitempty" yaml:"type,omitempty"`
	Tool   *ToolHints   `json:"tool,omitempty" yaml:"tool,omitempty"`
	Update *UpdateHints `json:"update,omitempty" yaml:"update,omitempty"`
	Story  *StoryHints  `json:"story,omitempty" yaml:"story,omitempty"`
	Event  *EventHints  `json:"event,omitempty" yaml:"event,omitempty"`
}

// ToolHints is the raw tool payload as delivered by the source.
type ToolHints struct {
	ToolType              string   `json:"toolType,omitempty" yaml:"toolType,omitempty"`
	TargetAudience        []string `json:"targetAudience,omitempty" yaml:"targetAudience,omitempty"`
	ImplementationContext string   `json:"implementationContext,omitempty" yaml:"implementationContext,omitempty"`
	Prerequisites         []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}

// UpdateHints is the raw update/newsletter payload.
type UpdateHints struct {
	UpdateType   string   `json:"updateType,omitempty" yaml:"updateType,omitempty"`
	Publisher    string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Highlights   []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	CallToAction string   `json:"callToAction,omitempty" yaml:"callToAction,omitempty"`
}

// StoryHints is the raw story payload.
type StoryHints struct {
	Storyteller string `json:"storyteller,omitempty" yaml:"storyteller,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
}

// EventHints is the raw event payload.
type EventHints struct {
	StartsAt        time.Time `json:"startsAt,omitempty" yaml:"startsAt,omitempty"`
	Venue           string    `json:"venue,omitempty" yaml:"venue,omitempty"`
	RegistrationURL string    `json:"registrationUrl,omitempty" yaml:"registrationUrl,omitempty"`
}

// Clone returns a deep copy so callers can hand records around without aliasing slices.
func (r ContentRecord) Clone() ContentRecord {
	out := r
	out.Authors = cloneStrings(r.Authors)
	if r.Themes != nil {
		out.Themes = append([]Theme(nil), r.Themes...)
	}
	if r.Topics != nil {
		out.Topics = append([]Topic(nil), r.Topics...)
	}
	out.Hints = r.Hints.clone()
	return out
}

func (h Hints) clone() Hints {
	out := Hints{Type: h.Type}
	if h.Tool != nil {
		t := *h.Tool
		t.TargetAudience = cloneStrings(h.Tool.TargetAudience)
		t.Prerequisites = cloneStrings(h.Tool.Prerequisites)
		out.Tool = &t
	}
	if h.Update != nil {
		u := *h.Update
		u.Highlights = cloneStrings(h.Update.Highlights)
		out.Update = &u
	}
	if h.Story != nil {
		s := *h.Story
		out.Story = &s
	}
	if h.Event != nil {
		e := *h.Event
		out.Event = &e
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
