package model

import (
	"strings"
	"time"
)

// Review is client or visitor feedback. Both references are optional:
// anonymous visitors may leave reviews, and a review need not target a
// specific activity. Reviews are never deleted; staff archive them.
type Review struct {
	ID         string  `json:"id"`
	ClientID   *string `json:"clientId,omitempty"`
	ActivityID *string `json:"activityId,omitempty"`

	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Rating  *int   `json:"rating,omitempty"` // 1..5

	Status      string     `json:"status"`
	Response    *string    `json:"response,omitempty"`
	RespondedBy *string    `json:"respondedBy,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`

	Public    bool `json:"public"`
	Anonymous bool `json:"anonymous"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Review type constants
const (
	ReviewTypePraise     = "praise"
	ReviewTypeCriticism  = "criticism"
	ReviewTypeSuggestion = "suggestion"
)

// Review status constants
const (
	ReviewStatusPending  = "pending"
	ReviewStatusAnswered = "answered"
	ReviewStatusArchived = "archived"
)

// Field limits
const (
	MaxReviewTitleLength   = 150
	MaxReviewMessageLength = 3000
	MaxResponseLength      = 3000
)

// ValidReviewType reports whether t is a known review type.
func ValidReviewType(t string) bool {
	switch t {
	case ReviewTypePraise, ReviewTypeCriticism, ReviewTypeSuggestion:
		return true
	default:
		return false
	}
}

// CreateReviewRequest is the public payload for leaving feedback.
type CreateReviewRequest struct {
	ClientID   *string `json:"clientId,omitempty"`
	ActivityID *string `json:"activityId,omitempty"`
	Type       string  `json:"type"`
	Title      string  `json:"title"`
	Message    string  `json:"message"`
	Rating     *int    `json:"rating,omitempty"`
	Public     bool    `json:"public"`
	Anonymous  bool    `json:"anonymous"`
}

// Validate validates a CreateReviewRequest
func (r *CreateReviewRequest) Validate() []FieldError {
	var errors []FieldError

	if !ValidReviewType(r.Type) {
		errors = append(errors, FieldError{Field: "type", Message: "type must be praise, criticism or suggestion"})
	}

	if strings.TrimSpace(r.Title) == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title is required"})
	} else if len(r.Title) > MaxReviewTitleLength {
		errors = append(errors, FieldError{Field: "title", Message: "title too long"})
	}

	if strings.TrimSpace(r.Message) == "" {
		errors = append(errors, FieldError{Field: "message", Message: "message is required"})
	} else if len(r.Message) > MaxReviewMessageLength {
		errors = append(errors, FieldError{Field: "message", Message: "message too long"})
	}

	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		errors = append(errors, FieldError{Field: "rating", Message: "rating must be between 1 and 5"})
	}

	return errors
}

// RespondReviewRequest is the staff payload for answering a review.
// Either a response text is supplied directly or useAiDraft asks the
// drafting chain to produce one.
type RespondReviewRequest struct {
	Response   *string `json:"response,omitempty"`
	UseAiDraft bool    `json:"useAiDraft,omitempty"`
}

// Validate validates a RespondReviewRequest
func (r *RespondReviewRequest) Validate() []FieldError {
	var errors []FieldError

	if !r.UseAiDraft {
		if r.Response == nil || strings.TrimSpace(*r.Response) == "" {
			errors = append(errors, FieldError{Field: "response", Message: "response is required unless useAiDraft is set"})
		}
	}

	if r.Response != nil && len(*r.Response) > MaxResponseLength {
		errors = append(errors, FieldError{Field: "response", Message: "response too long"})
	}

	return errors
}

// SetVisibilityRequest toggles a review's public flag.
type SetVisibilityRequest struct {
	Public bool `json:"public"`
}

// ReviewFilters narrows review listings.
type ReviewFilters struct {
	Status     *string
	Type       *string
	ActivityID *string
	PublicOnly bool
}

// SentimentEntry is one row of the sentiment summary.
type SentimentEntry struct {
	ID        string `json:"id"`
	Sentiment string `json:"sentiment"`
	Rating    *int   `json:"rating,omitempty"`
	Type      string `json:"type"`
}

// Sentiment constants
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)
