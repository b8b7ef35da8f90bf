package models

import "time"

// Action is the kind of a recorded interaction.
type Action string

const (
	ActionRate       Action = "rate"
	ActionLike       Action = "like"
	ActionWatchLater Action = "watch_later"
)

// Valid reports whether a is a known action kind.
func (a Action) Valid() bool {
	switch a {
	case ActionRate, ActionLike, ActionWatchLater:
		return true
	}
	return false
}

// Outcome is the observable result of recording an interaction.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "already_recorded"
)

// Message returns the human readable text shown to the client.
func (o Outcome) Message() string {
	switch o {
	case OutcomeCreated:
		return "interaction recorded"
	case OutcomeUpdated:
		return "interaction updated"
	default:
		return "interaction already recorded"
	}
}

// Interaction is a user action against a movie. Rating is on a 0-10 scale.
type Interaction struct {
	UserID     int64     `json:"user_id"`
	MovieID    int64     `json:"movie_id"`
	Action     Action    `json:"action"`
	Rating     *float64  `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RecordInteractionRequest is the request body for recording an interaction.
type RecordInteractionRequest struct {
	UserID  int64    `json:"user_id" validate:"required,gt=0"`
	MovieID int64    `json:"movie_id" validate:"required,gt=0"`
	Action  Action   `json:"action" validate:"required,oneof=rate like watch_later"`
	Rating  *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
}

// RecordInteractionResponse reports which of the three outcomes happened.
type RecordInteractionResponse struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

// UserRating is one rated movie of a user.
type UserRating struct {
	MovieID int64   `json:"movie_id"`
	Rating  float64 `json:"rating"`
}

// InteractionRow is a rated interaction returned by the interactions listing.
type InteractionRow struct {
	MovieID int64   `json:"movie_id"`
	Rating  float64 `json:"rating"`
	Action  Action  `json:"action"`
}

// GenreStats is chart data: distinct movies per genre across a user's interactions.
type GenreStats struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}
