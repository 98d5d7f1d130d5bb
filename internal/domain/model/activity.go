package model

import (
	"time"

	"github.com/google/uuid"
)

type TranslationStatus string

const (
	TranslationIdle       TranslationStatus = "idle"
	TranslationQueued     TranslationStatus = "queued"
	TranslationProcessing TranslationStatus = "processing"
	TranslationCompleted  TranslationStatus = "completed"
	TranslationFailed     TranslationStatus = "failed"
)

// Terminal reports whether no further transition happens without a forced
// restart.
func (s TranslationStatus) Terminal() bool {
	return s == TranslationCompleted || s == TranslationFailed
}

// InFlight reports whether a job is queued or currently being processed.
func (s TranslationStatus) InFlight() bool {
	return s == TranslationQueued || s == TranslationProcessing
}

type ActivityKind string

const (
	ActivityRelease     ActivityKind = "release"
	ActivityIssue       ActivityKind = "issue"
	ActivityPullRequest ActivityKind = "pull_request"
)

// Activity is one unit of tracked repository activity (a release, issue or
// pull request) together with its translation state. The source text (Body)
// is immutable once the activity exists; everything under the Translation*
// prefix is mutated exclusively through the repository's mark operations.
type Activity struct {
	ID       string
	SourceID string
	Kind     ActivityKind
	Title    string
	Body     string

	TranslationStatus      TranslationStatus
	StatusDetail           string
	TranslationRequestedAt *time.Time
	TranslationStartedAt   *time.Time
	TranslationCompletedAt *time.Time
	TranslationMessageID   *string
	TranslatedBody         *string

	CreatedAt time.Time
}

func NewActivity(id, sourceID string, kind ActivityKind, title, body string) *Activity {
	if id == "" {
		id = uuid.NewString()
	}
	return &Activity{
		ID:                id,
		SourceID:          sourceID,
		Kind:              kind,
		Title:             title,
		Body:              body,
		TranslationStatus: TranslationIdle,
		CreatedAt:         time.Now(),
	}
}

// Watch links a user to a source whose activities they follow. ChatID is the
// user's messenger chat for completion notifications; zero means none.
type Watch struct {
	UserID    string
	SourceID  string
	ChatID    int64
	CreatedAt time.Time
}
