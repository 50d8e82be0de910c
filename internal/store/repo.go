package store

import (
	"context"
	"errors"
	"time"

	"github.com/echograde/echograde/internal/grading"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ResultRecord is a persisted, successfully graded answer.
type ResultRecord struct {
	ID         int64
	AttemptID  string
	QuestionID string
	UserID     string
	Answer     string
	Feedback   grading.Feedback
	CreatedAt  time.Time
}

// RecordFromResult builds a record for a grading result and the answer
// that produced it.
func RecordFromResult(r *grading.Result, answer string) ResultRecord {
	return ResultRecord{
		AttemptID:  r.AttemptID,
		QuestionID: r.QuestionID,
		UserID:     r.UserID,
		Answer:     answer,
		Feedback:   r.Feedback,
		CreatedAt:  r.ReceivedAt,
	}
}

// ResultRepo stores grading results. Only successes are ever appended.
type ResultRepo interface {
	// Append stores a record and returns its ID.
	Append(ctx context.Context, rec ResultRecord) (int64, error)

	// Recent returns up to limit records, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]ResultRecord, error)

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id int64) (*ResultRecord, error)
}
