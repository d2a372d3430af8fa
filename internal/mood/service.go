package mood

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"manam/internal/jobs"
)

var ErrNotFound = errors.New("not found")

// Classifier turns free text into a category. It must always return a
// valid category, falling back to DefaultMood internally on any failure.
type Classifier interface {
	ClassifyMood(ctx context.Context, text string) Mood
}

type Service struct {
	DB        *gorm.DB
	Classify  Classifier
	Broadcast *Broadcaster
	Jobs      *jobs.Repo
}

type CreateInput struct {
	Mood  *Mood // nil: infer from Notes
	Notes string
}

// Create stores a new entry stamped at submission time. When no mood is
// picked, the notes are classified; classification never fails outward,
// it degrades to DefaultMood.
func (s *Service) Create(ctx context.Context, userID uint64, in CreateInput) (Entry, error) {
	m := DefaultMood
	switch {
	case in.Mood != nil:
		m, _ = ParseMood(string(*in.Mood))
	case s.Classify != nil && in.Notes != "":
		m = s.Classify.ClassifyMood(ctx, in.Notes)
	}

	e := Entry{
		UserID:    userID,
		Mood:      m,
		Notes:     in.Notes,
		Timestamp: time.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return Entry{}, err
	}

	if s.Jobs != nil {
		_ = s.Jobs.EnqueueInsightRefresh(userID, time.Now())
	}
	s.publish(ctx, userID)
	return e, nil
}

// List returns the user's snapshot, newest first, capped at 100 entries.
func (s *Service) List(ctx context.Context, userID uint64) ([]Entry, error) {
	var out []Entry
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc").
		Limit(100).
		Find(&out).Error
	return out, err
}

func (s *Service) Delete(ctx context.Context, userID, entryID uint64) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&Entry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.publish(ctx, userID)
	return nil
}

func (s *Service) publish(ctx context.Context, userID uint64) {
	if s.Broadcast == nil {
		return
	}
	snapshot, err := s.List(ctx, userID)
	if err != nil {
		return
	}
	s.Broadcast.Publish(userID, snapshot)
}
