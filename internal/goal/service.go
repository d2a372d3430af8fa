package goal

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	DB *gorm.DB
}

func (s *Service) Create(ctx context.Context, userID uint64, text string, targetCount int) (Goal, error) {
	if text == "" || targetCount < 1 {
		return Goal{}, ErrInvalidInput
	}
	g := Goal{UserID: userID, Text: text, TargetCount: targetCount}
	if err := s.DB.WithContext(ctx).Create(&g).Error; err != nil {
		return Goal{}, err
	}
	return g, nil
}

func (s *Service) List(ctx context.Context, userID uint64) ([]Goal, error) {
	var out []Goal
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// Increment advances progress by delta (negative allowed). The count is
// clamped to [0, TargetCount] and Completed tracks whether the target is
// reached.
func (s *Service) Increment(ctx context.Context, userID, goalID uint64, delta int) (Goal, error) {
	var g Goal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", goalID, userID).
			First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		applyProgress(&g, delta)

		return tx.Save(&g).Error
	})
	return g, err
}

// applyProgress clamps the counter into [0, TargetCount] and keeps
// Completed in step with it.
func applyProgress(g *Goal, delta int) {
	g.CurrentCount += delta
	if g.CurrentCount < 0 {
		g.CurrentCount = 0
	}
	if g.CurrentCount > g.TargetCount {
		g.CurrentCount = g.TargetCount
	}
	g.Completed = g.CurrentCount >= g.TargetCount
}

func (s *Service) Delete(ctx context.Context, userID, goalID uint64) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		Delete(&Goal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
