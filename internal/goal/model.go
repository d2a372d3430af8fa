package goal

import "time"

// Goal is a wellness goal with a progress counter. CurrentCount is
// clamped to [0, TargetCount]; Completed flips once the target is hit.
type Goal struct {
	ID           uint64    `gorm:"primaryKey"`
	UserID       uint64    `gorm:"index;not null"`
	Text         string    `gorm:"type:text;not null"`
	Completed    bool      `gorm:"not null;default:false"`
	TargetCount  int       `gorm:"not null"`
	CurrentCount int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null;default:now()"`
	UpdatedAt    time.Time `gorm:"not null;default:now()"`
}
