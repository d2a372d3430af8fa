package mood

import (
	"strings"
	"time"
)

// Mood is one of the seven fixed categories. Anything else coming from
// outside (AI replies, old rows) is normalized through ParseMood.
type Mood string

const (
	MoodHappy    Mood = "Happy"
	MoodCalm     Mood = "Calm"
	MoodNeutral  Mood = "Neutral"
	MoodAnxious  Mood = "Anxious"
	MoodSad      Mood = "Sad"
	MoodStressed Mood = "Stressed"
	MoodExcited  Mood = "Excited"
)

// DefaultMood is the fallback for unrecognized or failed classifications.
const DefaultMood = MoodNeutral

// Moods returns all categories in canonical display order.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodCalm, MoodNeutral, MoodAnxious, MoodSad, MoodStressed, MoodExcited}
}

// ParseMood resolves s case-insensitively to a category.
// Unknown values resolve to DefaultMood with ok=false.
func ParseMood(s string) (Mood, bool) {
	s = strings.TrimSpace(s)
	for _, m := range Moods() {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return DefaultMood, false
}

// Entry is one logged mood observation. Entries are append-only:
// created once, deleted by explicit user action, never updated.
type Entry struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"index;not null"`
	Mood      Mood      `gorm:"type:text;not null"`
	Notes     string    `gorm:"type:text;not null;default:''"`
	Timestamp time.Time `gorm:"type:timestamptz;index;not null"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Entry) TableName() string { return "mood_entries" }
