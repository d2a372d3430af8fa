package insight

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Turn is one entry of a chat transcript sent to the model.
type Turn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Model is the narrow surface of the language-model backend. Every
// caller degrades to a fixed fallback when a method errors.
type Model interface {
	// Complete returns plain text for a single prompt.
	Complete(ctx context.Context, instructions, input string) (string, error)
	// CompleteJSON returns text constrained to the given JSON schema.
	CompleteJSON(ctx context.Context, schemaName string, schema map[string]any, instructions, input string) (string, error)
	// Stream sends a turn-based transcript and streams the reply through
	// onDelta, returning the full accumulated text.
	Stream(ctx context.Context, instructions string, turns []Turn, onDelta func(string)) (string, error)
}

// Pattern is one AI-identified trend with an actionable suggestion.
type Pattern struct {
	Pattern    string `json:"pattern" jsonschema_description:"A concise description of the identified pattern or trigger."`
	Suggestion string `json:"suggestion" jsonschema_description:"A supportive and actionable suggestion based on the pattern."`
}

// patternList is the structured-output root; strict mode wants an object.
type patternList struct {
	Patterns []Pattern `json:"patterns"`
}

// Cache holds precomputed insights per user, refreshed by the jobs
// worker and served to the dashboard without an AI round trip.
type Cache struct {
	UserID      uint64          `gorm:"primaryKey"`
	Patterns    json.RawMessage `gorm:"type:jsonb;not null;default:'[]'::jsonb"`
	Summary     string          `gorm:"type:text;not null;default:''"`
	TopMoods    pq.StringArray  `gorm:"type:text[];not null;default:'{}'"`
	GeneratedAt time.Time       `gorm:"not null;default:now()"`
}

func (Cache) TableName() string { return "insight_caches" }
