package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"manam/internal/mood"
)

// Fixed fallback values. Collaborator failures never reach the caller as
// errors; they become one of these.
var (
	notEnoughDataPatterns = []Pattern{{
		Pattern:    "Not enough data yet.",
		Suggestion: "Keep logging your moods daily to unlock powerful insights!",
	}}
	couldNotAnalyzePatterns = []Pattern{{
		Pattern:    "Could not analyze patterns.",
		Suggestion: "There was an issue connecting to the AI. Please try again later.",
	}}
)

const (
	minEntriesForPatterns = 5

	emptyWeekSummary   = "No mood entries this week to summarize. Let's start by logging how you feel today!"
	summaryUnavailable = "I had some trouble generating your summary. Please try again in a moment."

	// On-demand recompute kicks in when the worker-maintained cache is
	// older than this.
	cacheTTL = 24 * time.Hour
)

type Service struct {
	DB    *gorm.DB
	Model Model
	Moods *mood.Service
}

// ClassifyMood maps free text to a category. Implements mood.Classifier;
// any failure resolves to the default category.
func (s *Service) ClassifyMood(ctx context.Context, text string) mood.Mood {
	names := make([]string, 0, len(mood.Moods()))
	for _, m := range mood.Moods() {
		names = append(names, string(m))
	}
	prompt := fmt.Sprintf(classifyPrompt, strings.Join(names, ", "), text)

	out, err := s.Model.Complete(ctx, "", prompt)
	if err != nil {
		log.Printf("classify mood: %v\n", err)
		return mood.DefaultMood
	}
	m, ok := mood.ParseMood(out)
	if !ok {
		return mood.DefaultMood
	}
	return m
}

// IdentifyPatterns asks the model for 2-3 trends over the entries. Fewer
// than minEntriesForPatterns skips the model entirely.
func (s *Service) IdentifyPatterns(ctx context.Context, entries []mood.Entry) []Pattern {
	if len(entries) < minEntriesForPatterns {
		return notEnoughDataPatterns
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s: Mood - %s, Notes - %q\n", e.Timestamp.Format("1/2/2006"), e.Mood, e.Notes)
	}
	prompt := fmt.Sprintf(patternsPrompt, b.String())

	out, err := s.Model.CompleteJSON(ctx, "PatternList", generateSchema[patternList](), "", prompt)
	if err != nil {
		log.Printf("identify patterns: %v\n", err)
		return couldNotAnalyzePatterns
	}

	var parsed patternList
	if err := json.Unmarshal([]byte(out), &parsed); err != nil || len(parsed.Patterns) == 0 {
		return couldNotAnalyzePatterns
	}
	return parsed.Patterns
}

// WeeklySummary writes a short conversational recap of the entries. An
// empty week gets the fixed encouragement line, no model call.
func (s *Service) WeeklySummary(ctx context.Context, entries []mood.Entry) string {
	if len(entries) == 0 {
		return emptyWeekSummary
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s: %s\n", e.Timestamp.Format("1/2/2006"), e.Mood)
	}

	out, err := s.Model.Complete(ctx, "", fmt.Sprintf(summaryPrompt, b.String()))
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			log.Printf("weekly summary: %v\n", err)
		}
		return summaryUnavailable
	}
	return out
}

// computed holds one full insight recomputation. degraded marks results
// carrying a connectivity fallback, which must never be cached: serving
// them is fine, pinning them for a TTL is not.
type computed struct {
	patterns []Pattern
	summary  string
	topMoods []string
	degraded bool
}

func (s *Service) compute(ctx context.Context, entries []mood.Entry, now time.Time) computed {
	patterns := s.IdentifyPatterns(ctx, entries)
	summary := s.WeeklySummary(ctx, lastWeek(entries, now))

	top := []string{}
	for _, mc := range mood.Distribution(entries, mood.WindowMonth, now) {
		top = append(top, string(mc.Mood))
	}
	return computed{
		patterns: patterns,
		summary:  summary,
		topMoods: top,
		degraded: isFallback(patterns, summary),
	}
}

// isFallback reports whether either result is a fixed could-not-connect
// value. The "not enough data" and empty-week strings are genuine
// results and cache fine.
func isFallback(patterns []Pattern, summary string) bool {
	if summary == summaryUnavailable {
		return true
	}
	return len(patterns) == 1 && patterns[0] == couldNotAnalyzePatterns[0]
}

func (s *Service) store(ctx context.Context, userID uint64, c computed, now time.Time) error {
	raw, err := json.Marshal(c.patterns)
	if err != nil {
		return err
	}
	row := Cache{
		UserID:      userID,
		Patterns:    raw,
		Summary:     c.summary,
		TopMoods:    c.topMoods,
		GeneratedAt: now,
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, UpdateAll: true}).
		Create(&row).Error
}

// RefreshInsights recomputes the cached patterns, weekly summary and top
// moods for one user. Called by the jobs worker after each new entry.
// Degraded results leave the previous cache in place and report an error
// so the worker retries with backoff.
func (s *Service) RefreshInsights(ctx context.Context, userID uint64) error {
	entries, err := s.Moods.List(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	c := s.compute(ctx, entries, now)
	if c.degraded {
		return errors.New("insight model unavailable")
	}
	return s.store(ctx, userID, c, now)
}

// CachedPatterns serves the worker-maintained cache, recomputing
// synchronously when it is missing or stale. A degraded recompute is
// served to the caller but not written back.
func (s *Service) CachedPatterns(ctx context.Context, userID uint64) ([]Pattern, error) {
	row, fresh, err := s.cache(ctx, userID)
	if err != nil {
		return nil, err
	}
	if fresh {
		var out []Pattern
		if err := json.Unmarshal(row.Patterns, &out); err == nil && len(out) > 0 {
			return out, nil
		}
	}

	c, err := s.recompute(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.patterns, nil
}

// CachedSummary mirrors CachedPatterns for the weekly summary.
func (s *Service) CachedSummary(ctx context.Context, userID uint64) (string, error) {
	row, fresh, err := s.cache(ctx, userID)
	if err != nil {
		return "", err
	}
	if fresh && row.Summary != "" {
		return row.Summary, nil
	}

	c, err := s.recompute(ctx, userID)
	if err != nil {
		return "", err
	}
	return c.summary, nil
}

func (s *Service) recompute(ctx context.Context, userID uint64) (computed, error) {
	entries, err := s.Moods.List(ctx, userID)
	if err != nil {
		return computed{}, err
	}
	now := time.Now()
	c := s.compute(ctx, entries, now)
	if !c.degraded {
		if err := s.store(ctx, userID, c, now); err != nil {
			return computed{}, err
		}
	}
	return c, nil
}

// cache loads the row; fresh=false when absent or past TTL.
func (s *Service) cache(ctx context.Context, userID uint64) (Cache, bool, error) {
	var c Cache
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return Cache{UserID: userID}, false, nil
		}
		return Cache{}, false, err
	}
	return c, time.Since(c.GeneratedAt) < cacheTTL, nil
}

func lastWeek(entries []mood.Entry, now time.Time) []mood.Entry {
	loc := now.Location()
	cutoff := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day()-7, 0, 0, 0, 0, loc)
	out := make([]mood.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}
