package mood

import (
	"fmt"
	"sort"
	"time"
)

// Window selects how far back an aggregation looks, relative to "now".
type Window string

const (
	WindowWeek  Window = "week"  // last 7 local calendar days
	WindowMonth Window = "month" // last 30 local calendar days
	WindowAll   Window = "all"
)

// ParseWindow maps a query value to a Window. Empty defaults to month.
func ParseWindow(s string) (Window, bool) {
	switch Window(s) {
	case WindowWeek, WindowMonth, WindowAll:
		return Window(s), true
	case "":
		return WindowMonth, true
	}
	return WindowMonth, false
}

// Days returns the day span of a bounded window, 0 for all-time.
func (w Window) Days() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	}
	return 0
}

// MoodCount is one slice of a distribution. Zero-count categories are
// never emitted.
type MoodCount struct {
	Mood  Mood `json:"mood"`
	Count int  `json:"count"`
}

// TimelineDay is one row of the fixed-grid timeline: a one-hot indicator
// per category, all zero on days with no entry.
type TimelineDay struct {
	Key        string       `json:"key"`
	Label      string       `json:"label"`
	Indicators map[Mood]int `json:"indicators"`
}

// DayKey buckets t to its calendar date in loc as a sortable YYYY-MM-DD
// key. The local fields matter: slicing an ISO string would give the UTC
// date, which disagrees with the local one near midnight.
func DayKey(t time.Time, loc *time.Location) string {
	lt := t.In(loc)
	return fmt.Sprintf("%04d-%02d-%02d", lt.Year(), lt.Month(), lt.Day())
}

// midnight truncates t to the start of its local day in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// usable filters out records the aggregation cannot place: a zero
// timestamp is skipped rather than failing the whole pass.
func usable(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp.IsZero() {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Streak counts consecutive local calendar days with at least one entry,
// walking backward from now's day. A day without an entry breaks the
// chain; a missing today means 0.
func Streak(entries []Entry, now time.Time) int {
	loc := now.Location()

	// One representative per day, keeping the most recent timestamp.
	perDay := map[string]Entry{}
	for _, e := range usable(entries) {
		key := DayKey(e.Timestamp, loc)
		if cur, ok := perDay[key]; !ok || e.Timestamp.After(cur.Timestamp) {
			perDay[key] = e
		}
	}

	days := make([]Entry, 0, len(perDay))
	for _, e := range perDay {
		days = append(days, e)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Timestamp.After(days[j].Timestamp) })

	today := midnight(now, loc)
	streak := 0
	for i, e := range days {
		expected := today.AddDate(0, 0, -i)
		if DayKey(e.Timestamp, loc) != DayKey(expected, loc) {
			break
		}
		streak++
	}
	return streak
}

// Distribution counts entries per category inside the window. Categories
// appear in canonical order; zero counts are omitted entirely.
func Distribution(entries []Entry, w Window, now time.Time) []MoodCount {
	loc := now.Location()

	var cutoff time.Time
	if d := w.Days(); d > 0 {
		cutoff = midnight(now, loc).AddDate(0, 0, -d)
	}

	counts := map[Mood]int{}
	for _, e := range usable(entries) {
		if !cutoff.IsZero() && e.Timestamp.Before(cutoff) {
			continue
		}
		m, _ := ParseMood(string(e.Mood))
		counts[m]++
	}

	out := make([]MoodCount, 0, len(counts))
	for _, m := range Moods() {
		if c := counts[m]; c > 0 {
			out = append(out, MoodCount{Mood: m, Count: c})
		}
	}
	return out
}

// Timeline produces exactly days rows, oldest to newest ending on now's
// day. Each day's chosen mood is the mood of the last entry logged that
// day; days with no entry keep all-zero indicators.
func Timeline(entries []Entry, days int, now time.Time) []TimelineDay {
	loc := now.Location()
	from := midnight(now, loc).AddDate(0, 0, -(days - 1))

	in := make([]Entry, 0, len(entries))
	for _, e := range usable(entries) {
		if e.Timestamp.Before(from) {
			continue
		}
		in = append(in, e)
	}
	// Ascending, so later entries on the same day overwrite earlier ones.
	sort.Slice(in, func(i, j int) bool { return in[i].Timestamp.Before(in[j].Timestamp) })

	chosen := map[string]Mood{}
	for _, e := range in {
		m, _ := ParseMood(string(e.Mood))
		chosen[DayKey(e.Timestamp, loc)] = m
	}

	out := make([]TimelineDay, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := midnight(now, loc).AddDate(0, 0, -i)
		key := DayKey(date, loc)

		row := TimelineDay{
			Key:        key,
			Label:      date.Format("Jan 2"),
			Indicators: make(map[Mood]int, len(Moods())),
		}
		for _, m := range Moods() {
			row.Indicators[m] = 0
		}
		if m, ok := chosen[key]; ok {
			row.Indicators[m] = 1
		}
		out = append(out, row)
	}
	return out
}
