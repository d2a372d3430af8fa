package jobs

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"
)

// InsightRefresher recomputes and stores a user's cached insights.
// Implemented by the insight service; kept as an interface so the worker
// loop is testable without an AI client.
type InsightRefresher interface {
	RefreshInsights(ctx context.Context, userID uint64) error
}

type Worker struct {
	ID        string
	Repo      *Repo
	Refresher InsightRefresher
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(800 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				log.Printf("worker claim error: %v\n", err)
				continue
			}
			if job == nil {
				continue
			}
			w.handle(ctx, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypeInsightRefresh:
		w.handleInsightRefresh(ctx, job)
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
	}
}

func (w *Worker) handleInsightRefresh(ctx context.Context, job *Job) {
	type payload struct {
		UserID uint64 `json:"user_id"`
	}
	var p payload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		_ = w.Repo.MarkFailed(job.ID, "bad payload")
		return
	}
	if p.UserID == 0 {
		p.UserID = job.UserID
	}

	if err := w.Refresher.RefreshInsights(ctx, p.UserID); err != nil {
		w.retry(job, err.Error())
		return
	}

	log.Printf("[INSIGHTS] refreshed user=%d\n", p.UserID)
	_ = w.Repo.MarkDone(job.ID)
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Repo.MarkFailed(job.ID, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().Add(time.Duration(sec) * time.Second)

	_ = w.Repo.RetryLater(job.ID, attempts, next, errMsg)
}
