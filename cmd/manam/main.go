package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"manam/internal/auth"
	"manam/internal/config"
	"manam/internal/db"
	"manam/internal/goal"
	httpx "manam/internal/http"
	"manam/internal/insight"
	"manam/internal/jobs"
	"manam/internal/mood"
)

func main() {
	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)

	model := insight.NewClient(cfg.OpenAIKey, cfg.OpenAIModel)
	broadcast := mood.NewBroadcaster()
	jobsRepo := &jobs.Repo{DB: gdb}

	moodSvc := &mood.Service{DB: gdb, Broadcast: broadcast, Jobs: jobsRepo}
	insightSvc := &insight.Service{DB: gdb, Model: model, Moods: moodSvc}
	moodSvc.Classify = insightSvc

	r := httpx.NewRouter(httpx.Deps{
		Config:    cfg,
		DB:        gdb,
		JWT:       jwtSvc,
		Moods:     moodSvc,
		Broadcast: broadcast,
		Insights:  insightSvc,
		Chat:      insight.NewChatManager(model),
		Goals:     &goal.Service{DB: gdb},
	})

	// worker
	worker := &jobs.Worker{ID: "worker-1", Repo: jobsRepo, Refresher: insightSvc}

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
