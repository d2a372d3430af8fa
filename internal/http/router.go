package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"manam/internal/auth"
	"manam/internal/config"
	"manam/internal/goal"
	"manam/internal/http/handler"
	mw "manam/internal/http/middleware"
	"manam/internal/insight"
	"manam/internal/mood"
)

type Deps struct {
	Config    config.Config
	DB        *gorm.DB
	JWT       *auth.JWT
	Moods     *mood.Service
	Broadcast *mood.Broadcaster
	Insights  *insight.Service
	Chat      *insight.ChatManager
	Goals     *goal.Service
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(d.Config.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(d.Config.CORSAllowedOrigins, d.Config.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: d.DB, JWT: d.JWT}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{DB: d.DB}
	r.With(auth.RequireAuth(d.JWT)).Get("/me", me.Me)

	moodH := &handler.MoodHandler{Svc: d.Moods}
	aggH := &handler.AggregateHandler{Svc: d.Moods, Broadcast: d.Broadcast}

	r.Route("/moods", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", moodH.Create)
		r.Get("/", moodH.List)
		r.Delete("/{id}", moodH.Delete)

		r.Get("/streak", aggH.Streak)
		r.Get("/distribution", aggH.Distribution)
		r.Get("/timeline", aggH.Timeline)
		r.Get("/stream", aggH.Stream)
	})

	insightH := &handler.InsightHandler{Svc: d.Insights}
	r.Route("/insights", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Get("/patterns", insightH.Patterns)
		r.Get("/summary", insightH.Summary)
	})

	chatH := &handler.ChatHandler{Mgr: d.Chat}
	r.Route("/chat/sessions", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", chatH.Open)
		r.Get("/{id}", chatH.Get)
		r.Post("/{id}/messages", chatH.Send)
	})

	goalH := &handler.GoalHandler{Svc: d.Goals}
	r.Route("/goals", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", goalH.Create)
		r.Get("/", goalH.List)
		r.Post("/{id}/increment", goalH.Increment)
		r.Delete("/{id}", goalH.Delete)
	})

	return r
}
