// Package router mounts the HTTP routes.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ayush/pokecatch/backend/internal/auth"
	"github.com/ayush/pokecatch/backend/internal/middleware"
	"github.com/ayush/pokecatch/backend/internal/pokemon"
)

// Deps are the handlers and collaborators the routes need.
type Deps struct {
	Auth           *auth.Handler
	Pokemon        *pokemon.Handler
	Tokens         middleware.TokenVerifier
	AllowedOrigins []string
	Logger         *zap.SugaredLogger
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Public
	r.Post("/register", d.Auth.Register)
	r.Post("/login", d.Auth.Login)
	r.Get("/pokemon/{name}", d.Pokemon.Lookup)

	// Protected
	r.Route("/protected", func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Tokens, d.Logger))
		r.Post("/catch", d.Pokemon.Catch)
		r.Delete("/release/{id}", d.Pokemon.Release)
		r.Get("/caught", d.Pokemon.Caught)
		r.Get("/history", d.Pokemon.History)
	})

	return r
}
