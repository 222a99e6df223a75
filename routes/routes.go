package routes

import (
	"github.com/avshev/prediction-league/handlers"
	"github.com/avshev/prediction-league/middleware"
	"github.com/avshev/prediction-league/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Team       *handlers.TeamHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	Bet        *handlers.BetHandler
	Bracket    *handlers.BracketHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, jwtSecret string) {
	secret := []byte(jwtSecret)

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(secret))
		r.Get("/users/me", h.User.GetMe)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.List)
		r.Get("/{teamID}", h.Team.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(secret))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/", h.Team.Create)
			r.Put("/{teamID}", h.Team.Update)
			r.Post("/{teamID}/logo", h.Team.UploadLogo)
			r.Delete("/{teamID}", h.Team.Delete)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.GetByID)
		r.Get("/{tournamentID}/matches", h.Match.ListByTournament)
		r.Get("/{tournamentID}/scoring-rules", h.Tournament.GetScoringRules)
		r.Get("/{tournamentID}/leaderboard", h.Bracket.GetLeaderboard)

		// Public, with predictions unlocked for signed-in callers.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthenticateOptional(secret))

			r.Get("/{tournamentID}/bracket", h.Bracket.GetBracket)
			r.Get("/{tournamentID}/standings", h.Bracket.GetStandings)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(secret))

			r.Get("/{tournamentID}/bets", h.Bet.ListOwnByTournament)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(secret))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/", h.Tournament.Create)
			r.Put("/{tournamentID}", h.Tournament.Update)
			r.Post("/{tournamentID}/logo", h.Tournament.UploadLogo)
			r.Put("/{tournamentID}/scoring-rules", h.Tournament.SetScoringRules)
			r.Delete("/{tournamentID}", h.Tournament.Delete)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(secret))

			r.Post("/{matchID}/bets", h.Bet.Place)
			r.Get("/{matchID}/bets/own", h.Bet.GetOwn)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(secret))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/", h.Match.Create)
			r.Put("/{matchID}", h.Match.Update)
			r.Post("/{matchID}/result", h.Match.EnterResult)
			r.Post("/{matchID}/settle", h.Match.Settle)
			r.Post("/preview-points", h.Match.PreviewPoints)
			r.Delete("/{matchID}", h.Match.Delete)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)
}
