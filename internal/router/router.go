package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tripweave/tripweave/internal/api/assistant"
	"github.com/tripweave/tripweave/internal/api/guide"
	"github.com/tripweave/tripweave/internal/api/invitation"
	"github.com/tripweave/tripweave/internal/api/journey"
	"github.com/tripweave/tripweave/internal/api/trip"
)

// Config contains the handlers the router mounts.
type Config struct {
	TripHandler       *trip.HandlerImpl
	JourneyHandler    *journey.HandlerImpl
	GuideHandler      *guide.HandlerImpl
	InvitationHandler *invitation.HandlerImpl
	AssistantHandler  *assistant.HandlerImpl
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripHandler.Create)
			r.Get("/", cfg.TripHandler.List)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", cfg.TripHandler.Get)
				r.Post("/requests", cfg.TripHandler.AddRequest)
				r.Post("/generate-itinerary", cfg.TripHandler.GenerateItinerary)
				r.Post("/analyze-request", cfg.TripHandler.AnalyzeRequest)
				r.Post("/compare-requests", cfg.TripHandler.CompareRequests)
				r.Post("/accept-request", cfg.TripHandler.AcceptRequest)
				r.Get("/live-suggestions", cfg.TripHandler.LiveSuggestions)

				r.Route("/journey", func(r chi.Router) {
					r.Post("/save-path", cfg.JourneyHandler.SavePath)
					r.Get("/paths", cfg.JourneyHandler.GetPaths)
					r.Post("/recommendations", cfg.JourneyHandler.Recommendations)
				})
			})
		})

		r.Route("/guides", func(r chi.Router) {
			r.Get("/", cfg.GuideHandler.List)
			r.Post("/register", cfg.GuideHandler.Register)

			r.Route("/{guideID}", func(r chi.Router) {
				r.Get("/", cfg.GuideHandler.Get)
				r.Put("/", cfg.GuideHandler.Update)
				r.Delete("/", cfg.GuideHandler.Delete)
				r.Post("/review", cfg.GuideHandler.Review)
				r.Post("/verify", cfg.GuideHandler.Verify)
			})
		})

		r.Route("/invitations", func(r chi.Router) {
			r.Post("/", cfg.InvitationHandler.Send)
			r.Get("/", cfg.InvitationHandler.ListPending)
			r.Post("/{invitationID}/accept", cfg.InvitationHandler.Accept)
			r.Post("/{invitationID}/decline", cfg.InvitationHandler.Decline)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/chat", cfg.AssistantHandler.Chat)
			r.Post("/trip-chat", cfg.AssistantHandler.TripChat)
			r.Post("/suggestions", cfg.AssistantHandler.Suggestions)
			r.Post("/alternatives", cfg.AssistantHandler.Alternatives)
		})
	})

	return r
}
