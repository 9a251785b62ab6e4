package container

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/tripweave/tripweave/app/db"
	"github.com/tripweave/tripweave/config"
	"github.com/tripweave/tripweave/internal/api/assistant"
	generativeAI "github.com/tripweave/tripweave/internal/api/generative_ai"
	"github.com/tripweave/tripweave/internal/api/guide"
	"github.com/tripweave/tripweave/internal/api/invitation"
	"github.com/tripweave/tripweave/internal/api/itinerary"
	"github.com/tripweave/tripweave/internal/api/journey"
	"github.com/tripweave/tripweave/internal/api/places"
	"github.com/tripweave/tripweave/internal/api/planner"
	"github.com/tripweave/tripweave/internal/api/trip"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool

	TripHandler       *trip.HandlerImpl
	JourneyHandler    *journey.HandlerImpl
	GuideHandler      *guide.HandlerImpl
	InvitationHandler *invitation.HandlerImpl
	AssistantHandler  *assistant.HandlerImpl
}

// NewContainer initializes and returns a new dependency container. A failed
// database connection is not fatal: repositories answer with a 503-mapping
// error until Postgres comes up.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	var pool *pgxpool.Pool
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Warn("Failed to generate database config, running without a store", slog.Any("error", err))
	} else {
		pool, err = database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			logger.Warn("Failed to initialize database pool, running without a store", slog.Any("error", err))
			pool = nil
		}
	}

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.AI.Model, cfg.AI.Temperature)
	if err != nil {
		logger.Error("Failed to initialize Gemini client", slog.Any("error", err))
		return nil, err
	}

	placesClient := places.NewHTTPClient(
		cfg.Places.Endpoint,
		cfg.Places.BiasRadiusM,
		time.Duration(cfg.Places.CacheTTLMins)*time.Minute,
		logger,
	)

	// Guide registry
	var guideDB guide.DB
	if pool != nil {
		guideDB = pool
	}
	guideRepo := guide.NewRepositoryImpl(guideDB, logger)
	guideService := guide.NewServiceImpl(guideRepo, logger)
	guideHandler := guide.NewHandlerImpl(guideService, logger)

	// Trip lifecycle
	var tripDB trip.DB
	if pool != nil {
		tripDB = pool
	}
	tripRepo := trip.NewRepositoryImpl(tripDB, logger)
	itineraryService := itinerary.NewServiceImpl(aiClient, guideService, logger)
	plannerService := planner.NewServiceImpl(aiClient, placesClient, logger)
	tripService := trip.NewServiceImpl(tripRepo, itineraryService, plannerService, logger)
	tripHandler := trip.NewHandlerImpl(tripService, logger)

	// Journey tracking
	journeyService := journey.NewServiceImpl(tripRepo, cfg.Journey.MaxPathPoints, cfg.Journey.FlushEvery, logger)
	journeyHandler := journey.NewHandlerImpl(journeyService, logger)

	// Invitations
	var invitationDB invitation.DB
	if pool != nil {
		invitationDB = pool
	}
	invitationRepo := invitation.NewRepositoryImpl(invitationDB, logger)
	invitationService := invitation.NewServiceImpl(invitationRepo, tripRepo, logger)
	invitationHandler := invitation.NewHandlerImpl(invitationService, logger)

	// Conversational assistant
	assistantService := assistant.NewServiceImpl(aiClient, logger)
	assistantHandler := assistant.NewHandlerImpl(assistantService, logger)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Pool:              pool,
		TripHandler:       tripHandler,
		JourneyHandler:    journeyHandler,
		GuideHandler:      guideHandler,
		InvitationHandler: invitationHandler,
		AssistantHandler:  assistantHandler,
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
