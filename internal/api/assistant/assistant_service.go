package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	generativeAI "github.com/tripweave/tripweave/internal/api/generative_ai"
)

const chatFallbackReply = "Sorry, I encountered an error. Please try again."

// ParsedRequest is the structured change request extracted from a
// conversational message.
type ParsedRequest struct {
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	SuggestedDay      int     `json:"suggestedDay"`
	Type              string  `json:"type"`
	EstimatedCost     float64 `json:"estimatedCost"`
	EstimatedDuration string  `json:"estimatedDuration"`
}

// DaySuggestion pairs a candidate day with the model's reasoning.
type DaySuggestion struct {
	Day    int    `json:"day"`
	Reason string `json:"reason"`
}

// TripChatResult is the conversational parse of a user's change request.
type TripChatResult struct {
	Response      string          `json:"response"`
	ParsedRequest *ParsedRequest  `json:"parsedRequest,omitempty"`
	SuggestedDays []DaySuggestion `json:"suggestedDays,omitempty"`
}

// Suggestion is one actionable recommendation from the live assistant.
type Suggestion struct {
	Priority      string `json:"priority"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	Action        string `json:"action"`
	EstimatedTime string `json:"estimatedTime"`
	Distance      string `json:"distance,omitempty"`
	Cost          string `json:"cost"`
	Icon          string `json:"icon"`
}

// Alternative is a quick nearby activity for a time-constrained traveller.
type Alternative struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Distance    string `json:"distance"`
	Cost        string `json:"cost"`
	Type        string `json:"type"`
	Notes       string `json:"notes,omitempty"`
}

var _ Service = (*ServiceImpl)(nil)

// Service is the conversational travel assistant. Every operation degrades to
// a usable fallback instead of erroring when the model misbehaves.
type Service interface {
	// Chat returns a free-text answer, with an apologetic canned reply on
	// model failure.
	Chat(ctx context.Context, message, chatContext string) string

	// TripChat parses a conversational change request into a structured
	// ParsedRequest, falling back to a deterministic parse of the raw
	// message when the model returns no JSON.
	TripChat(ctx context.Context, message, tripContext string) *TripChatResult

	// Suggestions returns live, context-aware recommendations; empty on
	// model failure.
	Suggestions(ctx context.Context, req SuggestionsRequest) []Suggestion

	// Alternatives returns quick nearby activities that fit the remaining
	// time; empty on model failure.
	Alternatives(ctx context.Context, req AlternativesRequest) []Alternative
}

type ServiceImpl struct {
	ai     generativeAI.Client
	logger *slog.Logger
}

func NewServiceImpl(ai generativeAI.Client, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		ai:     ai,
		logger: logger,
	}
}

func (s *ServiceImpl) Chat(ctx context.Context, message, chatContext string) string {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "Chat")
	defer span.End()

	prompt := message
	if chatContext != "" {
		prompt = chatContext + "\n\n" + message
	}

	response, err := s.ai.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.WarnContext(ctx, "Chat generation failed", slog.Any("error", err))
		return chatFallbackReply
	}
	return response
}

func (s *ServiceImpl) TripChat(ctx context.Context, message, tripContext string) *TripChatResult {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "TripChat", trace.WithAttributes(
		attribute.Int("message.length", len(message)),
	))
	defer span.End()

	response, err := s.ai.GenerateJSON(ctx, getTripChatPrompt(message, tripContext))
	if err != nil {
		s.logger.WarnContext(ctx, "Trip chat generation failed", slog.Any("error", err))
		return fallbackTripChat(message, "I'm having trouble understanding that. Could you rephrase your suggestion?")
	}

	raw, err := generativeAI.ExtractJSONObject(generativeAI.StripCodeFences(response))
	if err != nil {
		return fallbackTripChat(message, response)
	}
	var result TripChatResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.WarnContext(ctx, "Trip chat returned malformed JSON", slog.Any("error", err))
		return fallbackTripChat(message, response)
	}
	if result.Response == "" {
		result.Response = "Got it! I've noted your request."
	}
	return &result
}

// fallbackTripChat builds a deterministic parse from the raw message.
func fallbackTripChat(message, response string) *TripChatResult {
	title := message
	if len(title) > 50 {
		// Cut on a rune boundary so multi-byte characters stay intact.
		cut := 50
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = title[:cut]
	}
	return &TripChatResult{
		Response: response,
		ParsedRequest: &ParsedRequest{
			Title:             title,
			Description:       message,
			SuggestedDay:      1,
			Type:              "activity",
			EstimatedCost:     30,
			EstimatedDuration: "1-2 hours",
		},
	}
}

func (s *ServiceImpl) Suggestions(ctx context.Context, req SuggestionsRequest) []Suggestion {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "Suggestions", trace.WithAttributes(
		attribute.String("trip.destination", req.Destination),
	))
	defer span.End()

	response, err := s.ai.GenerateJSON(ctx, getSuggestionsPrompt(req))
	if err != nil {
		s.logger.WarnContext(ctx, "Suggestion generation failed", slog.Any("error", err))
		return []Suggestion{}
	}

	raw, err := generativeAI.ExtractJSONArray(generativeAI.StripCodeFences(response))
	if err != nil {
		return []Suggestion{}
	}
	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		s.logger.WarnContext(ctx, "Suggestions returned malformed JSON", slog.Any("error", err))
		return []Suggestion{}
	}
	return suggestions
}

func (s *ServiceImpl) Alternatives(ctx context.Context, req AlternativesRequest) []Alternative {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "Alternatives", trace.WithAttributes(
		attribute.Int("time.left_minutes", req.TimeLeft),
	))
	defer span.End()

	response, err := s.ai.GenerateJSON(ctx, getAlternativesPrompt(req))
	if err != nil {
		s.logger.WarnContext(ctx, "Alternatives generation failed", slog.Any("error", err))
		return []Alternative{}
	}

	raw, err := generativeAI.ExtractJSONArray(generativeAI.StripCodeFences(response))
	if err != nil {
		return []Alternative{}
	}
	var alternatives []Alternative
	if err := json.Unmarshal([]byte(raw), &alternatives); err != nil {
		s.logger.WarnContext(ctx, "Alternatives returned malformed JSON", slog.Any("error", err))
		return []Alternative{}
	}
	return alternatives
}
