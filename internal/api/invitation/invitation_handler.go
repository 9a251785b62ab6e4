package invitation

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/internal/api"
	"github.com/tripweave/tripweave/internal/types"
)

type HandlerImpl struct {
	invitationService Service
	logger            *slog.Logger
}

func NewHandlerImpl(invitationService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		invitationService: invitationService,
		logger:            logger,
	}
}

// Send creates a pending invitation for the invitee email.
func (h *HandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("InvitationHandler").Start(r.Context(), "Send", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/invitations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Send"))

	var req types.SendInvitationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	invitation, err := h.invitationService.Send(ctx, req)
	if err != nil {
		if errors.Is(err, api.ErrDuplicate) {
			api.ErrorResponse(w, r, http.StatusConflict, "An invitation for this user is already pending")
			return
		}
		l.ErrorContext(ctx, "Failed to send invitation", slog.Any("error", err))
		api.HandleStoreError(w, r, err, "Failed to send invitation")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, invitation)
}

// ListPending returns pending, unexpired invitations for the email query
// parameter.
func (h *HandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("InvitationHandler").Start(r.Context(), "ListPending", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/invitations"),
	))
	defer span.End()

	email := r.URL.Query().Get("email")
	if email == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "email query parameter is required")
		return
	}

	invitations, err := h.invitationService.ListPending(ctx, email)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to list invitations")
		return
	}
	if invitations == nil {
		invitations = []types.Invitation{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"invitations": invitations,
		"count":       len(invitations),
	})
}

type acceptInvitationRequest struct {
	UserID string `json:"userId"`
}

// Accept adds the invitee to the trip and closes the invitation.
func (h *HandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("InvitationHandler").Start(r.Context(), "Accept", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/invitations/{invitationID}/accept"),
	))
	defer span.End()

	invitationID, err := uuid.Parse(chi.URLParam(r, "invitationID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid invitation ID format")
		return
	}

	var req acceptInvitationRequest
	if r.ContentLength > 0 {
		if err := api.DecodeJSONBody(w, r, &req); err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	invitation, err := h.invitationService.Accept(ctx, invitationID, req.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to accept invitation", slog.Any("error", err))
		api.HandleStoreError(w, r, err, "Failed to accept invitation")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, invitation)
}

// Decline closes the invitation without touching trip membership.
func (h *HandlerImpl) Decline(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("InvitationHandler").Start(r.Context(), "Decline", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/invitations/{invitationID}/decline"),
	))
	defer span.End()

	invitationID, err := uuid.Parse(chi.URLParam(r, "invitationID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid invitation ID format")
		return
	}

	invitation, err := h.invitationService.Decline(ctx, invitationID)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to decline invitation")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, invitation)
}
