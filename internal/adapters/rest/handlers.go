package rest

import (
	"errors"
	"find-a-house/internal/adapters/notifier"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	usecases_port "find-a-house/internal/core/port/usecases"
	"find-a-house/internal/core/usecase"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	defaultRecentHours = 24
	keepAliveInterval  = 15 * time.Second
)

type ListingHandler struct {
	queries usecases_port.ListingQueriesPort
	stream  *notifier.SSENotifier
}

// NewListingHandler создает обработчики; stream может быть nil, тогда подписка недоступна
func NewListingHandler(queries usecases_port.ListingQueriesPort, stream *notifier.SSENotifier) *ListingHandler {
	return &ListingHandler{queries: queries, stream: stream}
}

// Health обрабатывает GET /health
func (h *ListingHandler) Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// GetStats обрабатывает GET /api/v1/stats
func (h *ListingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetStats"})

	stats, err := h.queries.Stats(r.Context())
	if err != nil {
		logger.Error("Failed to load stats", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Could not load stats")
		return
	}
	RespondWithJSON(w, http.StatusOK, stats)
}

// GetRecentListings обрабатывает GET /api/v1/listings/recent?hours=24
func (h *ListingHandler) GetRecentListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetRecentListings"})

	window, err := GetHoursOrDefault(r, defaultRecentHours)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid 'hours' parameter")
		return
	}

	listings, err := h.queries.Recent(r.Context(), window)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidWindow) {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("Failed to load recent listings", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Could not load listings")
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingsResponse(listings))
}

// GetUncontactedListings обрабатывает GET /api/v1/listings/uncontacted
func (h *ListingHandler) GetUncontactedListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetUncontactedListings"})

	listings, err := h.queries.Uncontacted(r.Context())
	if err != nil {
		logger.Error("Failed to load uncontacted listings", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Could not load listings")
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingsResponse(listings))
}

// GetListingByID обрабатывает GET /api/v1/listings/{listingID}
func (h *ListingHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetListingByID", "listing_id": listingID})

	listing, err := h.queries.Get(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Listing not found")
			return
		}
		logger.Error("Failed to load listing", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Could not load listing")
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(*listing))
}

// MarkContacted обрабатывает POST /api/v1/listings/{listingID}/contacted
func (h *ListingHandler) MarkContacted(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "MarkContacted", "listing_id": listingID})

	err := h.queries.MarkContacted(r.Context(), listingID)
	switch {
	case err == nil:
		RespondWithJSON(w, http.StatusOK, statusResponse{Status: "contacted"})
	case errors.Is(err, domain.ErrListingNotFound):
		WriteJSONError(w, http.StatusNotFound, "Listing not found")
	case errors.Is(err, domain.ErrAlreadyContacted):
		WriteJSONError(w, http.StatusConflict, "Already contacted")
	default:
		logger.Error("Failed to mark listing as contacted", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Could not update listing")
	}
}

// SubscribeToMatches обрабатывает GET /api/v1/matches/stream?profile=...
func (h *ListingHandler) SubscribeToMatches(w http.ResponseWriter, r *http.Request) {
	profile := r.URL.Query().Get("profile")
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "SubscribeToMatches",
		"profile": profile,
	})

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.stream.AddClient(profile)
	defer h.stream.RemoveClient(profile, clientChan)

	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				handlerLogger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flusher.Flush()
			handlerLogger.Debug("Sent SSE event to client", nil)

		case <-ticker.C:
			// строки с ":" клиент считает комментариями
			if _, err := fmt.Fprintf(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			handlerLogger.Info("SSE client disconnected.", nil)
			return
		}
	}
}
