package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/maltedev/selector-discovery/internal/database"
	"github.com/maltedev/selector-discovery/internal/discovery"
)

// DiscoveryService is the part of the discovery service the handlers use.
type DiscoveryService interface {
	Discover(ctx context.Context, url string) (*discovery.Result, error)
	Sites(ctx context.Context) ([]*database.Site, error)
	SiteSelectors(ctx context.Context, siteID uuid.UUID) (*database.Site, []*database.SelectorRecord, error)
}

type Handlers struct {
	service DiscoveryService
	logger  *slog.Logger
}

func NewHandlers(service DiscoveryService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

// DiscoverRequest represents a selector discovery request
type DiscoverRequest struct {
	URL string `json:"url"`
}

// DiscoverSelectors handles selector discovery requests
func (h *Handlers) DiscoverSelectors(w http.ResponseWriter, r *http.Request) {
	var req DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := h.service.Discover(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, discovery.ErrInvalidURL) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("discovery failed", "url", req.URL, "error", err)
		h.respondError(w, http.StatusInternalServerError, "discovery failed")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// SitesResponse represents the list of known sites
type SitesResponse struct {
	Sites []*database.Site `json:"sites"`
}

// ListSites handles listing all discovered sites
func (h *Handlers) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.service.Sites(r.Context())
	if err != nil {
		h.logger.Error("failed to list sites", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list sites")
		return
	}

	if sites == nil {
		sites = []*database.Site{}
	}
	h.respondJSON(w, http.StatusOK, SitesResponse{Sites: sites})
}

// SiteSelectorsResponse represents the stored selectors for one site
type SiteSelectorsResponse struct {
	Site      *database.Site             `json:"site"`
	Selectors []*database.SelectorRecord `json:"selectors"`
}

// GetSiteSelectors handles retrieving stored selectors for a site
func (h *Handlers) GetSiteSelectors(w http.ResponseWriter, r *http.Request) {
	siteID, err := uuid.Parse(chi.URLParam(r, "siteID"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid site ID")
		return
	}

	site, selectors, err := h.service.SiteSelectors(r.Context(), siteID)
	if err != nil {
		h.logger.Error("failed to get selectors", "site_id", siteID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get selectors")
		return
	}
	if site == nil {
		h.respondError(w, http.StatusNotFound, "site not found")
		return
	}

	if selectors == nil {
		selectors = []*database.SelectorRecord{}
	}
	h.respondJSON(w, http.StatusOK, SiteSelectorsResponse{Site: site, Selectors: selectors})
}

// Helper methods
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
