package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/selector-discovery/internal/analyzer"
	"github.com/maltedev/selector-discovery/internal/database"
	"github.com/maltedev/selector-discovery/internal/discovery"
)

type stubService struct {
	result    *discovery.Result
	err       error
	sites     []*database.Site
	site      *database.Site
	selectors []*database.SelectorRecord
}

func (s *stubService) Discover(ctx context.Context, url string) (*discovery.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubService) Sites(ctx context.Context) ([]*database.Site, error) {
	return s.sites, nil
}

func (s *stubService) SiteSelectors(ctx context.Context, siteID uuid.UUID) (*database.Site, []*database.SelectorRecord, error) {
	return s.site, s.selectors, nil
}

func newTestRouter(service DiscoveryService) http.Handler {
	h := NewHandlers(service, nil)
	r := chi.NewRouter()
	r.Post("/api/v1/selectors/discover", h.DiscoverSelectors)
	r.Get("/api/v1/sites", h.ListSites)
	r.Get("/api/v1/sites/{siteID}/selectors", h.GetSiteSelectors)
	return r
}

func TestDiscoverSelectors(t *testing.T) {
	siteID := uuid.New()
	svc := &stubService{
		result: &discovery.Result{
			SiteID: siteID,
			URL:    "https://shop.example.com/products",
			Domain: "shop.example.com",
			Selectors: []analyzer.PatternResult{
				{Type: analyzer.RoleContainer, Value: `[class*="product-card"]`, Confidence: 0.95},
			},
		},
	}
	router := newTestRouter(svc)

	body := bytes.NewBufferString(`{"url":"https://shop.example.com/products"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/selectors/discover", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result discovery.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, siteID, result.SiteID)
	require.Len(t, result.Selectors, 1)
	assert.Equal(t, `[class*="product-card"]`, result.Selectors[0].Value)
}

func TestDiscoverSelectorsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		svc  *stubService
	}{
		{
			name: "malformed body",
			body: `{url`,
			svc:  &stubService{},
		},
		{
			name: "missing url",
			body: `{}`,
			svc:  &stubService{},
		},
		{
			name: "invalid url",
			body: `{"url":"ftp://shop.example.com"}`,
			svc:  &stubService{err: discovery.ErrInvalidURL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.svc)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/selectors/discover", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestDiscoverSelectorsInternalError(t *testing.T) {
	router := newTestRouter(&stubService{err: errors.New("database down")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/selectors/discover",
		bytes.NewBufferString(`{"url":"https://shop.example.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListSites(t *testing.T) {
	svc := &stubService{
		sites: []*database.Site{
			{ID: uuid.New(), URL: "https://shop.example.com/products", Domain: "shop.example.com"},
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SitesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sites, 1)
	assert.Equal(t, "shop.example.com", resp.Sites[0].Domain)
}

func TestListSitesEmpty(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sites":[]`)
}

func TestGetSiteSelectors(t *testing.T) {
	siteID := uuid.New()
	svc := &stubService{
		site: &database.Site{ID: siteID, URL: "https://shop.example.com/products", Domain: "shop.example.com"},
		selectors: []*database.SelectorRecord{
			{ID: uuid.New(), SiteID: siteID, SelectorType: "container", SelectorValue: `[class*="product-card"]`, Confidence: 0.95},
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/"+siteID.String()+"/selectors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SiteSelectorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, siteID, resp.Site.ID)
	require.Len(t, resp.Selectors, 1)
	assert.Equal(t, "container", resp.Selectors[0].SelectorType)
}

func TestGetSiteSelectorsInvalidID(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/not-a-uuid/selectors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSiteSelectorsUnknownSite(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/"+uuid.New().String()+"/selectors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
