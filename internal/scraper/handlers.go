package scraper

import (
	"context"
	"net/http"

	"github.com/ignite/outreach/internal/pkg/httputil"
)

// PeopleFinder is the scraping operation the HTTP layer depends on.
type PeopleFinder interface {
	CompanyPeople(ctx context.Context, company, geoRegion, keywords string) ([]Profile, error)
}

// Handlers exposes the scraper over HTTP.
type Handlers struct {
	finder PeopleFinder
}

// NewHandlers creates scraper handlers. finder may be nil when scraping
// is disabled.
func NewHandlers(finder PeopleFinder) *Handlers {
	return &Handlers{finder: finder}
}

// HandleScrape serves GET /api/scrape?companyName=&facetGeoRegion=&keywords=.
func (h *Handlers) HandleScrape(w http.ResponseWriter, r *http.Request) {
	if h.finder == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "scraping is not configured")
		return
	}

	q := r.URL.Query()
	profiles, err := h.finder.CompanyPeople(r.Context(),
		q.Get("companyName"), q.Get("facetGeoRegion"), q.Get("keywords"))
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	httputil.OK(w, map[string]any{"profiles": profiles})
}
