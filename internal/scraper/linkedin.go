// Package scraper extracts people and their positions from a company's
// LinkedIn people page, feeding the candidate generator with real names.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/logger"
)

const (
	loginURL     = "https://www.linkedin.com"
	profileCard  = "li .org-people-profile-card__profile-info"
	nameSelector = ".lt-line-clamp--single-line"
	roleSelector = ".lt-line-clamp--multi-line"
)

// Profile is one person found on a company people page.
type Profile struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// Scraper drives a headless browser against LinkedIn. Session cookies
// are persisted across runs so repeated scrapes skip the login form.
type Scraper struct {
	cfg config.ScraperConfig
}

// New creates a scraper.
func New(cfg config.ScraperConfig) *Scraper {
	return &Scraper{cfg: cfg}
}

// CompanyPeople scrapes up to MaxProfiles people from the company's
// people page, filtered by geo region and keywords.
func (s *Scraper) CompanyPeople(ctx context.Context, company, geoRegion, keywords string) ([]Profile, error) {
	company = strings.TrimSpace(company)
	if company == "" || strings.TrimSpace(geoRegion) == "" || strings.TrimSpace(keywords) == "" {
		return nil, domain.Validationf("company, geo region, and keywords are required")
	}

	target := fmt.Sprintf("https://www.linkedin.com/company/%s/people/?facetGeoRegion=%s&keywords=%s",
		url.PathEscape(company), url.QueryEscape(geoRegion), url.QueryEscape(keywords))

	l := launcher.New().Headless(true).NoSandbox(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	defer browser.Close()
	browser = browser.Context(ctx)

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()
	page = page.Timeout(s.cfg.Timeout())

	cookiesLoaded := s.loadCookies(page)

	if err := page.Navigate(loginURL); err != nil {
		return nil, fmt.Errorf("navigating to linkedin: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("loading linkedin: %w", err)
	}

	if !cookiesLoaded {
		if err := s.login(page); err != nil {
			return nil, err
		}
		s.saveCookies(page)
	}

	if err := page.Navigate(target); err != nil {
		return nil, fmt.Errorf("navigating to company page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("loading company page: %w", err)
	}

	// The people cards render after the page load event.
	if _, err := page.Element(profileCard); err != nil {
		return nil, fmt.Errorf("no people found for %s: %w", company, err)
	}

	return s.extract(page)
}

func (s *Scraper) login(page *rod.Page) error {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		return domain.Validationf("no saved session and no linkedin credentials configured")
	}

	emailField, err := page.Element("#session_key")
	if err != nil {
		return fmt.Errorf("finding login form: %w", err)
	}
	if err := emailField.Input(s.cfg.Email); err != nil {
		return fmt.Errorf("entering email: %w", err)
	}

	passwordField, err := page.Element("#session_password")
	if err != nil {
		return fmt.Errorf("finding password field: %w", err)
	}
	if err := passwordField.Input(s.cfg.Password); err != nil {
		return fmt.Errorf("entering password: %w", err)
	}

	submit, err := page.Element(`button[type="submit"]`)
	if err != nil {
		return fmt.Errorf("finding submit button: %w", err)
	}
	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("submitting login: %w", err)
	}
	wait()

	logger.Info("linkedin login completed")
	return nil
}

func (s *Scraper) extract(page *rod.Page) ([]Profile, error) {
	cards, err := page.Elements(profileCard)
	if err != nil {
		return nil, fmt.Errorf("finding profile cards: %w", err)
	}

	max := s.cfg.MaxProfiles
	profiles := make([]Profile, 0, max)
	for _, card := range cards {
		if len(profiles) >= max {
			break
		}

		var p Profile
		if el, err := card.Element(nameSelector); err == nil {
			if text, err := el.Text(); err == nil {
				p.Name = strings.TrimSpace(text)
			}
		}
		if el, err := card.Element(roleSelector); err == nil {
			if text, err := el.Text(); err == nil {
				p.Position = strings.TrimSpace(text)
			}
		}
		if p.Name == "" {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// loadCookies restores a saved LinkedIn session. Returns false when no
// usable cookie file exists.
func (s *Scraper) loadCookies(page *rod.Page) bool {
	data, err := os.ReadFile(s.cfg.CookiesPath)
	if err != nil {
		return false
	}

	var cookies []*proto.NetworkCookieParam
	if err := json.Unmarshal(data, &cookies); err != nil {
		logger.Warn("discarding unreadable cookie file", "path", s.cfg.CookiesPath, "error", err)
		return false
	}
	if len(cookies) == 0 {
		return false
	}

	if err := page.SetCookies(cookies); err != nil {
		logger.Warn("restoring cookies failed", "error", err)
		return false
	}
	return true
}

func (s *Scraper) saveCookies(page *rod.Page) {
	cookies, err := page.Cookies(nil)
	if err != nil {
		logger.Warn("reading cookies failed", "error", err)
		return
	}

	data, err := json.MarshalIndent(proto.CookiesToParams(cookies), "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(s.cfg.CookiesPath, data, 0o600); err != nil {
		logger.Warn("saving cookies failed", "path", s.cfg.CookiesPath, "error", err)
	}
}
