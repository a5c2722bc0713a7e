package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/chess-tools/internal/config"
	"github.com/pfrederiksen/chess-tools/internal/logger"
	"golang.org/x/net/html/charset"
)

const (
	// UserAgent identifies detail page requests as a regular browser.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var referencePattern = regexp.MustCompile(`FicheTournoi\.aspx\?Ref=\d+`)

// Mode selects the timeout and field set for a detail fetch.
type Mode struct {
	Name    string
	Timeout time.Duration
	Fields  []Field
}

// Scraper fetches the tournament listing and detail pages.
type Scraper struct {
	client         *http.Client
	listingURL     string
	detailBaseURL  string
	listingTimeout time.Duration
	concurrency    int
	summary        Mode
	detail         Mode
	log            *logger.Logger

	// fetchSummary is the per-reference task run by FetchAll.
	fetchSummary func(ctx context.Context, ref string) *Tournament
}

// New creates a Scraper from configuration. Timeouts are applied per request
// through the request context, so the shared client carries none of its own.
func New(cfg config.ScraperConfig) *Scraper {
	s := &Scraper{
		client:         &http.Client{},
		listingURL:     cfg.ListingURL,
		detailBaseURL:  cfg.DetailBaseURL,
		listingTimeout: cfg.ListingTimeout,
		concurrency:    cfg.Concurrency,
		summary: Mode{
			Name:    "summary",
			Timeout: cfg.SummaryTimeout,
			Fields:  SummaryFields,
		},
		detail: Mode{
			Name:    "detail",
			Timeout: cfg.DetailTimeout,
			Fields:  DetailFields,
		},
		log: logger.Default(),
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	s.fetchSummary = func(ctx context.Context, ref string) *Tournament {
		return s.FetchDetails(ctx, ref, s.summary)
	}
	return s
}

// SetLogger replaces the logger used by the scraper.
func (s *Scraper) SetLogger(l *logger.Logger) {
	s.log = l
}

// SummaryMode is the short, bulk-path mode.
func (s *Scraper) SummaryMode() Mode {
	return s.summary
}

// DetailMode is the long, single-tournament mode.
func (s *Scraper) DetailMode() Mode {
	return s.detail
}

// CanonicalURL returns the detail page URL for a reference.
func (s *Scraper) CanonicalURL(ref string) string {
	return s.detailBaseURL + ref
}

// FetchListing returns the raw listing page, or "" if it could not be fetched.
func (s *Scraper) FetchListing(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, s.listingTimeout)
	defer cancel()

	resp, err := s.get(ctx, s.listingURL)
	if err != nil {
		s.log.Error("Error fetching the tournament listing", logger.Fields{
			"url": s.listingURL,
		}, err)
		logger.IncrCounter("scraper.listing.error")
		return ""
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		s.log.Error("Error reading the tournament listing", logger.Fields{
			"url": s.listingURL,
		}, err)
		logger.IncrCounter("scraper.listing.error")
		return ""
	}

	s.log.Debug("Fetched tournament listing", logger.Fields{
		"url":   s.listingURL,
		"bytes": len(data),
	})
	return string(data)
}

// ExtractReferences returns the detail page references found in text, deduplicated
// by first occurrence.
func ExtractReferences(text string) []string {
	matches := referencePattern.FindAllString(text, -1)

	seen := make(map[string]bool, len(matches))
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			refs = append(refs, m)
		}
	}
	return refs
}

var numericID = regexp.MustCompile(`^\d+$`)

// NormalizeReference accepts a bare numeric id, a reference token or a detail
// page URL and returns the reference token.
func NormalizeReference(input string) (string, error) {
	input = strings.TrimSpace(input)
	if numericID.MatchString(input) {
		return "FicheTournoi.aspx?Ref=" + input, nil
	}
	refs := ExtractReferences(input)
	if len(refs) != 1 || !strings.HasSuffix(input, refs[0]) {
		return "", fmt.Errorf("invalid tournament reference: %q", input)
	}
	return refs[0], nil
}

// FetchDetails fetches and parses one detail page. It never fails: on any error
// every field of the mode is Failed and the URL is still the canonical one.
func (s *Scraper) FetchDetails(ctx context.Context, ref string, mode Mode) *Tournament {
	fullURL := s.CanonicalURL(ref)
	start := time.Now()
	defer func() {
		logger.RecordTiming("scraper.detail."+mode.Name, time.Since(start))
	}()

	t, err := s.fetchDetails(ctx, ref, fullURL, mode)
	if err != nil {
		s.log.Warn("Error fetching tournament", logger.Fields{
			"ref":   ref,
			"mode":  mode.Name,
			"error": err.Error(),
		})
		logger.IncrCounter("scraper.detail.error")
		return failedTournament(ref, fullURL, mode.Fields)
	}
	return t
}

func (s *Scraper) fetchDetails(ctx context.Context, ref, fullURL string, mode Mode) (*Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, mode.Timeout)
	defer cancel()

	resp, err := s.get(ctx, fullURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return ParseDetails(resp.Body, resp.Header.Get("Content-Type"), ref, fullURL, mode.Fields)
}

// ParseDetails reads the labelled fields out of a detail page already fetched.
func ParseDetails(r io.Reader, contentType, ref, fullURL string, fields []Field) (*Tournament, error) {
	utf8Body, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("decoding charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	t := newTournament(ref, fullURL, fields)
	for _, f := range fields {
		t.values[f.Key] = extractField(doc, f)
	}
	return t, nil
}

// get issues a GET and returns the response if it is 2xx. The caller closes the body.
func (s *Scraper) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp, nil
}
