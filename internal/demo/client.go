package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"social-client/internal/observability"
)

const (
	DefaultRandomUserURL  = "https://randomuser.me"
	DefaultPlaceholderURL = "https://jsonplaceholder.typicode.com"
	DefaultHackerNewsURL  = "https://hn.algolia.com"
)

var tracer = otel.Tracer("social-client/demo")

// Client reads public demo APIs. Every fetch degrades to an empty result on
// failure; nothing is retried.
type Client struct {
	http           *http.Client
	randomUserURL  string
	placeholderURL string
	hackerNewsURL  string
	now            func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Client)

// WithBaseURLs points the client at alternative hosts. Empty values keep the default.
func WithBaseURLs(randomUser, placeholder, hackerNews string) Option {
	return func(c *Client) {
		if randomUser != "" {
			c.randomUserURL = randomUser
		}
		if placeholder != "" {
			c.placeholderURL = placeholder
		}
		if hackerNews != "" {
			c.hackerNewsURL = hackerNews
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithSeed(seed int64) Option {
	return func(c *Client) { c.rng = rand.New(rand.NewSource(seed)) }
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http:           &http.Client{Timeout: timeout},
		randomUserURL:  DefaultRandomUserURL,
		placeholderURL: DefaultPlaceholderURL,
		hackerNewsURL:  DefaultHackerNewsURL,
		now:            time.Now,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) intn(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Intn(n)
}

func (c *Client) getJSON(ctx context.Context, source, rawURL string, out any) (err error) {
	ctx, span := tracer.Start(ctx, "demo."+source)
	span.SetAttributes(attribute.String("http.url", rawURL))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			observability.IncDemoFetchError(source)
			log.Printf("demo fetch failed source=%s err=%v", source, err)
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}
	return nil
}

func query(base, path string, params url.Values) string {
	return base + path + "?" + params.Encode()
}

func itoa(n int) string { return strconv.Itoa(n) }
