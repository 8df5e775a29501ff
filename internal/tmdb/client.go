package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned when TMDB has no movie for the requested id.
var ErrNotFound = errors.New("tmdb: not found")

const directingDepartment = "Directing"

// Movie is the catalog-relevant subset of a TMDB movie details response.
type Movie struct {
	ID          int64
	Title       string
	Language    string
	Genres      []string
	ReleaseDate *time.Time
	Director    string
	Cast        []string
	Description string
}

// Client defines the contract for querying the TMDB API.
type Client interface {
	FetchMovie(ctx context.Context, tmdbID int64) (*Movie, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
}

// NewHTTPClient constructs a new HTTP-backed TMDB client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
	}, nil
}

// FetchMovie retrieves movie details plus credits and folds them into a
// single Movie.
func (c *HTTPClient) FetchMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	var details detailsPayload
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), &details); err != nil {
		return nil, err
	}

	var credits creditsPayload
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", tmdbID), &credits); err != nil {
		return nil, err
	}

	movie := &Movie{
		ID:          details.ID,
		Title:       details.Title,
		Language:    details.OriginalLanguage,
		Description: details.Overview,
	}
	for _, g := range details.Genres {
		movie.Genres = append(movie.Genres, g.Name)
	}
	if details.ReleaseDate != "" {
		if t, err := time.Parse("2006-01-02", details.ReleaseDate); err == nil {
			movie.ReleaseDate = &t
		}
	}
	for _, member := range credits.Cast {
		movie.Cast = append(movie.Cast, member.OriginalName)
	}
	for _, member := range credits.Crew {
		if member.Department == directingDepartment {
			movie.Director = member.OriginalName
			break
		}
	}
	return movie, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + path
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", "en-US")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode tmdb response: %w", err)
		}
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("tmdb: upstream returned %d", resp.StatusCode)
	}
}

type detailsPayload struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	OriginalLanguage string         `json:"original_language"`
	Overview         string         `json:"overview"`
	ReleaseDate      string         `json:"release_date"`
	Genres           []genrePayload `json:"genres"`
}

type genrePayload struct {
	Name string `json:"name"`
}

type creditsPayload struct {
	Cast []creditMember `json:"cast"`
	Crew []creditMember `json:"crew"`
}

type creditMember struct {
	OriginalName string `json:"original_name"`
	Department   string `json:"department"`
}
