package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

var (
	ErrInvalidLocation  = errors.New("invalid location")
	ErrLocationNotFound = errors.New("location not found")
	ErrUnauthorized     = errors.New("weather api rejected the key")
	ErrRateLimited      = errors.New("weather api rate limit reached")
)

const currentWeatherPath = "/data/2.5/weather"

// City names may contain spaces, hyphens and the like, but markup
// and quoting characters never belong in one.
var locationDenylist = regexp.MustCompile(`[<>"'\\]`)

// Client fetches current weather from the OpenWeatherMap API.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, language string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiKey:   apiKey,
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type currentWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Name string `json:"name"`
}

// CurrentByCity looks up the current weather for a city name.
func (c *Client) CurrentByCity(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
	city = strings.TrimSpace(city)
	if !isValidLocation(city) {
		return nil, ErrInvalidLocation
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	query.Set("lang", c.language)

	requestURL := c.baseURL + currentWeatherPath + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}

	var payload currentWeatherResponse
	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	return snapshotFromPayload(&payload, city), nil
}

func statusError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrLocationNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("weather api returned status %d", statusCode)
	}
}

func snapshotFromPayload(payload *currentWeatherResponse, city string) *models.WeatherSnapshot {
	snapshot := &models.WeatherSnapshot{
		Temperature: math.Round(payload.Main.Temp*10) / 10,
		Location:    city,
	}
	if payload.Name != "" {
		snapshot.Location = payload.Name
	}
	if len(payload.Weather) > 0 {
		first := payload.Weather[0]
		snapshot.Condition = first.Main
		snapshot.Description = first.Description
		snapshot.Icon = first.Icon
		snapshot.IsBadWeather = models.IsBadWeatherCondition(first.Main)
	}
	return snapshot
}

func isValidLocation(city string) bool {
	if city == "" || len(city) > 100 {
		return false
	}
	return !locationDenylist.MatchString(city)
}
