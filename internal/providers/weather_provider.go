package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const APIKeyHeader = "X-Yandex-Weather-Key"

// ForecastQuery is the point and horizon a forecast is requested for.
type ForecastQuery struct {
	Latitude  float64
	Longitude float64
	Limit     int
}

// TransportError means no response body could be obtained from the endpoint.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("weather request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type WeatherProvider interface {
	FetchWeather(ctx context.Context, query ForecastQuery) (string, error)
	GetHTTPClient() *http.Client
}

type yandexWeatherProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewYandexWeatherProvider(baseURL, apiKey string, timeout time.Duration) WeatherProvider {
	return &yandexWeatherProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchWeather returns the response body as is. The status code is logged but not
// interpreted, so error payloads from the API reach the caller unchanged.
func (p *yandexWeatherProvider) FetchWeather(ctx context.Context, query ForecastQuery) (string, error) {
	requestURL, err := p.buildURL(query)
	if err != nil {
		return "", &TransportError{URL: p.baseURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", &TransportError{URL: requestURL, Err: err}
	}
	req.Header.Set(APIKeyHeader, p.apiKey)

	log.Debug().Str("url", requestURL).Msg("requesting forecast")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{URL: requestURL, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("weather API returned non-OK status, passing body through")
	} else {
		log.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("forecast received")
	}

	return string(body), nil
}

func (p *yandexWeatherProvider) buildURL(query ForecastQuery) (string, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return "", err
	}

	params := u.Query()
	params.Set("lat", strconv.FormatFloat(query.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(query.Longitude, 'f', -1, 64))
	params.Set("limit", strconv.Itoa(query.Limit))
	u.RawQuery = params.Encode()

	return u.String(), nil
}

func (p *yandexWeatherProvider) GetHTTPClient() *http.Client {
	return p.client
}
