package providers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"ulascansenturk/yandex-forecast/internal/providers"
)

const (
	testAPIKey   = "test_yandex_key"
	forecastBody = `{"fact":{"temp":5},"forecasts":[{"parts":{"day":{"temp_avg":3.0}}}]}`
)

type WeatherProviderTestSuite struct {
	suite.Suite
	server   *httptest.Server
	mu       sync.Mutex
	requests []*http.Request
	provider providers.WeatherProvider
	query    providers.ForecastQuery
}

func (s *WeatherProviderTestSuite) SetupTest() {
	s.requests = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r)
		s.mu.Unlock()

		switch r.URL.Query().Get("lat") {
		case "55.75":
			w.Write([]byte(forecastBody))
		case "1":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"status":403,"message":"Forbidden"}`))
		case "2":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(forecastBody))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	s.provider = providers.NewYandexWeatherProvider(s.server.URL+"/v2/forecast", testAPIKey, 5*time.Second)
	s.query = providers.ForecastQuery{Latitude: 55.75, Longitude: 37.62, Limit: 7}
}

func (s *WeatherProviderTestSuite) recorded() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *WeatherProviderTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *WeatherProviderTestSuite) TestFetchWeather_Success() {
	body, err := s.provider.FetchWeather(context.Background(), s.query)

	s.Require().NoError(err)
	s.Equal(forecastBody, body)

	requests := s.recorded()
	s.Require().Len(requests, 1)
	req := requests[0]
	s.Equal(http.MethodGet, req.Method)
	s.Equal("/v2/forecast", req.URL.Path)
	s.Equal(testAPIKey, req.Header.Get(providers.APIKeyHeader))
	s.Equal("55.75", req.URL.Query().Get("lat"))
	s.Equal("37.62", req.URL.Query().Get("lon"))
	s.Equal("7", req.URL.Query().Get("limit"))
}

func (s *WeatherProviderTestSuite) TestFetchWeather_ErrorPayloadPassedThrough() {
	s.query.Latitude = 1

	body, err := s.provider.FetchWeather(context.Background(), s.query)

	s.NoError(err)
	s.Equal(`{"status":403,"message":"Forbidden"}`, body)
}

func (s *WeatherProviderTestSuite) TestFetchWeather_EmptyErrorBody() {
	s.query.Latitude = 0

	body, err := s.provider.FetchWeather(context.Background(), s.query)

	s.NoError(err)
	s.Empty(body)
}

func (s *WeatherProviderTestSuite) TestFetchWeather_IntegerCoordinates() {
	s.query.Latitude = 2
	s.query.Longitude = -40

	_, err := s.provider.FetchWeather(context.Background(), s.query)

	s.Require().NoError(err)
	requests := s.recorded()
	s.Require().Len(requests, 1)
	s.Equal("2", requests[0].URL.Query().Get("lat"))
	s.Equal("-40", requests[0].URL.Query().Get("lon"))
}

func (s *WeatherProviderTestSuite) TestFetchWeather_ConnectionRefused() {
	s.server.Close()

	_, err := s.provider.FetchWeather(context.Background(), s.query)

	s.Require().Error(err)
	var transportErr *providers.TransportError
	s.Require().True(errors.As(err, &transportErr))
	s.Contains(transportErr.URL, "lat=55.75")
	s.NotContains(err.Error(), testAPIKey)
}

func (s *WeatherProviderTestSuite) TestFetchWeather_ContextCanceled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.provider.FetchWeather(ctx, s.query)

	var transportErr *providers.TransportError
	s.Require().True(errors.As(err, &transportErr))
	s.ErrorIs(err, context.Canceled)
}

func (s *WeatherProviderTestSuite) TestFetchWeather_ClientTimeout() {
	provider := providers.NewYandexWeatherProvider(s.server.URL, testAPIKey, 50*time.Millisecond)
	s.query.Latitude = 2

	_, err := provider.FetchWeather(context.Background(), s.query)

	var transportErr *providers.TransportError
	s.Require().True(errors.As(err, &transportErr))
	s.Contains(err.Error(), "Client.Timeout")
}

func (s *WeatherProviderTestSuite) TestFetchWeather_DefaultEndpoint() {
	provider := providers.NewYandexWeatherProvider("https://api.weather.yandex.ru/v2/forecast", testAPIKey, 5*time.Second)
	provider.GetHTTPClient().Transport = &mockTransport{serverURL: s.server.URL}

	body, err := provider.FetchWeather(context.Background(), s.query)

	s.Require().NoError(err)
	s.Equal(forecastBody, body)
	requests := s.recorded()
	s.Require().Len(requests, 1)
	s.Equal("/v2/forecast", requests[0].URL.Path)
}

type mockTransport struct {
	serverURL string
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Host == "api.weather.yandex.ru" {
		newURL := *req.URL
		newURL.Scheme = "http"
		newURL.Host = strings.TrimPrefix(m.serverURL, "http://")
		req.URL = &newURL
	}

	return http.DefaultTransport.RoundTrip(req)
}

func TestWeatherProviderTestSuite(t *testing.T) {
	suite.Run(t, new(WeatherProviderTestSuite))
}
