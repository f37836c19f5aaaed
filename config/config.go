package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyAPIKey      = "yandex.weather.api.key"
	KeyLatitude    = "yandex.weather.api.latitude"
	KeyLongitude   = "yandex.weather.api.longitude"
	KeyDayLimit    = "yandex.weather.api.limit"
	KeyBaseURL     = "yandex.weather.api.url"
	KeyServiceName = "service.name"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
	KeyHTTPTimeout = "http.timeout"

	DefaultBaseURL = "https://api.weather.yandex.ru/v2/forecast"
)

var (
	ErrMissingValue = errors.New("value is required")
	ErrOutOfRange   = errors.New("value is out of range")
)

// ConfigurationError reports a missing, unreadable or malformed setting.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

type Config struct {
	ServiceName string
	LogLevel    string
	LogFormat   string
	HTTPTimeout int32

	BaseURL   string
	APIKey    string
	Latitude  float64
	Longitude float64
	DayLimit  int
}

// LoadConfig resolves settings from flags, environment, an application.properties
// file and defaults, in that order of precedence.
func LoadConfig(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("forecast", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to a properties file (default: ./application.properties)")
	fs.String("api-key", "", "Yandex Weather API key")
	fs.String("lat", "", "latitude of the forecast point")
	fs.String("lon", "", "longitude of the forecast point")
	fs.String("limit", "", "number of forecast days")
	fs.String("base-url", "", "forecast endpoint")
	fs.String("log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	v := viper.New()

	v.SetDefault(KeyServiceName, "yandex-forecast")
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyHTTPTimeout, 30)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		KeyAPIKey:    "api-key",
		KeyLatitude:  "lat",
		KeyLongitude: "lon",
		KeyDayLimit:  "limit",
		KeyBaseURL:   "base-url",
		KeyLogLevel:  "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, &ConfigurationError{Key: key, Err: err}
		}
	}

	v.SetConfigType("properties")
	if *configPath != "" {
		v.SetConfigFile(*configPath)
	} else {
		v.SetConfigName("application")
		v.AddConfigPath(".")
		v.AddConfigPath("./resources")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if *configPath == "" && errors.As(err, &notFound) {
			log.Warn().Msg("No application.properties found, using environment variables and flags only")
		} else {
			return nil, &ConfigurationError{Err: fmt.Errorf("error reading config file: %w", err)}
		}
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	apiKey := strings.TrimSpace(v.GetString(KeyAPIKey))
	if apiKey == "" {
		return nil, &ConfigurationError{Key: KeyAPIKey, Err: ErrMissingValue}
	}

	latitude, err := getFloat(v, KeyLatitude, 90)
	if err != nil {
		return nil, err
	}

	longitude, err := getFloat(v, KeyLongitude, 180)
	if err != nil {
		return nil, err
	}

	dayLimit, err := getInt(v, KeyDayLimit)
	if err != nil {
		return nil, err
	}
	if dayLimit <= 0 {
		return nil, &ConfigurationError{Key: KeyDayLimit, Err: fmt.Errorf("%w: must be positive, got %d", ErrOutOfRange, dayLimit)}
	}

	baseURL := strings.TrimSpace(v.GetString(KeyBaseURL))
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, &ConfigurationError{Key: KeyBaseURL, Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &ConfigurationError{Key: KeyBaseURL, Err: fmt.Errorf("unsupported url %q", baseURL)}
	}

	logFormat := strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat)))
	if logFormat != "json" && logFormat != "console" {
		return nil, &ConfigurationError{Key: KeyLogFormat, Err: fmt.Errorf("unsupported format %q, want json or console", logFormat)}
	}

	timeout, err := getInt(v, KeyHTTPTimeout)
	if err != nil {
		return nil, err
	}
	if timeout < 0 || timeout > math.MaxInt32 {
		return nil, &ConfigurationError{Key: KeyHTTPTimeout, Err: fmt.Errorf("%w: %d seconds", ErrOutOfRange, timeout)}
	}

	return &Config{
		ServiceName: v.GetString(KeyServiceName),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   logFormat,
		HTTPTimeout: int32(timeout),
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Latitude:    latitude,
		Longitude:   longitude,
		DayLimit:    dayLimit,
	}, nil
}

// viper's typed getters swallow parse failures, so numbers are read as strings.
func getFloat(v *viper.Viper, key string, limit float64) (float64, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, &ConfigurationError{Key: key, Err: ErrMissingValue}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Err: fmt.Errorf("not a decimal number: %q", raw)}
	}
	if f < -limit || f > limit {
		return 0, &ConfigurationError{Key: key, Err: fmt.Errorf("%w: %v not within ±%v", ErrOutOfRange, f, limit)}
	}

	return f, nil
}

func getInt(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, &ConfigurationError{Key: key, Err: ErrMissingValue}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Err: fmt.Errorf("not an integer: %q", raw)}
	}

	return n, nil
}

func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}
