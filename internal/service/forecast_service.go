package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"ulascansenturk/yandex-forecast/internal/forecast"
	"ulascansenturk/yandex-forecast/internal/providers"
)

type Report struct {
	Raw                string
	CurrentTemperature int
	AverageTemperature float64
	Days               int
}

type ForecastService interface {
	Run(ctx context.Context) (Report, error)
}

type forecastService struct {
	provider providers.WeatherProvider
	query    providers.ForecastQuery
	out      io.Writer
}

func NewForecastService(provider providers.WeatherProvider, query providers.ForecastQuery, out io.Writer) ForecastService {
	return &forecastService{
		provider: provider,
		query:    query,
		out:      out,
	}
}

// Run fetches the forecast and writes each result as soon as it is known, so a
// body that fails to parse is still printed before the error is returned.
func (s *forecastService) Run(ctx context.Context) (Report, error) {
	report := Report{Days: s.query.Limit}

	raw, err := s.provider.FetchWeather(ctx, s.query)
	if err != nil {
		return report, err
	}
	report.Raw = raw

	if err := printRaw(s.out, raw); err != nil {
		return report, err
	}

	root, err := forecast.Parse(raw)
	if err != nil {
		return report, err
	}

	report.CurrentTemperature = forecast.CurrentTemperature(root)
	if err := printCurrent(s.out, report.CurrentTemperature); err != nil {
		return report, err
	}

	report.AverageTemperature, err = forecast.AverageTemperature(root, s.query.Limit)
	if err != nil {
		return report, fmt.Errorf("averaging forecast: %w", err)
	}
	if err := printAverage(s.out, report.Days, report.AverageTemperature); err != nil {
		return report, err
	}

	log.Debug().
		Int("current_temperature", report.CurrentTemperature).
		Float64("average_temperature", report.AverageTemperature).
		Int("days", report.Days).
		Msg("forecast processed")

	return report, nil
}
