package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"ulascansenturk/yandex-forecast/config"
	"ulascansenturk/yandex-forecast/internal/providers"
	"ulascansenturk/yandex-forecast/internal/service"
)

func main() {
	log.Logger = newLogger(os.Stderr, "info", "console", "yandex-forecast")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		stop()
		log.Fatal().Err(err).Str("kind", errorKind(err)).Msg("forecast failed")
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	conf, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	log.Logger = newLogger(stderr, conf.LogLevel, conf.LogFormat, conf.ServiceName)

	weatherProvider := providers.NewYandexWeatherProvider(conf.BaseURL, conf.APIKey, conf.HTTPTimeoutDuration())

	forecastService := service.NewForecastService(weatherProvider, providers.ForecastQuery{
		Latitude:  conf.Latitude,
		Longitude: conf.Longitude,
		Limit:     conf.DayLimit,
	}, stdout)

	_, err = forecastService.Run(ctx)
	return err
}

func newLogger(w io.Writer, level, format, serviceName string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}

	return zerolog.New(w).
		Level(logLevel).
		With().
		Str("service_name", serviceName).
		Timestamp().
		Logger()
}
