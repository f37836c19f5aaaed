package main

import (
	"errors"

	"ulascansenturk/yandex-forecast/config"
	"ulascansenturk/yandex-forecast/internal/forecast"
	"ulascansenturk/yandex-forecast/internal/providers"
)

func errorKind(err error) string {
	var (
		confErr      *config.ConfigurationError
		transportErr *providers.TransportError
		parseErr     *forecast.ParseError
	)

	switch {
	case errors.As(err, &confErr):
		return "configuration"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "internal"
	}
}
