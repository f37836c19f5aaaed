package forecast

import "errors"

var ErrInvalidDayLimit = errors.New("day limit must be positive")

// CurrentTemperature reads fact.temp, or 0 when the path is absent.
func CurrentTemperature(root Node) int {
	return root.Get("fact", "temp").Int()
}

// AverageTemperature sums parts.day.temp_avg over every entry of forecasts and
// divides by days, not by the number of entries. The request asks the API for
// exactly days entries, so the two agree unless the API truncates its answer.
func AverageTemperature(root Node, days int) (float64, error) {
	if days <= 0 {
		return 0, ErrInvalidDayLimit
	}

	var sum float64
	for _, entry := range root.Get("forecasts").Items() {
		sum += entry.Get("parts", "day", "temp_avg").Float()
	}

	return sum / float64(days), nil
}
