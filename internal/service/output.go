package service

import (
	"fmt"
	"io"
)

func printRaw(w io.Writer, raw string) error {
	if _, err := fmt.Fprintf(w, "Full JSON response from the service:\n%s\n", raw); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func printCurrent(w io.Writer, temp int) error {
	if _, err := fmt.Fprintf(w, "Current temperature: %d°C\n", temp); err != nil {
		return fmt.Errorf("failed to write current temperature: %w", err)
	}
	return nil
}

func printAverage(w io.Writer, days int, avg float64) error {
	if _, err := fmt.Fprintf(w, "Average forecast temperature over %d days: %.2f°C\n", days, avg); err != nil {
		return fmt.Errorf("failed to write average temperature: %w", err)
	}
	return nil
}
