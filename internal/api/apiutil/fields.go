package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

// IDFromPath parses a positive integer path value such as {id}.
func IDFromPath(r *http.Request, name string) (int64, error) {
	return ParsePositiveInt64Field(r.PathValue(name), name)
}

// NameFromPath returns a required, trimmed path value such as {name}.
func NameFromPath(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(r.PathValue(name))
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}

// ParseDateRange parses an inclusive YYYY-MM-DD range and rejects end before start.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	startDay, err := time.Parse(time.DateOnly, strings.TrimSpace(start))
	if err != nil {
		return time.Time{}, time.Time{}, FieldError{Field: "start_date", Reason: "must be a valid YYYY-MM-DD date"}
	}
	endDay, err := time.Parse(time.DateOnly, strings.TrimSpace(end))
	if err != nil {
		return time.Time{}, time.Time{}, FieldError{Field: "end_date", Reason: "must be a valid YYYY-MM-DD date"}
	}
	if endDay.Before(startDay) {
		return time.Time{}, time.Time{}, FieldError{Field: "end_date", Reason: "must not be before start_date"}
	}
	return startDay, endDay, nil
}
