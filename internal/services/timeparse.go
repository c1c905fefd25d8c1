package services

import (
	"strings"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
)

const dateOnly = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	dateOnly,
}

// parseTime accepts RFC3339 and the zone-less forms browsers send from
// date/datetime inputs. Zone-less values are taken as UTC. dateOnlyValue
// reports whether s carried no time of day.
func parseTime(field, s string) (t time.Time, dateOnlyValue bool, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), layout == dateOnly, nil
		}
	}
	return time.Time{}, false, apperr.Validation("%s: invalid date %q", field, s)
}

// optionalTime parses a possibly blank value; blank yields nil.
func optionalTime(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, _, err := parseTime(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
