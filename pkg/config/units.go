package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support extended units (d, w) in YAML/JSON.
type Duration time.Duration

// Common durations.
const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// ParseDuration parses a duration string, supporting d and w.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	// Standard time.ParseDuration doesn't know 'd' or 'w'.
	if strings.ContainsAny(s, "dw") {
		return parseExtendedDuration(s)
	}

	return time.ParseDuration(s)
}

var unitMap = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"µs": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  Day,
	"w":  Week,
}

func parseExtendedDuration(s string) (time.Duration, error) {
	var total time.Duration

	// Match number + unit pairs so composites like "1d2h" work.
	re := regexp.MustCompile(`([0-9.]+)([a-zµ]+)`)
	matches := re.FindAllStringSubmatch(s, -1)

	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	for _, match := range matches {
		valStr := match[1]
		unitStr := match[2]

		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number in duration: %s", valStr)
		}

		base, ok := unitMap[unitStr]
		if !ok {
			return 0, fmt.Errorf("unknown unit: %s", unitStr)
		}

		total += time.Duration(val * float64(base))
	}

	return total, nil
}
