package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsePriority validates a priority argument and returns its letter.
// Lowercase letters are accepted; "" and "-" clear the priority.
func ParsePriority(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	s = strings.Trim(s, "()")
	if len(s) != 1 {
		return 0, ErrInvalidPriority(s)
	}
	p := rune(strings.ToUpper(s)[0])
	if p < 'A' || p > 'Z' {
		return 0, ErrInvalidPriority(s)
	}
	return p, nil
}

// ValidateLowestPriority checks the lowest_priority setting.
func ValidateLowestPriority(s string) error {
	p, err := ParsePriority(s)
	if err != nil {
		return err
	}
	if p == 0 {
		return ErrInvalidPriority(s)
	}
	return nil
}

// relativePattern matches relative date formats like +7d, -3d, +2w, +1m
var relativePattern = regexp.MustCompile(`^([+-])(\d+)([dwm])$`)

// parseRelativeDate parses "today", "tomorrow", "yesterday", "+7d", "-3d",
// "+2w" and "+1m". It returns nil, nil when the string is not relative.
func parseRelativeDate(dateStr string) (*time.Time, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	lower := strings.ToLower(dateStr)

	switch lower {
	case "today":
		return &today, nil
	case "tomorrow":
		t := today.AddDate(0, 0, 1)
		return &t, nil
	case "yesterday":
		t := today.AddDate(0, 0, -1)
		return &t, nil
	}

	matches := relativePattern.FindStringSubmatch(lower)
	if matches == nil {
		return nil, nil
	}

	num, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, ErrInvalidDate(dateStr)
	}
	if matches[1] == "-" {
		num = -num
	}

	var result time.Time
	switch matches[3] {
	case "d":
		result = today.AddDate(0, 0, num)
	case "w":
		result = today.AddDate(0, 0, num*7)
	case "m":
		result = today.AddDate(0, num, 0)
	}

	return &result, nil
}

// ParseDateFlag parses a date string supporting both relative and absolute
// (YYYY-MM-DD) formats. Returns nil, nil for an empty string.
func ParseDateFlag(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	t, err := parseRelativeDate(dateStr)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return t, nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, ErrInvalidDate(dateStr)
	}

	return &parsed, nil
}
