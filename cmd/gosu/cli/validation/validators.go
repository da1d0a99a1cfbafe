// Package validation provides input validation functions for the gosu CLI.
// This package has no dependencies to avoid import cycles.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// sessionUUIDRegex matches the UUID session ids Claude Code hands to hooks.
var sessionUUIDRegex = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// taskIDRegex matches hierarchical task ids such as 1, 1.2 and 1.2.3.
var taskIDRegex = regexp.MustCompile(`^\d+(\.\d+)*$`)

// ValidateSessionID validates that a session ID doesn't contain path separators.
// This prevents path traversal attacks when session IDs are used in file paths.
func ValidateSessionID(id string) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("invalid session ID %q: contains path separators", id)
	}
	return nil
}

// IsSessionUUID reports whether id is a UUID. Only UUID session ids are ever
// joined into hook file names.
func IsSessionUUID(id string) bool {
	return sessionUUIDRegex.MatchString(id)
}

// ValidateTaskID validates the dotted numeric task id format.
func ValidateTaskID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("task ID is required")
	}
	if !taskIDRegex.MatchString(strings.TrimSpace(id)) {
		return fmt.Errorf("invalid task ID format: '%s'. Expected format: digits with optional dots (e.g., '1', '1.2', '1.2.3')", id)
	}
	return nil
}

// ValidateTaskIDs validates every id in ids. An empty list is an error.
func ValidateTaskIDs(ids []string) error {
	if len(ids) == 0 {
		return errors.New("no task IDs provided")
	}
	for _, id := range ids {
		if err := ValidateTaskID(id); err != nil {
			return err
		}
	}
	return nil
}

// ParseDuration parses the tracking-condition duration syntax: an integer with
// an optional h, m or s suffix. A bare integer is seconds.
func ParseDuration(s string) (time.Duration, error) {
	trimmed := strings.TrimSpace(s)

	unit := time.Second
	digits := trimmed
	switch {
	case strings.HasSuffix(trimmed, "h"):
		unit, digits = time.Hour, strings.TrimSuffix(trimmed, "h")
	case strings.HasSuffix(trimmed, "m"):
		unit, digits = time.Minute, strings.TrimSuffix(trimmed, "m")
	case strings.HasSuffix(trimmed, "s"):
		digits = strings.TrimSuffix(trimmed, "s")
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: '%s'. Expected format: '1h', '30m', '45s' or plain number", trimmed)
	}
	return time.Duration(n) * unit, nil
}
