package validation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"
)

// usernameRegex matches AniList usernames: 2-20 word characters.
var usernameRegex = regexp.MustCompile(`^\w{2,20}$`)

// ValidateUsername checks that a username is a plausible AniList handle.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("invalid username: %s", username)
	}
	return nil
}

// ValidateYear ensures a report year is within a sensible range: no
// earlier than AniList's launch, no later than the current UTC year.
func ValidateYear(year int) error {
	if year < 2006 {
		return fmt.Errorf("year must be 2006 or later")
	}
	if year > time.Now().UTC().Year() {
		return fmt.Errorf("year cannot be in the future")
	}
	return nil
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	}); err != nil {
		slog.Error("Failed to encode error response", slog.Any("error", err))
	}
}
