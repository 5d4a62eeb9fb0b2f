package eisenhower

import (
	"strings"
)

// ValidateSessionName is the pre-check the presentation layer runs before
// CreateSession or RenameSession. It returns the trimmed name. excludeID is
// the session being renamed, or "" for a new session.
func ValidateSessionName(existing []Session, name, excludeID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	for _, s := range existing {
		if s.ID != excludeID && strings.EqualFold(s.Name, name) {
			return "", ErrDuplicateName
		}
	}
	return name, nil
}

func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}
