// Package validation sanitizes user input for entities.
//
// Each function returns the sanitized value, or an error wrapping domain ErrInvalidInput.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/kevintatou/sparktest/pkg/domain"
	domerr "github.com/kevintatou/sparktest/pkg/domain/errors"
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
	MaxCommandLength     = 1000
	MaxImageLength       = 255
	MaxCommands          = 100
	MaxLabels            = 50
	MaxLabelLength       = 100
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z0-9\s._-]+$`)
	imagePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+(?:/[a-zA-Z0-9._-]+)*(?::[a-zA-Z0-9._-]+)?$`)
	labelPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

	dangerousInImage = []string{"../", `..\`, "$(", "`", ";", "&", "|", "&&", "||"}

	dangerousInCommand = []string{
		"$(", "`", ";", "&", "|", "&&", "||", ">", "<", ">>", "<<",
		"rm -rf", "dd if=", ":(){ :|:& };:", "chmod -R", "chown -R",
	}

	descriptionEscaper = []struct{ from, to string }{
		{"<", "&lt;"},
		{">", "&gt;"},
		{"&", "&amp;"},
		{`"`, "&quot;"},
		{"'", "&#x27;"},
		{"/", "&#x2F;"},
	}
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domerr.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Name checks the name and returns it trimmed.
func Name(n string) (string, error) {
	if n == "" {
		return "", invalid("name cannot be empty")
	}
	if MaxNameLength < len(n) {
		return "", invalid("name too long: %d characters (max %d)", len(n), MaxNameLength)
	}
	if !namePattern.MatchString(n) {
		return "", invalid(
			"name contains invalid characters. " +
				"Only alphanumeric characters, spaces, hyphens, underscores, and periods are allowed",
		)
	}

	trimmed := strings.TrimSpace(n)
	if trimmed == "" {
		return "", invalid("name cannot be empty after trimming")
	}
	return trimmed, nil
}

// Description escapes HTML-ish characters in d.
//
// Ampersands are escaped after angle brackets, so "<" turns into "&amp;lt;".
// Stored descriptions have been escaped this way, so do not "fix" the order.
func Description(d string) (string, error) {
	if MaxDescriptionLength < len(d) {
		return "", invalid("description too long: %d characters (max %d)", len(d), MaxDescriptionLength)
	}
	for _, e := range descriptionEscaper {
		d = strings.ReplaceAll(d, e.from, e.to)
	}
	return strings.TrimSpace(d), nil
}

// OptionalDescription is Description for nullable descriptions.
func OptionalDescription(d *string) (*string, error) {
	if d == nil {
		return nil, nil
	}
	s, err := Description(*d)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Image checks that image is a reference of container image without shell tricks.
func Image(image string) (string, error) {
	if image == "" {
		return "", invalid("docker image cannot be empty")
	}
	if MaxImageLength < len(image) {
		return "", invalid("docker image name too long: %d characters (max %d)", len(image), MaxImageLength)
	}
	if !imagePattern.MatchString(image) {
		return "", invalid("invalid docker image format. Must be in format: [registry/]namespace/repository[:tag]")
	}
	for _, p := range dangerousInImage {
		if strings.Contains(image, p) {
			return "", invalid("docker image contains potentially dangerous characters")
		}
	}
	if _, err := name.NewTag(image, name.WithDefaultRegistry("")); err != nil {
		return "", invalid("invalid docker image reference: %s", err)
	}
	return strings.TrimSpace(image), nil
}

// Commands trims each command and drops empty ones.
//
// Commands with shell meta characters or destructive idioms are rejected.
func Commands(commands []string) ([]string, error) {
	if len(commands) == 0 {
		return nil, invalid("commands cannot be empty")
	}
	if MaxCommands < len(commands) {
		return nil, invalid("too many commands (max %d)", MaxCommands)
	}

	sanitized := make([]string, 0, len(commands))
	for _, c := range commands {
		if MaxCommandLength < len(c) {
			return nil, invalid("command too long: %d characters (max %d)", len(c), MaxCommandLength)
		}
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		for _, p := range dangerousInCommand {
			if strings.Contains(trimmed, p) {
				return nil, invalid("command contains potentially dangerous pattern: %s", p)
			}
		}
		sanitized = append(sanitized, trimmed)
	}

	if len(sanitized) == 0 {
		return nil, invalid("no valid commands found after sanitization")
	}
	return sanitized, nil
}

// Labels lowercases labels and removes duplicates, keeping the first-seen order.
func Labels(labels []string) ([]string, error) {
	if MaxLabels < len(labels) {
		return nil, invalid("too many labels (max %d)", MaxLabels)
	}

	seen := map[string]struct{}{}
	sanitized := make([]string, 0, len(labels))
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if MaxLabelLength < len(l) {
			return nil, invalid("label too long: %d characters (max %d)", len(l), MaxLabelLength)
		}
		if !labelPattern.MatchString(l) {
			return nil, invalid(
				"label contains invalid characters. " +
					"Only alphanumeric characters, hyphens, underscores, and periods are allowed",
			)
		}
		lower := strings.ToLower(l)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		sanitized = append(sanitized, lower)
	}
	return sanitized, nil
}

// ExecutionMode accepts "sequential" or "parallel", case-insensitively.
func ExecutionMode(mode string) (domain.ExecutionMode, error) {
	m, err := domain.AsExecutionMode(mode)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domerr.ErrInvalidInput, err)
	}
	return m, nil
}
