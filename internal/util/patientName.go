package util

import (
	"regexp"
	"strings"

	"intake-connector/internal/domain/entities"
)

const UnknownPatient = "Unknown Patient"

// Introduction patterns prospects commonly use in the first turns.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is (\w+)`),
	regexp.MustCompile(`(?i)\bi'm (\w+)`),
	regexp.MustCompile(`(?i)this is (\w+)`),
	regexp.MustCompile(`(?i)call me (\w+)`),
}

// ExtractPatientName scans the user turns of a transcript for a name
// introduction and returns it capitalized, or "Unknown Patient".
func ExtractPatientName(transcript []entities.TranscriptMessage) string {
	for _, msg := range transcript {
		if msg.Role != entities.RoleUser {
			continue
		}
		for _, pattern := range namePatterns {
			if match := pattern.FindStringSubmatch(msg.Content); match != nil {
				return capitalize(match[1])
			}
		}
	}
	return UnknownPatient
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}
