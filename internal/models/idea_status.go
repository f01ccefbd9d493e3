package models

import (
	"fmt"
	"strings"
)

// IdeaStatus tracks an idea through the review workflow.
type IdeaStatus string

const (
	StatusDraft       IdeaStatus = "DRAFT"
	StatusSubmitted   IdeaStatus = "SUBMITTED"
	StatusReviewing   IdeaStatus = "REVIEWING"
	StatusAccepted    IdeaStatus = "ACCEPTED"
	StatusImplemented IdeaStatus = "IMPLEMENTED"
)

// IdeaStatuses enumerates the workflow states in forward order.
func IdeaStatuses() []IdeaStatus {
	return []IdeaStatus{StatusDraft, StatusSubmitted, StatusReviewing, StatusAccepted, StatusImplemented}
}

// ParseIdeaStatus converts a raw string into an IdeaStatus, rejecting unknown values.
func ParseIdeaStatus(value string) (IdeaStatus, error) {
	candidate := IdeaStatus(strings.ToUpper(strings.TrimSpace(value)))
	for _, status := range IdeaStatuses() {
		if candidate == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown idea status %q", value)
}

// Valid reports whether the status is one of the recognised values.
func (s IdeaStatus) Valid() bool {
	_, err := ParseIdeaStatus(string(s))
	return err == nil
}

func (s IdeaStatus) String() string {
	return string(s)
}
