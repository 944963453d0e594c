package middleware

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Idosegev23/GameChanger/internal/domain/analyses"
)

// Input validation utilities. Identifier validation runs before any store
// access so malformed requests never cost a lookup.

// ValidateAnalysisID checks that the analysis id is a UUID.
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid analysis id format: %s", id)
	}
	return nil
}

// ValidateAnalysisType checks the type against the closed enumeration.
func ValidateAnalysisType(t string) error {
	if !analyses.Type(t).Known() {
		return fmt.Errorf("invalid analysis type: %s (allowed: sales, service, appointment_setting, sales_followup, appointment_followup)", t)
	}
	return nil
}

// ValidateLimit clamps pagination limits.
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
