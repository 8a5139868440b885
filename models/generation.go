package models

import (
	"github.com/shopspring/decimal"
)

// Tone is a fixed style profile selecting which prompt template a generation
// handler uses.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneTechnical    Tone = "technical"
	ToneEnthusiastic Tone = "enthusiastic"
)

// DefaultTone is used whenever a requested tone is missing or unrecognized
const DefaultTone = ToneProfessional

// ResolveTone clamps an arbitrary tone value to a supported one. It never
// fails: unknown values fall back to DefaultTone.
func ResolveTone(value string) Tone {
	switch Tone(value) {
	case ToneProfessional, ToneCasual, ToneTechnical, ToneEnthusiastic:
		return Tone(value)
	default:
		return DefaultTone
	}
}

// GenerationStatus tags the outcome of one generation run
type GenerationStatus string

const (
	GenerationStatusCompleted   GenerationStatus = "completed"
	GenerationStatusFailed      GenerationStatus = "generation_failed"
	GenerationStatusRateLimited GenerationStatus = "rate_limited"
	GenerationStatusUnsupported GenerationStatus = "unsupported_output_type"
)

// GenerationResult is the tagged outcome of one trigger execution. Callers
// branch on Status to decide logging and notification; it is never an error.
type GenerationResult struct {
	Status            GenerationStatus `json:"status"`
	PostID            string           `json:"post_id,omitempty"`
	Title             string           `json:"title,omitempty"`
	Reason            string           `json:"reason,omitempty"`
	RetryAfterSeconds int              `json:"retry_after_seconds,omitempty"`
	Cost              decimal.Decimal  `json:"cost"`
}

// Succeeded reports whether the run produced a content artifact
func (r *GenerationResult) Succeeded() bool {
	return r.Status == GenerationStatusCompleted
}

// GenerationRequest carries everything a generation handler needs for one run
type GenerationRequest struct {
	OrgID         OrgID
	TriggerID     string
	OutputType    OutputType
	Tone          string
	LookbackDays  int
	Integrations  []*Integration
	Repositories  []*Repository
	TriggerName   string
	ManualRequest bool
}
