package domain

import (
	"context"
	"time"
)

// EventType defines the category of a build event.
type EventType string

const (
	EventStageStart  EventType = "stage_start"
	EventStageFinish EventType = "stage_finish"
	EventBooleanOp   EventType = "boolean_op"
	EventWarning     EventType = "warning"
)

// Stage names the steps of the construction pipeline.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageAssemble  Stage = "assemble"
	StageComposite Stage = "composite"
	StageRound     Stage = "round"
	StageExport    Stage = "export"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Model     string    `json:"model"`
}

// StageEvent marks the start or end of a pipeline stage.
type StageEvent struct {
	EventBase
	Stage    Stage         `json:"stage"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// BooleanEvent records one union or subtraction handed to the kernel.
type BooleanEvent struct {
	EventBase
	Op       string        `json:"op"`
	Operands int           `json:"operands"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// WarningEvent records a recoverable problem that did not stop the build.
type WarningEvent struct {
	EventBase
	Err error `json:"-"`
}

// LifecycleHooks defines callbacks for build observability.
// Nil fields are skipped.
type LifecycleHooks struct {
	OnStageStart  func(context.Context, *StageEvent)
	OnStageFinish func(context.Context, *StageEvent)
	OnBooleanOp   func(context.Context, *BooleanEvent)
	OnWarning     func(context.Context, *WarningEvent)
}
