// Package models defines data structures for the styleforge pipeline.
package models

import "time"

// TaskKind identifies the type of asynchronous work a task performs.
type TaskKind string

const (
	TaskKindAnalysis   TaskKind = "analysis"
	TaskKindGeneration TaskKind = "generation"
	TaskKindRefinement TaskKind = "refinement"
)

// TaskState is the lifecycle state of a task.
// Transitions are monotonic: pending -> running -> completed | failed.
type TaskState string

const (
	TaskStatePending   TaskState = "pending"
	TaskStateRunning   TaskState = "running"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s TaskState) Terminal() bool {
	return s == TaskStateCompleted || s == TaskStateFailed
}

// TaskError is the structured error payload carried by a failed task.
type TaskError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// TaskRecord is the persisted form of a task, written best-effort so that
// task history survives restarts. The in-memory registry is authoritative.
type TaskRecord struct {
	ID        string     `json:"id"`
	Kind      TaskKind   `json:"kind"`
	State     TaskState  `json:"state"`
	ResultRef *string    `json:"result_ref,omitempty"`
	Error     *TaskError `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
