package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Job represents a single video generation job from submission to delivery.
type Job struct {
	ID          string       `json:"id" db:"id"`
	Topic       string       `json:"topic" db:"topic"`
	Status      string       `json:"status" db:"status"`
	Progress    float64      `json:"progress" db:"progress"`
	Message     string       `json:"message,omitempty" db:"message"`
	ErrorMsg    string       `json:"error_msg,omitempty" db:"error_msg"`
	OutputPath  string       `json:"output_path,omitempty" db:"output_path"`
	WorkerID    string       `json:"worker_id,omitempty" db:"worker_id"`
	StartedAt   *time.Time   `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	Config      RenderConfig `json:"config" db:"config"`
}

// RenderConfig holds the render parameters requested for a job.
type RenderConfig struct {
	Recipe       string  `json:"recipe"`
	Duration     float64 `json:"duration,omitempty"`
	Resolution   string  `json:"resolution,omitempty"`
	FPS          int     `json:"fps,omitempty"`
	OutputFormat string  `json:"output_format,omitempty"`
}

// Value implements driver.Valuer for database storage
func (rc RenderConfig) Value() (driver.Value, error) {
	return json.Marshal(rc)
}

// Scan implements sql.Scanner for database retrieval
func (rc *RenderConfig) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, rc)
}

// JobStatus constants
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)
