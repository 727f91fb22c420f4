package jobs

import (
	"encoding/json"
	"time"
)

// JobStatus mirrors the scheduler states the backend writes.
type JobStatus string

const (
	StatusPending   JobStatus = "PENDING"
	StatusQueued    JobStatus = "QUEUED"
	StatusRunning   JobStatus = "RUNNING"
	StatusCompleted JobStatus = "COMPLETED"
	StatusFailed    JobStatus = "FAILED"
)

// Terminal reports whether a job is already claimed or finished, so a
// redelivered message must not run it again.
func (s JobStatus) Terminal() bool {
	return s == StatusRunning || s == StatusCompleted || s == StatusFailed
}

// Project carries the floorplan the backend saved for it. The backend owns
// the rest of the project columns; the worker only ever reads the floorplan.
type Project struct {
	ID        string          `gorm:"primaryKey;size:36"`
	Floorplan json.RawMessage `gorm:"type:json"`
	CreatedAt time.Time
}

func (Project) TableName() string { return "projects" }

// SimulationJob is one queued simulation request. ProjectID is not a
// foreign key; the backend manages referential integrity.
type SimulationJob struct {
	ID        string          `gorm:"primaryKey;size:36"`
	ProjectID string          `gorm:"size:36;index"`
	Status    JobStatus       `gorm:"size:16"`
	Config    json.RawMessage `gorm:"type:json"`

	ErrorMessage string `gorm:"type:text"`

	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func (SimulationJob) TableName() string { return "simulation_jobs" }

// SimulationResult is the single row produced by a completed run. The
// series, breakdown, and insights are stored as the JSON the API serves.
type SimulationResult struct {
	ID    string `gorm:"primaryKey;size:36"`
	JobID string `gorm:"size:36;index"`

	TimeSeries        json.RawMessage `gorm:"type:json"`
	TotalEnergyKWh    float64
	HeatLossBreakdown json.RawMessage `gorm:"type:json"`
	Insights          json.RawMessage `gorm:"type:json"`

	CreatedAt time.Time
}

func (SimulationResult) TableName() string { return "simulation_results" }
