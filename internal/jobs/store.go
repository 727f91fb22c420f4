package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"thermalsim/internal/simulation"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrNoFloorplan = errors.New("project has no floorplan")
)

// Store is the worker's view of the shared database: fetch work, flip job
// status, persist one result row per completed run.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to the shared MySQL database.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate creates the worker-owned tables. The backend migrates projects
// and jobs too; AutoMigrate is additive so running both is safe.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Project{}, &SimulationJob{}, &SimulationResult{})
}

// Job fetches one job by ID.
func (s *Store) Job(id string) (*SimulationJob, error) {
	var job SimulationJob
	err := s.db.First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch job %s: %w", id, err)
	}
	return &job, nil
}

// ProjectFloorplan returns the raw floorplan JSON for a project, or
// ErrNoFloorplan when the project is missing or has never saved one.
func (s *Store) ProjectFloorplan(projectID string) (json.RawMessage, error) {
	var project Project
	err := s.db.First(&project, "id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoFloorplan
	}
	if err != nil {
		return nil, fmt.Errorf("fetch project %s: %w", projectID, err)
	}
	if len(project.Floorplan) == 0 || string(project.Floorplan) == "null" {
		return nil, ErrNoFloorplan
	}
	return project.Floorplan, nil
}

// MarkRunning stamps the job as picked up.
func (s *Store) MarkRunning(job *SimulationJob) error {
	now := time.Now().UTC()
	job.Status = StatusRunning
	job.StartedAt = &now
	return s.db.Save(job).Error
}

// MarkCompleted stamps the job as done.
func (s *Store) MarkCompleted(job *SimulationJob) error {
	now := time.Now().UTC()
	job.Status = StatusCompleted
	job.CompletedAt = &now
	return s.db.Save(job).Error
}

// MarkFailed records the failure reason and stamps completion.
func (s *Store) MarkFailed(job *SimulationJob, reason string) error {
	now := time.Now().UTC()
	job.Status = StatusFailed
	job.ErrorMessage = reason
	job.CompletedAt = &now
	return s.db.Save(job).Error
}

// SaveResult serializes one run's output into its result row.
func (s *Store) SaveResult(jobID string, res simulation.Result) error {
	series, err := json.Marshal(res.TimeSeries)
	if err != nil {
		return fmt.Errorf("marshal time series: %w", err)
	}
	breakdown, err := json.Marshal(res.HeatLossBreakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	insights, err := json.Marshal(res.Insights)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}

	row := SimulationResult{
		ID:                uuid.NewString(),
		JobID:             jobID,
		TimeSeries:        series,
		TotalEnergyKWh:    res.TotalEnergyKWh,
		HeatLossBreakdown: breakdown,
		Insights:          insights,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("save result for job %s: %w", jobID, err)
	}
	return nil
}

// ResultForJob fetches the stored result row, mainly for tests and tooling.
func (s *Store) ResultForJob(jobID string) (*SimulationResult, error) {
	var row SimulationResult
	if err := s.db.First(&row, "job_id = ?", jobID).Error; err != nil {
		return nil, fmt.Errorf("fetch result for job %s: %w", jobID, err)
	}
	return &row, nil
}
