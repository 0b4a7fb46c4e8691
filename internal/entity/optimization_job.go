package entity

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an optimization job.
// It only moves forward: PENDING -> PROCESSING -> {COMPLETED | FAILED}.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// OptimizationJob is one resume/job-description pair tracked through the
// optimization pipeline. Result fields stay empty until processing sets them;
// ErrorMessage is populated only on FAILED.
type OptimizationJob struct {
	ID                    uuid.UUID `json:"id"`
	ResumeText            string    `json:"resume_text"`
	JobDescription        string    `json:"job_description"`
	Status                Status    `json:"status"`
	ExtractedKeywords     []string  `json:"extracted_keywords,omitempty"`
	ATSScore              *int      `json:"ats_score,omitempty"`
	OptimizedBulletPoints *string   `json:"optimized_bullet_points,omitempty"`
	TailoredCoverLetter   *string   `json:"tailored_cover_letter,omitempty"`
	ErrorMessage          *string   `json:"error_message,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
