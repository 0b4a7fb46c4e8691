package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/entity"
	"github.com/matchiq/matchiq/internal/ingest"
)

type optimizationRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

type submissionResponse struct {
	ID     uuid.UUID     `json:"id"`
	Status entity.Status `json:"status"`
}

type resultResponse struct {
	ID                    uuid.UUID     `json:"id"`
	Status                entity.Status `json:"status"`
	ATSScore              *int          `json:"atsScore,omitempty"`
	ExtractedKeywords     []string      `json:"extractedKeywords,omitempty"`
	OptimizedBulletPoints *string       `json:"optimizedBulletPoints,omitempty"`
	TailoredCoverLetter   *string       `json:"tailoredCoverLetter,omitempty"`
	ErrorMessage          *string       `json:"errorMessage,omitempty"`
}

// handleSubmit accepts plain resume and job-description text.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.ingest.MaxUploadBytes))
	if err != nil {
		s.writeError(w, common.InvalidInputErrorf("read request body"))
		return
	}
	if err := ValidateJSONAgainstSchema(submissionSchema, body); err != nil {
		s.writeError(w, common.WrapError(common.ErrValidation, err.Error()))
		return
	}
	var req optimizationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, common.InvalidInputErrorf("decode request: %v", err))
		return
	}
	s.submit(w, r, req.ResumeText, req.JobDescription)
}

// handleUpload accepts a multipart resume file plus a job posting URL.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	resumeText, ok := s.readResumeUpload(w, r)
	if !ok {
		return
	}
	jobDescription, ok := s.fetchJobDescription(w, r, r.FormValue("jobUrl"))
	if !ok {
		return
	}
	s.submit(w, r, resumeText, jobDescription)
}

// handleUploadResume accepts a multipart resume file plus job-description text.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	resumeText, ok := s.readResumeUpload(w, r)
	if !ok {
		return
	}
	jobDescription := r.FormValue("jobDescription")
	if strings.TrimSpace(jobDescription) == "" {
		s.writeError(w, common.InvalidInputErrorf("jobDescription is required"))
		return
	}
	s.submit(w, r, resumeText, jobDescription)
}

// handleFetchJob accepts resume text plus a job posting URL.
func (s *Server) handleFetchJob(w http.ResponseWriter, r *http.Request) {
	resumeText := r.FormValue("resumeText")
	if strings.TrimSpace(resumeText) == "" {
		s.writeError(w, common.InvalidInputErrorf("resumeText is required"))
		return
	}
	jobDescription, ok := s.fetchJobDescription(w, r, r.FormValue("jobUrl"))
	if !ok {
		return
	}
	s.submit(w, r, resumeText, jobDescription)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, common.InvalidInputErrorf("invalid job id %q", r.PathValue("id")))
		return
	}
	job, err := s.orch.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resultResponse{
		ID:                    job.ID,
		Status:                job.Status,
		ATSScore:              job.ATSScore,
		ExtractedKeywords:     job.ExtractedKeywords,
		OptimizedBulletPoints: job.OptimizedBulletPoints,
		TailoredCoverLetter:   job.TailoredCoverLetter,
		ErrorMessage:          job.ErrorMessage,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.ExportJobsXLSX(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="optimizations.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("export write error", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// submit runs the shared tail of every submission route: persist, schedule,
// answer 202 with the new job's id and status.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, resumeText, jobDescription string) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		s.writeError(w, common.InvalidInputErrorf("resumeText and jobDescription must not be blank"))
		return
	}
	job, err := s.orch.Submit(r.Context(), resumeText, jobDescription)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, submissionResponse{ID: job.ID, Status: job.Status})
}

// readResumeUpload pulls the resumeFile part out of a multipart form and
// extracts its text. On failure it writes the error response and returns
// ok=false.
func (s *Server) readResumeUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseMultipartForm(s.ingest.MaxUploadBytes); err != nil {
		s.writeError(w, common.InvalidInputErrorf("parse multipart form: %v", err))
		return "", false
	}
	file, header, err := r.FormFile("resumeFile")
	if err != nil {
		s.writeError(w, common.InvalidInputErrorf("resumeFile is required"))
		return "", false
	}
	defer file.Close()

	text, err := ingest.ReadResume(header.Filename, file, s.ingest.MaxUploadBytes)
	if err != nil {
		s.writeError(w, err)
		return "", false
	}
	return text, true
}

// fetchJobDescription scrapes the posting at jobUrl. On failure it writes
// the error response and returns ok=false.
func (s *Server) fetchJobDescription(w http.ResponseWriter, r *http.Request, jobURL string) (string, bool) {
	text, err := s.fetcher.FetchJobDescription(r.Context(), jobURL)
	if err != nil {
		s.writeError(w, err)
		return "", false
	}
	return text, true
}
