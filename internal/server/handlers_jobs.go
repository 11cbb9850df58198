package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/types"
)

// SubmitJobResponse is the acknowledgement for an accepted tailoring job.
type SubmitJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// handleSubmitJob accepts a tailoring job and starts it in the background.
// Clients poll GET /tailoring-jobs/{id} for progress.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var req types.SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	// Validate already checked the uuid format, so these parses cannot fail.
	postingID, err := uuid.Parse(req.TargetPostingID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid target_posting_id")
		return
	}

	recordIDs := make([]uuid.UUID, 0, len(req.SourceRecordIDs))
	for _, raw := range req.SourceRecordIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid source record ID: "+raw)
			return
		}
		recordIDs = append(recordIDs, id)
	}

	jobID, err := s.orch.Submit(r.Context(), ownerID, postingID, recordIDs)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusAccepted, SubmitJobResponse{
		JobID:  jobID.String(),
		Status: "accepted",
	})
}

// handleJobStatus returns the current state of one job. Jobs belonging to
// other accounts look absent.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := s.orch.GetStatus(r.Context(), jobID, ownerID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleListJobs returns the caller's jobs, newest first.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	jobList, err := s.orch.ListJobs(r.Context(), ownerID, limitParam(r, 0))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list jobs: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobList})
}
