package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/types"
)

// CreateSourceRecordRequest uploads a stored resume. Either a parsed record
// or raw resume text must be supplied; raw text goes through the language
// model parser.
type CreateSourceRecordRequest struct {
	Name       string                 `json:"name"`
	Record     *types.CanonicalRecord `json:"record,omitempty"`
	ResumeText string                 `json:"resume_text,omitempty"`
}

// handleCreateSourceRecord stores a resume under the caller's account.
func (s *Server) handleCreateSourceRecord(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var req CreateSourceRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Record == nil && req.ResumeText == "" {
		s.errorResponse(w, http.StatusBadRequest, "Either record or resume_text is required")
		return
	}

	var record types.CanonicalRecord
	if req.Record != nil {
		record = *req.Record
	} else {
		parsed, err := s.recordParser.Parse(r.Context(), req.ResumeText)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Failed to parse resume: "+err.Error())
			return
		}
		record = parsed
	}

	id, err := s.content.SaveSourceRecord(r.Context(), ownerID, req.Name, record)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save record: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.SourceRecord{
		ID:     id,
		Name:   req.Name,
		Record: record,
	})
}

// handleListSourceRecords returns the caller's stored resumes.
func (s *Server) handleListSourceRecords(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	records, err := s.content.ListSourceRecords(r.Context(), ownerID, limitParam(r, 50))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list records: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"source_records": records})
}

// handleGetSourceRecord returns one stored resume.
func (s *Server) handleGetSourceRecord(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid record ID format")
		return
	}

	records, err := s.content.FetchRecords(r.Context(), ownerID, []uuid.UUID{id})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, records[0])
}

// handleDeleteSourceRecord removes one stored resume.
func (s *Server) handleDeleteSourceRecord(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid record ID format")
		return
	}

	if err := s.content.DeleteSourceRecord(r.Context(), ownerID, id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CreateJobPostingRequest ingests a job ad. Content may be plain text or a
// pasted HTML fragment; HTML is stripped before parsing.
type CreateJobPostingRequest struct {
	Content string `json:"content"`
}

// handleCreateJobPosting normalizes, parses, and stores a job ad.
func (s *Server) handleCreateJobPosting(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var req CreateJobPostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Content == "" {
		s.errorResponse(w, http.StatusBadRequest, "content is required")
		return
	}

	text, err := ingestion.Normalize(req.Content)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to normalize content: "+err.Error())
		return
	}

	posting, err := s.postingParser.Parse(r.Context(), text)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to parse job ad: "+err.Error())
		return
	}

	id, err := s.content.SaveTargetPosting(r.Context(), ownerID, posting)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save posting: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.StoredPosting{ID: id, Posting: posting})
}

// handleGetJobPosting returns one stored posting.
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid posting ID format")
		return
	}

	posting, err := s.content.FetchTargetPosting(r.Context(), ownerID, id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.StoredPosting{ID: id, Posting: posting})
}

// handleListJobPostings returns the caller's stored postings.
func (s *Server) handleListJobPostings(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	postings, err := s.content.ListTargetPostings(r.Context(), ownerID, limitParam(r, 50))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list postings: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"job_postings": postings})
}

// handleDeleteJobPosting removes one stored posting. Jobs already completed
// against it keep their artifact's posting snapshot.
func (s *Server) handleDeleteJobPosting(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid posting ID format")
		return
	}

	if err := s.content.DeleteTargetPosting(r.Context(), ownerID, id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
