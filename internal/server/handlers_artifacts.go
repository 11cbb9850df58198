package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/types"
)

// handleListArtifacts returns the caller's tailored artifacts, newest first.
func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	artifacts, err := s.content.ListArtifacts(r.Context(), ownerID, limitParam(r, 50))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list artifacts: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"artifacts": artifacts})
}

// handleGetArtifact returns one tailored artifact with score and provenance.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	artifact, ok := s.artifactFromPath(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, artifact)
}

// handleArtifactResumeTex renders an artifact as a LaTeX document. The
// optional ?template= parameter selects a preset; the default preset is
// used when absent.
func (s *Server) handleArtifactResumeTex(w http.ResponseWriter, r *http.Request) {
	artifact, ok := s.artifactFromPath(w, r)
	if !ok {
		return
	}

	preset, err := s.registry.Get(r.URL.Query().Get("template"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tex, err := rendering.RenderTex(artifact, preset, s.limits)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/x-tex")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.tex"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(tex)); err != nil {
		// Response already started, nothing to do.
		return
	}
}

// handleArtifactAdvice generates improvement advice for an artifact's
// tailored record against its posting, informed by the stored fit score.
func (s *Server) handleArtifactAdvice(w http.ResponseWriter, r *http.Request) {
	artifact, ok := s.artifactFromPath(w, r)
	if !ok {
		return
	}

	advice, err := s.adviser.Advise(r.Context(), artifact.TailoredRecord, artifact.JobAd, artifact.Score)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate advice: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"advice": advice})
}

// handleApplyArtifact marks an artifact as applied-to.
func (s *Server) handleApplyArtifact(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid artifact ID format")
		return
	}

	appliedAt := time.Now().UTC()
	if err := s.content.MarkArtifactApplied(r.Context(), ownerID, id, appliedAt); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":     "applied",
		"applied_at": appliedAt.Format(time.RFC3339),
	})
}

// TemplateInfo describes one rendering preset for API listing.
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleListTemplates returns the available rendering presets.
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	presets := s.registry.List()
	infos := make([]TemplateInfo, 0, len(presets))
	for _, p := range presets {
		infos = append(infos, TemplateInfo{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": infos})
}

// artifactFromPath resolves the {id} path segment to the caller's artifact.
// It writes the error response itself when resolution fails.
func (s *Server) artifactFromPath(w http.ResponseWriter, r *http.Request) (types.TailoredArtifact, bool) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return types.TailoredArtifact{}, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid artifact ID format")
		return types.TailoredArtifact{}, false
	}

	artifact, err := s.content.GetArtifact(r.Context(), ownerID, id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return types.TailoredArtifact{}, false
	}

	return artifact, true
}
