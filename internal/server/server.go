// Package server provides the HTTP REST API for the resume tailoring agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/jobs"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/types"
)

// ContentStore is the slice of the database the content handlers need.
// *db.DB implements it.
type ContentStore interface {
	SaveSourceRecord(ctx context.Context, ownerID uuid.UUID, name string, record types.CanonicalRecord) (uuid.UUID, error)
	FetchRecords(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]types.SourceRecord, error)
	ListSourceRecords(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.SourceRecord, error)
	DeleteSourceRecord(ctx context.Context, ownerID, id uuid.UUID) error
	SaveTargetPosting(ctx context.Context, ownerID uuid.UUID, posting types.TargetPosting) (uuid.UUID, error)
	FetchTargetPosting(ctx context.Context, ownerID, id uuid.UUID) (types.TargetPosting, error)
	ListTargetPostings(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.StoredPosting, error)
	DeleteTargetPosting(ctx context.Context, ownerID, id uuid.UUID) error
	GetArtifact(ctx context.Context, ownerID, id uuid.UUID) (types.TailoredArtifact, error)
	ListArtifacts(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.TailoredArtifact, error)
	MarkArtifactApplied(ctx context.Context, ownerID, id uuid.UUID, appliedAt time.Time) error
}

// ResumeParser turns raw resume text into a canonical record.
type ResumeParser interface {
	Parse(ctx context.Context, resumeText string) (types.CanonicalRecord, error)
}

// AdParser turns normalized job ad text into a structured posting.
type AdParser interface {
	Parse(ctx context.Context, adText string) (types.TargetPosting, error)
}

// AdviceClient generates improvement advice for a tailored record.
type AdviceClient interface {
	Advise(ctx context.Context, record types.CanonicalRecord, posting types.TargetPosting, score types.ScoreResult) (string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	db            *db.DB
	llmClient     llm.Client
	content       ContentStore
	orch          *jobs.Orchestrator
	recordParser  ResumeParser
	postingParser AdParser
	adviser       AdviceClient
	registry      *rendering.TemplateRegistry
	limits        rendering.Limits
	rateLimiter   *ratelimit.Limiter
	jwtService    *JWTService
	userService   *UserService
	authHandler   *AuthHandler
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	Limits      rendering.Limits
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := llm.NewClient(context.Background(), llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	s := &Server{
		db:            database,
		llmClient:     client,
		content:       database,
		orch:          jobs.NewOrchestrator(database, database, llm.NewTailorer(client), llm.NewScorer(client)),
		recordParser:  llm.NewRecordParser(client),
		postingParser: llm.NewPostingParser(client),
		adviser:       llm.NewAdviser(client),
		registry:      rendering.DefaultRegistry(),
		limits:        cfg.Limits,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router with its middleware chain.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	// Everything below requires a bearer token.
	auth := middleware.Auth(s.jwtService.AsTokenValidator())

	mux.Handle("POST /tailoring-jobs", auth(http.HandlerFunc(s.handleSubmitJob)))
	mux.Handle("GET /tailoring-jobs", auth(http.HandlerFunc(s.handleListJobs)))
	mux.Handle("GET /tailoring-jobs/{id}", auth(http.HandlerFunc(s.handleJobStatus)))

	mux.Handle("POST /source-records", auth(http.HandlerFunc(s.handleCreateSourceRecord)))
	mux.Handle("GET /source-records", auth(http.HandlerFunc(s.handleListSourceRecords)))
	mux.Handle("GET /source-records/{id}", auth(http.HandlerFunc(s.handleGetSourceRecord)))
	mux.Handle("DELETE /source-records/{id}", auth(http.HandlerFunc(s.handleDeleteSourceRecord)))

	mux.Handle("POST /job-postings", auth(http.HandlerFunc(s.handleCreateJobPosting)))
	mux.Handle("GET /job-postings", auth(http.HandlerFunc(s.handleListJobPostings)))
	mux.Handle("GET /job-postings/{id}", auth(http.HandlerFunc(s.handleGetJobPosting)))
	mux.Handle("DELETE /job-postings/{id}", auth(http.HandlerFunc(s.handleDeleteJobPosting)))

	mux.Handle("GET /artifacts", auth(http.HandlerFunc(s.handleListArtifacts)))
	mux.Handle("GET /artifacts/{id}", auth(http.HandlerFunc(s.handleGetArtifact)))
	mux.Handle("GET /artifacts/{id}/resume.tex", auth(http.HandlerFunc(s.handleArtifactResumeTex)))
	mux.Handle("GET /artifacts/{id}/advice", auth(http.HandlerFunc(s.handleArtifactAdvice)))
	mux.Handle("POST /artifacts/{id}/apply", auth(http.HandlerFunc(s.handleApplyArtifact)))

	mux.HandleFunc("GET /templates", s.handleListTemplates)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request.
// RemoteAddr is "IP:port"; the IP alone identifies the client.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// ownerID extracts the authenticated owner from the request context. The
// auth middleware guarantees it is present on protected routes.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, err := middleware.GetOwnerID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return ownerID, true
}

// limitParam reads the optional ?limit= query parameter.
func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := parsePositiveInt(raw)
	if err != nil {
		return fallback
	}
	return limit
}

func parsePositiveInt(raw string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("not positive: %d", n)
	}
	return n, nil
}
