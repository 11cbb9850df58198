package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/jobs"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/types"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor resumes to a job posting in one shot",
	Long: `Runs the whole tailoring workflow locally without a database: loads one or
more resume JSON files, parses the job ad, merges and tailors the resumes,
scores the result and writes a LaTeX document.`,
	RunE: runTailor,
}

var (
	tailorConfigPath string
	tailorResumes    []string
	tailorJobPath    string
	tailorTemplate   string
	tailorOutput     string
	tailorAPIKey     string
	tailorVerbose    bool
)

func init() {
	tailorCmd.Flags().StringVar(&tailorConfigPath, "config", "", "Path to config.json file")
	tailorCmd.Flags().StringArrayVarP(&tailorResumes, "resume", "r", nil, "Path to a resume JSON file (repeatable)")
	tailorCmd.Flags().StringVarP(&tailorJobPath, "job", "j", "", "Path to the job ad file (text or HTML)")
	tailorCmd.Flags().StringVarP(&tailorTemplate, "template", "t", "", "Template preset id (classic, modern, creative)")
	tailorCmd.Flags().StringVarP(&tailorOutput, "output", "o", "resume.tex", "Output path for the rendered LaTeX document")
	tailorCmd.Flags().StringVar(&tailorAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	tailorCmd.Flags().BoolVarP(&tailorVerbose, "verbose", "v", false, "Print progress information")

	rootCmd.AddCommand(tailorCmd)
}

// localRepo keeps the one-shot run's inputs and output in memory, standing
// in for the database-backed repository.
type localRepo struct {
	ownerID  uuid.UUID
	records  map[uuid.UUID]types.SourceRecord
	posting  types.TargetPosting
	postID   uuid.UUID
	artifact *types.TailoredArtifact
}

func (r *localRepo) FetchRecords(_ context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]types.SourceRecord, error) {
	out := make([]types.SourceRecord, 0, len(ids))
	for _, id := range ids {
		rec, ok := r.records[id]
		if !ok || ownerID != r.ownerID {
			return nil, &jobs.ErrNotFound{Kind: "record", ID: id.String()}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *localRepo) FetchTargetPosting(_ context.Context, ownerID, id uuid.UUID) (types.TargetPosting, error) {
	if id != r.postID || ownerID != r.ownerID {
		return types.TargetPosting{}, &jobs.ErrNotFound{Kind: "posting", ID: id.String()}
	}
	return r.posting, nil
}

func (r *localRepo) SaveArtifact(_ context.Context, artifact types.TailoredArtifact) (string, error) {
	r.artifact = &artifact
	return artifact.ID.String(), nil
}

func runTailor(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if tailorConfigPath != "" {
		loaded, err := config.LoadConfig(tailorConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = *loaded
	}

	if !cmd.Flags().Changed("template") && cfg.Template != "" {
		tailorTemplate = cfg.Template
	}

	if len(tailorResumes) == 0 {
		return fmt.Errorf("at least one --resume file is required")
	}
	if tailorJobPath == "" {
		return fmt.Errorf("--job is required")
	}

	apiKey := tailorAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required: pass --api-key or set GEMINI_API_KEY")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	repo := &localRepo{
		ownerID: uuid.New(),
		records: make(map[uuid.UUID]types.SourceRecord),
	}

	recordIDs := make([]uuid.UUID, 0, len(tailorResumes))
	for _, path := range tailorResumes {
		rec, err := loadResumeFile(path)
		if err != nil {
			return err
		}
		repo.records[rec.ID] = rec
		recordIDs = append(recordIDs, rec.ID)
		if tailorVerbose {
			fmt.Printf("Loaded resume %q from %s\n", rec.Name, path)
		}
	}

	posting, err := loadJobFile(ctx, client, tailorJobPath)
	if err != nil {
		return err
	}
	repo.posting = posting
	repo.postID = uuid.New()
	if tailorVerbose {
		fmt.Printf("Parsed job ad: %s at %s\n", posting.JobTitle, posting.Company)
	}

	orch := jobs.NewOrchestrator(jobs.NewMemoryStore(), repo, llm.NewTailorer(client), llm.NewScorer(client))
	jobID, err := orch.Submit(ctx, repo.ownerID, repo.postID, recordIDs)
	if err != nil {
		return fmt.Errorf("failed to start tailoring: %w", err)
	}
	orch.Wait(jobID)

	job, err := orch.GetStatus(ctx, jobID, repo.ownerID)
	if err != nil {
		return fmt.Errorf("failed to read job status: %w", err)
	}
	if job.Status != types.JobStatusCompleted {
		return fmt.Errorf("tailoring failed at %d%%: %s", job.Progress, job.Error)
	}
	if repo.artifact == nil {
		return fmt.Errorf("tailoring completed but produced no artifact")
	}

	registry := rendering.DefaultRegistry()
	preset, err := registry.Get(tailorTemplate)
	if err != nil {
		return err
	}

	limits := rendering.Limits{
		MaxBullets:         cfg.MaxBullets,
		MaxBulletLength:    cfg.MaxBulletLength,
		MaxSummaryLength:   cfg.MaxSummaryLength,
		MaxObjectiveLength: cfg.MaxObjectiveLength,
	}
	tex, err := rendering.RenderTex(*repo.artifact, preset, limits)
	if err != nil {
		return fmt.Errorf("failed to render LaTeX: %w", err)
	}

	if err := os.WriteFile(tailorOutput, []byte(tex), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	score := repo.artifact.Score
	fmt.Printf("Wrote %s (template: %s)\n", tailorOutput, preset.ID)
	fmt.Printf("Fit score: %d/100 (skills %d, experience %d, education %d, keywords %d, impact %d)\n",
		score.Overall, score.SkillsMatch, score.ExperienceRelevance,
		score.EducationFit, score.KeywordAlignment, score.AccomplishmentImpact)
	for _, s := range score.Strengths {
		fmt.Printf("  + %s\n", s)
	}
	for _, g := range score.Gaps {
		fmt.Printf("  - %s\n", g)
	}
	return nil
}

// loadResumeFile reads a canonical record from a JSON file. The record name
// is the file name without its extension.
func loadResumeFile(path string) (types.SourceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.SourceRecord{}, fmt.Errorf("failed to read resume file %s: %w", path, err)
	}

	var record types.CanonicalRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.SourceRecord{}, fmt.Errorf("failed to parse resume file %s: %w", path, err)
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return types.SourceRecord{ID: uuid.New(), Name: name, Record: record}, nil
}

// loadJobFile reads a job ad file, strips HTML if present, and parses it
// into a structured posting.
func loadJobFile(ctx context.Context, client llm.Client, path string) (types.TargetPosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.TargetPosting{}, fmt.Errorf("failed to read job file %s: %w", path, err)
	}

	text, err := ingestion.Normalize(string(data))
	if err != nil {
		return types.TargetPosting{}, fmt.Errorf("failed to normalize job ad: %w", err)
	}

	posting, err := llm.NewPostingParser(client).Parse(ctx, text)
	if err != nil {
		return types.TargetPosting{}, fmt.Errorf("failed to parse job ad: %w", err)
	}
	return posting, nil
}
