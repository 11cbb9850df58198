package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/jobs"
	"github.com/jonathan/resume-tailor/internal/types"
)

// SaveSourceRecord stores a parsed canonical record under a display name
// and returns its ID.
func (db *DB) SaveSourceRecord(ctx context.Context, ownerID uuid.UUID, name string, record types.CanonicalRecord) (uuid.UUID, error) {
	content, err := json.Marshal(record)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO source_records (owner_id, name, content)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		ownerID, name, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save source record: %w", err)
	}
	return id, nil
}

// FetchRecords returns the owner's records for the given ids, in id order.
// Any missing or foreign-owned id fails the whole fetch with NotFound.
func (db *DB) FetchRecords(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]types.SourceRecord, error) {
	out := make([]types.SourceRecord, 0, len(ids))
	for _, id := range ids {
		var (
			name    string
			content []byte
		)
		err := db.pool.QueryRow(ctx,
			`SELECT name, content FROM source_records WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		).Scan(&name, &content)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, &jobs.ErrNotFound{Kind: "record", ID: id.String()}
			}
			return nil, fmt.Errorf("failed to fetch record %s: %w", id, err)
		}

		var record types.CanonicalRecord
		if err := json.Unmarshal(content, &record); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", id, err)
		}
		out = append(out, types.SourceRecord{ID: id, Name: name, Record: record})
	}
	return out, nil
}

// ListSourceRecords returns the owner's records newest-first.
func (db *DB) ListSourceRecords(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.SourceRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, content FROM source_records
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list source records: %w", err)
	}
	defer rows.Close()

	var out []types.SourceRecord
	for rows.Next() {
		var (
			rec     types.SourceRecord
			content []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &content); err != nil {
			return nil, fmt.Errorf("failed to scan source record: %w", err)
		}
		if err := json.Unmarshal(content, &rec.Record); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteSourceRecord removes the owner's record. Missing and foreign-owned
// ids both come back NotFound.
func (db *DB) DeleteSourceRecord(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM source_records WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete source record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &jobs.ErrNotFound{Kind: "record", ID: id.String()}
	}
	return nil
}

// SaveTargetPosting stores a parsed posting and returns its ID.
func (db *DB) SaveTargetPosting(ctx context.Context, ownerID uuid.UUID, posting types.TargetPosting) (uuid.UUID, error) {
	content, err := json.Marshal(posting)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal posting: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (owner_id, job_title, company, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		ownerID, posting.JobTitle, posting.Company, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save posting: %w", err)
	}
	return id, nil
}

// FetchTargetPosting returns the owner's posting by id.
func (db *DB) FetchTargetPosting(ctx context.Context, ownerID, id uuid.UUID) (types.TargetPosting, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM job_postings WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.TargetPosting{}, &jobs.ErrNotFound{Kind: "posting", ID: id.String()}
		}
		return types.TargetPosting{}, fmt.Errorf("failed to fetch posting %s: %w", id, err)
	}

	var posting types.TargetPosting
	if err := json.Unmarshal(content, &posting); err != nil {
		return types.TargetPosting{}, fmt.Errorf("failed to decode posting %s: %w", id, err)
	}
	return posting, nil
}

// ListTargetPostings returns the owner's postings newest-first.
func (db *DB) ListTargetPostings(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.StoredPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, content FROM job_postings
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	var out []types.StoredPosting
	for rows.Next() {
		var (
			p       types.StoredPosting
			content []byte
		)
		if err := rows.Scan(&p.ID, &content); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		if err := json.Unmarshal(content, &p.Posting); err != nil {
			return nil, fmt.Errorf("failed to decode posting %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteTargetPosting removes the owner's posting.
func (db *DB) DeleteTargetPosting(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM job_postings WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete posting %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &jobs.ErrNotFound{Kind: "posting", ID: id.String()}
	}
	return nil
}

// SaveArtifact persists a completed artifact and returns its reference.
func (db *DB) SaveArtifact(ctx context.Context, artifact types.TailoredArtifact) (string, error) {
	content, err := json.Marshal(artifact)
	if err != nil {
		return "", fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO tailored_artifacts (id, owner_id, job_title, company, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		artifact.ID, artifact.OwnerID, artifact.JobTitle, artifact.Company, content, artifact.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save artifact: %w", err)
	}
	return artifact.ID.String(), nil
}

// GetArtifact returns the owner's artifact by id.
func (db *DB) GetArtifact(ctx context.Context, ownerID, id uuid.UUID) (types.TailoredArtifact, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM tailored_artifacts WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.TailoredArtifact{}, &jobs.ErrNotFound{Kind: "artifact", ID: id.String()}
		}
		return types.TailoredArtifact{}, fmt.Errorf("failed to fetch artifact %s: %w", id, err)
	}

	var artifact types.TailoredArtifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return types.TailoredArtifact{}, fmt.Errorf("failed to decode artifact %s: %w", id, err)
	}
	artifact.ID = id
	artifact.OwnerID = ownerID
	return artifact, nil
}

// ListArtifacts returns the owner's artifacts newest-first.
func (db *DB) ListArtifacts(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.TailoredArtifact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, content FROM tailored_artifacts
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var out []types.TailoredArtifact
	for rows.Next() {
		var (
			id      uuid.UUID
			content []byte
		)
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		var artifact types.TailoredArtifact
		if err := json.Unmarshal(content, &artifact); err != nil {
			return nil, fmt.Errorf("failed to decode artifact %s: %w", id, err)
		}
		artifact.ID = id
		artifact.OwnerID = ownerID
		out = append(out, artifact)
	}
	return out, rows.Err()
}

// MarkArtifactApplied stamps the artifact as applied at the given time.
func (db *DB) MarkArtifactApplied(ctx context.Context, ownerID, id uuid.UUID, appliedAt time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE tailored_artifacts
		 SET content = jsonb_set(jsonb_set(content::jsonb, '{status}', '"applied"'), '{applied_at}', to_jsonb($3::timestamptz))
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID, appliedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mark artifact applied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &jobs.ErrNotFound{Kind: "artifact", ID: id.String()}
	}
	return nil
}
