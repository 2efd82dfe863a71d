/**
 * PostgreSQL Client for the extraction worker
 *
 * Handles database operations for job persistence and extraction-record
 * storage (the optional result cache gated by PipelineConfig.UseCache).
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresClient handles database operations
type PostgresClient struct {
	db *sql.DB
}

// JobUpdate represents a job status update
type JobUpdate struct {
	JobID               string
	Status               string
	ProcessingTimeMs     int64
	ExtractionRecordID   string
	ErrorCode            string
	ErrorMessage         string
	Metadata             map[string]interface{}
}

// ExtractionRecord is the cached, non-vector half of an extraction result:
// its content MIME, processing-warning count, and arbitrary metadata. The
// vectors (chunk embeddings) live in Qdrant, keyed by this record's ID.
type ExtractionRecord struct {
	ID              string
	JobID           string
	MimeType        string
	ChunkCount      int
	WarningCount    int
	Metadata        map[string]interface{}
	OriginalContent []byte
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(databaseURL string) (*PostgresClient, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{db: db}, nil
}

// UpdateJobStatus updates job status in the database
func (p *PostgresClient) UpdateJobStatus(ctx context.Context, update *JobUpdate) error {
	if update.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	if update.Status == "" {
		return fmt.Errorf("status is required")
	}

	metadataJSON, err := json.Marshal(update.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	// Upsert so the worker can create the job record on first status
	// update if the caller didn't create one ahead of time.
	query := `
		INSERT INTO kreuzbergo.processing_jobs (
			id, filename, mime_type, file_size,
			status, processing_time_ms, extraction_record_id,
			error_code, error_message, metadata,
			created_at, updated_at
		) VALUES (
			$1::uuid, COALESCE($8, 'unknown'), COALESCE($9, 'application/octet-stream'),
			COALESCE($10, 0),
			$2, NULLIF($3, 0),
			CASE WHEN $4 = '' THEN NULL ELSE $4::uuid END,
			NULLIF($5, ''), NULLIF($6, ''),
			COALESCE($7::jsonb, '{}'::jsonb),
			NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			processing_time_ms = COALESCE(NULLIF(EXCLUDED.processing_time_ms, 0), kreuzbergo.processing_jobs.processing_time_ms),
			extraction_record_id = CASE
				WHEN EXCLUDED.extraction_record_id IS NOT NULL THEN EXCLUDED.extraction_record_id
				ELSE kreuzbergo.processing_jobs.extraction_record_id
			END,
			error_code = NULLIF(EXCLUDED.error_code, ''),
			error_message = NULLIF(EXCLUDED.error_message, ''),
			metadata = COALESCE(EXCLUDED.metadata, kreuzbergo.processing_jobs.metadata),
			filename = COALESCE(EXCLUDED.filename, kreuzbergo.processing_jobs.filename),
			mime_type = COALESCE(EXCLUDED.mime_type, kreuzbergo.processing_jobs.mime_type),
			file_size = COALESCE(NULLIF(EXCLUDED.file_size, 0), kreuzbergo.processing_jobs.file_size),
			updated_at = NOW()
		RETURNING id
	`

	var filename, mimeType string
	var fileSize int64
	if update.Metadata != nil {
		if fn, ok := update.Metadata["filename"].(string); ok {
			filename = fn
		}
		if mt, ok := update.Metadata["mimeType"].(string); ok {
			mimeType = mt
		}
		if fs, ok := update.Metadata["fileSize"].(int64); ok {
			fileSize = fs
		} else if fs, ok := update.Metadata["fileSize"].(float64); ok {
			fileSize = int64(fs)
		}
	}

	var returnedID string
	err = p.db.QueryRowContext(
		ctx,
		query,
		update.JobID,
		update.Status,
		update.ProcessingTimeMs,
		update.ExtractionRecordID,
		update.ErrorCode,
		update.ErrorMessage,
		metadataJSON,
		filename,
		mimeType,
		fileSize,
	).Scan(&returnedID)

	if err == sql.ErrNoRows {
		return fmt.Errorf("job not found: %s", update.JobID)
	}

	if err != nil {
		return fmt.Errorf("failed to update job status (job=%s, status=%s): %w", update.JobID, update.Status, err)
	}

	return nil
}

// StoreExtractionRecord caches the non-vector half of an extraction result
func (p *PostgresClient) StoreExtractionRecord(ctx context.Context, rec *ExtractionRecord) (string, error) {
	if rec.JobID == "" {
		return "", fmt.Errorf("job ID is required")
	}

	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO kreuzbergo.extraction_records (
			job_id, mime_type, chunk_count, warning_count, metadata, original_content, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id
	`

	var recordID string
	err = p.db.QueryRowContext(
		ctx,
		query,
		rec.JobID,
		rec.MimeType,
		rec.ChunkCount,
		rec.WarningCount,
		metadataJSON,
		rec.OriginalContent,
	).Scan(&recordID)

	if err != nil {
		return "", fmt.Errorf("failed to store extraction record: %w", err)
	}

	return recordID, nil
}

// GetExtractionRecord retrieves an extraction record by ID
func (p *PostgresClient) GetExtractionRecord(ctx context.Context, recordID string) (*ExtractionRecord, error) {
	if recordID == "" {
		return nil, fmt.Errorf("record ID is required")
	}

	query := `
		SELECT id, job_id, mime_type, chunk_count, warning_count, metadata, original_content
		FROM kreuzbergo.extraction_records
		WHERE id = $1
	`

	var rec ExtractionRecord
	var metadataJSON []byte

	err := p.db.QueryRowContext(ctx, query, recordID).Scan(
		&rec.ID, &rec.JobID, &rec.MimeType, &rec.ChunkCount, &rec.WarningCount, &metadataJSON, &rec.OriginalContent,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("extraction record not found: %s", recordID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get extraction record: %w", err)
	}

	if err := json.Unmarshal(metadataJSON, &rec.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &rec, nil
}

// GetJobByID retrieves a job by ID
func (p *PostgresClient) GetJobByID(ctx context.Context, jobID string) (map[string]interface{}, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job ID is required")
	}

	query := `
		SELECT
			id, filename, mime_type, file_size, status,
			processing_time_ms, extraction_record_id,
			error_code, error_message, metadata,
			created_at, updated_at
		FROM kreuzbergo.processing_jobs
		WHERE id = $1::uuid
	`

	var (
		id, filename                      string
		mimeType, status                  sql.NullString
		fileSize                          sql.NullInt64
		processingTimeMs                  sql.NullInt64
		extractionRecordID, errorCode     sql.NullString
		errorMessage                      sql.NullString
		metadataJSON                      []byte
		createdAt, updatedAt              time.Time
	)

	err := p.db.QueryRowContext(ctx, query, jobID).Scan(
		&id, &filename, &mimeType, &fileSize, &status,
		&processingTimeMs, &extractionRecordID,
		&errorCode, &errorMessage,
		&metadataJSON, &createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	var metadata map[string]interface{}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	result := map[string]interface{}{
		"id":        id,
		"filename":  filename,
		"status":    status.String,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
		"metadata":  metadata,
	}

	if mimeType.Valid {
		result["mimeType"] = mimeType.String
	}
	if fileSize.Valid {
		result["fileSize"] = fileSize.Int64
	}
	if processingTimeMs.Valid {
		result["processingTimeMs"] = processingTimeMs.Int64
	}
	if extractionRecordID.Valid {
		result["extractionRecordId"] = extractionRecordID.String
	}
	if errorCode.Valid {
		result["errorCode"] = errorCode.String
	}
	if errorMessage.Valid {
		result["errorMessage"] = errorMessage.String
	}

	return result, nil
}

// Ping checks database connectivity
func (p *PostgresClient) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection
func (p *PostgresClient) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// GetStats returns connection pool statistics
func (p *PostgresClient) GetStats() sql.DBStats {
	return p.db.Stats()
}
