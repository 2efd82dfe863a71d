/**
 * Storage Manager for the extraction worker
 *
 * Coordinates storage operations across PostgreSQL (job status + cached
 * extraction metadata) and Qdrant (chunk-embedding vectors). Implements
 * queue.JobStatusUpdater so it can be wired directly into a Consumer.
 * Storage itself is optional, gated by PipelineConfig.UseCache — a
 * pipeline run that never goes through a StorageManager behaves
 * identically, just without caching/search.
 */

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// StorageManager coordinates PostgreSQL and Qdrant operations
type StorageManager struct {
	postgres *PostgresClient
	qdrant   *QdrantClient
}

// NewStorageManager creates a new storage manager. vectorSize is the
// embedding dimension the configured embedding provider produces.
func NewStorageManager(postgresURL string, qdrantAddress string, qdrantCollection string, vectorSize int) (*StorageManager, error) {
	postgres, err := NewPostgresClient(postgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL client: %w", err)
	}

	qdrant, err := NewQdrantClient(qdrantAddress, qdrantCollection, vectorSize)
	if err != nil {
		postgres.Close()
		return nil, fmt.Errorf("failed to initialize Qdrant client: %w", err)
	}

	return &StorageManager{
		postgres: postgres,
		qdrant:   qdrant,
	}, nil
}

// StoreResult caches result's metadata in PostgreSQL and its chunks'
// embeddings in Qdrant, linking them through the returned record ID. Chunks
// without an embedding (no embedding provider configured) are skipped in
// Qdrant but still counted in the cached record.
func (sm *StorageManager) StoreResult(ctx context.Context, jobID string, result *model.ExtractionResult) (string, error) {
	if jobID == "" {
		return "", fmt.Errorf("job ID is required")
	}

	recordID, err := sm.postgres.StoreExtractionRecord(ctx, &ExtractionRecord{
		JobID:        jobID,
		MimeType:     result.MimeType,
		ChunkCount:   len(result.Chunks),
		WarningCount: len(result.ProcessingWarnings),
		Metadata:     map[string]interface{}{"detected_languages": result.DetectedLanguages},
	})
	if err != nil {
		return "", fmt.Errorf("failed to store extraction record: %w", err)
	}

	for _, chunk := range result.Chunks {
		if len(chunk.Embedding) == 0 {
			continue
		}
		point := &VectorPoint{
			ID:     uuid.New().String(),
			Vector: chunk.Embedding,
			Metadata: map[string]interface{}{
				"job_id":      jobID,
				"record_id":   recordID,
				"chunk_index": int64(chunk.Metadata.ChunkIndex),
			},
			Timestamp: time.Now().Unix(),
		}
		if err := sm.qdrant.UpsertVector(ctx, point); err != nil {
			return recordID, fmt.Errorf("failed to store chunk %d embedding: %w", chunk.Metadata.ChunkIndex, err)
		}
	}

	return recordID, nil
}

// SearchSimilarChunks performs semantic search across cached chunk embeddings
func (sm *StorageManager) SearchSimilarChunks(ctx context.Context, queryVector []float32, limit int) ([]*VectorPoint, error) {
	return sm.qdrant.SearchVectors(ctx, queryVector, limit)
}

// UpdateJobStatus implements queue.JobStatusUpdater
func (sm *StorageManager) UpdateJobStatus(ctx context.Context, jobID, status string, progress int, details map[string]interface{}) error {
	update := &JobUpdate{
		JobID:    jobID,
		Status:   status,
		Metadata: details,
	}
	if details != nil {
		if pt, ok := details["processingTime"].(int64); ok {
			update.ProcessingTimeMs = pt
		}
		if recID, ok := details["extractionRecordId"].(string); ok {
			update.ExtractionRecordID = recID
		}
		if errMsg, ok := details["error"].(string); ok {
			update.ErrorMessage = errMsg
		}
	}
	return sm.postgres.UpdateJobStatus(ctx, update)
}

// GetJobByID retrieves job by ID
func (sm *StorageManager) GetJobByID(ctx context.Context, jobID string) (map[string]interface{}, error) {
	return sm.postgres.GetJobByID(ctx, jobID)
}

// GetStats returns statistics from both systems
func (sm *StorageManager) GetStats(ctx context.Context) (map[string]interface{}, error) {
	pgStats := sm.postgres.GetStats()

	qdrantStats, err := sm.qdrant.GetCollectionInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Qdrant stats: %w", err)
	}

	return map[string]interface{}{
		"postgres": map[string]interface{}{
			"max_open_connections": pgStats.MaxOpenConnections,
			"open_connections":     pgStats.OpenConnections,
			"in_use":               pgStats.InUse,
			"idle":                 pgStats.Idle,
			"wait_count":           pgStats.WaitCount,
			"wait_duration":        pgStats.WaitDuration.String(),
		},
		"qdrant": qdrantStats,
	}, nil
}

// Close closes all connections
func (sm *StorageManager) Close() error {
	var pgErr, qdErr error

	if sm.postgres != nil {
		pgErr = sm.postgres.Close()
	}

	if sm.qdrant != nil {
		qdErr = sm.qdrant.Close()
	}

	if pgErr != nil {
		return fmt.Errorf("failed to close PostgreSQL: %w", pgErr)
	}

	if qdErr != nil {
		return fmt.Errorf("failed to close Qdrant: %w", qdErr)
	}

	return nil
}
