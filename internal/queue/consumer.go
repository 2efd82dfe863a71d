/**
 * Queue Consumer for the extraction worker
 *
 * Consumes jobs from an Asynq/Redis queue and runs them through the
 * pipeline driver. Uses Asynq (Go BullMQ-compatible library) for queue
 * management.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
	"github.com/kreuzbergo/kreuzbergo/internal/config"
	"github.com/kreuzbergo/kreuzbergo/internal/pipeline"
)

// JobData represents the structure of job data from the queue
type JobData struct {
	JobID      string                 `json:"jobId"`
	UserID     string                 `json:"userId"`
	Filename   string                 `json:"filename"`
	MimeType   string                 `json:"mimeType,omitempty"`
	FileSize   int64                  `json:"fileSize,omitempty"`
	FileURL    string                 `json:"fileUrl,omitempty"`
	FileBuffer []byte                 `json:"fileBuffer,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// JobStatusUpdater persists job progress; implemented by the storage layer.
type JobStatusUpdater interface {
	UpdateJobStatus(ctx context.Context, jobID, status string, progress int, details map[string]interface{}) error
}

// Consumer handles job consumption from the Redis-backed Asynq queue
type Consumer struct {
	client  *asynq.Client
	server  *asynq.Server
	mux     *asynq.ServeMux
	driver  *pipeline.Driver
	status  JobStatusUpdater
	config  *ConsumerConfig
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	RedisURL          string
	QueueName         string
	Concurrency       int
	Driver            *pipeline.Driver
	StatusUpdater     JobStatusUpdater
	PipelineConfig    *config.PipelineConfig
	ProcessingTimeout int64 // Processing timeout in milliseconds (default: 300000 = 5 minutes)
}

// NewConsumer creates a new queue consumer
func NewConsumer(cfg *ConsumerConfig) (*Consumer, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}

	if cfg.QueueName == "" {
		return nil, fmt.Errorf("QueueName is required")
	}

	if cfg.Driver == nil {
		return nil, fmt.Errorf("Driver is required")
	}

	if cfg.PipelineConfig == nil {
		cfg.PipelineConfig = config.DefaultPipelineConfig()
	}

	// Parse Redis connection options
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Create Asynq client for task submission (if needed)
	client := asynq.NewClient(redisOpt)

	// Create Asynq server for task processing
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				cfg.QueueName: 10, // Priority 10 for main queue
				"default":     1,  // Priority 1 for fallback
			},
			// Retry configuration
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				// Exponential backoff: 5s, 10s, 20s
				delay := time.Duration(5*(1<<uint(n))) * time.Second
				if delay > 60*time.Second {
					delay = 60 * time.Second
				}
				return delay
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("Task processing error: type=%s, payload=%s, error=%v",
					task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()

	consumer := &Consumer{
		client: client,
		server: server,
		mux:    mux,
		driver: cfg.Driver,
		status: cfg.StatusUpdater,
		config: cfg,
	}

	mux.HandleFunc("process-document", consumer.handleProcessDocument)

	return consumer, nil
}

// Start starts the queue consumer
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("Starting queue consumer (concurrency=%d, queue=%s)...",
		c.config.Concurrency, c.config.QueueName)

	go func() {
		if err := c.server.Run(c.mux); err != nil {
			log.Printf("Queue consumer error: %v", err)
		}
	}()

	return nil
}

// Stop stops the queue consumer gracefully
func (c *Consumer) Stop(ctx context.Context) error {
	log.Printf("Stopping queue consumer...")

	c.server.Shutdown()

	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close client: %w", err)
	}

	log.Printf("Queue consumer stopped")
	return nil
}

// updateStatus forwards to the configured updater, tolerating a nil one
// (status persistence is optional — the queue still runs without it).
func (c *Consumer) updateStatus(ctx context.Context, jobID, status string, progress int, details map[string]interface{}) {
	if c.status == nil {
		return
	}
	if err := c.status.UpdateJobStatus(ctx, jobID, status, progress, details); err != nil {
		log.Printf("[Job %s] Warning: Failed to update status to %s: %v", jobID, status, err)
	}
}

// handleProcessDocument runs one extraction job through the pipeline driver
func (c *Consumer) handleProcessDocument(ctx context.Context, task *asynq.Task) error {
	startTime := time.Now()

	var jobData JobData
	if err := json.Unmarshal(task.Payload(), &jobData); err != nil {
		return fmt.Errorf("failed to unmarshal job data: %w", err)
	}

	log.Printf("[Job %s] Processing document: filename=%s, size=%d bytes, user=%s",
		jobData.JobID, jobData.Filename, jobData.FileSize, jobData.UserID)

	c.updateStatus(ctx, jobData.JobID, "processing", 0, nil)

	// Default timeout: 5 minutes (300000ms), configurable per consumer
	timeout := time.Duration(300000) * time.Millisecond
	if c.config.ProcessingTimeout > 0 {
		timeout = time.Duration(c.config.ProcessingTimeout) * time.Millisecond
	}

	processCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := c.driver.Extract(processCtx, jobData.JobID, pipeline.Input{
		Data: jobData.FileBuffer,
		Mime: jobData.MimeType,
	}, *c.config.PipelineConfig)

	duration := time.Since(startTime)

	if err != nil {
		if processCtx.Err() == context.DeadlineExceeded {
			log.Printf("[Job %s] Processing timed out after %v (timeout: %v)", jobData.JobID, duration, timeout)

			timeoutErr := kerrors.NewProcessingTimeoutError(jobData.JobID, timeout, err)
			c.updateStatus(ctx, jobData.JobID, "failed", 100, timeoutErr.ToMap())

			return fmt.Errorf("processing timeout: %w", timeoutErr)
		}

		log.Printf("[Job %s] Processing failed after %v: %v", jobData.JobID, duration, err)

		c.updateStatus(ctx, jobData.JobID, "failed", 100, map[string]interface{}{
			"error":          err.Error(),
			"processingTime": duration.Milliseconds(),
		})

		return fmt.Errorf("document processing failed: %w", err)
	}

	log.Printf("[Job %s] Processing completed successfully in %v: mimeType=%s, chunks=%d, warnings=%d",
		jobData.JobID, duration, result.MimeType, len(result.Chunks), len(result.ProcessingWarnings))

	c.updateStatus(ctx, jobData.JobID, "completed", 100, map[string]interface{}{
		"mimeType":        result.MimeType,
		"processingTime":  duration.Milliseconds(),
		"chunksExtracted": len(result.Chunks),
		"tablesExtracted": len(result.Tables),
		"imagesExtracted": len(result.Images),
		"warnings":        len(result.ProcessingWarnings),
	})

	return nil
}

// GetStatistics returns consumer statistics
func (c *Consumer) GetStatistics() map[string]interface{} {
	return map[string]interface{}{
		"concurrency": c.config.Concurrency,
		"queue":       c.config.QueueName,
		"redisURL":    c.config.RedisURL,
	}
}
