/**
 * kreuzbergo worker - Main Entry Point
 *
 * Go worker that drains an extraction job queue and runs each job through
 * the pipeline driver (MIME detection, format extraction, OCR, chunking,
 * output-format conversion).
 */

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kreuzbergo/kreuzbergo/internal/config"
	"github.com/kreuzbergo/kreuzbergo/internal/pipeline"
	"github.com/kreuzbergo/kreuzbergo/internal/queue"
	"github.com/kreuzbergo/kreuzbergo/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env not found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pipelineCfg, err := config.LoadPipelineConfig(".")
	if err != nil {
		log.Fatalf("Failed to load pipeline configuration: %v", err)
	}
	if pipelineCfg.Chunking.Embedding == nil && cfg.EmbeddingAPIKey != "" {
		pipelineCfg.Chunking.Embedding = &config.EmbeddingSection{APIKey: cfg.EmbeddingAPIKey}
	}
	pipelineCfg.Cache.Dir = cfg.ModelCacheDir

	// NewDriver reads the tesseract binary path and the PaddleOCR model-hub
	// URL from the environment (both are deployment concerns, not
	// per-request ones); forward them here.
	os.Setenv("KREUZBERGO_TESSERACT_PATH", cfg.TesseractPath)
	os.Setenv("KREUZBERGO_MODEL_HUB_URL", cfg.ModelHubURL)

	log.Printf("kreuzbergo worker starting...")
	log.Printf("Configuration loaded: Redis=%s, Workers=%d, UseCache=%v",
		cfg.RedisURL, cfg.WorkerConcurrency, pipelineCfg.UseCache)

	driver, err := pipeline.NewDriver(pipelineCfg)
	if err != nil {
		log.Fatalf("Failed to initialize pipeline driver: %v", err)
	}
	log.Printf("Pipeline driver initialized: extractors=%v, ocr_backends=%v",
		driver.Extractors.List(), driver.OCRBackends.List())

	var statusUpdater queue.JobStatusUpdater
	if pipelineCfg.UseCache && cfg.DatabaseURL != "" {
		log.Printf("Connecting to storage (PostgreSQL + Qdrant)...")
		// 0 selects the Qdrant client's default dimension (matches the
		// default VoyageAI voyage-3 provider); a differently-sized
		// embedding provider needs a matching collection configured
		// out-of-band.
		storageManager, err := storage.NewStorageManager(cfg.DatabaseURL, cfg.QdrantURL, cfg.QdrantCollection, 0)
		if err != nil {
			log.Fatalf("Failed to initialize storage manager: %v", err)
		}
		defer storageManager.Close()
		statusUpdater = storageManager
		log.Printf("Storage manager initialized (PostgreSQL + Qdrant)")
	} else {
		log.Printf("Result caching disabled (UseCache=false or DATABASE_URL unset)")
	}

	log.Printf("Connecting to Redis queue...")
	queueConsumer, err := queue.NewRedisConsumer(&queue.RedisConsumerConfig{
		RedisURL:       cfg.RedisURL,
		QueueName:      "kreuzbergo:jobs",
		Concurrency:    cfg.WorkerConcurrency,
		Driver:         driver,
		StatusUpdater:  statusUpdater,
		PipelineConfig: pipelineCfg,
	})
	if err != nil {
		log.Fatalf("Failed to initialize queue consumer: %v", err)
	}
	log.Printf("Queue consumer initialized with concurrency=%d", cfg.WorkerConcurrency)

	if err := queueConsumer.Start(); err != nil {
		log.Fatalf("Failed to start queue consumer: %v", err)
	}

	log.Printf("===========================================")
	log.Printf("kreuzbergo worker is READY")
	log.Printf("===========================================")
	log.Printf("Queue: kreuzbergo:jobs")
	log.Printf("Workers: %d", cfg.WorkerConcurrency)
	log.Printf("Waiting for jobs...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)

	log.Printf("Stopping queue consumer...")
	if err := queueConsumer.Stop(); err != nil {
		log.Printf("Error stopping queue consumer: %v", err)
	} else {
		log.Printf("Queue consumer stopped successfully")
	}

	log.Printf("Shutdown complete")
}
