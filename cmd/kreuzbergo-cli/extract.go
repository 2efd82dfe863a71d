package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kreuzbergo/kreuzbergo/internal/config"
	"github.com/kreuzbergo/kreuzbergo/internal/pipeline"
)

var (
	outputPath  string
	mimeHint    string
	forceOCR    bool
	jsonOutput  bool
	timeoutSecs int
)

var extractCmd = &cobra.Command{
	Use:   "extract <input>",
	Short: "Extract text, tables, and structure from a document",
	Long: `Run a single document through the extraction pipeline and print or
write the result.

Examples:
  kreuzbergo-cli extract report.pdf
  kreuzbergo-cli extract scan.pdf --force-ocr
  kreuzbergo-cli extract notebook.ipynb --output result.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write result to this file instead of stdout")
	extractCmd.Flags().StringVar(&mimeHint, "mime", "", "MIME type hint (overrides extension/magic-byte detection)")
	extractCmd.Flags().BoolVar(&forceOCR, "force-ocr", false, "run OCR even when a text layer is already present")
	extractCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full result envelope as JSON instead of just the content")
	extractCmd.Flags().IntVar(&timeoutSecs, "timeout", 120, "extraction timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	pipelineCfg, err := config.LoadPipelineConfig(cfgDir)
	if err != nil {
		return fmt.Errorf("loading pipeline config: %w", err)
	}
	if forceOCR {
		pipelineCfg.ForceOCR = true
	}

	driver, err := pipeline.NewDriver(pipelineCfg)
	if err != nil {
		return fmt.Errorf("initializing pipeline driver: %w", err)
	}
	log.Debug().
		Strs("extractors", driver.Extractors.List()).
		Strs("ocr_backends", driver.OCRBackends.List()).
		Msg("pipeline driver ready")

	mime := mimeHint
	if mime == "" {
		mime = mimeFromExt(inputPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	jobID := filepath.Base(inputPath)
	start := time.Now()

	result, err := driver.Extract(ctx, jobID, pipeline.Input{Data: data, Mime: mime}, *pipelineCfg)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	log.Info().
		Str("input", inputPath).
		Str("mime_type", result.MimeType).
		Int("chunks", len(result.Chunks)).
		Int("tables", len(result.Tables)).
		Int("images", len(result.Images)).
		Int("warnings", len(result.ProcessingWarnings)).
		Dur("duration", time.Since(start)).
		Msg("extraction completed")

	var out []byte
	if jsonOutput {
		out, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling result: %w", err)
		}
	} else {
		out = []byte(result.Content)
	}

	if outputPath == "" {
		os.Stdout.Write(out)
		if !jsonOutput && len(out) > 0 && out[len(out)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	fmt.Printf("wrote %d bytes to %s\n", len(out), outputPath)
	return nil
}

// mimeFromExt provides a lightweight hint from the file extension; the
// driver's own MIME resolution (internal/mimetype) still validates and
// falls back to magic-byte detection, this just saves it a syscall when
// the extension is unambiguous.
func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".ipynb":
		return "application/x-ipynb+json"
	case ".mdx":
		return "text/mdx"
	case ".xml":
		return "application/xml"
	default:
		return ""
	}
}
