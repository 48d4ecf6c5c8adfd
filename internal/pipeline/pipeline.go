// Package pipeline orchestrates a batch end to end: decode, parse and
// repair, extract, normalize, classify and summarize, publish. Items are
// processed in parallel; published order always matches input order.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"newspipe/internal/classify"
	"newspipe/internal/config"
	"newspipe/internal/core"
	"newspipe/internal/ingest"
	"newspipe/internal/llmclient"
	"newspipe/internal/logger"
	"newspipe/internal/normalize"
)

// Pipeline processes batches of news-like documents.
type Pipeline struct {
	cfg    *config.Config
	engine *classify.Engine
	log    *slog.Logger
}

// New wires a Pipeline from configuration. Without a usable enrichment
// client the pipeline runs in rule-based-only mode; that is a normal
// operating state, not an error.
func New(cfg *config.Config) *Pipeline {
	log := logger.Get()

	var enricher classify.Enricher
	client, err := llmclient.New(cfg.AI)
	if err != nil {
		log.Info("running rule-based only", "reason", err.Error())
	} else {
		enricher = client
		log.Info("enrichment enabled", "model", cfg.AI.Model)
	}

	engine := classify.New(classify.Config{
		MinTextChars:    cfg.Pipeline.MinTextChars,
		MaxPromptChars:  cfg.Pipeline.MaxPromptChars,
		RegionEventBias: true,
		Debug:           cfg.App.Debug,
	}, enricher)

	return &Pipeline{cfg: cfg, engine: engine, log: log}
}

// EnrichmentEnabled reports whether the enrichment collaborator is
// configured for this pipeline.
func (p *Pipeline) EnrichmentEnabled() bool {
	return p.engine.Enriched()
}

// Model returns the configured enrichment model identifier.
func (p *Pipeline) Model() string {
	return p.cfg.AI.Model
}

// ProcessText runs the full pipeline over one decoded input blob and
// returns the output records in input order. Enrichment failures degrade
// per item and never fail the batch.
func (p *Pipeline) ProcessText(ctx context.Context, text string) ([]core.OutputRecord, error) {
	batchID := uuid.NewString()

	records, err := ingest.ExtractRecords(text, p.cfg.Pipeline.StrictParse)
	if err != nil {
		return nil, fmt.Errorf("failed to extract records: %w", err)
	}
	items := normalize.Items(records)
	p.log.Info("batch extracted", "batch_id", batchID, "items", len(items))

	results := make([]core.OutputRecord, len(items))
	workers := p.cfg.Pipeline.Workers
	if workers < 1 {
		workers = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			outcome := p.engine.Process(ctx, item)
			if outcome.Reason != nil {
				p.log.Warn("item degraded to fallback",
					"batch_id", batchID, "index", i, "reason", outcome.Reason.Error())
			}
			results[i] = core.NewOutputRecord(item, outcome.Result)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes them.
	_ = g.Wait()

	p.log.Info("batch processed", "batch_id", batchID, "items", len(results))
	return results, nil
}

// RunFile reads the input file, processes it, and writes the output JSON
// array. The only fatal conditions are an unreadable input file and an
// unwritable output path.
func (p *Pipeline) RunFile(ctx context.Context, inputPath, outputPath string) error {
	text, err := ingest.ReadFile(inputPath)
	if err != nil {
		return err
	}

	results, err := p.ProcessText(ctx, text)
	if err != nil {
		return err
	}

	if err := WriteResults(outputPath, results); err != nil {
		return err
	}
	p.log.Info("results written", "path", outputPath, "items", len(results))
	return nil
}

// WriteResults writes records as a pretty-printed JSON array, creating
// parent directories as needed. Non-ASCII text is written as-is.
func WriteResults(path string, records []core.OutputRecord) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
