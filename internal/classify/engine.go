// Package classify produces, per normalized item, three summary lines, a
// primary category with four subcategories, and a region. It prefers the
// external enrichment collaborator and always falls back to deterministic
// rule-based scoring, so every item yields valid-shaped output even with
// zero network access.
package classify

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"newspipe/internal/core"
	"newspipe/internal/logger"
	"newspipe/internal/region"
)

const (
	summaryMaxTokens  = 420
	categoryMaxTokens = 260
)

// Enricher is the external enrichment collaborator: a single best-effort
// JSON request. Implementations retry internally; the engine treats any
// returned error as "enrichment unavailable for this item".
type Enricher interface {
	JSONRequest(ctx context.Context, prompt string, maxTokens int) (map[string]any, error)
}

// Config carries the engine's tunables explicitly; there is no ambient
// global state.
type Config struct {
	MinTextChars    int  // Below this, enrichment is skipped outright
	MaxPromptChars  int  // Body character ceiling fed into prompts
	RegionEventBias bool // The region+event → society debias heuristic
	Debug           bool
}

// Engine classifies and summarizes normalized items.
type Engine struct {
	cfg      Config
	enricher Enricher
	log      *slog.Logger
}

// New creates an Engine. A nil enricher puts the engine in rule-based-only
// mode.
func New(cfg Config, enricher Enricher) *Engine {
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = 7000
	}
	return &Engine{cfg: cfg, enricher: enricher, log: logger.Get()}
}

// Enriched reports whether an enrichment collaborator is wired in.
func (e *Engine) Enriched() bool {
	return e.enricher != nil
}

// Process computes the classification result for one item. It never
// returns an error: enrichment failures route to the fallback and are
// recorded in the outcome's Reason.
func (e *Engine) Process(ctx context.Context, item core.NormalizedItem) core.Outcome {
	reg := region.Detect(item.Title, item.PlainText)

	if e.enricher == nil || !e.worthEnriching(item) {
		return e.fallback(item, reg, nil)
	}

	enriched, err := e.enrich(ctx, item, reg)
	if err != nil {
		e.log.Debug("enrichment unavailable, using rule-based fallback",
			"title", item.Title, "error", err.Error())
		return e.fallback(item, reg, err)
	}
	return core.Outcome{Result: enriched, Source: core.SourceEnriched}
}

// worthEnriching gates the remote call: empty or very short texts are
// summarized locally without spending a request.
func (e *Engine) worthEnriching(item core.NormalizedItem) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(item.PlainText))
	return n > 0 && n >= e.cfg.MinTextChars
}

// enrich requests summary and classification from the collaborator and
// applies the same debias correction and pad/top-up the fallback uses.
// Either request failing fails the whole enrichment for this item.
// Batch cancellation stops launching new requests, but a request already
// issued runs to completion or timeout rather than being killed mid-flight.
func (e *Engine) enrich(ctx context.Context, item core.NormalizedItem, reg string) (core.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return core.ClassificationResult{}, err
	}
	callCtx := context.WithoutCancel(ctx)

	sumReply, err := e.enricher.JSONRequest(callCtx,
		summaryPrompt(item.Title, item.PlainText, e.cfg.MaxPromptChars), summaryMaxTokens)
	if err != nil {
		return core.ClassificationResult{}, err
	}
	lines := stringSlice(sumReply["summary_lines"])
	closed := make([]string, 0, len(lines))
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		closed = append(closed, closeSentence(ln))
	}
	if len(closed) == 0 {
		// Unusable reply shape counts as an enrichment failure.
		return core.ClassificationResult{}, errEmptyReply
	}

	if err := ctx.Err(); err != nil {
		return core.ClassificationResult{}, err
	}
	catReply, err := e.enricher.JSONRequest(callCtx,
		categoryPrompt(item.Title, item.PlainText, e.cfg.MaxPromptChars), categoryMaxTokens)
	if err != nil {
		return core.ClassificationResult{}, err
	}
	primary, _ := catReply["primary"].(string)
	cat := normalizePrimary(primary)
	cat = debias(cat, item.Title, item.PlainText, reg, e.cfg.RegionEventBias)

	subs := normalizeSubs(stringSlice(catReply["subcategories"]))
	if countNonEmpty(subs) < 4 {
		subs = PadSubcategories(topUpSubcategories(stripPadding(subs), cat, reg, item.Title, item.PlainText))
	}

	return core.ClassificationResult{
		Category:      cat,
		Subcategories: subs,
		Region:        reg,
		SummaryLines:  padSummaryLines(closed),
	}, nil
}

// fallback runs the deterministic rule-based path.
func (e *Engine) fallback(item core.NormalizedItem, reg string, reason error) core.Outcome {
	cat, subs := classifyFallback(item.Title, item.PlainText, reg)
	return core.Outcome{
		Result: core.ClassificationResult{
			Category:      cat,
			Subcategories: subs,
			Region:        reg,
			SummaryLines:  fallbackSummary(item.PlainText, item.Title),
		},
		Source: core.SourceFallback,
		Reason: reason,
	}
}

// errEmptyReply marks a structurally valid JSON reply that carried no
// usable content.
var errEmptyReply = &unusableReplyError{}

type unusableReplyError struct{}

func (*unusableReplyError) Error() string { return "enrichment reply carried no usable content" }

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, el := range raw {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stripPadding(subs []string) []string {
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
