// Package sync runs the mail ingestion pipeline: fetch since the
// checkpoint, normalize, deduplicate, classify, persist, reconcile, and
// advance the watermark.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/mailtodo/internal/classify"
	"github.com/nhle/mailtodo/internal/fingerprint"
	"github.com/nhle/mailtodo/internal/mailbox"
	"github.com/nhle/mailtodo/internal/model"
	"github.com/nhle/mailtodo/internal/normalize"
	"github.com/nhle/mailtodo/internal/reconcile"
	"github.com/nhle/mailtodo/internal/store"
)

// RunResult summarizes a single pipeline run. A run either succeeds or
// fails as a whole; messages inserted before a failure remain stored and
// are re-skipped by fingerprint on the next run.
type RunResult struct {
	Fetched  int
	Skipped  int
	Inserted int
	Todos    int
	Err      error
	Finished time.Time
}

// Message returns the single human-readable success/failure line for the
// run.
func (r RunResult) Message() string {
	if r.Err != nil {
		return fmt.Sprintf("sync failed: %v", r.Err)
	}
	return fmt.Sprintf(
		"sync complete: %d fetched, %d new, %d todos",
		r.Fetched, r.Inserted, r.Todos,
	)
}

// Pipeline wires the mailbox client, classifier, store, and reconciler
// into one ingestion pass. Construct once; the scorer is loaded at
// construction and reused across runs.
type Pipeline struct {
	store      store.Store
	client     mailbox.Client
	reconciler *reconcile.Reconciler
	scorer     classify.Scorer
	blockList  []string
	logger     *log.Logger

	// checkpointOverride replaces the persisted checkpoint until a run
	// succeeds with it.
	checkpointOverride *time.Time
}

// NewPipeline builds a pipeline for one mailbox account. When the
// classifier config enables the scorer, the feedback corpus is loaded
// once here.
func NewPipeline(
	ctx context.Context,
	s store.Store,
	client mailbox.Client,
	cfg model.ClassifierConfig,
) (*Pipeline, error) {
	p := &Pipeline{
		store:      s,
		client:     client,
		reconciler: reconcile.New(s),
		blockList:  cfg.BlockList,
		logger:     log.Default().With("component", "pipeline"),
	}

	if cfg.ScorerEnabled {
		samples, err := s.ListTrainingSamples(ctx)
		if err != nil {
			// Scorer absence must never fail the pipeline.
			p.logger.Warn("feedback corpus unavailable, scorer disabled",
				"err", err)
		} else {
			p.scorer = classify.NewCorpusScorer(samples)
		}
	}

	return p, nil
}

// SetCheckpointOverride replaces the persisted checkpoint for upcoming
// runs until one succeeds.
func (p *Pipeline) SetCheckpointOverride(t time.Time) {
	p.checkpointOverride = &t
}

// Run executes one ingestion pass. Only transport errors and store
// errors on the insert path fail the run; everything else degrades to a
// safe default and the run continues. The checkpoint advances to the
// maximum receivedAt observed, never backward, and not at all on a
// failed or empty run.
func (p *Pipeline) Run(ctx context.Context) RunResult {
	res := RunResult{}
	defer func() { res.Finished = time.Now() }()

	checkpoint, err := p.checkpoint(ctx)
	if err != nil {
		res.Err = err
		return res
	}

	raws, err := p.client.FetchSince(ctx, checkpoint)
	if err != nil {
		res.Err = err
		return res
	}
	res.Fetched = len(raws)

	classifier, err := p.buildClassifier(ctx)
	if err != nil {
		res.Err = err
		return res
	}

	var maxReceived time.Time
	observed := 0

	// IMAP's SINCE search is date-granular and POP3 has no server-side
	// filter at all, so the client-side cut is date-granular too: only
	// mail from before the checkpoint's day is dropped. Anything from the
	// checkpoint's own day passes and dedupes by fingerprint, so a
	// delayed or clock-skewed message cannot be lost.
	var cutoff time.Time
	if checkpoint != nil {
		cp := checkpoint.UTC()
		cutoff = time.Date(cp.Year(), cp.Month(), cp.Day(), 0, 0, 0, 0, time.UTC)
	}

	// Messages are processed strictly in fetch order so that a
	// duplicate within one batch is visible to the fingerprint check
	// before the next occurrence arrives.
	for _, raw := range raws {
		m, err := normalize.Normalize(raw, time.Now().UTC())
		if err != nil {
			p.logger.Warn("skipping malformed message", "err", err)
			res.Skipped++
			continue
		}

		if checkpoint != nil && m.ReceivedAt.Before(cutoff) {
			res.Skipped++
			continue
		}

		observed++
		if m.ReceivedAt.After(maxReceived) {
			maxReceived = m.ReceivedAt
		}

		m.Fingerprint = fingerprint.Key(m)

		exists, err := p.store.MessageExists(ctx, m.Fingerprint)
		if err != nil {
			res.Err = fmt.Errorf("checking fingerprint: %w", err)
			return res
		}
		if exists {
			res.Skipped++
			continue
		}

		cls := classifier.Classify(m)
		m.TodoFlag = cls.Flag
		m.Deadline = cls.Deadline

		_, inserted, err := p.store.InsertMessage(ctx, m)
		if err != nil {
			res.Err = fmt.Errorf("storing message: %w", err)
			return res
		}
		if !inserted {
			res.Skipped++
			continue
		}
		res.Inserted++

		if m.TodoFlag == model.FlagTodo {
			if err := p.reconciler.ApplyIngestion(ctx, m); err != nil {
				res.Err = err
				return res
			}
			res.Todos++
		}
	}

	if observed > 0 {
		if err := p.advanceCheckpoint(ctx, maxReceived); err != nil {
			res.Err = err
			return res
		}
	}

	// A successful run consumes the override.
	p.checkpointOverride = nil

	return res
}

// checkpoint resolves the lower bound for this fetch window.
func (p *Pipeline) checkpoint(ctx context.Context) (*time.Time, error) {
	if p.checkpointOverride != nil {
		return p.checkpointOverride, nil
	}
	cp, err := p.store.GetCheckpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}
	return cp, nil
}

// buildClassifier assembles the classifier for this run: the
// user-managed keyword list is re-read from the store, the scorer loaded
// at construction is reused.
func (p *Pipeline) buildClassifier(ctx context.Context) (*classify.Classifier, error) {
	keywords, err := p.store.GetKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading keywords: %w", err)
	}

	opts := []classify.Option{
		classify.WithKeywords(keywords),
		classify.WithBlockList(p.blockList),
	}
	if p.scorer != nil {
		opts = append(opts, classify.WithScorer(p.scorer))
	}
	return classify.New(opts...), nil
}

// advanceCheckpoint moves the watermark forward to maxReceived, never
// backward.
func (p *Pipeline) advanceCheckpoint(ctx context.Context, maxReceived time.Time) error {
	current, err := p.store.GetCheckpoint(ctx)
	if err != nil {
		return fmt.Errorf("reading checkpoint: %w", err)
	}
	if current != nil && !maxReceived.After(*current) {
		return nil
	}
	if err := p.store.SetCheckpoint(ctx, maxReceived); err != nil {
		return fmt.Errorf("advancing checkpoint: %w", err)
	}
	return nil
}
