package compress

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
)

// Tool binds the search to input/output resolution: it downloads remote
// inputs, probes them, runs the Searcher against a scratch file, and
// promotes the final output only after the search terminates.
type Tool struct {
	resolver *mediaio.Resolver
	prober   ports.Prober
	searcher *Searcher
	fs       ports.FileSystem
	logger   ports.Logger
}

// NewTool creates a Tool.
func NewTool(resolver *mediaio.Resolver, prober ports.Prober, searcher *Searcher, fs ports.FileSystem, logger ports.Logger) *Tool {
	return &Tool{
		resolver: resolver,
		prober:   prober,
		searcher: searcher,
		fs:       fs,
		logger:   logger,
	}
}

// Run executes the compression search for inputSpec and writes the
// final output to outputSpec. Remote inputs are always downloaded;
// repeated encodes over a streaming source would refetch it every pass.
// The returned Result reports Success=false when only the bitrate
// fallback ran and still missed the budget; that is not an error.
func (t *Tool) Run(ctx context.Context, inputSpec, outputSpec string, opts Options) (Result, error) {
	budget, err := opts.budget()
	if err != nil {
		return Result{}, err
	}

	in, err := t.resolver.ResolveInput(ctx, inputSpec, mediaio.ModeDownload)
	if err != nil {
		return Result{}, err
	}
	defer in.Close()

	probe, err := t.prober.Probe(ctx, in.Ref)
	if err != nil {
		return Result{}, fmt.Errorf("probe %s: %w", inputSpec, err)
	}
	if !probe.HasVideo {
		return Result{}, fmt.Errorf("%w: %s has no video stream", ErrInput, inputSpec)
	}
	if probe.Duration <= 0 {
		return Result{}, fmt.Errorf("%w: %s has no determinable duration", ErrInput, inputSpec)
	}

	out, err := t.resolver.ResolveOutput(outputSpec, "compressed.mp4", "video/mp4")
	if err != nil {
		return Result{}, err
	}
	defer out.Close()

	scratchDir, err := t.fs.TempDir("viseeker_compress")
	if err != nil {
		return Result{}, fmt.Errorf("create scratch dir: %w", err)
	}
	defer t.fs.RemoveAll(scratchDir)
	scratch := filepath.Join(scratchDir, "candidate.mp4")

	t.logger.Info("Compressing %s toward %d bytes", inputSpec, budget)
	outcome, err := t.searcher.Search(ctx, in.Ref, scratch, budget, opts, probe)
	if err != nil {
		return Result{}, err
	}

	// The final attempt is promoted whether or not it met the budget.
	if err := t.fs.Rename(scratch, out.LocalPath); err != nil {
		return Result{}, fmt.Errorf("promote output: %w", err)
	}
	if err := out.Commit(ctx); err != nil {
		return Result{}, err
	}

	res := Result{
		InputSpec:   inputSpec,
		OutputSpec:  outputSpec,
		TargetBytes: budget,
		ActualBytes: outcome.FinalBytes,
		Strategy:    outcome.Strategy,
		Success:     outcome.Success,
		Attempts:    outcome.Attempts,
	}
	if out.S3URL != "" {
		res.S3URL = out.S3URL
	} else {
		res.LocalPath = out.LocalPath
	}
	return res, nil
}
