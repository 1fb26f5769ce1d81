package codegen

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/okra-platform/typespec-go/internal/codegen/emit"
	"github.com/okra-platform/typespec-go/internal/codegen/walker"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Artifact reports the outcome for one generated file.
type Artifact struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Size    int    `json:"size"`
	Written bool   `json:"written"`
	Err     error  `json:"-"`
}

// Result is the outcome of a generation run.
type Result struct {
	Artifacts   []Artifact        `json:"artifacts"`
	Diagnostics []emit.Diagnostic `json:"diagnostics,omitempty"`
}

// Err combines the errors of every failed artifact.
func (r *Result) Err() error {
	var err error
	for _, a := range r.Artifacts {
		err = multierr.Append(err, a.Err)
	}
	return err
}

// Run walks the graph, renders every artifact and writes them to
// opts.OutputDir through host.
//
// Failing to create the output directory aborts the run. After that each
// artifact succeeds or fails on its own: the returned Result always lists
// both, and the error combines the failures. An artifact with failed
// operations is still written with the rest of its content.
func Run(ctx context.Context, graph *typegraph.Graph, host Host, opts Options) (*Result, error) {
	if graph == nil {
		return nil, ErrNilGraph
	}
	opts = opts.WithDefaults()
	logger := opts.Logger.With().Str("component", "codegen").Logger()

	gen, err := DefaultRegistry.Get(opts.Language, opts)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := host.MkdirAll(opts.OutputDir, dirPerm); err != nil {
			logger.Error().Err(err).Str("dir", opts.OutputDir).Msg("failed to create output directory")
			return nil, fmt.Errorf("%w %s: %w", ErrOutputDir, opts.OutputDir, err)
		}
	}

	set := walker.Walk(graph, opts.Logger)
	diags := &emit.Diagnostics{}
	outputs, err := gen.Generate(graph, set, diags)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s code: %w", gen.Language(), err)
	}

	result := &Result{Artifacts: make([]Artifact, len(outputs))}
	for i, out := range outputs {
		result.Artifacts[i] = Artifact{
			Name: out.Name,
			Path: filepath.Join(opts.OutputDir, out.Name),
		}
		if out.Err != nil {
			result.Artifacts[i].Err = fmt.Errorf("%w %s: %w", ErrArtifactWrite, out.Name, out.Err)
			if out.Content == nil {
				continue
			}
		}

		content, err := formatSource(out.Name, out.Content)
		if err != nil {
			logger.Warn().Err(err).Str("artifact", out.Name).Msg("failed to format generated code, writing it unformatted")
			diags.Add(emit.FormatFailed, out.Name, err.Error())
			content = out.Content
		}
		outputs[i].Content = content
		result.Artifacts[i].Size = len(content)
	}

	if !opts.DryRun {
		writeArtifacts(ctx, host, outputs, result.Artifacts, logger)
	}

	result.Diagnostics = diags.Items()
	for _, a := range result.Artifacts {
		if a.Err != nil {
			logger.Error().Err(a.Err).Str("artifact", a.Name).Msg("artifact failed")
		}
	}
	return result, result.Err()
}

// writeArtifacts writes every rendered artifact concurrently, including
// partial ones. A failed write is recorded on its artifact and does not stop
// the others.
func writeArtifacts(ctx context.Context, host Host, outputs []emit.Output, artifacts []Artifact, logger zerolog.Logger) {
	var g errgroup.Group
	for i := range artifacts {
		content := outputs[i].Content
		if content == nil {
			continue
		}
		a := &artifacts[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				a.Err = multierr.Append(a.Err, fmt.Errorf("%w %s: %w", ErrArtifactWrite, a.Name, err))
				return nil
			}
			if err := host.WriteFile(a.Path, content, filePerm); err != nil {
				a.Err = multierr.Append(a.Err, fmt.Errorf("%w %s: %w", ErrArtifactWrite, a.Name, err))
				return nil
			}
			a.Written = true
			logger.Info().Str("path", a.Path).Int("size", a.Size).Msg("wrote artifact")
			return nil
		})
	}
	_ = g.Wait()
}
