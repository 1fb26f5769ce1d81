package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/okra-platform/typespec-go/internal/codegen"
	"github.com/okra-platform/typespec-go/internal/config"
	"github.com/okra-platform/typespec-go/internal/frontend"
)

// GenerateOptions are the command-line inputs of one generation pass. Empty
// values fall back to the config file, then to defaults.
type GenerateOptions struct {
	Input       string
	Format      string
	PackageName string
	OutputDir   string
	DryRun      bool
}

// ConfigLoader finds the project config file.
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
}

type defaultConfigLoader struct{}

func (l *defaultConfigLoader) LoadConfig() (*config.Config, string, error) {
	return config.LoadConfig()
}

// GenerateDependencies for the generate command
type GenerateDependencies struct {
	ConfigLoader ConfigLoader
	Frontends    *frontend.Registry
	Host         codegen.Host
	Output       Output
	Logger       zerolog.Logger
}

// GenerateCommand runs a single load, generate and write pass.
type GenerateCommand struct {
	deps GenerateDependencies
}

// NewGenerateCommand creates a generate command with default dependencies
func NewGenerateCommand(logger zerolog.Logger) *GenerateCommand {
	return &GenerateCommand{
		deps: GenerateDependencies{
			ConfigLoader: &defaultConfigLoader{},
			Frontends:    frontend.DefaultRegistry,
			Host:         codegen.OSHost{},
			Output:       &defaultOutput{},
			Logger:       logger,
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (gc *GenerateCommand) WithDependencies(deps GenerateDependencies) *GenerateCommand {
	gc.deps = deps
	return gc
}

// Execute runs the generate command
func (gc *GenerateCommand) Execute(ctx context.Context, opts GenerateOptions) error {
	if opts.Input == "" {
		return ErrMissingInput
	}

	runOpts, err := gc.resolveOptions(opts)
	if err != nil {
		return err
	}

	graph, err := gc.deps.Frontends.Load(ctx, opts.Format, opts.Input, gc.deps.Logger)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", opts.Input, err)
	}

	result, err := codegen.Run(ctx, graph, gc.deps.Host, runOpts)
	if result != nil {
		gc.report(result, runOpts.DryRun)
	}
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	return nil
}

// resolveOptions merges flags over the config file. An output directory from
// the config file is relative to the directory holding it. The resulting
// package name must be a Go identifier.
func (gc *GenerateCommand) resolveOptions(opts GenerateOptions) (codegen.Options, error) {
	cfg, projectRoot, err := gc.deps.ConfigLoader.LoadConfig()
	switch {
	case errors.Is(err, config.ErrNotFound):
		cfg, projectRoot = config.Default(), ""
	case err != nil:
		return codegen.Options{}, fmt.Errorf("failed to load project config: %w", err)
	}

	merged := cfg.Merge(opts.PackageName, opts.OutputDir)
	if err := validatePackageName(merged.PackageName); err != nil {
		return codegen.Options{}, err
	}
	outputDir := merged.OutputDir
	if opts.OutputDir == "" && projectRoot != "" && !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(projectRoot, outputDir)
	}

	return codegen.Options{
		PackageName: merged.PackageName,
		OutputDir:   outputDir,
		DryRun:      opts.DryRun,
		Logger:      gc.deps.Logger,
	}, nil
}

func (gc *GenerateCommand) report(result *codegen.Result, dryRun bool) {
	out := gc.deps.Output
	for _, d := range result.Diagnostics {
		out.Printf("⚠️  %s %s: %s\n", d.Kind, d.Subject, d.Message)
	}

	written := 0
	for _, a := range result.Artifacts {
		switch {
		case a.Err != nil && a.Written:
			written++
			out.Printf("⚠️  %s (%d bytes, incomplete): %v\n", a.Path, a.Size, a.Err)
		case a.Err != nil:
			out.Printf("❌ %s: %v\n", a.Path, a.Err)
		case dryRun:
			out.Printf("📝 %s (%d bytes)\n", a.Path, a.Size)
		default:
			written++
			out.Printf("✅ %s (%d bytes)\n", a.Path, a.Size)
		}
	}
	if dryRun {
		out.Println("Dry run: no files were written")
		return
	}
	out.Printf("Generated %d of %d files\n", written, len(result.Artifacts))
}
