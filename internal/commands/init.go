package commands

import (
	"context"
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/okra-platform/typespec-go/internal/config"
)

// InitConfigFile is the file written by the init command.
const InitConfigFile = "typespec-go.yaml"

type InitOptions struct {
	PackageName string
	OutputDir   string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	filesystem FileSystem
	output     Output
	dir        string
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
		output:     &defaultOutput{},
		dir:        ".",
	}
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	path := filepath.Join(ic.dir, InitConfigFile)
	if _, err := ic.filesystem.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}
	if err := validatePackageName(options.PackageName); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAnswer, err)
	}

	cfg := config.Default().Merge(options.PackageName, options.OutputDir)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := ic.filesystem.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	ic.output.Printf("✅ Created %s (package %s, output %s)\n", path, cfg.PackageName, cfg.OutputDir)
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	var packageName string
	var outputDir string

	form := ic.createInitForm(&packageName, &outputDir)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return &InitOptions{
		PackageName: packageName,
		OutputDir:   outputDir,
	}, nil
}

func (ic *InitCommand) createInitForm(packageName *string, outputDir *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Package name").
				Description("Go package name of the generated code").
				Placeholder(config.DefaultPackageName).
				Value(packageName).
				Validate(validatePackageName),

			huh.NewInput().
				Title("Output directory").
				Description("Where models.go and api.go are written").
				Placeholder(config.DefaultOutputDir).
				Value(outputDir),
		),
	)
}

// validatePackageName accepts an empty name, which selects the default.
func validatePackageName(s string) error {
	if s == "" {
		return nil
	}
	if !token.IsIdentifier(s) {
		return fmt.Errorf("%w: %q is not a Go identifier", ErrInvalidPackageName, s)
	}
	return nil
}
