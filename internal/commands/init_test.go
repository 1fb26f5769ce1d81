package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan:
// 1. Test config file already present
// 2. Test successful config creation with answers and defaults
// 3. Test package name validation
// 4. Test write failures
// 5. Test form input with tea.WithInput

type mockFileSystem struct {
	statCalls    []string
	writeFileErr error
	files        map[string][]byte
}

func (m *mockFileSystem) Stat(name string) (os.FileInfo, error) {
	m.statCalls = append(m.statCalls, name)
	if _, ok := m.files[name]; ok {
		return nil, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if m.writeFileErr != nil {
		return m.writeFileErr
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = data
	return nil
}

type recordingOutput struct {
	lines []string
}

func (o *recordingOutput) Printf(format string, a ...any) {
	o.lines = append(o.lines, strings.TrimSpace(fmt.Sprintf(format, a...)))
}

func (o *recordingOutput) Println(a ...any) {
	o.lines = append(o.lines, strings.TrimSpace(fmt.Sprintln(a...)))
}

func (o *recordingOutput) String() string {
	return strings.Join(o.lines, "\n")
}

func newTestInitCommand(fs *mockFileSystem, opts *InitOptions) *InitCommand {
	return &InitCommand{
		filesystem:  fs,
		output:      &recordingOutput{},
		dir:         "/project",
		testOptions: opts,
	}
}

func TestInitCommand_Run_ConfigExists(t *testing.T) {
	// Test: an existing config file is never overwritten
	mockFS := &mockFileSystem{files: map[string][]byte{"/project/typespec-go.yaml": []byte("packageName: x\n")}}
	cmd := newTestInitCommand(mockFS, &InitOptions{PackageName: "pets"})

	err := cmd.Run(context.Background())
	assert.ErrorIs(t, err, ErrConfigExists)
	assert.Equal(t, "packageName: x\n", string(mockFS.files["/project/typespec-go.yaml"]))
}

func TestInitCommand_Run_FullFlow(t *testing.T) {
	tests := []struct {
		name     string
		options  *InitOptions
		expected string
	}{
		{
			name:     "answers are written",
			options:  &InitOptions{PackageName: "petstore", OutputDir: "internal/api"},
			expected: "packageName: petstore\noutputDir: internal/api\n",
		},
		{
			name:     "empty answers use defaults",
			options:  &InitOptions{},
			expected: "packageName: api\noutputDir: generated\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Test: the config file holds the answers
			mockFS := &mockFileSystem{}
			cmd := newTestInitCommand(mockFS, tt.options)

			require.NoError(t, cmd.Run(context.Background()))
			assert.Equal(t, tt.expected, string(mockFS.files["/project/typespec-go.yaml"]))
			assert.Contains(t, cmd.output.(*recordingOutput).String(), "Created /project/typespec-go.yaml")
		})
	}
}

func TestInitCommand_Run_InvalidPackageName(t *testing.T) {
	// Test: package names must be Go identifiers
	mockFS := &mockFileSystem{}
	cmd := newTestInitCommand(mockFS, &InitOptions{PackageName: "pet-store"})

	err := cmd.Run(context.Background())
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	assert.ErrorIs(t, err, ErrInvalidPackageName)
	assert.Empty(t, mockFS.files)
}

func TestInitCommand_Run_WriteError(t *testing.T) {
	// Test: write failures are reported with the path
	cmd := newTestInitCommand(&mockFileSystem{writeFileErr: errors.New("read-only")}, &InitOptions{})

	err := cmd.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write /project/typespec-go.yaml")
}

func TestValidatePackageName(t *testing.T) {
	// Test: identifiers and empty names pass, others fail
	assert.NoError(t, validatePackageName(""))
	assert.NoError(t, validatePackageName("petstore"))
	assert.NoError(t, validatePackageName("api_v2"))
	assert.ErrorIs(t, validatePackageName("2api"), ErrInvalidPackageName)
	assert.ErrorIs(t, validatePackageName("type"), ErrInvalidPackageName)
	assert.ErrorIs(t, validatePackageName("pet.store"), ErrInvalidPackageName)
}

func TestInitCommand_RealFileSystem(t *testing.T) {
	// Test: the default file system writes into the target directory
	dir := t.TempDir()
	cmd := NewInitCommand()
	cmd.dir = dir
	cmd.output = &recordingOutput{}
	cmd.testOptions = &InitOptions{PackageName: "pets"}

	require.NoError(t, cmd.Run(context.Background()))
	data, err := os.ReadFile(filepath.Join(dir, InitConfigFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "packageName: pets")
}

// Integration test for the form - skip in CI but useful for local development
func TestInitCommand_promptInitOptions_Interactive(t *testing.T) {
	// Always skip this test in automated runs to prevent deadlocks
	if os.Getenv("INTERACTIVE_TEST") != "true" {
		t.Skip("Skipping interactive test. Set INTERACTIVE_TEST=true to run")
	}

	// Test: form accepts input via tea.WithInput
	cmd := newTestInitCommand(&mockFileSystem{}, nil)

	// Simulate user input: package name + enter + output dir + enter
	input := strings.NewReader("petstore\ngen\n")

	options, err := cmd.promptInitOptions(
		tea.WithInput(input),
		tea.WithoutRenderer(),
	)
	require.NoError(t, err)
	assert.Equal(t, "petstore", options.PackageName)
	assert.Equal(t, "gen", options.OutputDir)
}
