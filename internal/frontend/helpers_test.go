package frontend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/typespec-go/internal/typegraph"
)

func writeSchema(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func loadSchema(t *testing.T, name, content string) *typegraph.Graph {
	t.Helper()
	g, err := DefaultRegistry.Load(context.Background(), "", writeSchema(t, name, []byte(content)), zerolog.Nop())
	require.NoError(t, err)
	return g
}

func mustModel(t *testing.T, g *typegraph.Graph, name string) typegraph.ModelDecl {
	t.Helper()
	m, ok := g.Model(name)
	require.True(t, ok, "model %s not found", name)
	return m
}

func mustField(t *testing.T, m typegraph.ModelDecl, name string) typegraph.FieldDecl {
	t.Helper()
	f, ok := m.Field(name)
	require.True(t, ok, "field %s.%s not found", m.Name, name)
	return f
}

func mustOperation(t *testing.T, ops []typegraph.OperationDecl, name string) typegraph.OperationDecl {
	t.Helper()
	for _, op := range ops {
		if op.Name == name {
			return op
		}
	}
	require.Failf(t, "operation not found", "operation %s", name)
	return typegraph.OperationDecl{}
}
