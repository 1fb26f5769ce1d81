package naming

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	// Test: Qualifiers and non-alphanumerics are removed
	tests := []struct {
		input    string
		expected string
	}{
		{"Pet", "Pet"},
		{"PetStore.Pet", "Pet"},
		{"TypeSpec.Http.OkResponse", "OkResponse"},
		{"pet-owner", "petowner"},
		{"  spaced name ", "spacedname"},
		{"Résumé", "Rsum"},
		{"a.b.", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CleanName(tt.input), "input: %q", tt.input)
	}
}

func TestCleanName_Idempotent(t *testing.T) {
	// Test: cleanName(cleanName(x)) == cleanName(x) for random inputs
	r := rand.New(rand.NewSource(42))
	alphabet := []rune("abcXYZ019._-{}/ @$é\t")

	for i := 0; i < 500; i++ {
		n := r.Intn(20)
		runes := make([]rune, n)
		for j := range runes {
			runes[j] = alphabet[r.Intn(len(alphabet))]
		}
		input := string(runes)
		once := CleanName(input)
		assert.Equal(t, once, CleanName(once), "input: %q", input)
	}
}

func TestExportedName(t *testing.T) {
	// Test: Only the first character is capitalized
	tests := []struct {
		input    string
		expected string
	}{
		{"id", "Id"},
		{"name", "Name"},
		{"userID", "UserID"},
		{"HTTPStatus", "HTTPStatus"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExportedName(tt.input), "input: %q", tt.input)
	}
}

func TestIdentifier(t *testing.T) {
	// Test: Raw names become exported identifiers, leading digits are prefixed
	assert.Equal(t, "Pet", Identifier("PetStore.pet"))
	assert.Equal(t, "Num2fa", Identifier("2fa"))
	assert.Equal(t, "Firstname", Identifier("api.first_name"))
}

func TestMemberName(t *testing.T) {
	// Test: Enum members become constant suffixes
	tests := []struct {
		input    string
		expected string
	}{
		{"ACTIVE", "Active"},
		{"DONE", "Done"},
		{"active", "Active"},
		{"inProgress", "InProgress"},
		{"IN_PROGRESS", "InProgress"},
		{"in-progress", "InProgress"},
		{"HTTP2", "Http2"},
		{"Status.ok", "Ok"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MemberName(tt.input), "input: %q", tt.input)
	}
}

func TestParamName(t *testing.T) {
	// Test: Parameter names are unexported and never keywords
	tests := []struct {
		input    string
		expected string
	}{
		{"petId", "petId"},
		{"PetId", "petId"},
		{"ID", "id"},
		{"URLPath", "urlPath"},
		{"type", "typeParam"},
		{"ctx", "ctxParam"},
		{"string", "stringParam"},
		{"page-size", "pagesize"},
		{"1st", "p1st"},
		{"", "param"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParamName(tt.input), "input: %q", tt.input)
	}
}

func TestPathSuffix(t *testing.T) {
	// Test: Only literal path segments contribute to the suffix
	tests := []struct {
		path     string
		expected string
	}{
		{"/pets", "Pets"},
		{"/pets/{id}/items", "PetsItems"},
		{"/pets/:id/items", "PetsItems"},
		{"/pet-owners/{ownerId}", "PetOwners"},
		{"/v1//stores/", "V1Stores"},
		{"/{id}", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PathSuffix(tt.path), "path: %q", tt.path)
	}
}

func TestIsBuiltin(t *testing.T) {
	// Test: Framework namespaces and placeholder keywords are filtered
	assert.True(t, IsBuiltin("TypeSpec.Http.OkResponse"))
	assert.True(t, IsBuiltin("@typespec/http.Body"))
	assert.True(t, IsBuiltin("Record"))
	assert.True(t, IsBuiltin("string"))
	assert.False(t, IsBuiltin("Pet"))
	assert.False(t, IsBuiltin("MyTypeSpec.Pet"))
}

func TestOperationNamer_Collisions(t *testing.T) {
	// Test: First claimant wins, later ones get a path-derived suffix
	n := NewOperationNamer()

	name, collided := n.Claim("list", "/pets")
	assert.Equal(t, "List", name)
	assert.False(t, collided)

	name, collided = n.Claim("list", "/pets/{id}/items")
	assert.Equal(t, "ListPetsItems", name)
	assert.True(t, collided)

	// Same suffix again falls back to a counter rather than dropping
	name, collided = n.Claim("list", "/pets/{petId}/items")
	assert.Equal(t, "ListPetsItems2", name)
	assert.True(t, collided)

	// Placeholder-only path yields a counter on the bare name
	name, _ = n.Claim("list", "/{id}")
	assert.Equal(t, "List2", name)
}

func TestOperationNamer_Deterministic(t *testing.T) {
	// Test: Repeated runs over the same operations yield the same names
	ops := []struct{ name, path string }{
		{"list", "/pets"},
		{"get", "/pets/{id}"},
		{"list", "/pets/{id}/items"},
		{"get", "/owners/{id}"},
		{"list", "/owners"},
	}

	run := func() []string {
		n := NewOperationNamer()
		out := make([]string, 0, len(ops))
		for _, op := range ops {
			name, _ := n.Claim(op.name, op.path)
			out = append(out, name)
		}
		return out
	}

	first := run()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, run(), fmt.Sprintf("run %d", i))
	}
	assert.Equal(t, []string{"List", "Get", "ListPetsItems", "GetOwners", "ListOwners"}, first)
}

func TestOperationNamer_Reserve(t *testing.T) {
	// Test: Reserved names force a suffix on the first claimant
	n := NewOperationNamer()
	n.Reserve("Health")

	name, collided := n.Claim("health", "/status/health")
	assert.Equal(t, "HealthStatusHealth", name)
	assert.True(t, collided)
}
