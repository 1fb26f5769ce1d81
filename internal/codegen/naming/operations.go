package naming

import "strconv"

// OperationNamer assigns collision-free exported method names to operations
// within one emitted artifact. Names are claimed in call order: the first
// operation keeps its name, later ones gain a suffix built from their path.
type OperationNamer struct {
	claimed map[string]bool
}

// NewOperationNamer creates an empty namer.
func NewOperationNamer() *OperationNamer {
	return &OperationNamer{claimed: make(map[string]bool)}
}

// Claim returns the exported name for an operation and whether it had to be
// disambiguated. When the path suffix is empty or also taken, a numeric
// counter is appended so no operation is ever dropped.
func (n *OperationNamer) Claim(rawName, path string) (string, bool) {
	base := Identifier(rawName)
	if base == "" {
		base = "Operation"
	}
	if !n.claimed[base] {
		n.claimed[base] = true
		return base, false
	}

	candidate := base + PathSuffix(path)
	for i := 2; n.claimed[candidate]; i++ {
		candidate = base + PathSuffix(path) + strconv.Itoa(i)
	}
	n.claimed[candidate] = true
	return candidate, true
}

// Reserve marks a name as taken without it belonging to an operation.
func (n *OperationNamer) Reserve(name string) {
	n.claimed[name] = true
}
