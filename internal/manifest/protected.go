package manifest

import "strings"

// builtinProtected lists packages that are never offered for automatic
// removal even when the usage scanner flags them as unused. These are
// commonly referenced only from config files or scripts, so static analysis
// misses them.
var builtinProtected = map[string]bool{
	// depdoctor's own runtime dependencies
	"chalk":     true,
	"commander": true,
	"ora":       true,

	// Framework cores
	"react":     true,
	"react-dom": true,
	"vue":       true,
	"svelte":    true,
	"next":      true,
	"nuxt":      true,
	"express":   true,

	// Build tools
	"webpack":  true,
	"vite":     true,
	"rollup":   true,
	"esbuild":  true,
	"parcel":   true,
	"gulp":     true,

	// Test frameworks
	"jest":    true,
	"vitest":  true,
	"mocha":   true,
	"cypress": true,

	// Lint and format tools
	"eslint":      true,
	"prettier":    true,
	"husky":       true,
	"lint-staged": true,

	// Explicit allow-list
	"typescript": true,
	"nodemon":    true,
	"dotenv":     true,
}

// ProtectedSet is the removal-veto policy for one invocation: the built-in
// set unioned with user-declared entries from the manifest. Purely additive;
// there is no removal mechanism. Build it once and pass it as a parameter,
// never as shared state.
type ProtectedSet struct {
	names map[string]bool
}

// NewProtectedSet builds the protection policy from the built-in set plus
// the given user-declared names. Duplicate entries collapse (set semantics).
func NewProtectedSet(user ...string) *ProtectedSet {
	names := make(map[string]bool, len(builtinProtected)+len(user))
	for name := range builtinProtected {
		names[name] = true
	}
	for _, name := range user {
		if name != "" {
			names[name] = true
		}
	}
	return &ProtectedSet{names: names}
}

// Contains reports whether name is explicitly protected.
func (s *ProtectedSet) Contains(name string) bool {
	return s.names[name]
}

// Vetoes reports whether name must not be removed automatically: either it
// is explicitly protected, or it matches a heuristic pattern for
// type-declaration, linting, or transpiler packages.
func (s *ProtectedSet) Vetoes(name string) bool {
	if s.names[name] {
		return true
	}
	if strings.HasPrefix(name, "@types/") {
		return true
	}
	if strings.Contains(name, "eslint") {
		return true
	}
	if strings.Contains(name, "babel") {
		return true
	}
	if strings.HasPrefix(name, "ts-") || strings.Contains(name, "typescript") {
		return true
	}
	return false
}

// Len returns the number of explicitly protected names.
func (s *ProtectedSet) Len() int {
	return len(s.names)
}
