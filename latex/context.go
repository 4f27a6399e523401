package latex

import "sort"

// Spec is the policy object describing how to parse one occurrence of a
// macro, environment, or specials construct. The core only ever
// calls through this interface; concrete macro/environment catalogs are the
// job of an external "macrospec" layer and are never implemented here.
type Spec interface {
	// GetNodeParser returns the parser to run for the construct that
	// produced initiating, e.g. the macro-call parser for a Macro spec.
	GetNodeParser(initiating Token) Parser

	// ArgumentsParser returns the parser used to read this construct's
	// argument list, or nil if it takes no arguments.
	ArgumentsParser() Parser

	// MakeBodyParser returns the parser used to read an environment's body
	// given its already-parsed arguments, or nil for specs with no body
	// (macros, specials).
	MakeBodyParser(args *ParsedArguments) Parser

	// MakeArgumentsParsingStateDelta returns the delta to apply to the
	// parsing state while parsing this construct's arguments.
	MakeArgumentsParsingStateDelta(state *ParsingState) ParsingStateDelta

	// MakeBodyParsingStateDelta returns the delta to apply to the parsing
	// state while parsing an environment's body.
	MakeBodyParsingStateDelta(args *ParsedArguments, state *ParsingState) ParsingStateDelta

	// MakeAfterParsingStateDelta returns the delta to apply to the parsing
	// state for content following this construct.
	MakeAfterParsingStateDelta(node *Node, state *ParsingState) ParsingStateDelta

	// FinalizeNode gives the spec a last chance to adjust the constructed
	// node (e.g. attach semantic metadata) before it is emitted.
	FinalizeNode(node *Node) *Node

	// String returns an opaque repr used when a node referencing this spec
	// is serialized to JSON; the core never inspects its content.
	String() string
}

// ContextDB answers macro/environment/specials lookups. It is
// consumed only through these four pure queries; the core never mutates it
// and never assumes anything about how specs are stored.
type ContextDB interface {
	GetMacroSpec(name string) (Spec, bool)
	GetEnvironmentSpec(name string) (Spec, bool)
	GetSpecialsSpec(chars string) (Spec, bool)

	// TestForSpecials matches the longest specials prefix of s starting at
	// byte offset pos, given the current parsing state (which may gate
	// which specials are active, e.g. enable_specials or math mode). It
	// returns the matched spec, the matched character sequence, and
	// whether anything matched.
	TestForSpecials(s string, pos int, state *ParsingState) (Spec, string, bool)
}

// MapContextDB is a minimal, dependency-free ContextDB backed by plain maps.
// It ships with zero predefined macros/environments/specials: it
// exists so the core and its test suite have a concrete context database to
// exercise the parser against without pulling in a real macro catalog.
type MapContextDB struct {
	macros       map[string]Spec
	environments map[string]Spec
	specials     map[string]Spec
	specialsKeys []string // sorted longest-first, kept in sync with specials
}

// NewMapContextDB creates an empty context database.
func NewMapContextDB() *MapContextDB {
	return &MapContextDB{
		macros:       make(map[string]Spec),
		environments: make(map[string]Spec),
		specials:     make(map[string]Spec),
	}
}

// AddMacro registers a macro spec under name (without the escape char).
func (db *MapContextDB) AddMacro(name string, spec Spec) *MapContextDB {
	db.macros[name] = spec
	return db
}

// AddEnvironment registers an environment spec under name.
func (db *MapContextDB) AddEnvironment(name string, spec Spec) *MapContextDB {
	db.environments[name] = spec
	return db
}

// AddSpecials registers a specials spec under its exact character sequence
// (e.g. "~", "&", "\n\n").
func (db *MapContextDB) AddSpecials(chars string, spec Spec) *MapContextDB {
	db.specials[chars] = spec
	db.specialsKeys = append(db.specialsKeys, chars)
	sort.Slice(db.specialsKeys, func(i, j int) bool {
		return len(db.specialsKeys[i]) > len(db.specialsKeys[j])
	})
	return db
}

func (db *MapContextDB) GetMacroSpec(name string) (Spec, bool) {
	s, ok := db.macros[name]
	return s, ok
}

func (db *MapContextDB) GetEnvironmentSpec(name string) (Spec, bool) {
	s, ok := db.environments[name]
	return s, ok
}

func (db *MapContextDB) GetSpecialsSpec(chars string) (Spec, bool) {
	s, ok := db.specials[chars]
	return s, ok
}

// TestForSpecials implements the longest-match contract for specials:
// specialsKeys is kept sorted longest-first, so the first match found is
// necessarily the longest one.
func (db *MapContextDB) TestForSpecials(s string, pos int, _ *ParsingState) (Spec, string, bool) {
	rest := s[pos:]
	for _, key := range db.specialsKeys {
		if len(key) <= len(rest) && rest[:len(key)] == key {
			return db.specials[key], key, true
		}
	}
	return nil, "", false
}
