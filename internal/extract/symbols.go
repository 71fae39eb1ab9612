package extract

import (
	"strings"

	"archscope/internal/metadata"
)

// SymbolTable is the read-only index of known type names built once before
// extraction begins. It is never mutated during the parallel phase, so
// concurrent reads need no synchronization beyond initialization-before-use.
type SymbolTable struct {
	kinds              map[string]metadata.TypeKind
	platformRoot       string
	platformNamespaces []string
}

// NewSymbolTable indexes the analyzed type set against the unit manifest.
func NewSymbolTable(types []metadata.TypeMetadata, manifest *metadata.Manifest) *SymbolTable {
	if manifest == nil {
		manifest = metadata.DefaultManifest()
	}
	kinds := make(map[string]metadata.TypeKind, len(types))
	for _, t := range types {
		kinds[t.Name] = t.Kind
	}
	return &SymbolTable{
		kinds:              kinds,
		platformRoot:       manifest.PlatformRoot,
		platformNamespaces: manifest.PlatformNamespaces,
	}
}

// Known reports whether the type is part of the analyzed set.
func (s *SymbolTable) Known(name string) bool {
	_, ok := s.kinds[name]
	return ok
}

// IsInterface reports whether a known type is an interface.
func (s *SymbolTable) IsInterface(name string) bool {
	return s.kinds[name] == metadata.KindInterface
}

// IsPlatformRoot reports whether the type is the platform root every class
// implicitly extends.
func (s *SymbolTable) IsPlatformRoot(name string) bool {
	return name == s.platformRoot
}

// IsPlatform reports whether the type belongs to a recognized platform or
// standard-library namespace.
func (s *SymbolTable) IsPlatform(name string) bool {
	for _, prefix := range s.platformNamespaces {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// PlatformNamespaces returns the recognized platform namespace prefixes.
func (s *SymbolTable) PlatformNamespaces() []string {
	return s.platformNamespaces
}

// Size returns the number of indexed types.
func (s *SymbolTable) Size() int {
	return len(s.kinds)
}
