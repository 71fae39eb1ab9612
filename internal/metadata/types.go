// Package metadata defines the compiled-unit records the analysis core
// consumes. The core does not care how these records were produced
// (disassembly, IR dumps, etc.), only that the instruction streams expose
// classifiable operation categories.
package metadata

// TypeKind classifies an analyzed type
type TypeKind string

const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindAnnotation TypeKind = "annotation"
)

// Visibility of a type or member
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPackage   Visibility = "package"
	VisibilityPrivate   Visibility = "private"
)

// Op classifies a single instruction in a method body
type Op string

const (
	// OpInvoke is a call targeting a member on another type
	OpInvoke Op = "invoke"
	// OpNew creates a new instance of a target type
	OpNew Op = "new"
	// OpTypeCheck checks or casts to a target type
	OpTypeCheck Op = "typecheck"
	// OpFieldWrite assigns a value to a field of the owning type
	OpFieldWrite Op = "fieldwrite"
)

// Instruction is one entry of a method's sequential instruction stream.
// Target carries the resolved (or unresolved/external) target type name.
type Instruction struct {
	Op     Op     `json:"op"`
	Target string `json:"target,omitempty"`
	Member string `json:"member,omitempty"` // invoked member or written field
}

// Method describes a declared method and its body
type Method struct {
	Name       string        `json:"name"`
	Signature  string        `json:"signature,omitempty"`
	Visibility Visibility    `json:"visibility,omitempty"`
	Static     bool          `json:"static,omitempty"`
	Body       []Instruction `json:"body,omitempty"`

	// Truncated marks a method body the producer could not fully decode.
	// Extraction keeps whatever the stream yielded up to that point and
	// flags the owning type as partial.
	Truncated bool `json:"truncated,omitempty"`
}

// IsConstructor reports whether the method is an instance constructor.
func (m Method) IsConstructor() bool {
	return m.Name == "<init>"
}

// IsSetter reports whether the method follows the setter naming convention.
func (m Method) IsSetter() bool {
	return len(m.Name) > 3 && m.Name[:3] == "set" && m.Name[3] >= 'A' && m.Name[3] <= 'Z'
}

// Field describes a declared field
type Field struct {
	Name       string     `json:"name"`
	TypeName   string     `json:"type"`
	Visibility Visibility `json:"visibility,omitempty"`
	Static     bool       `json:"static,omitempty"`
	Final      bool       `json:"final,omitempty"`

	// InjectionMarkers holds annotation names indicating the field's
	// value is supplied from outside the owning type's lifetime
	InjectionMarkers []string `json:"injectionMarkers,omitempty"`
}

// Injected reports whether the field carries any injection marker.
func (f Field) Injected() bool {
	return len(f.InjectionMarkers) > 0
}

// TypeMetadata is the per-type record supplied by the compiled-unit loader
type TypeMetadata struct {
	Name       string     `json:"name"` // fully qualified
	Kind       TypeKind   `json:"kind"`
	Visibility Visibility `json:"visibility,omitempty"`
	Abstract   bool       `json:"abstract,omitempty"`

	SuperClass string   `json:"superClass,omitempty"`
	Interfaces []string `json:"interfaces,omitempty"`

	Fields  []Field  `json:"fields,omitempty"`
	Methods []Method `json:"methods,omitempty"`
}

// Package returns the declaring package of a fully qualified type name.
func Package(typeName string) string {
	for i := len(typeName) - 1; i >= 0; i-- {
		if typeName[i] == '.' {
			return typeName[:i]
		}
	}
	return ""
}

// SimpleName returns the unqualified name of a fully qualified type name.
func SimpleName(typeName string) string {
	for i := len(typeName) - 1; i >= 0; i-- {
		if typeName[i] == '.' {
			return typeName[i+1:]
		}
	}
	return typeName
}
