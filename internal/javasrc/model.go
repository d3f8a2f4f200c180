package javasrc

// MethodDescriptor is the structural summary of one Java method or
// constructor. Constructors are reported uniformly as methods: the name
// equals the class name and the return type is empty.
type MethodDescriptor struct {
	Name       string      `json:"name"`
	Class      string      `json:"class"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"return_type"`
	Visibility string      `json:"visibility"`
	Line       int         `json:"line"`
	Static     bool        `json:"static"`
}

// Parameter is one formal parameter. Varargs keep their ellipsis in the
// type ("String...") and arrays keep their brackets ("int[]").
type Parameter struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Visibility values as written in source. A declaration with no access
// modifier reports "package"; no semantic rules are applied.
const (
	VisibilityPublic    = "public"
	VisibilityProtected = "protected"
	VisibilityPrivate   = "private"
	VisibilityPackage   = "package"
)

// SourceModel is the extracted structure of one Java source file.
// Methods appear in source order. Nested types are qualified with their
// enclosing chain ("Outer.Inner"), never merged into the outer class.
type SourceModel struct {
	Package string             `json:"package"`
	Classes []string           `json:"classes"`
	Methods []MethodDescriptor `json:"methods"`
}

// PrimaryClass returns the first declared type name, or "" for a file
// without type declarations.
func (m *SourceModel) PrimaryClass() string {
	if len(m.Classes) == 0 {
		return ""
	}
	return m.Classes[0]
}

// MethodsOf returns the methods declared directly on the given class name
// (qualified for nested types), preserving source order.
func (m *SourceModel) MethodsOf(class string) []MethodDescriptor {
	var methods []MethodDescriptor
	for _, method := range m.Methods {
		if method.Class == class {
			methods = append(methods, method)
		}
	}
	return methods
}
