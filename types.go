package main

// TypeKind is the closed set of type kinds.
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindBool
	KindInt
	KindClass
)

// Type is a value type. Two types are equal iff they compare equal with ==:
// primitives by kind, classes by declaration.
type Type struct {
	Kind  TypeKind
	Class *Class // only for KindClass
}

var (
	TypeVoid = Type{Kind: KindVoid}
	TypeBool = Type{Kind: KindBool}
	TypeInt  = Type{Kind: KindInt}
)

func ClassType(c *Class) Type {
	return Type{Kind: KindClass, Class: c}
}

// Name returns the source spelling of the type, which is also the
// component used in mangled function names.
func (t Type) Name() string {
	switch t.Kind {
	case KindVoid:
		return "Void"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindClass:
		return t.Class.Name
	default:
		panic("unknown type kind")
	}
}

func (t Type) String() string {
	return t.Name()
}

// IR returns the type's spelling in the target representation. Class values
// are pointers to their stack-allocated layout.
func (t Type) IR() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "i1"
	case KindInt:
		return "i32"
	case KindClass:
		return "%" + t.Class.Name + "*"
	default:
		panic("unknown type kind")
	}
}

func (t Type) IsClass() bool {
	return t.Kind == KindClass
}

// builtinTypes maps the names of the primitive types.
var builtinTypes = map[string]Type{
	"Void": TypeVoid,
	"Bool": TypeBool,
	"Int":  TypeInt,
}
