// Package types implements the static type model consumed by
// ProgramTypes and by ClassDefinition's instance-type computation: a
// closed set of Type descriptors plus the per-variable type ledger that
// higher layers query.
//
// The Type hierarchy follows a small common interface with one concrete
// struct per kind, dispatched by type switch, describing static types
// rather than runtime values.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind names one member of the closed set of type shapes.
type Kind string

//nolint:revive
const (
	KindUnknown   Kind = "unknown"
	KindUndefined Kind = "undefined"
	KindNull      Kind = "null"
	KindBoolean   Kind = "boolean"
	KindInteger   Kind = "integer"
	KindFloat     Kind = "float"
	KindBigInt    Kind = "bigint"
	KindString    Kind = "string"
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindFunction  Kind = "function"
	KindUnion     Kind = "union"
)

// Type is the interface every static type descriptor implements.
type Type interface {
	Kind() Kind
	String() string
}

// primitive is a singleton type with no payload (unknown, undefined,
// null, boolean, integer, float, bigint, string).
type primitive struct{ kind Kind }

func (p primitive) Kind() Kind     { return p.kind }
func (p primitive) String() string { return string(p.kind) }

var (
	// Unknown is returned by ProgramTypes.GetType when no entry covers
	// the query index.
	Unknown   Type = primitive{KindUnknown}
	Undefined Type = primitive{KindUndefined}
	Null      Type = primitive{KindNull}
	Boolean   Type = primitive{KindBoolean}
	Integer   Type = primitive{KindInteger}
	Float     Type = primitive{KindFloat}
	BigInt    Type = primitive{KindBigInt}
	String    Type = primitive{KindString}
)

// ArrayType describes a homogeneous array.
type ArrayType struct {
	Element Type
}

func (a *ArrayType) Kind() Kind     { return KindArray }
func (a *ArrayType) String() string { return fmt.Sprintf("%s[]", a.Element.String()) }

// FunctionType describes a callable signature.
type FunctionType struct {
	Params []Type
	Result Type
}

func (f *FunctionType) Kind() Kind { return KindFunction }
func (f *FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	result := "undefined"
	if f.Result != nil {
		result = f.Result.String()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(parts, ", "), result)
}

// ObjectType describes the shape of an object: its own properties and
// methods. Class instance types are ObjectTypes produced by joining a
// class's declared shape with its superclass's instance type.
type ObjectType struct {
	Properties map[string]Type
	Methods    map[string]*FunctionType
}

// NewObjectType creates an ObjectType with freshly allocated maps.
func NewObjectType() *ObjectType {
	return &ObjectType{Properties: map[string]Type{}, Methods: map[string]*FunctionType{}}
}

func (o *ObjectType) Kind() Kind { return KindObject }

func (o *ObjectType) String() string {
	names := make([]string, 0, len(o.Properties)+len(o.Methods))
	for name := range o.Properties {
		names = append(names, name)
	}
	for name := range o.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("object{%s}", strings.Join(names, ", "))
}

// UnionType describes a value that may hold any of its Members' shapes.
type UnionType struct {
	Members []Type
}

func (u *UnionType) Kind() Kind { return KindUnion }

func (u *UnionType) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// isCompatible reports whether a and b can be merged into a single
// ObjectType by Join rather than widened into a UnionType: true when
// either side is Unknown, or both sides are ObjectTypes.
func isCompatible(a, b Type) bool {
	if a == nil || b == nil {
		return true
	}
	if a.Kind() == KindUnknown || b.Kind() == KindUnknown {
		return true
	}
	_, aIsObj := a.(*ObjectType)
	_, bIsObj := b.(*ObjectType)
	return aIsObj && bIsObj
}

// Join combines two types, used to compute a class's instance type as
// object(props, methods) joined with its superType. Compatible shapes
// merge; otherwise the result widens into a UnionType (flattening nested
// unions rather than nesting them).
func Join(a, b Type) Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Kind() == KindUnknown {
		return b
	}
	if b.Kind() == KindUnknown {
		return a
	}
	if !isCompatible(a, b) {
		return unionOf(a, b)
	}
	aObj, aIsObj := a.(*ObjectType)
	bObj, bIsObj := b.(*ObjectType)
	if aIsObj && bIsObj {
		merged := NewObjectType()
		for k, v := range bObj.Properties {
			merged.Properties[k] = v
		}
		for k, v := range aObj.Properties {
			merged.Properties[k] = v
		}
		for k, v := range bObj.Methods {
			merged.Methods[k] = v
		}
		for k, v := range aObj.Methods {
			merged.Methods[k] = v
		}
		return merged
	}
	return a
}

func unionOf(a, b Type) Type {
	members := make([]Type, 0, 2)
	if au, ok := a.(*UnionType); ok {
		members = append(members, au.Members...)
	} else {
		members = append(members, a)
	}
	if bu, ok := b.(*UnionType); ok {
		members = append(members, bu.Members...)
	} else {
		members = append(members, b)
	}
	return &UnionType{Members: members}
}
