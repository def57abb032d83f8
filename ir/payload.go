package ir

import (
	"github.com/covfuzz/jsir/class"
	"github.com/covfuzz/jsir/types"
)

// ClassPayload is the payload attached to a BeginClass instruction: the
// shape declared by the class body, consumed by Check to seed a
// class.ClassDefinition frame and, on the matching EndClass, to compute
// the class's instance type.
type ClassPayload struct {
	Properties  map[string]types.Type
	Methods     []class.MethodSignature
	Constructor *class.MethodSignature
	SuperType   types.Type
}

// MethodPayload is the payload attached to a BeginMethod instruction:
// the name of the method being defined, matched against the enclosing
// class's declared method list in declaration order.
type MethodPayload struct {
	Name string
}
