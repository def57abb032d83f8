// Package class implements ClassDefinition: the bookkeeping a validator
// needs while scanning the body of a class literal, tracking which
// declared methods have been matched by a BeginMethod instruction and
// computing the class's resulting instance type.
//
// The declared-method bookkeeping mirrors a compiler's nested-scope
// stack (push one frame per nested scope, pop on exit) — here one frame
// per nested class body, carrying class-specific state instead of
// symbol bindings.
package class

import (
	"errors"
	"fmt"

	"github.com/covfuzz/jsir/types"
)

// ErrUnexpectedMethod is returned by NextMethod when a BeginMethod
// instruction names a method that was not declared on the class, or
// appears after all declared methods have already been matched.
var ErrUnexpectedMethod = errors.New("class: unexpected method declaration")

// ErrMissingMethods is returned when a class body ends before every
// declared method has been matched by a BeginMethod instruction.
var ErrMissingMethods = errors.New("class: not all declared methods were defined")

// MethodSignature names one method declared on a class, along with its
// callable shape.
type MethodSignature struct {
	Name   string
	Params []types.Type
	Result types.Type
}

// ClassDefinition tracks one open class body: its declared instance
// properties, the methods still awaiting a matching BeginMethod, and the
// superclass's instance type (for Join).
type ClassDefinition struct {
	properties map[string]types.Type
	declared   []MethodSignature // original declaration order, kept for InstanceType
	pending    []MethodSignature // reversed, popped from the end by NextMethod
	superType  types.Type
	ctor       *MethodSignature
}

// New creates a ClassDefinition for a class with the given declared
// instance properties, declared methods (in declaration order), optional
// constructor signature, and superType (nil if the class has no
// superclass).
func New(properties map[string]types.Type, methods []MethodSignature, ctor *MethodSignature, superType types.Type) *ClassDefinition {
	props := map[string]types.Type{}
	for k, v := range properties {
		props[k] = v
	}
	declared := append([]MethodSignature(nil), methods...)
	pending := make([]MethodSignature, len(declared))
	for i, m := range declared {
		pending[len(declared)-1-i] = m
	}
	return &ClassDefinition{
		properties: props,
		declared:   declared,
		pending:    pending,
		superType:  superType,
		ctor:       ctor,
	}
}

// NextMethod matches a BeginMethod instruction naming methodName against
// the next declared method not yet matched, in declaration order. It returns an error
// if methodName does not match the next expected declaration.
func (c *ClassDefinition) NextMethod(methodName string) (MethodSignature, error) {
	if len(c.pending) == 0 {
		return MethodSignature{}, fmt.Errorf("%w: %q (no declared methods remain)", ErrUnexpectedMethod, methodName)
	}
	next := c.pending[len(c.pending)-1]
	if next.Name != methodName {
		return MethodSignature{}, fmt.Errorf("%w: expected %q, got %q", ErrUnexpectedMethod, next.Name, methodName)
	}
	c.pending = c.pending[:len(c.pending)-1]
	return next, nil
}

// AllMethodsDeclared reports whether every method declared on the class
// has been matched by a BeginMethod instruction.
func (c *ClassDefinition) AllMethodsDeclared() bool { return len(c.pending) == 0 }

// Close finalizes the class body, returning ErrMissingMethods if any
// declared method was never matched.
func (c *ClassDefinition) Close() error {
	if !c.AllMethodsDeclared() {
		missing := make([]string, len(c.pending))
		for i, m := range c.pending {
			missing[i] = m.Name
		}
		return fmt.Errorf("%w: %v", ErrMissingMethods, missing)
	}
	return nil
}

// Constructor returns the class's constructor signature, or nil if it
// declares none (in which case the superclass's constructor applies).
func (c *ClassDefinition) Constructor() *MethodSignature { return c.ctor }

// InstanceType computes the class's resulting instance type: an
// ObjectType built from its declared properties and methods, joined with
// the superclass's instance type.
func (c *ClassDefinition) InstanceType() types.Type {
	obj := types.NewObjectType()
	for name, t := range c.properties {
		obj.Properties[name] = t
	}
	for _, m := range c.declared {
		obj.Methods[m.Name] = &types.FunctionType{Params: m.Params, Result: m.Result}
	}
	return types.Join(obj, c.superType)
}

// Stack tracks the nesting of currently open class bodies, one frame per
// BeginClass not yet matched by an EndClass.
type Stack struct {
	frames []*ClassDefinition
}

// NewStack creates an empty class-definition stack.
func NewStack() *Stack { return &Stack{} }

// Push opens a new class body frame.
func (s *Stack) Push(def *ClassDefinition) { s.frames = append(s.frames, def) }

// Pop closes the innermost open class body, returning it after validating
// (via Close) that all declared methods were matched.
func (s *Stack) Pop() (*ClassDefinition, error) {
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("class: EndClass with no matching BeginClass")
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	if err := top.Close(); err != nil {
		return top, err
	}
	return top, nil
}

// Current returns the innermost open class body, or nil if no class body
// is currently open.
func (s *Stack) Current() *ClassDefinition {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of currently open class bodies.
func (s *Stack) Depth() int { return len(s.frames) }
