// Package variable provides the dense, never-reused variable identity used
// throughout the IR, along with sparse map/set collections keyed by that
// identity.
//
// A [Variable] wraps a small non-negative integer. Once an instruction
// produces a variable, its number is fixed for the lifetime of the Code
// that defines it: reassigning the value a variable denotes is a distinct
// operation (e.g. a "store" instruction) that never changes the identity
// itself. Numbers are expected to be dense and contiguous in a statically
// valid program, which is what [VariableMap.HasHoles] checks for.
package variable

import "fmt"

// MaxNumber is the largest variable number a Variable may carry.
const MaxNumber = 65535

// Variable is an identity carrying a non-negative integer. Two variables
// are equal iff their numbers are equal.
type Variable struct {
	number uint16
}

// New constructs a Variable from a number. It panics if number exceeds
// [MaxNumber]; callers that accept variable numbers from an untrusted
// source (e.g. a decoder) must range-check before calling New.
func New(number int) Variable {
	if number < 0 || number > MaxNumber {
		panic(fmt.Sprintf("variable: number %d out of range [0, %d]", number, MaxNumber))
	}
	return Variable{number: uint16(number)}
}

// Number returns the variable's number.
func (v Variable) Number() int { return int(v.number) }

// String renders the variable the way disassembled instructions do.
func (v Variable) String() string { return fmt.Sprintf("v%d", v.number) }

// Next returns the variable with the next-higher number.
func (v Variable) Next() Variable { return New(v.Number() + 1) }
