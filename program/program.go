// Package program implements the Program bundle: a handle combining a
// validated Code sequence with its collected types, human-readable
// comments, a stable identity, and lineage back to the program it was
// derived from. A Program has no setter for its Code, but it is not
// immutable: its parent and type-collection status have setters, and
// Code, Types and Comments are returned by pointer, so their contents can
// be changed in place.
package program

import (
	"github.com/google/uuid"

	"github.com/covfuzz/jsir/ir"
	"github.com/covfuzz/jsir/types"
)

// TypeCollectionStatus records how much of a Program's ProgramTypes
// ledger reflects actual execution versus static inference.
type TypeCollectionStatus int

const (
	// TypesNotCollected means no type information has been gathered yet.
	TypesNotCollected TypeCollectionStatus = iota
	// TypesInferredOnly means every recorded type came from static
	// inference (quality types.Inferred), never from execution.
	TypesInferredOnly
	// TypesRuntimeCollected means the program has been executed at least
	// once and carries types.Runtime entries.
	TypesRuntimeCollected
)

func (s TypeCollectionStatus) String() string {
	switch s {
	case TypesInferredOnly:
		return "inferred-only"
	case TypesRuntimeCollected:
		return "runtime-collected"
	default:
		return "not-collected"
	}
}

// Comments attaches free-form text to a Program: a header shown before
// the first instruction, a footer shown after the last, and a per
// instruction-index annotation map. The wire encoding carries all three;
// neither asmparse.Disassemble nor the inspect TUI renders them.
type Comments struct {
	Header         string
	Footer         string
	PerInstruction map[int]string
}

// NewComments creates an empty Comments value.
func NewComments() *Comments {
	return &Comments{PerInstruction: map[int]string{}}
}

// Program bundles a Code sequence with everything that travels alongside
// it: its collected types, its comments, a process-wide-unique
// identifier, and (optionally) the identifier of the program it was
// derived from.
type Program struct {
	id                   uuid.UUID
	code                 *ir.Code
	types                *types.ProgramTypes
	comments             *Comments
	parent               *uuid.UUID
	typeCollectionStatus TypeCollectionStatus
}

// New creates a fresh Program wrapping code, with a new identity, no
// parent, and an empty type ledger and comment set. It asserts code's
// validity: a Program only ever wraps already-valid Code, so New rejects
// any Code that fails the static validator.
func New(code *ir.Code) (*Program, error) {
	if err := code.Check(); err != nil {
		return nil, err
	}
	return &Program{
		id:       uuid.New(),
		code:     code,
		types:    types.NewProgramTypes(),
		comments: NewComments(),
	}, nil
}

// Restore reconstructs a Program with an already-known identity and
// full state — used by the wire package when decoding a previously
// encoded Program, where the original identity and lineage must be
// preserved rather than regenerated.
func Restore(id uuid.UUID, code *ir.Code, pt *types.ProgramTypes, comments *Comments, parent *uuid.UUID, status TypeCollectionStatus) *Program {
	return &Program{
		id:                   id,
		code:                 code,
		types:                pt,
		comments:             comments,
		parent:               parent,
		typeCollectionStatus: status,
	}
}

// ID returns the program's stable identity.
func (p *Program) ID() uuid.UUID { return p.id }

// Code returns the program's instruction sequence.
func (p *Program) Code() *ir.Code { return p.code }

// Types returns the program's type ledger.
func (p *Program) Types() *types.ProgramTypes { return p.types }

// Comments returns the program's comment set.
func (p *Program) Comments() *Comments { return p.comments }

// Parent returns the identifier of the program this one was derived
// from, or nil if it has none (e.g. a freshly generated seed program).
func (p *Program) Parent() *uuid.UUID { return p.parent }

// SetParent records parent as this program's lineage ancestor.
func (p *Program) SetParent(parent uuid.UUID) { p.parent = &parent }

// TypeCollectionStatus reports how the program's type ledger was built.
func (p *Program) TypeCollectionStatus() TypeCollectionStatus { return p.typeCollectionStatus }

// SetTypeCollectionStatus updates the type-collection status, typically
// after a runtime type-collection pass has merged in types.Runtime
// entries.
func (p *Program) SetTypeCollectionStatus(s TypeCollectionStatus) { p.typeCollectionStatus = s }

// Validate runs the static validator over the program's code.
func (p *Program) Validate() error { return p.code.Check() }
