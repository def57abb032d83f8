package types

import "sort"

// Quality distinguishes a type recorded by static inference from one
// observed at runtime.
type Quality int

const (
	Inferred Quality = iota
	Runtime
)

func (q Quality) String() string {
	if q == Runtime {
		return "runtime"
	}
	return "inferred"
}

// entry is one (instruction index, type, quality) record in a variable's
// type history, kept sorted by InstrIndex ascending.
type entry struct {
	InstrIndex int
	Type       Type
	Quality    Quality
}

// ProgramTypes maps each variable to an index-sorted history of recorded
// types. The effective type of a variable after instruction i is the type
// of the entry with the greatest InstrIndex <= i, or Unknown if none
// exists — types are always queried as of "after instruction i".
type ProgramTypes struct {
	byVariable map[int][]entry
}

// NewProgramTypes creates an empty type ledger.
func NewProgramTypes() *ProgramTypes {
	return &ProgramTypes{byVariable: map[int][]entry{}}
}

// SetType records t for variable number varNum as of afterIndex. An
// existing entry at the same index is overwritten; otherwise the new
// entry is inserted so the history stays sorted by index.
func (pt *ProgramTypes) SetType(varNum int, t Type, afterIndex int, quality Quality) {
	history := pt.byVariable[varNum]
	i := sort.Search(len(history), func(i int) bool { return history[i].InstrIndex >= afterIndex })
	if i < len(history) && history[i].InstrIndex == afterIndex {
		history[i].Type = t
		history[i].Quality = quality
		pt.byVariable[varNum] = history
		return
	}
	history = append(history, entry{})
	copy(history[i+1:], history[i:])
	history[i] = entry{InstrIndex: afterIndex, Type: t, Quality: quality}
	pt.byVariable[varNum] = history
}

// GetType returns the effective type of variable number varNum after
// instruction afterIndex: the latest recorded entry with InstrIndex <=
// afterIndex, or Unknown if there is none.
func (pt *ProgramTypes) GetType(varNum int, afterIndex int) Type {
	history := pt.byVariable[varNum]
	i := sort.Search(len(history), func(i int) bool { return history[i].InstrIndex > afterIndex })
	if i == 0 {
		return Unknown
	}
	return history[i-1].Type
}

// VarTypePair associates a variable number with a type, used by
// IndexedByInstruction.
type VarTypePair struct {
	VariableNumber int
	Type           Type
}

// OnlyRuntimeTypes returns a new ledger containing only the entries whose
// quality is Runtime.
func (pt *ProgramTypes) OnlyRuntimeTypes() *ProgramTypes {
	out := NewProgramTypes()
	for varNum, history := range pt.byVariable {
		for _, e := range history {
			if e.Quality == Runtime {
				out.byVariable[varNum] = append(out.byVariable[varNum], e)
			}
		}
	}
	return out
}

// IndexedByInstruction returns, for each instruction index in [0, size),
// the (variable, type) pairs whose recorded entry index equals that
// instruction — used by downstream tooling to locate "type changes at
// this instruction".
func (pt *ProgramTypes) IndexedByInstruction(size int) [][]VarTypePair {
	out := make([][]VarTypePair, size)
	for varNum, history := range pt.byVariable {
		for _, e := range history {
			if e.InstrIndex >= 0 && e.InstrIndex < size {
				out[e.InstrIndex] = append(out[e.InstrIndex], VarTypePair{VariableNumber: varNum, Type: e.Type})
			}
		}
	}
	for i := range out {
		sort.Slice(out[i], func(a, b int) bool { return out[i][a].VariableNumber < out[i][b].VariableNumber })
	}
	return out
}
