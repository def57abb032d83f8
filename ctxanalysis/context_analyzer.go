// Package ctxanalysis implements the ContextAnalyzer: a scan over the
// instruction stream that reports the currently active execution context
// as a bit-set, consumed by the static validator.
//
// The analyzer keeps a stack of context frames, one per currently open
// block, the way a compiler keeps a stack of scope entries (one per
// currently open function/closure scope) — pushed on block entry, popped
// on block exit.
package ctxanalysis

import "github.com/covfuzz/jsir/catalog"

// ContextAnalyzer tracks the stack of active contexts as instructions are
// scanned in order.
type ContextAnalyzer struct {
	frames []catalog.Context
}

// New creates a ContextAnalyzer whose root frame is root — typically
// catalog.ContextScript, the context active at the top of a program.
func New(root catalog.Context) *ContextAnalyzer {
	return &ContextAnalyzer{frames: []catalog.Context{root}}
}

// Context returns the currently active context: the top of the stack.
func (a *ContextAnalyzer) Context() catalog.Context {
	return a.frames[len(a.frames)-1]
}

// Analyze updates the context stack for one instruction: pop first if
// the instruction closes a block, then push a new frame if it opens one.
//
//   - If op.IsBlockEnd, pop the frame the closing block pushed.
//   - If op.IsBlockStart, push a new frame equal to:
//     (a) the current context ∪ requiredContext ∪ contextOpened, when
//     PropagatesSurroundingContext;
//     (b) the context two frames up, taken before any pop, when
//     ResumesSurroundingContext;
//     (c) exactly contextOpened, otherwise.
func (a *ContextAnalyzer) Analyze(op *catalog.Operation) {
	resumed := a.grandparent()
	if op.IsBlockEnd {
		a.frames = a.frames[:len(a.frames)-1]
	}
	if op.IsBlockStart {
		var next catalog.Context
		switch {
		case op.PropagatesSurroundingContext:
			next = a.Context().Union(op.RequiredContext).Union(op.ContextOpened)
		case op.ResumesSurroundingContext:
			next = resumed
		default:
			next = op.ContextOpened
		}
		a.frames = append(a.frames, next)
	}
}

// grandparent returns the context two frames up from the current top —
// the frame that was active before the immediately enclosing block was
// entered. Falls back to the current top if there is no such frame (a
// resuming op at the outermost level keeps the surrounding context).
func (a *ContextAnalyzer) grandparent() catalog.Context {
	if len(a.frames) < 2 {
		return a.Context()
	}
	return a.frames[len(a.frames)-2]
}

// Depth returns the number of currently open context frames, including
// the root. Mostly useful for diagnostics.
func (a *ContextAnalyzer) Depth() int { return len(a.frames) }
