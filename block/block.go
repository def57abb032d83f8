// Package block implements navigation over an already-validated Code's
// control-flow structure: Block, the span of one control-flow segment,
// and BlockGroup, the chain of sibling segments that together make up
// one construct (an if/else pair, a try/catch/finally chain, a switch's
// cases, or a for-loop's four header parts).
//
// The grouping algorithm mirrors a compiler's nested-scope stack: one
// frame pushed per opened construct, popped on close — here the frame
// tracks a BlockGroup instead of a symbol table.
package block

import "github.com/covfuzz/jsir/ir"

// Block is one instruction span within a BlockGroup: [Start, End], both
// inclusive indices into the owning Code. Start names the instruction
// that opened the span (a block-start op); End names the instruction
// that closed it (a block-end op, possibly also a block-start for the
// next sibling).
type Block struct {
	Start int
	End   int
}

// BlockGroup is an ordered chain of sibling Blocks produced by a single
// construct: length 1 for a bare if/while/class/etc., length 2 for
// if/else, length 3 for try/catch/finally, length 4 for a for-loop
// header, and variable length for a switch's cases.
type BlockGroup struct {
	Blocks []Block
}

// Head returns the index of the instruction that opened the group (the
// start of its first Block).
func (g *BlockGroup) Head() int { return g.Blocks[0].Start }

// Tail returns the index of the instruction that closed the group (the
// end of its last Block).
func (g *BlockGroup) Tail() int { return g.Blocks[len(g.Blocks)-1].End }

// Index is a precomputed map from instruction index to the Block and
// BlockGroup it belongs to, built by FindAllBlockGroups.
type Index struct {
	groups     []*BlockGroup
	blockOf    map[int]*Block
	groupOf    map[int]*BlockGroup
}

// Groups returns every BlockGroup found in the code, in the order their
// head instruction appears.
func (idx *Index) Groups() []*BlockGroup { return idx.groups }

// GroupAt returns the BlockGroup that the instruction at position i
// belongs to, or nil if i is not part of any block (i.e. top-level code).
func (idx *Index) GroupAt(i int) *BlockGroup { return idx.groupOf[i] }

// BlockAt returns the Block that the instruction at position i belongs
// to, or nil if i is not part of any block.
func (idx *Index) BlockAt(i int) *Block { return idx.blockOf[i] }

// CollectBlockGroupInstructions returns every instruction index spanned
// by g, from its head through its tail, inclusive.
func CollectBlockGroupInstructions(g *BlockGroup) []int {
	out := make([]int, 0, g.Tail()-g.Head()+1)
	for i := g.Head(); i <= g.Tail(); i++ {
		out = append(out, i)
	}
	return out
}

// FindAllBlockGroups scans code once and partitions its block-start and
// block-end instructions into BlockGroups. A combined start+end
// instruction (e.g. BeginElse, BeginSwitchCase, BeginForLoopBody)
// continues the group opened by its predecessor rather than starting a
// new one; a pure end instruction (EndIf, EndSwitch, EndClass, …)
// finalizes the group it closes.
func FindAllBlockGroups(code *ir.Code) *Index {
	idx := &Index{
		blockOf: map[int]*Block{},
		groupOf: map[int]*BlockGroup{},
	}
	var stack []*BlockGroup

	for i := 0; i < code.Len(); i++ {
		op := code.At(i).Op()

		if op.IsBlockEnd && len(stack) > 0 {
			g := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			g.Blocks[len(g.Blocks)-1].End = i

			if op.IsBlockStart {
				g.Blocks = append(g.Blocks, Block{Start: i})
				stack = append(stack, g)
				continue
			}
			continue
		}

		if op.IsBlockStart {
			g := &BlockGroup{Blocks: []Block{{Start: i}}}
			idx.groups = append(idx.groups, g)
			stack = append(stack, g)
		}
	}

	// Blocks/groups are finalized above; index instruction -> (Block,
	// BlockGroup) in a second pass now that no further appends to any
	// group's Blocks slice can invalidate pointers into it.
	for _, g := range idx.groups {
		for bi := range g.Blocks {
			b := &g.Blocks[bi]
			for k := b.Start; k <= b.End; k++ {
				idx.blockOf[k] = b
				idx.groupOf[k] = g
			}
		}
	}

	return idx
}
