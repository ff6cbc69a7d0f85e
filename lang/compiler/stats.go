package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// opcodeStats is a per-prototype opcode histogram, supplementing the
// textual disassembly with a quick summary of what a compiled function
// actually emits.
type opcodeStats struct {
	counts map[Opcode]int
	total  int
}

func gatherStats(fs *FnState) opcodeStats {
	st := opcodeStats{counts: make(map[Opcode]int, len(fs.Code))}
	for _, insn := range fs.Code {
		st.counts[insn.Op]++
		st.total++
	}
	return st
}

// String renders the histogram as "op:count" pairs, most frequent first,
// ties broken alphabetically for deterministic golden output.
func (st opcodeStats) String() string {
	if st.total == 0 {
		return "(no instructions)"
	}

	ops := maps.Keys(st.counts)
	slices.SortFunc(ops, func(a, b Opcode) int {
		if st.counts[a] != st.counts[b] {
			return st.counts[b] - st.counts[a]
		}
		return strings.Compare(a.String(), b.String())
	})

	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%s:%d", op, st.counts[op])
	}
	return strings.Join(parts, " ")
}

// distinctOpcodes reports how many distinct opcodes a prototype tree uses,
// counting every descendant prototype. Mostly useful in tests as a coarse
// sanity check that codegen exercises more than a single instruction kind.
func distinctOpcodes(fs *FnState) int {
	seen := make(map[Opcode]bool)
	var walk func(*FnState)
	walk = func(n *FnState) {
		for _, insn := range n.Code {
			seen[insn.Op] = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(fs)
	return len(seen)
}
