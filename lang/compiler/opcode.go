package compiler

import "fmt"

// Opcode identifies a register-machine instruction compatible with the Lua
// 5.3 virtual machine's instruction set, restricted to the subset this
// generator emits.
type Opcode uint8

const ( //nolint:revive
	MOVE Opcode = iota
	LOADK
	LOADBOOL
	LOADNIL
	GETUPVAL
	SETUPVAL
	GETTABUP
	SETTABUP
	CALL
	RETURN
	CLOSURE
	JMP
	TEST
	TESTSET
	EQ
	LT
	LE
	ADD
	SUB
	MUL
	DIV
	MOD
	POW
	CONCAT
	UNM
	NOT
	LEN

	OpcodeMax = LEN
)

var opcodeNames = [...]string{
	MOVE:     "move",
	LOADK:    "loadk",
	LOADBOOL: "loadbool",
	LOADNIL:  "loadnil",
	GETUPVAL: "getupval",
	SETUPVAL: "setupval",
	GETTABUP: "gettabup",
	SETTABUP: "settabup",
	CALL:     "call",
	RETURN:   "return",
	CLOSURE:  "closure",
	JMP:      "jmp",
	TEST:     "test",
	TESTSET:  "testset",
	EQ:       "eq",
	LT:       "lt",
	LE:       "le",
	ADD:      "add",
	SUB:      "sub",
	MUL:      "mul",
	DIV:      "div",
	MOD:      "mod",
	POW:      "pow",
	CONCAT:   "concat",
	UNM:      "unm",
	NOT:      "not",
	LEN:      "len",
}

func (op Opcode) String() string {
	if op <= OpcodeMax {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// rkBit is bit 8 of a 9-bit RK operand, tagging it as a constant-pool index
// rather than a register index (spec.md §4.1).
const rkBit = 0x100

// RK returns the RK-encoded operand for constant-pool index idx.
func RK(idx uint32) uint32 { return idx | rkBit }

// IsK reports whether operand refers to the constant pool.
func IsK(operand uint32) bool { return operand&rkBit != 0 }

// KIdx returns the constant-pool index encoded in operand. Only valid when
// IsK(operand) is true.
func KIdx(operand uint32) uint32 { return operand &^ rkBit }

// Instruction is a single emitted instruction. Only the fields relevant to
// Op are meaningful; encoding into the VM's packed 32-bit word is the
// downstream serializer's responsibility (spec.md §1).
type Instruction struct {
	Op Opcode
	A  uint8
	B  uint32 // may carry an RK-tagged operand, see IsK/KIdx
	C  uint32 // may carry an RK-tagged operand, see IsK/KIdx
	Bx uint32
	SBx int32
}
