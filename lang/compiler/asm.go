package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Dasm renders a compiled Program as human-readable pseudo-assembly: one
// section per Prototype (locals, upvalues, constants, code), nested
// recursively for child prototypes, with each function closed by the
// opcode-histogram summary line from stats.go. It is the textual form the
// golden-file tests compare against; there is no corresponding parser and
// no binary encoding, since the real bytecode serializer is out of scope
// for this package.
func Dasm(p *Program) (string, error) {
	if p == nil || p.Toplevel == nil {
		return "", fmt.Errorf("compiler: cannot disassemble a program with no top-level prototype")
	}
	var b strings.Builder
	if p.names.len() > 0 {
		b.WriteString("globals:\n")
		for i := 0; i < p.names.len(); i++ {
			fmt.Fprintf(&b, "\t%s\t# %03d\n", dasmConst(p.names.get(uint32(i))), i)
		}
		b.WriteString("\n")
	}
	dasmFn(&b, p.Toplevel, "toplevel")
	return b.String(), nil
}

func dasmFn(b *strings.Builder, fs *FnState, name string) {
	fmt.Fprintf(b, "function: %s %d\n", name, fs.ProtoIdx)

	if len(fs.Locals) > 0 {
		b.WriteString("\tlocals:\n")
		for _, l := range fs.Locals {
			fmt.Fprintf(b, "\t\t%s\t# r%d\n", l.Name, l.Reg)
		}
	}

	if len(fs.Upvalues) > 0 {
		b.WriteString("\tupvalues:\n")
		for i, uv := range fs.Upvalues {
			kind := "upval"
			if uv.InStack {
				kind = "local"
			}
			fmt.Fprintf(b, "\t\t%s\t# %03d %s(%d)\n", uv.Name, i, kind, uv.Idx)
		}
	}

	if fs.Consts.len() > 0 {
		b.WriteString("\tconstants:\n")
		for i := 0; i < fs.Consts.len(); i++ {
			fmt.Fprintf(b, "\t\t%s\t# %03d\n", dasmConst(fs.Consts.get(uint32(i))), i)
		}
	}

	if len(fs.Code) > 0 {
		b.WriteString("\tcode:\n")
		for i, insn := range fs.Code {
			fmt.Fprintf(b, "\t\t%s\t# %03d\n", dasmInsn(insn), i)
		}
	}
	fmt.Fprintf(b, "\tstats: %s\n", gatherStats(fs))

	for i, child := range fs.Children {
		b.WriteString("\n")
		dasmFn(b, child, fmt.Sprintf("proto%d", i))
	}
}

func dasmConst(v Value) string {
	switch t := v.(type) {
	case Nil:
		return "nil"
	case Bool:
		return strconv.FormatBool(bool(t))
	case Number:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case String:
		return strconv.Quote(string(t))
	default:
		return fmt.Sprintf("<unknown %T>", v)
	}
}

// dasmInsn renders a single instruction, showing only the operands
// meaningful for its opcode rather than every field unconditionally. RK
// operands are rendered as k(N) to distinguish them from plain registers.
func dasmInsn(insn Instruction) string {
	op := insn.Op
	rk := func(v uint32) string {
		if IsK(v) {
			return fmt.Sprintf("k(%d)", KIdx(v))
		}
		return strconv.Itoa(int(v))
	}

	switch op {
	case MOVE:
		return fmt.Sprintf("%s %d %d", op, insn.A, insn.B)
	case LOADK:
		return fmt.Sprintf("%s %d k(%d)", op, insn.A, insn.Bx)
	case LOADBOOL:
		return fmt.Sprintf("%s %d %d %d", op, insn.A, insn.B, insn.C)
	case LOADNIL:
		return fmt.Sprintf("%s %d", op, insn.A)
	case GETUPVAL, SETUPVAL:
		return fmt.Sprintf("%s %d %d", op, insn.A, insn.B)
	case GETTABUP:
		return fmt.Sprintf("%s %d %d %s", op, insn.A, insn.B, rk(insn.C))
	case SETTABUP:
		return fmt.Sprintf("%s %d %s %s", op, insn.A, rk(insn.B), rk(insn.C))
	case CALL:
		return fmt.Sprintf("%s %d %d %d", op, insn.A, insn.B, insn.C)
	case RETURN:
		return fmt.Sprintf("%s %d %d", op, insn.A, insn.B)
	case CLOSURE:
		return fmt.Sprintf("%s %d %d", op, insn.A, insn.Bx)
	case JMP:
		return fmt.Sprintf("%s %d", op, insn.SBx)
	case TEST:
		return fmt.Sprintf("%s %d %d", op, insn.A, insn.C)
	case TESTSET:
		return fmt.Sprintf("%s %d %d %d", op, insn.A, insn.B, insn.C)
	case EQ, LT, LE:
		return fmt.Sprintf("%s %d %s %s", op, insn.A, rk(insn.B), rk(insn.C))
	case ADD, SUB, MUL, DIV, MOD, POW, CONCAT:
		return fmt.Sprintf("%s %d %s %s", op, insn.A, rk(insn.B), rk(insn.C))
	case UNM, NOT, LEN:
		return fmt.Sprintf("%s %d %d", op, insn.A, insn.B)
	default:
		return fmt.Sprintf("%s A=%d B=%d C=%d Bx=%d SBx=%d", op, insn.A, insn.B, insn.C, insn.Bx, insn.SBx)
	}
}
