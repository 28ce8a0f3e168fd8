package grammar

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/lingo/term"
)

// Opcodes. Every instruction is a negative opcode followed by a fixed number
// of non-negative operands.
//
// A production is laid out as its header, one block per alternative and a
// closing FAIL:
//
//	ASSUME_PRODUCTION id
//	TRY_NEXT next       ; offset of the next block, or of FAIL
//	...elements
//	DONE
//	TRY_NEXT next
//	...
//	DONE
//	FAIL id
const (
	OpHalt      = -1 - iota // reserved at offset 0
	OpTryNext               // next
	OpDone                  //
	OpAssume                // production id
	OpAbstract              // production id
	OpEphemeral             // production id
	OpCapture               // production id
	OpFail                  // production id
	OpMatch                 // quant term
	OpMatchSet              // quant set
	OpNot                   // term
	OpLast                  // term
	OpSure                  //
	OpCall                  // quant part target
)

var opNames = map[int]string{
	OpHalt:      "HALT",
	OpTryNext:   "TRY_NEXT",
	OpDone:      "DONE",
	OpAssume:    "ASSUME_PRODUCTION",
	OpAbstract:  "ABSTRACT_PRODUCTION",
	OpEphemeral: "EPHEMERAL_PRODUCTION",
	OpCapture:   "CAPTURE_PRODUCTION",
	OpFail:      "FAIL",
	OpMatch:     "MATCH",
	OpMatchSet:  "MATCH_SET",
	OpNot:       "NOT",
	OpLast:      "LAST",
	OpSure:      "SURE",
	OpCall:      "CALL",
}

// OpName returns the mnemonic of op.
func OpName(op int) string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP(%d)", op)
}

// Width returns the number of operands following op.
func Width(op int) int {
	switch op {
	case OpHalt, OpDone, OpSure:
		return 0
	case OpTryNext, OpAssume, OpAbstract, OpEphemeral, OpCapture, OpFail, OpNot, OpLast:
		return 1
	case OpMatch, OpMatchSet:
		return 2
	case OpCall:
		return 3
	default:
		panic(fmt.Sprintf("grammar: unknown opcode %d", op))
	}
}

func header(k Kind) int {
	switch k {
	case Abstract:
		return OpAbstract
	case Ephemeral:
		return OpEphemeral
	case Capture:
		return OpCapture
	default:
		return OpAssume
	}
}

// emit lays out every production and returns the program with the header
// offset of each production, indexed by id-1. Calls carry the target
// production id until link rewrites them.
func emit(prods []*Production) ([]int, []int) {
	code := []int{OpHalt}
	offsets := make([]int, len(prods))
	for i, p := range prods {
		offsets[i] = len(code)
		code = append(code, header(p.kind), p.id)
		for _, alt := range p.body {
			at := len(code)
			code = append(code, OpTryNext, 0)
			for _, n := range alt {
				code = n.emit(code)
			}
			code = append(code, OpDone)
			code[at+1] = len(code)
		}
		code = append(code, OpFail, p.id)
	}
	return code, offsets
}

func (n node) emit(code []int) []int {
	switch n.op {
	case OpMatch:
		return append(code, OpMatch, int(n.quant), int(n.t))
	case OpMatchSet:
		return append(code, OpMatchSet, int(n.quant), n.set)
	case OpNot, OpLast:
		return append(code, n.op, int(n.t))
	case OpSure:
		return append(code, OpSure)
	case OpCall:
		part := 0
		if n.part != nil {
			part = n.part.id
		}
		return append(code, OpCall, int(n.quant), part, n.prod.id)
	}
	panic(fmt.Sprintf("grammar: cannot emit %s", OpName(n.op)))
}

// link rewrites the target of every call from a production id to the offset
// of that production.
func link(code []int, offsets []int) {
	for pc := 0; pc < len(code); pc += 1 + Width(code[pc]) {
		if code[pc] == OpCall {
			code[pc+3] = offsets[code[pc+3]-1]
		}
	}
}

// Disassemble writes one line per instruction of the program.
func (g *Grammar) Disassemble(w io.Writer) error {
	at := make(map[int]*Production, len(g.prods))
	for i, p := range g.prods {
		at[g.offsets[i]] = p
	}
	for pc := 0; pc < len(g.code); pc += 1 + Width(g.code[pc]) {
		if p, ok := at[pc]; ok {
			if _, err := fmt.Fprintf(w, "\n%s: ; %s\n", p.name, p.kind); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%05d  %s\n", pc, g.instruction(pc)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grammar) instruction(pc int) string {
	op := g.code[pc]
	args := g.code[pc+1 : pc+1+Width(op)]
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-20s", OpName(op))
	switch op {
	case OpTryNext:
		fmt.Fprintf(&sb, " %05d", args[0])
	case OpAssume, OpAbstract, OpEphemeral, OpCapture, OpFail:
		fmt.Fprintf(&sb, " %s", g.Production(args[0]).name)
	case OpMatch:
		fmt.Fprintf(&sb, " %s %s", Quant(args[0]), term.Term(args[1]))
	case OpMatchSet:
		fmt.Fprintf(&sb, " %s %s", Quant(args[0]), g.sets[args[1]])
	case OpNot, OpLast:
		fmt.Fprintf(&sb, " %s", term.Term(args[0]))
	case OpCall:
		part := "-"
		if p := g.Part(args[1]); p != nil {
			part = p.name
		}
		target := "?"
		for i, p := range g.prods {
			if g.offsets[i] == args[2] {
				target = p.name
				break
			}
		}
		fmt.Fprintf(&sb, " %s %s %s@%05d", Quant(args[0]), part, target, args[2])
	}
	return strings.TrimRight(sb.String(), " ")
}
