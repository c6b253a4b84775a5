package bytecode

import (
	"encoding/binary"
	"fmt"
	"io"
)

var mnemonics = map[byte]string{
	opNop:        "nop",
	opAconstNull: "aconst_null",
	opIconstM1:   "iconst_m1",
	opIconst0:    "iconst_0",
	opIconst1:    "iconst_1",
	opIconst2:    "iconst_2",
	opBipush:     "bipush",
	opDup:        "dup",
	opSwap:       "swap",
	opIadd:       "iadd",
	opImul:       "imul",
	opI2l:        "i2l",
	opI2c:        "i2c",
	opLcmp:       "lcmp",
	opIfeq:       "ifeq",
	opGotoW:      "goto_w",
	opReturn:     "return",
	opGetstatic:  "getstatic",
	opPutstatic:  "putstatic",
	opAload0:     "aload_0",
	opAaload:     "aaload",
	opInvokeVirt: "invokevirtual",
	opInvokeStat: "invokestatic",
}

// Disassembler renders a method's Code attribute as one mnemonic per line,
// prefixed with its byte offset. It exists to give the compiler a
// human-readable view of what it generated, for debugging and for golden
// tests that pin codegen output.
type Disassembler struct {
	w io.Writer
}

// NewDisassembler returns a Disassembler whose Disassemble writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// Disassemble walks code and writes one line per instruction. It does not
// resolve constant pool references to their values; that is left to a
// caller that has the pool in hand.
func (d *Disassembler) Disassemble(code []byte) error {
	pos := 0
	for pos < len(code) {
		op := code[pos]
		name, ok := mnemonics[op]
		if !ok {
			return fmt.Errorf("disasm: unknown opcode 0x%02x at offset %d", op, pos)
		}

		switch op {
		case opGetstatic, opPutstatic, opInvokeVirt, opInvokeStat:
			if pos+3 > len(code) {
				return fmt.Errorf("disasm: truncated operand for %s at offset %d", name, pos)
			}
			idx := binary.BigEndian.Uint16(code[pos+1:])
			fmt.Fprintf(d.w, "%4d: %-14s #%d\n", pos, name, idx)
			pos += 3
		case opBipush:
			if pos+2 > len(code) {
				return fmt.Errorf("disasm: truncated operand for %s at offset %d", name, pos)
			}
			fmt.Fprintf(d.w, "%4d: %-14s %d\n", pos, name, int8(code[pos+1]))
			pos += 2
		case opIfeq:
			if pos+3 > len(code) {
				return fmt.Errorf("disasm: truncated operand for %s at offset %d", name, pos)
			}
			off := int16(binary.BigEndian.Uint16(code[pos+1:]))
			fmt.Fprintf(d.w, "%4d: %-14s %d\n", pos, name, pos+int(off))
			pos += 3
		case opGotoW:
			if pos+5 > len(code) {
				return fmt.Errorf("disasm: truncated operand for %s at offset %d", name, pos)
			}
			off := int32(binary.BigEndian.Uint32(code[pos+1:]))
			fmt.Fprintf(d.w, "%4d: %-14s %d\n", pos, name, pos+int(off))
			pos += 5
		default:
			fmt.Fprintf(d.w, "%4d: %s\n", pos, name)
			pos++
		}
	}
	return nil
}
