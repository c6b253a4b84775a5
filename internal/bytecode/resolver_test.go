package bytecode

import (
	"encoding/binary"
	"testing"
)

func TestResolveLabelBecomesNop(t *testing.T) {
	instrs := []Instruction{
		labelMarker{name: "top"},
		simple(opReturn),
	}
	code, err := Resolve(instrs)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []byte{opNop, opReturn}
	if string(code) != string(want) {
		t.Errorf("got %v, want %v", code, want)
	}
}

func TestResolveBackwardGoto(t *testing.T) {
	instrs := []Instruction{
		labelMarker{name: "loop"},     // offset 0
		simple(opIconst1),             // offset 1, len 1
		gotoPlaceholder{target: "loop"}, // offset 2, len 5
	}
	code, err := Resolve(instrs)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(code) != 7 {
		t.Fatalf("expected 7 bytes, got %d", len(code))
	}
	if code[0] != opNop || code[1] != opIconst1 || code[2] != opGotoW {
		t.Fatalf("unexpected opcodes: %v", code)
	}
	offset := int32(binary.BigEndian.Uint32(code[3:7]))
	// goto_w is encoded at byte position 2; jumping back to offset 0
	// means a relative offset of 0-2 = -2.
	if offset != -2 {
		t.Errorf("expected relative offset -2, got %d", offset)
	}
}

func TestResolveForwardIfeq(t *testing.T) {
	instrs := []Instruction{
		ifeqPlaceholder{target: "after"}, // offset 0, len 3
		simple(opIconst1),                // offset 3, len 1
		labelMarker{name: "after"},       // offset 4
	}
	code, err := Resolve(instrs)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if code[0] != opIfeq {
		t.Fatalf("expected ifeq opcode, got 0x%02x", code[0])
	}
	offset := int16(binary.BigEndian.Uint16(code[1:3]))
	if offset != 4 {
		t.Errorf("expected relative offset 4, got %d", offset)
	}
	if code[4] != opNop {
		t.Errorf("expected the label position to hold a nop, got 0x%02x", code[4])
	}
}

func TestResolveUnresolvedTargetIsAnError(t *testing.T) {
	instrs := []Instruction{
		gotoPlaceholder{target: "nowhere"},
	}
	if _, err := Resolve(instrs); err == nil {
		t.Error("expected an error for a jump to an undefined label")
	}
}

