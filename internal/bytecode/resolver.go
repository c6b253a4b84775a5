package bytecode

import (
	"encoding/binary"

	"github.com/Tom-Willemsen/splbytecode/internal/errors"
)

// Resolve performs the two-pass jump/label resolution described by the
// builder's contract and returns the final contiguous code array.
//
// Pass one walks instrs computing each item's byte offset from the sum of
// the encoded lengths of everything before it; a labelMarker's recorded
// offset is that running total at the marker's own position, before its
// length is added. Pass two re-walks in the same order, now knowing every
// label's offset, and encodes each placeholder relative to its own byte
// position.
func Resolve(instrs []Instruction) ([]byte, error) {
	offsets := make(map[string]int)
	pos := 0
	for _, instr := range instrs {
		if marker, ok := instr.(labelMarker); ok {
			offsets[marker.name] = pos
		}
		pos += instr.Len()
	}

	code := make([]byte, 0, pos)
	pos = 0
	for _, instr := range instrs {
		switch v := instr.(type) {
		case rawInstr:
			code = append(code, v...)
		case labelMarker:
			code = append(code, opNop)
		case gotoPlaceholder:
			target, ok := offsets[v.target]
			if !ok {
				return nil, errors.NewCompilationError("unresolved jump target %q", v.target)
			}
			buf := make([]byte, 5)
			buf[0] = opGotoW
			binary.BigEndian.PutUint32(buf[1:], uint32(int32(target-pos)))
			code = append(code, buf...)
		case ifeqPlaceholder:
			target, ok := offsets[v.target]
			if !ok {
				return nil, errors.NewCompilationError("unresolved jump target %q", v.target)
			}
			buf := make([]byte, 3)
			buf[0] = opIfeq
			binary.BigEndian.PutUint16(buf[1:], uint16(int16(target-pos)))
			code = append(code, buf...)
		default:
			return nil, errors.NewCompilationError("unmapped instruction kind %T", instr)
		}
		pos += instr.Len()
	}

	return code, nil
}
