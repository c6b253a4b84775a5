package bytecode

import (
	"encoding/binary"

	"github.com/Tom-Willemsen/splbytecode/internal/errors"
)

// tag identifies the kind of a constant pool entry, per the class file
// format's constant_pool_info discriminator.
type tag byte

const (
	tagUtf8        tag = 1
	tagInteger     tag = 3
	tagClass       tag = 7
	tagString      tag = 8
	tagFieldref    tag = 9
	tagMethodref   tag = 10
	tagNameAndType tag = 12
)

// ConstantPool is the class file's constant_pool: an insertion-ordered,
// deduplicated table of constants. Entries are addressed by a 1-based
// index, matching the class file format's own indexing (index 0 is
// reserved and never used).
type ConstantPool struct {
	entries []string // each entry's fully encoded bytes (tag + body)
	index   map[string]uint16
}

// NewConstantPool returns an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{index: make(map[string]uint16)}
}

// Len reports how many entries the pool holds.
func (p *ConstantPool) Len() int { return len(p.entries) }

// Entries returns the pool's entries in insertion order, each already
// encoded as it will appear on disk.
func (p *ConstantPool) Entries() []string { return p.entries }

// add returns the existing index for encoded if an identical entry is
// already present; otherwise it appends and returns the new index.
func (p *ConstantPool) add(encoded string) uint16 {
	if idx, ok := p.index[encoded]; ok {
		return idx
	}
	p.entries = append(p.entries, encoded)
	idx := uint16(len(p.entries))
	p.index[encoded] = idx
	return idx
}

// AddUtf8 interns s as a Utf8 entry. The modified-UTF8 special forms (a
// lone 0x00 byte, or any byte in 0xF0-0xFF) are unimplemented and
// rejected with EncodingError.
func (p *ConstantPool) AddUtf8(s string) (uint16, error) {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == 0x00 || b >= 0xF0 {
			return 0, errors.NewEncodingError("utf8 constant %q contains forbidden byte 0x%02x", s, b)
		}
	}
	buf := make([]byte, 0, 3+len(s))
	buf = append(buf, byte(tagUtf8))
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s)))
	buf = append(buf, s...)
	return p.add(string(buf)), nil
}

// AddInteger interns v as an Integer entry.
func (p *ConstantPool) AddInteger(v int32) uint16 {
	buf := make([]byte, 0, 5)
	buf = append(buf, byte(tagInteger))
	buf = binary.BigEndian.AppendUint32(buf, uint32(v))
	return p.add(string(buf))
}

// AddClass interns name (a Utf8 entry) then a Class entry pointing to it.
func (p *ConstantPool) AddClass(name string) (uint16, error) {
	nameIdx, err := p.AddUtf8(name)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 0, 3)
	buf = append(buf, byte(tagClass))
	buf = binary.BigEndian.AppendUint16(buf, nameIdx)
	return p.add(string(buf)), nil
}

// AddString interns value (a Utf8 entry) then a String entry pointing to it.
func (p *ConstantPool) AddString(value string) (uint16, error) {
	utf8Idx, err := p.AddUtf8(value)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 0, 3)
	buf = append(buf, byte(tagString))
	buf = binary.BigEndian.AppendUint16(buf, utf8Idx)
	return p.add(string(buf)), nil
}

// AddNameAndType composes two Utf8 entries (name, descriptor) then a
// NameAndType entry pointing to both.
func (p *ConstantPool) AddNameAndType(name, descriptor string) (uint16, error) {
	nameIdx, err := p.AddUtf8(name)
	if err != nil {
		return 0, err
	}
	descIdx, err := p.AddUtf8(descriptor)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 0, 5)
	buf = append(buf, byte(tagNameAndType))
	buf = binary.BigEndian.AppendUint16(buf, nameIdx)
	buf = binary.BigEndian.AppendUint16(buf, descIdx)
	return p.add(string(buf)), nil
}

// AddFieldref composes Utf8 -> Class, Utf8x2 -> NameAndType, then a
// Fieldref entry pointing to both.
func (p *ConstantPool) AddFieldref(className, name, descriptor string) (uint16, error) {
	return p.addRef(tagFieldref, className, name, descriptor)
}

// AddMethodref composes the same way as AddFieldref but yields a
// Methodref entry.
func (p *ConstantPool) AddMethodref(className, name, descriptor string) (uint16, error) {
	return p.addRef(tagMethodref, className, name, descriptor)
}

func (p *ConstantPool) addRef(t tag, className, name, descriptor string) (uint16, error) {
	classIdx, err := p.AddClass(className)
	if err != nil {
		return 0, err
	}
	natIdx, err := p.AddNameAndType(name, descriptor)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 0, 5)
	buf = append(buf, byte(t))
	buf = binary.BigEndian.AppendUint16(buf, classIdx)
	buf = binary.BigEndian.AppendUint16(buf, natIdx)
	return p.add(string(buf)), nil
}

// GenerateDefault pre-populates the this/super Class references and
// returns their indices.
func (p *ConstantPool) GenerateDefault(thisClass, superClass string) (thisIdx, superIdx uint16, err error) {
	thisIdx, err = p.AddClass(thisClass)
	if err != nil {
		return 0, 0, err
	}
	superIdx, err = p.AddClass(superClass)
	if err != nil {
		return 0, 0, err
	}
	return thisIdx, superIdx, nil
}
