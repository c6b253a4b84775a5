package bytecode

import (
	"bytes"
	"encoding/binary"
	"io"
)

// magicNumber begins every class file.
const magicNumber = 0xCAFEBABE

// Serializer writes a Class to the exact byte layout the target VM
// expects: big-endian throughout, no dependency on in-memory layout
// beyond the Class structure itself.
type Serializer struct{}

// NewSerializer returns a Serializer. It carries no state of its own;
// Emit does add to the Class's constant pool (see Emit).
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Emit writes class to w. The caller is responsible for validating class
// beforehand (Builder.Build already does so).
//
// Every Utf8 entry the field/method tables reference (names, descriptors,
// the literal "Code") must exist in the pool before the pool section is
// written, since the pool is written as a single block ahead of the
// tables that reference it.
func (s *Serializer) Emit(class *Class, w io.Writer) error {
	fieldIdx := make([][2]uint16, len(class.Fields))
	for i, f := range class.Fields {
		nameIdx, err := class.Pool.AddUtf8(f.Name)
		if err != nil {
			return err
		}
		descIdx, err := class.Pool.AddUtf8(f.Descriptor)
		if err != nil {
			return err
		}
		fieldIdx[i] = [2]uint16{nameIdx, descIdx}
	}

	type methodIndices struct {
		name, descriptor, codeAttrName uint16
	}
	methodIdx := make([]methodIndices, len(class.Methods))
	for i, m := range class.Methods {
		nameIdx, err := class.Pool.AddUtf8(m.Name)
		if err != nil {
			return err
		}
		descIdx, err := class.Pool.AddUtf8(m.Descriptor)
		if err != nil {
			return err
		}
		codeIdx, err := class.Pool.AddUtf8("Code")
		if err != nil {
			return err
		}
		methodIdx[i] = methodIndices{nameIdx, descIdx, codeIdx}
	}

	buf := new(bytes.Buffer)

	binary.Write(buf, binary.BigEndian, uint32(magicNumber))
	binary.Write(buf, binary.BigEndian, class.MinorVersion)
	binary.Write(buf, binary.BigEndian, class.MajorVersion)

	entries := class.Pool.Entries()
	binary.Write(buf, binary.BigEndian, uint16(len(entries)+1))
	for _, entry := range entries {
		buf.WriteString(entry)
	}

	binary.Write(buf, binary.BigEndian, class.AccessFlags)
	binary.Write(buf, binary.BigEndian, class.ThisClassIndex)
	binary.Write(buf, binary.BigEndian, class.SuperClassIndex)
	binary.Write(buf, binary.BigEndian, uint16(0)) // interfaces_count

	binary.Write(buf, binary.BigEndian, uint16(len(class.Fields)))
	for i, f := range class.Fields {
		binary.Write(buf, binary.BigEndian, f.AccessFlags)
		binary.Write(buf, binary.BigEndian, fieldIdx[i][0])
		binary.Write(buf, binary.BigEndian, fieldIdx[i][1])
		binary.Write(buf, binary.BigEndian, uint16(0)) // attributes_count
	}

	binary.Write(buf, binary.BigEndian, uint16(len(class.Methods)))
	for i, m := range class.Methods {
		binary.Write(buf, binary.BigEndian, m.AccessFlags)
		binary.Write(buf, binary.BigEndian, methodIdx[i].name)
		binary.Write(buf, binary.BigEndian, methodIdx[i].descriptor)
		binary.Write(buf, binary.BigEndian, uint16(1)) // attributes_count: just Code

		binary.Write(buf, binary.BigEndian, methodIdx[i].codeAttrName)
		binary.Write(buf, binary.BigEndian, uint32(12+len(m.Code)))
		binary.Write(buf, binary.BigEndian, m.MaxStack)
		binary.Write(buf, binary.BigEndian, m.MaxLocals)
		binary.Write(buf, binary.BigEndian, uint32(len(m.Code)))
		buf.Write(m.Code)
		binary.Write(buf, binary.BigEndian, uint16(0)) // exception_table_length
		binary.Write(buf, binary.BigEndian, uint16(0)) // code attributes_count
	}

	binary.Write(buf, binary.BigEndian, uint16(0)) // class attributes_count

	_, err := w.Write(buf.Bytes())
	return err
}
