package bytecode

import "github.com/Tom-Willemsen/splbytecode/internal/errors"

// Class access flags used by the generated class file.
const (
	AccPublic    uint16 = 0x0001
	AccStatic    uint16 = 0x0008
	AccSuperFlag uint16 = 0x0020
)

// Field is one entry of the class file's field table: a static int
// backing one SPL character.
type Field struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
}

// Method is one entry of the class file's method table, carrying a single
// Code attribute (no exception table, no nested attributes).
type Method struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	MaxStack    uint16
	MaxLocals   uint16
	Code        []byte
}

// Class is the in-memory model of a .class file, populated by the Builder
// and consumed by the serializer.
type Class struct {
	MinorVersion    uint16
	MajorVersion    uint16
	AccessFlags     uint16
	ThisClass       string
	SuperClass      string
	ThisClassIndex  uint16
	SuperClassIndex uint16
	Pool            *ConstantPool
	Fields          []Field
	Methods         []Method
}

// Validate checks the invariants the serializer relies on, returning
// CompilationError on the first violation found.
func (c *Class) Validate() error {
	if c.ThisClass == "" {
		return errors.NewCompilationError("class name must not be empty")
	}
	if c.Pool == nil {
		return errors.NewCompilationError("class has no constant pool")
	}
	if len(c.Methods) == 0 {
		return errors.NewCompilationError("class must declare at least one method")
	}
	if c.AccessFlags == 0 {
		return errors.NewCompilationError("class must declare access flags")
	}
	return nil
}
