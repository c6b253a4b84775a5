package bytecode

import (
	"github.com/Tom-Willemsen/splbytecode/internal/ast"
	"github.com/Tom-Willemsen/splbytecode/internal/errors"
)

// InputIndexField and ConditionalField are the two fields the builder
// declares itself, ahead of anything the source program references.
const (
	InputIndexField = "$input_index"
	ConditionalField = "$conditional"
)

const mainDescriptor = "([Ljava/lang/String;)V"

// maxStackOrLocals is fixed for every generated method, per the target
// format's contract - the compiler does not track actual stack depth.
const maxStackOrLocals = 32768

// Builder turns a flattened instruction sequence into a Class. One
// Builder compiles exactly one class (one main method).
type Builder struct {
	pool           *ConstantPool
	thisClassName  string
	declaredFields map[string]bool
	fields         []Field
	instructions   []Instruction
}

// NewBuilder prepares a Builder that will emit a class named className.
func NewBuilder(className string) *Builder {
	return &Builder{
		pool:           NewConstantPool(),
		thisClassName:  className,
		declaredFields: make(map[string]bool),
	}
}

// Build compiles flat (the flattener's output) into a complete Class,
// including the prologue that zero-initializes the two pre-declared
// fields and the epilogue return.
func (b *Builder) Build(flat []ast.Node, minor, major uint16) (*Class, error) {
	b.declareField(InputIndexField)
	b.declareField(ConditionalField)

	if err := b.putConst(InputIndexField, 0); err != nil {
		return nil, err
	}
	if err := b.putConst(ConditionalField, 0); err != nil {
		return nil, err
	}

	for _, node := range flat {
		if err := b.compileNode(node); err != nil {
			return nil, err
		}
	}

	b.emit(simple(opReturn))

	code, err := Resolve(b.instructions)
	if err != nil {
		return nil, err
	}

	thisIdx, superIdx, err := b.pool.GenerateDefault(b.thisClassName, "java/lang/Object")
	if err != nil {
		return nil, err
	}

	class := &Class{
		MinorVersion:    minor,
		MajorVersion:    major,
		AccessFlags:     AccPublic | AccSuperFlag,
		ThisClass:       b.thisClassName,
		SuperClass:      "java/lang/Object",
		ThisClassIndex:  thisIdx,
		SuperClassIndex: superIdx,
		Pool:            b.pool,
		Fields:          b.fields,
		Methods: []Method{{
			AccessFlags: AccPublic | AccStatic,
			Name:        "main",
			Descriptor:  mainDescriptor,
			MaxStack:    maxStackOrLocals,
			MaxLocals:   maxStackOrLocals,
			Code:        code,
		}},
	}
	if err := class.Validate(); err != nil {
		return nil, err
	}
	return class, nil
}

func (b *Builder) compileNode(node ast.Node) error {
	switch n := node.(type) {
	case ast.NoOp:
		return nil
	case *ast.Label:
		b.emit(labelMarker{name: n.Name})
		return nil
	case ast.Value:
		b.emit(pushInt(n.Int))
		return nil
	case ast.DynamicValue:
		return b.getstatic(n.Field)
	case *ast.BinaryOperator:
		switch n.Op {
		case ast.Add:
			b.emit(simple(opIadd))
		case ast.Multiply:
			b.emit(simple(opImul))
		default:
			return errors.NewCompilationError("unknown operator %q", n.Op)
		}
		return nil
	case *ast.Assign:
		return b.putstatic(n.Var)
	case *ast.PrintVariable:
		return b.compilePrint(n)
	case *ast.InputVariable:
		return b.compileInput(n)
	case ast.Goto:
		b.emit(gotoPlaceholder{target: n.Label})
		return nil
	case ast.ConditionalGoto:
		if err := b.getstatic(ConditionalField); err != nil {
			return err
		}
		b.emit(ifeqPlaceholder{target: n.Label})
		return nil
	case ast.Compare:
		return b.compileCompare(n)
	default:
		return errors.NewCompilationError("unmapped IR node kind %T", node)
	}
}

func (b *Builder) compilePrint(n *ast.PrintVariable) error {
	if err := b.getstatic(n.Field); err != nil {
		return err
	}
	sysOut, err := b.pool.AddFieldref("java/lang/System", "out", "Ljava/io/PrintStream;")
	if err != nil {
		return err
	}
	b.emit(u2Instr(opGetstatic, sysOut))
	b.emit(simple(opSwap))

	descriptor := "(I)V"
	if n.AsChar {
		b.emit(simple(opI2c))
		descriptor = "(C)V"
	}
	println, err := b.pool.AddMethodref("java/io/PrintStream", "println", descriptor)
	if err != nil {
		return err
	}
	b.emit(u2Instr(opInvokeVirt, println))
	return nil
}

func (b *Builder) compileInput(n *ast.InputVariable) error {
	b.emit(simple(opAload0))
	if err := b.getstatic(InputIndexField); err != nil {
		return err
	}
	b.emit(simple(opAaload))

	if n.AsChar {
		b.emit(pushInt(0))
		charAt, err := b.pool.AddMethodref("java/lang/String", "charAt", "(I)C")
		if err != nil {
			return err
		}
		b.emit(u2Instr(opInvokeVirt, charAt))
	} else {
		parseInt, err := b.pool.AddMethodref("java/lang/Integer", "parseInt", "(Ljava/lang/String;)I")
		if err != nil {
			return err
		}
		b.emit(u2Instr(opInvokeStat, parseInt))
	}

	if err := b.putstatic(n.Field); err != nil {
		return err
	}

	if err := b.getstatic(InputIndexField); err != nil {
		return err
	}
	b.emit(pushInt(1))
	b.emit(simple(opIadd))
	return b.putstatic(InputIndexField)
}

func (b *Builder) compileCompare(n ast.Compare) error {
	if err := b.getstatic(n.Left); err != nil {
		return err
	}
	b.emit(simple(opI2l))
	if err := b.getstatic(n.Right); err != nil {
		return err
	}
	b.emit(simple(opI2l))
	b.emit(simple(opLcmp))
	return b.putstatic(ConditionalField)
}

// putConst pushes v and stores it into name, declaring the field first.
func (b *Builder) putConst(name string, v int32) error {
	b.emit(pushInt(v))
	return b.putstatic(name)
}

func (b *Builder) declareField(name string) {
	if b.declaredFields[name] {
		return
	}
	b.declaredFields[name] = true
	b.fields = append(b.fields, Field{AccessFlags: AccPublic | AccStatic, Name: name, Descriptor: "I"})
}

func (b *Builder) getstatic(name string) error {
	b.declareField(name)
	idx, err := b.pool.AddFieldref(b.thisClassName, name, "I")
	if err != nil {
		return err
	}
	b.emit(u2Instr(opGetstatic, idx))
	return nil
}

func (b *Builder) putstatic(name string) error {
	b.declareField(name)
	idx, err := b.pool.AddFieldref(b.thisClassName, name, "I")
	if err != nil {
		return err
	}
	b.emit(u2Instr(opPutstatic, idx))
	return nil
}

func (b *Builder) emit(instr Instruction) {
	b.instructions = append(b.instructions, instr)
}
