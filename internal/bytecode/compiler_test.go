package bytecode

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Tom-Willemsen/splbytecode/internal/ast"
)

func TestBuildDeclaresPrologueFieldsFirst(t *testing.T) {
	class, err := NewBuilder("Example").Build(nil, 0, 50)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(class.Fields) != 2 {
		t.Fatalf("expected exactly the 2 prologue fields with no program nodes, got %d: %v", len(class.Fields), class.Fields)
	}
	if class.Fields[0].Name != InputIndexField || class.Fields[1].Name != ConditionalField {
		t.Errorf("expected prologue fields in declaration order, got %v", class.Fields)
	}
	if len(class.Methods) != 1 || class.Methods[0].Name != "main" {
		t.Fatalf("expected a single main method, got %v", class.Methods)
	}
	if class.MajorVersion != 50 {
		t.Errorf("expected major version 50, got %d", class.MajorVersion)
	}
}

func TestBuildDeclaresFieldForEachReferencedCharacter(t *testing.T) {
	flat := []ast.Node{
		ast.Value{Int: 1},
		&ast.Assign{Var: "romeo", Expr: ast.Value{Int: 1}, Static: true},
	}
	class, err := NewBuilder("Example").Build(flat, 0, 50)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var names []string
	for _, f := range class.Fields {
		names = append(names, f.Name)
	}
	found := false
	for _, n := range names {
		if n == "romeo" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a field for romeo, got %v", names)
	}
}

func TestBuildResolvesLabelsAcrossNodes(t *testing.T) {
	flat := []ast.Node{
		&ast.Label{Name: "act i scene i"},
		ast.Goto{Label: "act i scene i"},
	}
	class, err := NewBuilder("Example").Build(flat, 0, 50)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(class.Methods[0].Code) == 0 {
		t.Fatalf("expected non-empty code")
	}
}

func TestBuildRejectsUnknownOperator(t *testing.T) {
	flat := []ast.Node{
		&ast.BinaryOperator{Left: ast.Value{Int: 1}, Op: ast.Operator("?"), Right: ast.Value{Int: 2}},
	}
	if _, err := NewBuilder("Example").Build(flat, 0, 50); err == nil {
		t.Error("expected an error for an unrecognized operator")
	}
}

func TestBuildRejectsUnresolvedGoto(t *testing.T) {
	flat := []ast.Node{
		ast.Goto{Label: "nowhere"},
	}
	if _, err := NewBuilder("Example").Build(flat, 0, 50); err == nil {
		t.Error("expected an error for a goto with no matching label")
	}
}

func TestCompareEmitsLongCompareAndStoresConditional(t *testing.T) {
	flat := []ast.Node{
		ast.Compare{Left: "romeo", Right: "juliet"},
	}
	class, err := NewBuilder("Example").Build(flat, 0, 50)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	code := class.Methods[0].Code
	hasLcmp := false
	for _, b := range code {
		if b == opLcmp {
			hasLcmp = true
		}
	}
	if !hasLcmp {
		t.Errorf("expected an lcmp instruction in the compiled code")
	}

	conditionalIdx, err := class.Pool.AddFieldref("Example", ConditionalField, "I")
	if err != nil {
		t.Fatalf("AddFieldref: %v", err)
	}
	i := bytes.IndexByte(code, opLcmp)
	if i < 0 || i+3 >= len(code) || code[i+1] != opPutstatic || binary.BigEndian.Uint16(code[i+2:]) != conditionalIdx {
		t.Errorf("expected lcmp to be followed by putstatic #%d (%s), got % x", conditionalIdx, ConditionalField, code)
	}
}
