package ir

import (
	"testing"

	"github.com/Tom-Willemsen/splbytecode/internal/ast"
)

func TestFlattenLabelPrecedesChildren(t *testing.T) {
	root := &ast.Label{
		Name: "play",
		Body: []ast.Node{
			&ast.Assign{Var: "romeo", Expr: ast.Value{Int: 1}, Static: true},
			&ast.Label{
				Name: "act i",
				Body: []ast.Node{
					ast.NoOp{},
				},
			},
		},
	}

	flat := Flatten(root)

	// The outer Label comes first, then the Assign's children in
	// post-order (Value before Assign itself), then the nested act
	// Label (pre-order relative to its own children), then its NoOp.
	wantLen := 5
	if len(flat) != wantLen {
		t.Fatalf("expected %d flattened nodes, got %d: %v", wantLen, len(flat), flat)
	}

	if _, ok := flat[0].(*ast.Label); !ok || flat[0].(*ast.Label).Name != "play" {
		t.Errorf("expected play Label first, got %#v", flat[0])
	}
	if _, ok := flat[1].(ast.Value); !ok {
		t.Errorf("expected Value before its Assign, got %#v", flat[1])
	}
	assign, ok := flat[2].(*ast.Assign)
	if !ok || assign.Var != "romeo" {
		t.Errorf("expected Assign(romeo) after its operand, got %#v", flat[2])
	}
	act, ok := flat[3].(*ast.Label)
	if !ok || act.Name != "act i" {
		t.Errorf("expected act Label before its own children, got %#v", flat[3])
	}
	if _, ok := flat[4].(ast.NoOp); !ok {
		t.Errorf("expected NoOp last, got %#v", flat[4])
	}
}

func TestFlattenBinaryOperatorIsPostOrder(t *testing.T) {
	root := &ast.Assign{
		Var: "juliet",
		Expr: &ast.BinaryOperator{
			Left:  ast.Value{Int: 2},
			Op:    ast.Multiply,
			Right: ast.DynamicValue{Field: "romeo"},
		},
	}

	flat := Flatten(root)
	want := []string{"Value", "DynamicValue(romeo)", "BinaryOperator(*)", "Assign(juliet)"}
	if len(flat) != len(want) {
		t.Fatalf("expected %d nodes, got %d: %v", len(want), len(flat), flat)
	}
	for i, w := range want {
		if flat[i].String() != w {
			t.Errorf("node %d: got %q, want %q", i, flat[i].String(), w)
		}
	}
}

func TestFlattenLeafNodesHaveNoChildren(t *testing.T) {
	for _, n := range []ast.Node{
		ast.Goto{Label: "act ii"},
		ast.ConditionalGoto{Label: "act ii"},
		ast.Compare{Left: "a", Right: "b"},
		ast.NoOp{},
	} {
		flat := Flatten(n)
		if len(flat) != 1 {
			t.Errorf("%s: expected a single flattened node, got %d: %v", n, len(flat), flat)
		}
	}
}
