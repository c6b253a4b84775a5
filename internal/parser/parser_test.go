package parser

import (
	"testing"

	"github.com/Tom-Willemsen/splbytecode/internal/ast"
	"github.com/Tom-Willemsen/splbytecode/internal/lexer"
)

func mustParse(t *testing.T, source string) *ast.Label {
	t.Helper()
	lex, err := lexer.New(source)
	if err != nil {
		t.Fatalf("lexer.New: %v", err)
	}
	tree, err := New(lex, source, "test.spl").Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func parseErr(t *testing.T, source string) error {
	t.Helper()
	lex, err := lexer.New(source)
	if err != nil {
		t.Fatalf("lexer.New: %v", err)
	}
	_, err = New(lex, source, "test.spl").Parse()
	if err == nil {
		t.Fatalf("expected an error parsing %q, got none", source)
	}
	return err
}

const sampleTwoGentlemen = `The Famous Contest of Romeo and Juliet.

Romeo, a king.
Juliet, a pig.

Act I: The Only Act.

Scene I: The Only Scene.

[Enter Romeo and Juliet]

Romeo: You as good as a king.

Juliet: Speak your mind.

[Exeunt]
`

func TestParsePlayStructure(t *testing.T) {
	root := mustParse(t, sampleTwoGentlemen)
	if root.Name != "play" {
		t.Fatalf("expected root label %q, got %q", "play", root.Name)
	}
	if len(root.Body) != 3 {
		t.Fatalf("expected 2 declarations + 1 act, got %d children: %v", len(root.Body), root.Body)
	}

	romeoDecl, ok := root.Body[0].(*ast.Assign)
	if !ok || romeoDecl.Var != "romeo" || !romeoDecl.Static {
		t.Fatalf("expected static Assign(romeo), got %#v", root.Body[0])
	}
	julietDecl, ok := root.Body[1].(*ast.Assign)
	if !ok || julietDecl.Var != "juliet" || !julietDecl.Static {
		t.Fatalf("expected static Assign(juliet), got %#v", root.Body[1])
	}

	act, ok := root.Body[2].(*ast.Label)
	if !ok || act.Name != "act i" {
		t.Fatalf("expected Label(act i), got %#v", root.Body[2])
	}
	if len(act.Body) != 1 {
		t.Fatalf("expected 1 scene in act, got %d", len(act.Body))
	}

	scene, ok := act.Body[0].(*ast.Label)
	if !ok || scene.Name != "act i scene i" {
		t.Fatalf("expected Label(act i scene i), got %#v", act.Body[0])
	}
	if len(scene.Body) != 4 {
		t.Fatalf("expected 4 statements (enter, assign, print, exeunt), got %d: %v", len(scene.Body), scene.Body)
	}

	if _, ok := scene.Body[0].(ast.NoOp); !ok {
		t.Errorf("expected stage direction to flatten to NoOp, got %#v", scene.Body[0])
	}

	assign, ok := scene.Body[1].(*ast.Assign)
	if !ok {
		t.Fatalf("expected Assign, got %#v", scene.Body[1])
	}
	if assign.Var != "juliet" {
		t.Errorf("expected assignment target %q (the addressee), got %q", "juliet", assign.Var)
	}
	binop, ok := assign.Expr.(*ast.BinaryOperator)
	if !ok || binop.Op != ast.Multiply {
		t.Fatalf("expected a doubling BinaryOperator for 'good king', got %#v", assign.Expr)
	}

	print, ok := scene.Body[2].(*ast.PrintVariable)
	if !ok {
		t.Fatalf("expected PrintVariable, got %#v", scene.Body[2])
	}
	if print.Field != "romeo" || !print.AsChar {
		t.Errorf("expected PrintVariable(romeo, asChar=true), got %#v", print)
	}

	if _, ok := scene.Body[3].(ast.NoOp); !ok {
		t.Errorf("expected exeunt to flatten to NoOp, got %#v", scene.Body[3])
	}
}

func TestParseCompareAndConditionalGoto(t *testing.T) {
	source := `A Tale of Two Equal Numbers.

Romeo, a king.
Juliet, a king.

Act I: The Only Act.

Scene I: The Only Scene.

[Enter Romeo and Juliet]

Romeo: Am I equal to you?

Romeo: If so, let us proceed to Scene I.

[Exeunt]
`
	root := mustParse(t, source)
	act := root.Body[2].(*ast.Label)
	scene := act.Body[0].(*ast.Label)

	compare, ok := scene.Body[1].(ast.Compare)
	if !ok {
		t.Fatalf("expected Compare, got %#v", scene.Body[1])
	}
	if compare.Left != "romeo" || compare.Right != "juliet" {
		t.Errorf("expected Compare(romeo, juliet), got %#v", compare)
	}

	cgoto, ok := scene.Body[2].(ast.ConditionalGoto)
	if !ok {
		t.Fatalf("expected ConditionalGoto, got %#v", scene.Body[2])
	}
	if cgoto.Label != "act i scene i" {
		t.Errorf("expected scene goto scoped to current act, got %q", cgoto.Label)
	}
}

func TestDuplicateCharacterDeclarationIsAnError(t *testing.T) {
	source := `Title.

Romeo, a king.
Romeo, a pig.

Act I: Act.

Scene I: Scene.

Romeo: Open your heart.
`
	err := parseErr(t, source)
	t.Logf("got expected error: %v", err)
}

func TestUndeclaredCharacterEnterIsAnError(t *testing.T) {
	source := `Title.

Romeo, a king.

Act I: Act.

Scene I: Scene.

[Enter Romeo and Juliet]
`
	err := parseErr(t, source)
	t.Logf("got expected error: %v", err)
}

func TestSceneEndingWithCharactersOnStageIsAnError(t *testing.T) {
	source := `Title.

Romeo, a king.

Act I: Act.

Scene I: Scene.

[Enter Romeo]
`
	err := parseErr(t, source)
	t.Logf("got expected error: %v", err)
}
