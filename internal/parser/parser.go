// Package parser turns a token stream into the AST described in the
// language's grammar: a single root Label named "play", containing the
// preamble's variable declarations followed by one Label per act, each
// containing one Label per scene, each containing the statements the
// characters speak and the stage directions between them.
package parser

import (
	"fmt"

	"github.com/Tom-Willemsen/splbytecode/internal/ast"
	"github.com/Tom-Willemsen/splbytecode/internal/errors"
	"github.com/Tom-Willemsen/splbytecode/internal/lexer"
)

// Parser consumes a Lexer's token stream one token of lookahead at a time
// and builds the AST. Dynamic stage state lives in a StageContext threaded
// explicitly through the grammar functions below, not on the Parser.
type Parser struct {
	lex    *lexer.Lexer
	cur    lexer.Token
	source string
	file   string
}

// New constructs a Parser over lex. source and file are carried only for
// error formatting.
func New(lex *lexer.Lexer, source, file string) *Parser {
	p := &Parser{lex: lex, source: source, file: file}
	p.cur = p.lex.Next()
	return p
}

// Parse consumes the entire token stream and returns the root "play" Label.
func (p *Parser) Parse() (*ast.Label, error) {
	ctx := NewStageContext()
	return p.play(ctx)
}

func (p *Parser) advance() {
	p.cur = p.lex.Next()
}

// eat requires the current token to have kind, returning it and advancing.
func (p *Parser) eat(kind lexer.Kind) (lexer.Token, error) {
	if p.cur.Kind != kind {
		return lexer.Token{}, p.syntaxError("expected %s, got %s", kind, p.cur.Kind)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *Parser) syntaxError(format string, args ...any) error {
	return errors.NewSyntaxError(p.cur.Pos, fmt.Sprintf(format, args...), p.source, p.file)
}

// actLabelName is the jump target for "Goto Act N".
func actLabelName(actNum string) string {
	return "act " + actNum
}

// sceneLabelName is the jump target for "Goto Scene N", scoped to the act
// the goto appears in - scene references are local to their enclosing act.
func sceneLabelName(actNum, sceneNum string) string {
	return "act " + actNum + " scene " + sceneNum
}

// play := title EndLine var_assignment* act+
func (p *Parser) play(ctx *StageContext) (*ast.Label, error) {
	for p.cur.Kind != lexer.EndLine {
		if p.cur.Kind == lexer.Eof {
			return nil, p.syntaxError("unexpected end of input reading the title")
		}
		p.advance()
	}
	if _, err := p.eat(lexer.EndLine); err != nil {
		return nil, err
	}

	var children []ast.Node
	for p.cur.Kind != lexer.Act {
		if p.cur.Kind == lexer.Eof {
			return nil, p.syntaxError("expected a variable declaration or an act, got end of input")
		}
		decl, err := p.varAssignment(ctx)
		if err != nil {
			return nil, err
		}
		children = append(children, decl)
	}

	for p.cur.Kind != lexer.Eof {
		actNode, err := p.act(ctx)
		if err != nil {
			return nil, err
		}
		children = append(children, actNode)
	}

	return &ast.Label{Name: "play", Body: children}, nil
}

// var_assignment := Name Comma expr
func (p *Parser) varAssignment(ctx *StageContext) (ast.Node, error) {
	nameTok, err := p.eat(lexer.Name)
	if err != nil {
		return nil, err
	}
	name := nameTok.StringValue()

	if _, err := p.eat(lexer.Comma); err != nil {
		return nil, err
	}

	expr, err := p.expr(ctx)
	if err != nil {
		return nil, err
	}

	if !ctx.Declare(name) {
		return nil, p.syntaxError("character %q is already declared", name)
	}

	return &ast.Assign{Var: name, Expr: expr, Static: true}, nil
}

// act := Act Numeral Colon <title text> EndLine scene+
func (p *Parser) act(ctx *StageContext) (*ast.Label, error) {
	if _, err := p.eat(lexer.Act); err != nil {
		return nil, err
	}
	numTok, err := p.eat(lexer.Numeral)
	if err != nil {
		return nil, err
	}
	actNum := numTok.StringValue()
	ctx.CurrentAct = actNum

	if _, err := p.eat(lexer.Colon); err != nil {
		return nil, err
	}
	for p.cur.Kind != lexer.EndLine {
		if p.cur.Kind == lexer.Eof {
			return nil, p.syntaxError("unexpected end of input reading the act title")
		}
		p.advance()
	}
	if _, err := p.eat(lexer.EndLine); err != nil {
		return nil, err
	}

	var body []ast.Node
	for p.cur.Kind != lexer.Act && p.cur.Kind != lexer.Eof {
		sceneNode, err := p.scene(ctx)
		if err != nil {
			return nil, err
		}
		body = append(body, sceneNode)
	}
	if len(body) == 0 {
		return nil, p.syntaxError("act %s has no scenes", actNum)
	}

	return &ast.Label{Name: actLabelName(actNum), Body: body}, nil
}

// scene := Scene Numeral Colon <title text> EndLine statement*
func (p *Parser) scene(ctx *StageContext) (*ast.Label, error) {
	if _, err := p.eat(lexer.Scene); err != nil {
		return nil, err
	}
	numTok, err := p.eat(lexer.Numeral)
	if err != nil {
		return nil, err
	}
	sceneNum := numTok.StringValue()

	if _, err := p.eat(lexer.Colon); err != nil {
		return nil, err
	}
	for p.cur.Kind != lexer.EndLine {
		if p.cur.Kind == lexer.Eof {
			return nil, p.syntaxError("unexpected end of input reading the scene title")
		}
		p.advance()
	}
	if _, err := p.eat(lexer.EndLine); err != nil {
		return nil, err
	}

	var body []ast.Node
	for p.cur.Kind != lexer.Act && p.cur.Kind != lexer.Scene && p.cur.Kind != lexer.Eof {
		stmt, err := p.statement(ctx)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}

	if ctx.OnstageCount() != 0 {
		return nil, p.syntaxError("characters remain on stage at the end of scene %s", sceneNum)
	}
	ctx.ClearSpeaking()

	return &ast.Label{Name: sceneLabelName(ctx.CurrentAct, sceneNum), Body: body}, nil
}

// statement := stagecontrol | speech
func (p *Parser) statement(ctx *StageContext) (ast.Node, error) {
	if p.cur.Kind == lexer.OpenSqBracket {
		if err := p.stagecontrol(ctx); err != nil {
			return nil, err
		}
		return ast.NoOp{}, nil
	}
	return p.speech(ctx)
}

// stagecontrol := OpenSqBracket (enter | exit | Exeunt names?) CloseSqBracket
func (p *Parser) stagecontrol(ctx *StageContext) error {
	if _, err := p.eat(lexer.OpenSqBracket); err != nil {
		return err
	}

	switch p.cur.Kind {
	case lexer.Enter:
		if err := p.enter(ctx); err != nil {
			return err
		}
	case lexer.Exit:
		if err := p.exit(ctx); err != nil {
			return err
		}
	case lexer.Exeunt:
		if _, err := p.eat(lexer.Exeunt); err != nil {
			return err
		}
		for p.cur.Kind == lexer.Name || p.cur.Kind == lexer.Add {
			p.advance()
		}
		ctx.Exeunt()
		ctx.ClearSpeaking()
	default:
		return p.syntaxError("expected Enter, Exit, or Exeunt inside stage direction, got %s", p.cur.Kind)
	}

	_, err := p.eat(lexer.CloseSqBracket)
	return err
}

// enter := Enter Name (Add Name)*
func (p *Parser) enter(ctx *StageContext) error {
	if _, err := p.eat(lexer.Enter); err != nil {
		return err
	}
	for {
		nameTok, err := p.eat(lexer.Name)
		if err != nil {
			return err
		}
		name := nameTok.StringValue()
		if !ctx.IsDeclared(name) {
			return p.syntaxError("character %q was never declared", name)
		}
		if err := ctx.Enter(name); err != nil {
			return p.syntaxError("%s", err)
		}
		if p.cur.Kind != lexer.Add {
			return nil
		}
		if _, err := p.eat(lexer.Add); err != nil {
			return err
		}
	}
}

// exit := Exit Name (Add Name)*
func (p *Parser) exit(ctx *StageContext) error {
	if _, err := p.eat(lexer.Exit); err != nil {
		return err
	}
	for {
		nameTok, err := p.eat(lexer.Name)
		if err != nil {
			return err
		}
		name := nameTok.StringValue()
		if err := ctx.Leave(name); err != nil {
			return p.syntaxError("%s", err)
		}
		if ctx.speaking == name {
			ctx.ClearSpeaking()
		}
		if p.cur.Kind != lexer.Add {
			return nil
		}
		if _, err := p.eat(lexer.Add); err != nil {
			return err
		}
	}
}

// speech := Name Colon body
func (p *Parser) speech(ctx *StageContext) (ast.Node, error) {
	nameTok, err := p.eat(lexer.Name)
	if err != nil {
		return nil, err
	}
	name := nameTok.StringValue()
	if !ctx.IsDeclared(name) {
		return nil, p.syntaxError("character %q was never declared", name)
	}
	if err := ctx.SetSpeaking(name); err != nil {
		return nil, p.syntaxError("%s", err)
	}

	if _, err := p.eat(lexer.Colon); err != nil {
		return nil, err
	}

	stmt, err := p.body(ctx)
	if err != nil {
		return nil, err
	}
	ctx.ClearSpeaking()
	return stmt, nil
}

// body := Print EndLine | Input EndLine | goto EndLine | IfSo Comma goto EndLine
//       | compare | assignment
// Each alternative consumes its own terminator: compare ends at the
// QuestionMark itself, and assignment's expr consumes the trailing EndLine.
func (p *Parser) body(ctx *StageContext) (ast.Node, error) {
	switch p.cur.Kind {
	case lexer.Print:
		tok, err := p.eat(lexer.Print)
		if err != nil {
			return nil, err
		}
		target, err := ctx.Addressee()
		if err != nil {
			return nil, p.syntaxError("%s", err)
		}
		if _, err := p.eat(lexer.EndLine); err != nil {
			return nil, err
		}
		return &ast.PrintVariable{Field: target, AsChar: tok.BoolValue()}, nil

	case lexer.Input:
		tok, err := p.eat(lexer.Input)
		if err != nil {
			return nil, err
		}
		target, err := ctx.Addressee()
		if err != nil {
			return nil, p.syntaxError("%s", err)
		}
		if _, err := p.eat(lexer.EndLine); err != nil {
			return nil, err
		}
		return &ast.InputVariable{Field: target, AsChar: tok.BoolValue()}, nil

	case lexer.Goto:
		label, err := p.gotoTarget(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.EndLine); err != nil {
			return nil, err
		}
		return ast.Goto{Label: label}, nil

	case lexer.IfSo:
		if _, err := p.eat(lexer.IfSo); err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.Comma); err != nil {
			return nil, err
		}
		label, err := p.gotoTarget(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.EndLine); err != nil {
			return nil, err
		}
		return ast.ConditionalGoto{Label: label}, nil

	case lexer.QuestionStart:
		return p.compare(ctx)

	default:
		return p.assignment(ctx)
	}
}

// assignment := character_name expr
func (p *Parser) assignment(ctx *StageContext) (ast.Node, error) {
	target, err := p.characterName(ctx)
	if err != nil {
		return nil, err
	}
	expr, err := p.expr(ctx)
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Var: target, Expr: expr}, nil
}

// gotoTarget := Goto (Act Numeral | Scene Numeral)
func (p *Parser) gotoTarget(ctx *StageContext) (string, error) {
	if _, err := p.eat(lexer.Goto); err != nil {
		return "", err
	}
	switch p.cur.Kind {
	case lexer.Act:
		if _, err := p.eat(lexer.Act); err != nil {
			return "", err
		}
		numTok, err := p.eat(lexer.Numeral)
		if err != nil {
			return "", err
		}
		return actLabelName(numTok.StringValue()), nil
	case lexer.Scene:
		if _, err := p.eat(lexer.Scene); err != nil {
			return "", err
		}
		numTok, err := p.eat(lexer.Numeral)
		if err != nil {
			return "", err
		}
		return sceneLabelName(ctx.CurrentAct, numTok.StringValue()), nil
	default:
		return "", p.syntaxError("expected Act or Scene after a goto, got %s", p.cur.Kind)
	}
}

// compare := QuestionStart character_name character_name QuestionMark
func (p *Parser) compare(ctx *StageContext) (ast.Node, error) {
	if _, err := p.eat(lexer.QuestionStart); err != nil {
		return nil, err
	}
	left, err := p.characterName(ctx)
	if err != nil {
		return nil, err
	}
	right, err := p.characterName(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.QuestionMark); err != nil {
		return nil, err
	}
	return ast.Compare{Left: left, Right: right}, nil
}

// character_name := Name | FirstPronoun | SecondPronoun
func (p *Parser) characterName(ctx *StageContext) (string, error) {
	switch p.cur.Kind {
	case lexer.Name:
		tok, err := p.eat(lexer.Name)
		if err != nil {
			return "", err
		}
		name := tok.StringValue()
		if !ctx.IsDeclared(name) {
			return "", p.syntaxError("character %q was never declared", name)
		}
		return name, nil
	case lexer.FirstPronoun:
		if _, err := p.eat(lexer.FirstPronoun); err != nil {
			return "", err
		}
		name, err := ctx.Speaking()
		if err != nil {
			return "", p.syntaxError("%s", err)
		}
		return name, nil
	case lexer.SecondPronoun:
		if _, err := p.eat(lexer.SecondPronoun); err != nil {
			return "", err
		}
		name, err := ctx.Addressee()
		if err != nil {
			return "", p.syntaxError("%s", err)
		}
		return name, nil
	default:
		return "", p.syntaxError("expected a character name or pronoun, got %s", p.cur.Kind)
	}
}

// expr := term ((Add | implicit-add-on-Adj) expr)? EndLine, right-associative.
func (p *Parser) expr(ctx *StageContext) (ast.Node, error) {
	left, err := p.term(ctx)
	if err != nil {
		return nil, err
	}

	switch p.cur.Kind {
	case lexer.Add:
		if _, err := p.eat(lexer.Add); err != nil {
			return nil, err
		}
		right, err := p.expr(ctx)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOperator{Left: left, Op: ast.Add, Right: right}, nil

	case lexer.Adj:
		right, err := p.expr(ctx)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOperator{Left: left, Op: ast.Add, Right: right}, nil

	case lexer.EndLine:
		if _, err := p.eat(lexer.EndLine); err != nil {
			return nil, err
		}
		return left, nil

	default:
		return nil, p.syntaxError("expected '+', another adjective, or end of line, got %s", p.cur.Kind)
	}
}

// term := Adj term | character_name | Noun
func (p *Parser) term(ctx *StageContext) (ast.Node, error) {
	switch p.cur.Kind {
	case lexer.Adj:
		tok, err := p.eat(lexer.Adj)
		if err != nil {
			return nil, err
		}
		inner, err := p.term(ctx)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOperator{
			Left:  ast.Value{Int: int32(tok.IntValue())},
			Op:    ast.Multiply,
			Right: inner,
		}, nil

	case lexer.Name, lexer.FirstPronoun, lexer.SecondPronoun:
		name, err := p.characterName(ctx)
		if err != nil {
			return nil, err
		}
		return ast.DynamicValue{Field: name}, nil

	default:
		tok, err := p.eat(lexer.Noun)
		if err != nil {
			return nil, err
		}
		return ast.Value{Int: int32(tok.IntValue())}, nil
	}
}
