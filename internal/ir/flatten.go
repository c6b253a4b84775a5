// Package ir flattens the AST into the linear sequence the code generator
// consumes: one ast.Node per emitted bytecode unit, in the order the
// builder should process them.
package ir

import "github.com/Tom-Willemsen/splbytecode/internal/ast"

// Flatten performs a depth-first walk of root, emitting a Label before its
// children (so it can bracket a scope as a single marker) and every other
// node after its children (operands before operator, right-hand side
// before assign). Leaf nodes with no children - Goto, ConditionalGoto,
// NoOp, Compare, Value, DynamicValue - are emitted as-is.
func Flatten(root ast.Node) []ast.Node {
	var out []ast.Node
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if _, isLabel := n.(*ast.Label); isLabel {
			out = append(out, n)
			for _, child := range n.Children() {
				walk(child)
			}
			return
		}
		for _, child := range n.Children() {
			walk(child)
		}
		out = append(out, n)
	}
	walk(root)
	return out
}
