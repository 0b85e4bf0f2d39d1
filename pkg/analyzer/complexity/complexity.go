// Package complexity scores cyclomatic complexity over ast subtrees and
// summarizes it across a project.
package complexity

import (
	"github.com/panbanda/handover/pkg/ast"
)

// Baseline is the complexity of a function with a single path.
const Baseline = 1

// Cyclomatic returns the cyclomatic complexity of the subtree rooted at
// node: Baseline plus one per decision point.
func Cyclomatic(tree *ast.Tree, node ast.NodeID) int {
	return Baseline + CountDecisionPoints(tree, node)
}

// CountDecisionPoints counts branching statements and short-circuit
// operators in the subtree rooted at node.
func CountDecisionPoints(tree *ast.Tree, node ast.NodeID) int {
	count := 0
	for id := range tree.Descendants(node) {
		kind := tree.Kind(id)
		if kind.IsBranch() {
			count++
			continue
		}
		if kind == ast.KindBinaryExpression {
			switch getOperator(tree, id) {
			case "&&", "||":
				count++
			}
		}
	}
	return count
}

// getOperator returns the operator token of a binary expression.
func getOperator(tree *ast.Tree, node ast.NodeID) string {
	if op := tree.ChildByField(node, "operator"); op != ast.NoNode {
		return tree.Type(op)
	}
	for c := range tree.Children(node) {
		switch t := tree.Type(c); t {
		case "&&", "||":
			return t
		}
	}
	return ""
}
