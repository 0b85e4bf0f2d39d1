// Package ast holds an owned, index-addressed syntax tree.
//
// A Tree is a flat arena of Nodes laid out in pre-order, so the subtree of
// node i occupies the contiguous range [i, Nodes[i].End). Parent links are
// plain indices, which makes ancestor walks cheap and leaves no cycles to
// guard against during traversal.
//
// Trees are produced by the treesitter subpackage and consumed by the
// extractors under pkg/analyzer:
//
//	tree := treesitter.Convert(root, source)
//	for id := range tree.Descendants(tree.Root()) {
//	    if tree.Kind(id) == ast.KindFunctionDeclaration {
//	        fmt.Println(tree.Text(tree.ChildByField(id, "name")))
//	    }
//	}
package ast
