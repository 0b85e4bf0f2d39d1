package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/panbanda/handover/pkg/ast"
	"github.com/panbanda/handover/pkg/ast/treesitter"
	sitter "github.com/smacker/go-tree-sitter"
)

// ErrUnparseable is returned when neither the strict nor the lenient
// attempt produced a usable tree.
var ErrUnparseable = errors.New("source could not be parsed")

// ErrUnsupported is returned for files with no script grammar.
var ErrUnsupported = errors.New("no grammar for file")

var errRejected = errors.New("parse tree rejected")

// Parser wraps tree-sitter for TypeScript and JavaScript parsing.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the owned syntax tree and how it was obtained.
type ParseResult struct {
	Tree    *ast.Tree
	Grammar Grammar
	Path    string
	// Lenient is set when the strict attempt failed and the tree came
	// from the permissive retry.
	Lenient bool
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// Parse parses source for the file at path. It first parses with the
// file's own grammar and accepts only an error-free tree. Failing that it
// retries once with the TSX grammar, which accepts the widest syntax, and
// keeps the tree unless it is unusable as a whole.
func (p *Parser) Parse(ctx context.Context, source []byte, path string) (*ParseResult, error) {
	grammar, ok := GrammarFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	tree, err := p.attempt(ctx, grammar, source, acceptStrict)
	if err == nil {
		return &ParseResult{Tree: tree, Grammar: grammar, Path: path}, nil
	}

	tree, lerr := p.attempt(ctx, GrammarTSX, source, acceptLenient)
	if lerr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnparseable, path, errors.Join(err, lerr))
	}
	return &ParseResult{Tree: tree, Grammar: GrammarTSX, Path: path, Lenient: true}, nil
}

func (p *Parser) attempt(ctx context.Context, grammar Grammar, source []byte, accept func(*sitter.Node) bool) (*ast.Tree, error) {
	p.parser.SetLanguage(GetTreeSitterLanguage(grammar))
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%s grammar: %w", grammar, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || !accept(root) {
		return nil, fmt.Errorf("%s grammar: %w", grammar, errRejected)
	}
	return treesitter.Convert(root, source), nil
}

func acceptStrict(root *sitter.Node) bool {
	return !root.HasError()
}

// acceptLenient tolerates local recovery but rejects trees where nothing
// at the top level parsed.
func acceptLenient(root *sitter.Node) bool {
	if root.Type() == "ERROR" {
		return false
	}
	n := int(root.NamedChildCount())
	if n == 0 {
		return true
	}
	for i := range n {
		if root.NamedChild(i).Type() != "ERROR" {
			return true
		}
	}
	return false
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}
