// Package ast defines the structural tree for zajal sketches.
//
// Unlike a compiler AST there is one uniform node shape: the reload differ
// treats every subtree as an opaque comparable value, so nodes must flatten
// and fingerprint generically. Kind tags the construct, Text carries the
// payload (identifier name, operator, literal lexeme), Kids are ordered
// children. Span is the only positional data and is ignored by structural
// equality.
package ast

import (
	"zajal/internal/source"
)

// Kind represents the syntactic construct a node stands for.
type Kind uint8

const (
	// Program is the root container of top-level statements.
	Program Kind = iota
	// Body is a generic ordered statement container.
	Body
	// Ident is a local variable reference or bare zero-arg call.
	Ident
	// GVar is a global variable reference ($name).
	GVar
	// IVar is an instance variable reference (@name).
	IVar
	// IntLit, FloatLit, StringLit, SymLit, BoolLit, NilLit are literals.
	IntLit
	FloatLit
	StringLit
	SymLit
	BoolLit
	NilLit
	// ArrayLit is [e, e, ...].
	ArrayLit
	// Index is recv[idx]; Kids = [recv, idx].
	Index
	// Assign is target = value; Kids = [target, value].
	Assign
	// OpAssign is target op= value; Text is the operator without '='.
	OpAssign
	// MultiAssign is t1, t2 = v1, v2; Kids = [Targets(Body), Values(Body)].
	MultiAssign
	// MethodDef is def name(params) body end; Text = name,
	// Kids = [Params, Body].
	MethodDef
	// ClassDef is class Name ... end; Text = name, Kids = [Body].
	ClassDef
	// ModuleDef is module Name ... end; Text = name, Kids = [Body].
	ModuleDef
	// Call is name(args) or a command call; Text = name, Kids = args,
	// with an optional trailing Block kid.
	Call
	// MethodCall is recv.name(args); Text = name, Kids = [recv, args...],
	// with an optional trailing Block kid.
	MethodCall
	// Block is do |params| body end; Kids = [Params, Body].
	Block
	// Params is an ordered list of Ident parameter nodes.
	Params
	// If is if/elsif/else; Kids = [cond, then-Body, else-node?] where the
	// else-node is another If (elsif) or a Body (else).
	If
	// While is while cond body end; Kids = [cond, Body].
	While
	// Return is return [value]; Kids = [value?].
	Return
	// Break is break.
	Break
	// Binary is a binary operator expression; Text = op, Kids = [lhs, rhs].
	Binary
	// Unary is a unary operator expression; Text = op, Kids = [operand].
	Unary
)

var kindNames = [...]string{
	Program:     "program",
	Body:        "body",
	Ident:       "ident",
	GVar:        "gvar",
	IVar:        "ivar",
	IntLit:      "int",
	FloatLit:    "float",
	StringLit:   "str",
	SymLit:      "sym",
	BoolLit:     "bool",
	NilLit:      "nil",
	ArrayLit:    "array",
	Index:       "index",
	Assign:      "assign",
	OpAssign:    "opassign",
	MultiAssign: "massign",
	MethodDef:   "def",
	ClassDef:    "class",
	ModuleDef:   "module",
	Call:        "call",
	MethodCall:  "mcall",
	Block:       "block",
	Params:      "params",
	If:          "if",
	While:       "while",
	Return:      "return",
	Break:       "break",
	Binary:      "binop",
	Unary:       "unop",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one syntactic construct.
type Node struct {
	Kind Kind
	Text string
	Span source.Span
	Kids []*Node
}

// New constructs a node.
func New(kind Kind, text string, span source.Span, kids ...*Node) *Node {
	return &Node{Kind: kind, Text: text, Span: span, Kids: kids}
}

// Normalize returns a deep copy with every span zeroed. The copy is the
// position-stripped view used for structural comparison; the receiver keeps
// its positions for text surgery.
func (n *Node) Normalize() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Text: n.Text}
	if len(n.Kids) > 0 {
		out.Kids = make([]*Node, len(n.Kids))
		for i, kid := range n.Kids {
			out.Kids[i] = kid.Normalize()
		}
	}
	return out
}

// Walk calls fn for n and every descendant in depth-first order. If fn
// returns false the subtree below the current node is skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, kid := range n.Kids {
		kid.Walk(fn)
	}
}

// IntroducesScope reports whether the node opens a new variable scope.
// The global-assignment reduction must not descend into these.
func (n *Node) IntroducesScope() bool {
	switch n.Kind {
	case MethodDef, ClassDef, ModuleDef, Block:
		return true
	default:
		return false
	}
}

// HasBlock reports whether a Call or MethodCall carries a trailing do-block.
func (n *Node) HasBlock() bool {
	if n.Kind != Call && n.Kind != MethodCall {
		return false
	}
	return len(n.Kids) > 0 && n.Kids[len(n.Kids)-1].Kind == Block
}
