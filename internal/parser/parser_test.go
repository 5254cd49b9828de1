package parser_test

import (
	"strings"
	"testing"

	"zajal/internal/ast"
	"zajal/internal/diag"
	"zajal/internal/parser"
	"zajal/internal/source"
)

func parse(t *testing.T, input string) *ast.Node {
	t.Helper()
	file := source.NewFile("test.zj", []byte(input))
	bag := diag.NewBag(16)
	tree := parser.ParseFile(file, parser.Options{Reporter: bag})
	if bag.HasErrors() {
		d, _ := bag.FirstError()
		t.Fatalf("unexpected parse error for %q: %s", input, d.Message)
	}
	return tree
}

func parseErr(t *testing.T, input string) *diag.Bag {
	t.Helper()
	file := source.NewFile("test.zj", []byte(input))
	bag := diag.NewBag(16)
	parser.ParseFile(file, parser.Options{Reporter: bag})
	if !bag.HasErrors() {
		t.Fatalf("expected parse error for %q", input)
	}
	return bag
}

func TestParse_EventBlock(t *testing.T) {
	tree := parse(t, "draw do\n  circle 50, 50, 10\nend\n")
	if len(tree.Kids) != 1 {
		t.Fatalf("program has %d statements, want 1", len(tree.Kids))
	}
	call := tree.Kids[0]
	if call.Kind != ast.Call || call.Text != "draw" {
		t.Fatalf("statement = %v %q, want call draw", call.Kind, call.Text)
	}
	if !call.HasBlock() {
		t.Fatal("draw call has no block")
	}
	blk := call.Kids[len(call.Kids)-1]
	body := blk.Kids[1]
	if len(body.Kids) != 1 || body.Kids[0].Kind != ast.Call || body.Kids[0].Text != "circle" {
		t.Fatalf("block body = %s", ast.Dump(body))
	}
	if len(body.Kids[0].Kids) != 3 {
		t.Fatalf("circle has %d args, want 3", len(body.Kids[0].Kids))
	}
}

func TestParse_BlockParams(t *testing.T) {
	tree := parse(t, "mouse_down do |x, y, button|\n  plot x, y\nend\n")
	call := tree.Kids[0]
	blk := call.Kids[len(call.Kids)-1]
	params := blk.Kids[0]
	if len(params.Kids) != 3 {
		t.Fatalf("block has %d params, want 3", len(params.Kids))
	}
	if params.Kids[2].Text != "button" {
		t.Fatalf("third param = %q, want button", params.Kids[2].Text)
	}
}

func TestParse_MethodDef(t *testing.T) {
	tree := parse(t, "def area(w, h)\n  return w * h\nend\n")
	def := tree.Kids[0]
	if def.Kind != ast.MethodDef || def.Text != "area" {
		t.Fatalf("got %v %q, want def area", def.Kind, def.Text)
	}
	params, body := def.Kids[0], def.Kids[1]
	if len(params.Kids) != 2 {
		t.Fatalf("def has %d params, want 2", len(params.Kids))
	}
	ret := body.Kids[0]
	if ret.Kind != ast.Return || ret.Kids[0].Kind != ast.Binary || ret.Kids[0].Text != "*" {
		t.Fatalf("body = %s", ast.Dump(body))
	}
}

func TestParse_ClassAndModule(t *testing.T) {
	tree := parse(t, strings.Join([]string{
		"class Ball",
		"  def initialize(x)",
		"    @x = x",
		"  end",
		"  def bounce",
		"    @x = 0 - @x",
		"  end",
		"end",
		"module Palette",
		"  def warm",
		"    return :red",
		"  end",
		"end",
	}, "\n"))
	if len(tree.Kids) != 2 {
		t.Fatalf("program has %d statements, want 2", len(tree.Kids))
	}
	cls := tree.Kids[0]
	if cls.Kind != ast.ClassDef || cls.Text != "Ball" {
		t.Fatalf("got %v %q, want class Ball", cls.Kind, cls.Text)
	}
	if got := len(cls.Kids[0].Kids); got != 2 {
		t.Fatalf("class body has %d defs, want 2", got)
	}
	mod := tree.Kids[1]
	if mod.Kind != ast.ModuleDef || mod.Text != "Palette" {
		t.Fatalf("got %v %q, want module Palette", mod.Kind, mod.Text)
	}
}

func TestParse_Assignments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, stmt *ast.Node)
	}{
		{"simple", "x = 1", func(t *testing.T, stmt *ast.Node) {
			if stmt.Kind != ast.Assign || stmt.Kids[0].Text != "x" {
				t.Fatalf("got %s", ast.Dump(stmt))
			}
		}},
		{"global", "$hits = 0", func(t *testing.T, stmt *ast.Node) {
			if stmt.Kind != ast.Assign || stmt.Kids[0].Kind != ast.GVar || stmt.Kids[0].Text != "hits" {
				t.Fatalf("got %s", ast.Dump(stmt))
			}
		}},
		{"op assign", "x += 2", func(t *testing.T, stmt *ast.Node) {
			if stmt.Kind != ast.OpAssign || stmt.Text != "+" {
				t.Fatalf("got %s", ast.Dump(stmt))
			}
		}},
		{"multiple", "a, b = 1, 2", func(t *testing.T, stmt *ast.Node) {
			if stmt.Kind != ast.MultiAssign {
				t.Fatalf("got %s", ast.Dump(stmt))
			}
			if len(stmt.Kids[0].Kids) != 2 || len(stmt.Kids[1].Kids) != 2 {
				t.Fatalf("got %s", ast.Dump(stmt))
			}
		}},
		{"index target", "grid[3] = 9", func(t *testing.T, stmt *ast.Node) {
			if stmt.Kind != ast.Assign || stmt.Kids[0].Kind != ast.Index {
				t.Fatalf("got %s", ast.Dump(stmt))
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.input)
			tt.check(t, tree.Kids[0])
		})
	}
}

func TestParse_CommandVsExpression(t *testing.T) {
	// `x - 1` — бинарное выражение, `wait -1` — команда с аргументом
	tree := parse(t, "x - 1")
	if tree.Kids[0].Kind != ast.Binary {
		t.Fatalf("x - 1 parsed as %s", ast.Dump(tree.Kids[0]))
	}
	tree = parse(t, "wait -1")
	cmd := tree.Kids[0]
	if cmd.Kind != ast.Call || cmd.Text != "wait" || len(cmd.Kids) != 1 {
		t.Fatalf("wait -1 parsed as %s", ast.Dump(cmd))
	}
	// смежная скобка — индекс, отдельная — аргумент-массив
	tree = parse(t, "grid[0]")
	if tree.Kids[0].Kind != ast.Index {
		t.Fatalf("grid[0] parsed as %s", ast.Dump(tree.Kids[0]))
	}
	tree = parse(t, "plot_all [1, 2]")
	cmd = tree.Kids[0]
	if cmd.Kind != ast.Call || len(cmd.Kids) != 1 || cmd.Kids[0].Kind != ast.ArrayLit {
		t.Fatalf("plot_all [1, 2] parsed as %s", ast.Dump(cmd))
	}
}

func TestParse_MethodCallChain(t *testing.T) {
	tree := parse(t, "ball.move(1, 2)\n5.times do |i|\n  plot i, i\nend\n")
	mc := tree.Kids[0]
	if mc.Kind != ast.MethodCall || mc.Text != "move" || len(mc.Kids) != 3 {
		t.Fatalf("got %s", ast.Dump(mc))
	}
	times := tree.Kids[1]
	if times.Kind != ast.MethodCall || times.Text != "times" || !times.HasBlock() {
		t.Fatalf("got %s", ast.Dump(times))
	}
	if times.Kids[0].Kind != ast.IntLit || times.Kids[0].Text != "5" {
		t.Fatalf("receiver = %s", ast.Dump(times.Kids[0]))
	}
}

func TestParse_ControlFlow(t *testing.T) {
	tree := parse(t, strings.Join([]string{
		"if x > 10",
		"  plot 1, 1",
		"elsif x > 5",
		"  plot 2, 2",
		"else",
		"  plot 3, 3",
		"end",
		"while y < 3",
		"  y += 1",
		"end",
		"unless done",
		"  y = 0",
		"end",
	}, "\n"))
	ifNode := tree.Kids[0]
	if ifNode.Kind != ast.If || len(ifNode.Kids) != 3 {
		t.Fatalf("if = %s", ast.Dump(ifNode))
	}
	if ifNode.Kids[2].Kind != ast.If {
		t.Fatalf("elsif branch = %s", ast.Dump(ifNode.Kids[2]))
	}
	if tree.Kids[1].Kind != ast.While {
		t.Fatalf("while = %s", ast.Dump(tree.Kids[1]))
	}
	unlessNode := tree.Kids[2]
	if unlessNode.Kind != ast.If || unlessNode.Kids[0].Kind != ast.Unary || unlessNode.Kids[0].Text != "!" {
		t.Fatalf("unless = %s", ast.Dump(unlessNode))
	}
}

func TestParse_Precedence(t *testing.T) {
	tree := parse(t, "r = 1 + 2 * 3 == 7 && true")
	// ((1 + (2 * 3)) == 7) && true
	expr := tree.Kids[0].Kids[1]
	if expr.Kind != ast.Binary || expr.Text != "&&" {
		t.Fatalf("root op = %s", ast.Dump(expr))
	}
	eq := expr.Kids[0]
	if eq.Text != "==" {
		t.Fatalf("got %s", ast.Dump(expr))
	}
	add := eq.Kids[0]
	if add.Text != "+" || add.Kids[1].Text != "*" {
		t.Fatalf("got %s", ast.Dump(add))
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unbalanced do", "draw do\n  circle 1, 2, 3\n"},
		{"unbalanced def", "def f\n  x = 1\n"},
		{"stray end", "end"},
		{"bad target", "1 = x"},
		{"dangling op", "x = 1 +\n"},
		{"bad paren", "f(1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseErr(t, tt.input)
		})
	}
}

func TestParse_Determinism(t *testing.T) {
	const input = "setup do\n  size 80, 24\nend\n\ndraw do\n  circle 10, 10, 4\nend\n"
	a := parse(t, input)
	b := parse(t, input)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("two parses of equal text produced different trees")
	}
}
