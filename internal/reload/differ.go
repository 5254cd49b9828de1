package reload

import (
	"sort"

	"zajal/internal/ast"
)

// Delta is the multiset difference between two structural trees: subtrees
// present in the old tree but not the new one, and vice versa. Duplicate
// subtrees cancel up to the smaller count; only the excess is reported.
type Delta struct {
	Removed []*ast.Node
	Added   []*ast.Node
}

// Empty reports whether nothing changed structurally.
func (d Delta) Empty() bool { return len(d.Removed) == 0 && len(d.Added) == 0 }

// Diff flattens both trees into fingerprint multisets and subtracts them.
// This is a deliberate approximation, not minimal tree-edit distance: cheap,
// order-insensitive and sufficient to notice that a named construct appeared
// or disappeared.
func Diff(oldTree, newTree *ast.Node) Delta {
	oldSubs := ast.Flatten(oldTree, nil)
	newSubs := ast.Flatten(newTree, nil)

	newCounts := make(map[string]int, len(newSubs))
	for _, n := range newSubs {
		newCounts[n.Fingerprint()]++
	}

	var d Delta
	for _, n := range oldSubs {
		fp := n.Fingerprint()
		if newCounts[fp] > 0 {
			newCounts[fp]--
			continue
		}
		d.Removed = append(d.Removed, n)
	}

	oldCounts := make(map[string]int, len(oldSubs))
	for _, n := range oldSubs {
		oldCounts[n.Fingerprint()]++
	}
	for _, n := range newSubs {
		fp := n.Fingerprint()
		if oldCounts[fp] > 0 {
			oldCounts[fp]--
			continue
		}
		d.Added = append(d.Added, n)
	}
	return d
}

// NamePair is one category of the delta, projected down to construct names.
type NamePair struct {
	Removed []string
	Added   []string
}

// Empty reports whether the category saw no changes.
func (p NamePair) Empty() bool { return len(p.Removed) == 0 && len(p.Added) == 0 }

// Touches reports whether the category mentions name on either side.
func (p NamePair) Touches(name string) bool {
	for _, n := range p.Removed {
		if n == name {
			return true
		}
	}
	for _, n := range p.Added {
		if n == name {
			return true
		}
	}
	return false
}

// Categorized projects a structural delta into the four name categories the
// patcher understands, plus the globals category computed by tree reduction.
type Categorized struct {
	Events  NamePair
	Methods NamePair
	Classes NamePair
	Modules NamePair
	Globals NamePair
}

// Categorize extracts construct names from each delta side by matching the
// element's own shape, and computes the globals category as the set
// difference of the two trees' top-level assignment targets. Matching the
// element root directly (instead of searching inside it) is what makes
// unchanged constructs cancel out in the multiset.
func Categorize(d Delta, oldTree, newTree *ast.Node) Categorized {
	var c Categorized
	for _, n := range d.Removed {
		categorizeNode(n, &c, false)
	}
	for _, n := range d.Added {
		categorizeNode(n, &c, true)
	}

	oldGlobals := GlobalAssignTargets(oldTree)
	newGlobals := GlobalAssignTargets(newTree)
	c.Globals.Removed = nameSetDiff(oldGlobals, newGlobals)
	c.Globals.Added = nameSetDiff(newGlobals, oldGlobals)
	return c
}

func categorizeNode(n *ast.Node, c *Categorized, added bool) {
	pick := func(p *NamePair, name string) {
		if added {
			p.Added = append(p.Added, name)
		} else {
			p.Removed = append(p.Removed, name)
		}
	}
	switch n.Kind {
	case ast.Call:
		if IsEvent(n.Text) && n.HasBlock() {
			pick(&c.Events, n.Text)
		}
	case ast.MethodDef:
		pick(&c.Methods, n.Text)
	case ast.ClassDef:
		pick(&c.Classes, n.Text)
	case ast.ModuleDef:
		pick(&c.Modules, n.Text)
	}
}

// GlobalAssignTargets walks a tree depth-first, skipping any subtree that
// introduces new scope, and collects every identifier assigned at the top
// level. Global-sigil targets count too: after globalization every top-level
// assignment target carries the sigil, and the persistence decision must see
// through it. The result is sorted and deduplicated.
func GlobalAssignTargets(tree *ast.Node) []string {
	seen := make(map[string]bool)
	var walk func(n *ast.Node)
	collect := func(target *ast.Node) {
		switch target.Kind {
		case ast.Ident, ast.GVar:
			seen[target.Text] = true
		}
	}
	walk = func(n *ast.Node) {
		switch n.Kind {
		case ast.Assign, ast.OpAssign:
			collect(n.Kids[0])
			return
		case ast.MultiAssign:
			for _, t := range n.Kids[0].Kids {
				collect(t)
			}
			return
		}
		for _, kid := range n.Kids {
			if kid.IntroducesScope() {
				continue
			}
			walk(kid)
		}
	}
	walk(tree)

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func nameSetDiff(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, name := range b {
		in[name] = true
	}
	var out []string
	for _, name := range a {
		if !in[name] {
			out = append(out, name)
		}
	}
	return out
}
