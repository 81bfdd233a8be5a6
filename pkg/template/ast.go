package template

import (
	"slices"
	"strings"
	"text/template/parse"
)

// FieldRef is a field chain used by a template, e.g. ["project", "name"] for .project.name.
type FieldRef struct {
	Path []string
}

func (f FieldRef) String() string {
	return strings.Join(f.Path, ".")
}

// fieldRefs lists the distinct field chains of a parsed tree in order of appearance.
func fieldRefs(tree *parse.Tree) []FieldRef {
	if tree == nil || tree.Root == nil {
		return nil
	}
	var refs []FieldRef
	seen := make(map[string]bool)
	walkAST(tree.Root, func(node parse.Node) {
		if field, ok := node.(*parse.FieldNode); ok {
			key := strings.Join(field.Ident, ".")
			if !seen[key] {
				refs = append(refs, FieldRef{Path: field.Ident})
				seen[key] = true
			}
		}
	})
	return refs
}

// MissingVars lists the top-level variables the template named name reads but vars lacks, sorted.
// Fields read inside range or with blocks are relative to a different dot, so they may be reported
// even when the render succeeds; the list is only used to explain failed renders.
func (r *Renderer) MissingVars(name string, vars map[string]any) []string {
	t := r.root.Lookup(name)
	if t == nil {
		return nil
	}
	var missing []string
	for _, ref := range fieldRefs(t.Tree) {
		key := ref.Path[0]
		if _, ok := vars[key]; !ok && !slices.Contains(missing, key) {
			missing = append(missing, key)
		}
	}
	slices.Sort(missing)
	return missing
}

func walkAST(node parse.Node, fn func(parse.Node)) {
	if node == nil {
		return
	}

	fn(node)

	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			walkAST(child, fn)
		}
	case *parse.ActionNode:
		walkAST(n.Pipe, fn)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, cmd := range n.Cmds {
			walkAST(cmd, fn)
		}
	case *parse.CommandNode:
		if n == nil {
			return
		}
		for _, arg := range n.Args {
			walkAST(arg, fn)
		}
	case *parse.IfNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.TemplateNode:
		walkAST(n.Pipe, fn)
	}
}

func walkBranch(n *parse.BranchNode, fn func(parse.Node)) {
	walkAST(n.Pipe, fn)
	walkAST(n.List, fn)
	walkAST(n.ElseList, fn)
}
