package metric

import (
	"errors"
	"strings"
)

// SkipChildren may be returned by a WalkFunc to prune the subtree below the
// current node.
var SkipChildren = errors.New("metric: skip children")

// WalkFunc visits one node; path is the slash-joined list of child names
// from the root ("" for the root itself).
type WalkFunc func(path string, n Node) error

// Walk visits n and its descendants depth-first, in Children order.
// Returning SkipChildren prunes; any other error aborts the walk.
func Walk(n Node, fn WalkFunc) error {
	return walk("", n, fn)
}

func walk(path string, n Node, fn WalkFunc) error {
	if n == nil {
		return nil
	}
	if err := fn(path, n); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, c := range n.Children() {
		p := c.Name
		if path != "" {
			p = path + "/" + c.Name
		}
		if err := walk(p, c.Node, fn); err != nil {
			return err
		}
	}

	return nil
}

// Describe renders the tree rooted at n, one node per line, indented by depth.
//
//	set(<->, f1)
//	  [*]: struct
//	    left: discrete
//	    right: discrete
func Describe(n Node) string {
	var sb strings.Builder
	describe(&sb, "", n, 0)

	return strings.TrimRight(sb.String(), "\n")
}

func describe(sb *strings.Builder, name string, n Node, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	if name != "" {
		sb.WriteString(name)
		sb.WriteString(": ")
	}
	sb.WriteString(n.Label())
	sb.WriteByte('\n')
	for _, c := range n.Children() {
		describe(sb, c.Name, c.Node, depth+1)
	}
}
