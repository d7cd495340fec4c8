// Package trie implements a rune-keyed prefix tree used for nickname-prefix
// autocompletion in the input area (C8 consumes this for tab completion).
//
// Grounded on the teacher's dispatch.trie (dispatch/trie.go): the same
// recursive node/insert/find/remove shape, but re-keyed from the teacher's
// map-of-string dispatch segments (network/channel/event, each compared
// whole) to individual runes with children kept as an ordered, binary
// searched slice rather than a map - spec.md's C12 asks explicitly for
// "ordered children per node (binary-searched by character)" so that
// to_strings produces a lexicographic enumeration without a sort step.
package trie

import "sort"

// node is one rune position in the tree. children is kept sorted by Rune so
// lookups and insertions can binary search instead of scanning, and so a
// depth-first walk yields output in lexicographic order for free.
type node struct {
	children []*node
	rune     rune
	isWord   bool
}

// Trie is a prefix tree over strings, compared rune-by-rune. The zero value
// is not usable; use New.
type Trie struct {
	root *node
	size int
}

// New returns an empty Trie.
func New() *Trie {
	return &Trie{root: &node{}}
}

// search returns the index in children where r is, or where it should be
// inserted (children stays sorted by Rune).
func search(children []*node, r rune) int {
	return sort.Search(len(children), func(i int) bool {
		return children[i].rune >= r
	})
}

func (n *node) child(r rune) *node {
	i := search(n.children, r)
	if i < len(n.children) && n.children[i].rune == r {
		return n.children[i]
	}
	return nil
}

func (n *node) childOrCreate(r rune) *node {
	i := search(n.children, r)
	if i < len(n.children) && n.children[i].rune == r {
		return n.children[i]
	}
	child := &node{rune: r}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	return child
}

// Insert adds s to the trie. Inserting a string already present is a no-op.
func (t *Trie) Insert(s string) {
	cur := t.root
	for _, r := range s {
		cur = cur.childOrCreate(r)
	}
	if !cur.isWord {
		cur.isWord = true
		t.size++
	}
}

// Contains reports whether s was previously Inserted.
func (t *Trie) Contains(s string) bool {
	n := t.walk(s)
	return n != nil && n.isWord
}

// Len returns the number of distinct strings stored.
func (t *Trie) Len() int { return t.size }

// walk follows s from the root, returning the node at its end, or nil if s
// is not a path present in the tree at all.
func (t *Trie) walk(s string) *node {
	cur := t.root
	for _, r := range s {
		cur = cur.child(r)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Remove deletes s from the trie, if present. Reports whether it was
// present. Nodes that become childless and non-word as a result are pruned.
func (t *Trie) Remove(s string) bool {
	runes := []rune(s)
	path := make([]*node, 0, len(runes)+1)
	path = append(path, t.root)

	cur := t.root
	for _, r := range runes {
		cur = cur.child(r)
		if cur == nil {
			return false
		}
		path = append(path, cur)
	}
	if !cur.isWord {
		return false
	}

	cur.isWord = false
	t.size--

	for i := len(path) - 1; i > 0; i-- {
		n := path[i]
		if n.isWord || len(n.children) > 0 {
			break
		}
		parent := path[i-1]
		idx := search(parent.children, n.rune)
		parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	}

	return true
}

// DropPfx consumes prefix down the tree and returns every completion
// (including the empty completion, if prefix itself is a word) as full
// strings with prefix prepended, in lexicographic order. Returns nil if
// prefix is not a path present in the tree.
func (t *Trie) DropPfx(prefix string) []string {
	n := t.walk(prefix)
	if n == nil {
		return nil
	}
	var out []string
	n.collect(prefix, &out)
	return out
}

// ToStrings is an alias for DropPfx kept for parity with the rune-by-rune
// enumeration spec.md's C12 names explicitly; both walk the subtree under
// prefix and report every completed word beneath it in sorted order.
func (t *Trie) ToStrings(prefix string) []string {
	return t.DropPfx(prefix)
}

func (n *node) collect(prefix string, out *[]string) {
	if n.isWord {
		*out = append(*out, prefix)
	}
	for _, c := range n.children {
		c.collect(prefix+string(c.rune), out)
	}
}
