// Package bsp implements the binary split tree layout. The tree is an
// arena of nodes addressed by index, so structural edits are index
// reassignments and the whole tree serializes trivially.
package bsp

import (
	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
	"github.com/ItsNotGoodName/waytiler/internal/layout"
)

const nilNode = int32(-1)

// leafKey stores a view's leaf index in its Store so the tree is
// reachable in O(1) from the view.
const leafKey entity.Key = "bsp.leaf"

const (
	// MinRatio and MaxRatio bound split ratios so resizing can never
	// produce a zero-width partition.
	MinRatio = 0.1
	MaxRatio = 0.9
)

type nodeKind uint8

const (
	kindLeaf nodeKind = iota
	kindSplit
)

type node struct {
	kind   nodeKind
	parent int32

	// split fields; a is the left or top child
	a, b   int32
	orient geom.Orientation
	ratio  float64

	// leaf field
	view entity.ViewRef
}

type Tree struct {
	reg    *entity.Registry
	nodes  []node
	free   []int32
	root   int32
	leaves map[entity.ViewRef]int32
}

func NewTree(reg *entity.Registry) *Tree {
	return &Tree{reg: reg, root: nilNode, leaves: make(map[entity.ViewRef]int32)}
}

func (t *Tree) alloc(n node) int32 {
	if len(t.free) > 0 {
		id := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

func (t *Tree) release(id int32) {
	t.nodes[id] = node{parent: nilNode, a: nilNode, b: nilNode}
	t.free = append(t.free, id)
}

// leafOf returns the view's leaf index, or nilNode when the view is
// not tracked by this tree.
func (t *Tree) leafOf(ref entity.ViewRef) int32 {
	id, ok := t.leaves[ref]
	if !ok {
		return nilNode
	}
	return id
}

// setLeafOf records the ref's leaf both tree-side and in the view's
// Store, so a leaf stays removable after its view is destroyed.
func (t *Tree) setLeafOf(ref entity.ViewRef, id int32) {
	t.leaves[ref] = id
	if v := t.reg.View(ref); v != nil {
		entity.Put(v.Store(), leafKey, id)
	}
}

// replaceChild swaps old for new in parent's child slots, or at the
// root when parent is nilNode. The replacement keeps old's side.
func (t *Tree) replaceChild(parent, old, new int32) {
	if parent == nilNode {
		t.root = new
	} else if t.nodes[parent].a == old {
		t.nodes[parent].a = new
	} else {
		t.nodes[parent].b = new
	}
	t.nodes[new].parent = parent
}

// Insert adds a view's leaf next to the leaf `at` (the tiling root),
// creating a split with the given orientation and ratio 0.5. When `at`
// is not a live leaf the whole tree is wrapped under a fresh root
// split instead; an empty tree gets the leaf as its root.
func (t *Tree) Insert(ref entity.ViewRef, at int32, orient geom.Orientation) bool {
	if t.reg.View(ref) == nil {
		return false
	}
	if t.leafOf(ref) != nilNode {
		return true
	}

	leaf := t.alloc(node{kind: kindLeaf, parent: nilNode, a: nilNode, b: nilNode, view: ref})

	if t.root == nilNode {
		t.root = leaf
		t.setLeafOf(ref, leaf)
		return true
	}

	target := t.root
	if at != nilNode && t.nodes[at].kind == kindLeaf {
		target = at
	}

	parent := t.nodes[target].parent
	split := t.alloc(node{
		kind:   kindSplit,
		parent: nilNode,
		a:      target,
		b:      leaf,
		orient: orient,
		ratio:  0.5,
	})
	t.replaceChild(parent, target, split)
	t.nodes[target].parent = split
	t.nodes[leaf].parent = split

	t.setLeafOf(ref, leaf)
	return true
}

// Remove deletes the view's leaf, promoting its sibling into the
// parent's position. Unknown views are a no-op.
func (t *Tree) Remove(ref entity.ViewRef) {
	leaf, ok := t.leaves[ref]
	if !ok {
		return
	}
	delete(t.leaves, ref)
	if v := t.reg.View(ref); v != nil {
		entity.Take[int32](v.Store(), leafKey)
	}

	parent := t.nodes[leaf].parent
	if parent == nilNode {
		t.root = nilNode
		t.release(leaf)
		return
	}

	sibling := t.nodes[parent].a
	if sibling == leaf {
		sibling = t.nodes[parent].b
	}
	t.replaceChild(t.nodes[parent].parent, parent, sibling)

	t.release(leaf)
	t.release(parent)
}

// Recalculate walks the tree, splitting the available rectangle at
// every split and writing final geometry onto each leaf's view,
// shrunk by the view's usable insets and scaled by its output.
func (t *Tree) Recalculate(available geom.Rect) {
	if t.root != nilNode {
		t.recalc(t.root, available)
	}
}

func (t *Tree) recalc(id int32, rect geom.Rect) {
	n := &t.nodes[id]
	if n.kind == kindSplit {
		a, b := rect.Split(n.orient, n.ratio)
		t.recalc(n.a, a)
		t.recalc(n.b, b)
		return
	}

	v := t.reg.View(n.view)
	if v == nil {
		return
	}
	insets, _ := entity.Get[geom.Insets](v.Store(), layout.InsetsKey)
	scale := 1.0
	if out := t.reg.Output(v.Output()); out != nil {
		scale = out.Scale()
	}
	v.SetGeometry(rect.Shrink(insets).Scale(scale))
	v.SetVisible(true)
}

// Resize adjusts the ratio of the nearest ancestor split matching the
// orientation, moving the boundary on the view's `d` side by delta.
// The ratio is clamped so neither partition degenerates.
func (t *Tree) Resize(ref entity.ViewRef, o geom.Orientation, d geom.Direction, delta float64) bool {
	cur := t.leafOf(ref)
	if cur == nilNode {
		return false
	}

	for parent := t.nodes[cur].parent; parent != nilNode; cur, parent = parent, t.nodes[parent].parent {
		if t.nodes[parent].orient != o {
			continue
		}

		onA := t.nodes[parent].a == cur
		if onA == (d == geom.Forward) {
			t.nodes[parent].ratio += delta
		} else {
			t.nodes[parent].ratio -= delta
		}
		if t.nodes[parent].ratio < MinRatio {
			t.nodes[parent].ratio = MinRatio
		}
		if t.nodes[parent].ratio > MaxRatio {
			t.nodes[parent].ratio = MaxRatio
		}
		return true
	}
	return false
}

// Move relocates the view within the tree: flip the parent's
// orientation when it differs, swap with the sibling when the view is
// on the wrong side, otherwise swap with the uncle subtree one level
// up, carrying the split data along.
func (t *Tree) Move(ref entity.ViewRef, o geom.Orientation, d geom.Direction) bool {
	leaf := t.leafOf(ref)
	if leaf == nilNode {
		return false
	}
	parent := t.nodes[leaf].parent
	if parent == nilNode {
		return false
	}

	if t.nodes[parent].orient != o {
		t.nodes[parent].orient = o
		return true
	}

	onA := t.nodes[parent].a == leaf
	if onA == (d == geom.Forward) {
		t.nodes[parent].a, t.nodes[parent].b = t.nodes[parent].b, t.nodes[parent].a
		return true
	}

	grand := t.nodes[parent].parent
	if grand == nilNode {
		return false
	}

	uncle := t.nodes[grand].a
	if uncle == parent {
		uncle = t.nodes[grand].b
	}

	// The leaf and uncle subtrees trade places.
	if t.nodes[parent].a == leaf {
		t.nodes[parent].a = uncle
	} else {
		t.nodes[parent].b = uncle
	}
	if t.nodes[grand].a == uncle {
		t.nodes[grand].a = leaf
	} else {
		t.nodes[grand].b = leaf
	}
	t.nodes[uncle].parent = parent
	t.nodes[leaf].parent = grand

	// Split data travels with the logical swap.
	t.nodes[parent].orient, t.nodes[grand].orient = t.nodes[grand].orient, t.nodes[parent].orient
	t.nodes[parent].ratio, t.nodes[grand].ratio = t.nodes[grand].ratio, t.nodes[parent].ratio

	// Put the leaf on the requested side at its new level.
	onA = t.nodes[grand].a == leaf
	if onA == (d == geom.Forward) {
		t.nodes[grand].a, t.nodes[grand].b = t.nodes[grand].b, t.nodes[grand].a
	}
	return true
}

// Navigate finds the view directional focus movement lands on: the
// nearest leaf across the first matching ancestor split whose boundary
// lies in the requested direction.
func (t *Tree) Navigate(ref entity.ViewRef, o geom.Orientation, d geom.Direction) (entity.ViewRef, bool) {
	cur := t.leafOf(ref)
	if cur == nilNode {
		return entity.ViewRef{}, false
	}

	for parent := t.nodes[cur].parent; parent != nilNode; cur, parent = parent, t.nodes[parent].parent {
		if t.nodes[parent].orient != o {
			continue
		}
		onA := t.nodes[parent].a == cur
		if onA != (d == geom.Forward) {
			continue
		}

		next := t.nodes[parent].a
		if onA {
			next = t.nodes[parent].b
		}
		for t.nodes[next].kind == kindSplit {
			if d == geom.Forward {
				next = t.nodes[next].a
			} else {
				next = t.nodes[next].b
			}
		}
		return t.nodes[next].view, true
	}
	return entity.ViewRef{}, false
}

// Count returns the number of leaves reachable from the root.
func (t *Tree) Count() int {
	return t.count(t.root)
}

func (t *Tree) count(id int32) int {
	if id == nilNode {
		return 0
	}
	if t.nodes[id].kind == kindLeaf {
		return 1
	}
	return t.count(t.nodes[id].a) + t.count(t.nodes[id].b)
}

// SnapshotNode is the serialized form of a tree node.
type SnapshotNode struct {
	Type        string         `json:"type"`
	Orientation string         `json:"orientation,omitempty"`
	Ratio       float64        `json:"ratio,omitempty"`
	View        string         `json:"view,omitempty"`
	Children    []SnapshotNode `json:"children,omitempty"`
}

func (t *Tree) Snapshot() *SnapshotNode {
	if t.root == nilNode {
		return nil
	}
	n := t.snapshot(t.root)
	return &n
}

func (t *Tree) snapshot(id int32) SnapshotNode {
	n := t.nodes[id]
	if n.kind == kindSplit {
		return SnapshotNode{
			Type:        "split",
			Orientation: n.orient.String(),
			Ratio:       n.ratio,
			Children:    []SnapshotNode{t.snapshot(n.a), t.snapshot(n.b)},
		}
	}
	name := ""
	if v := t.reg.View(n.view); v != nil {
		name = v.Name()
	}
	return SnapshotNode{Type: "leaf", View: name}
}

// Leaves returns the refs of all views currently in the tree in
// left-to-right order.
func (t *Tree) Leaves() []entity.ViewRef {
	var refs []entity.ViewRef
	var walk func(id int32)
	walk = func(id int32) {
		if id == nilNode {
			return
		}
		if t.nodes[id].kind == kindLeaf {
			refs = append(refs, t.nodes[id].view)
			return
		}
		walk(t.nodes[id].a)
		walk(t.nodes[id].b)
	}
	walk(t.root)
	return refs
}
