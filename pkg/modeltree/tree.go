// Package modeltree decodes offset-linked model and collision trees.
//
// A tree file is a 16-byte header followed by nodes that reference their
// children by absolute offset. Parse walks the offsets with an explicit stack
// and flattens the result into an arena: the root is index 0 and child links
// are arena indices. Subtrees referenced from more than one parent are decoded
// once and shared. A reference back into the active path is a cycle and is
// rejected.
package modeltree

import (
	"encoding/binary"
	gomath "math"

	"github.com/Kuruyia/sinjoh/pkg/math"
	"github.com/Kuruyia/sinjoh/pkg/nds"
	"github.com/Kuruyia/sinjoh/pkg/record"
)

// Wire format constants.
const (
	Magic          = "MTRE"
	Version        = 1
	HeaderSize     = 16
	NodeHeaderSize = 48
	PlateSize      = 12
	MaxNodes       = 4096

	// EmptySlot in a group's child table is skipped.
	EmptySlot = 0xFFFFFFFF

	childRefSize = 4
	nodeAlign    = 4
)

// Kind identifies what a node carries after its header.
type Kind uint8

const (
	KindGroup     Kind = 0 // Child offsets
	KindMesh      Kind = 1 // Vertex positions
	KindCollision Kind = 2 // Collision plates
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindMesh:
		return "Mesh"
	case KindCollision:
		return "Collision"
	default:
		return "Unknown"
	}
}

func (k Kind) payloadElemSize() (int, bool) {
	switch k {
	case KindGroup:
		return childRefSize, true
	case KindMesh:
		return nds.Vec3Fx16Size, true
	case KindCollision:
		return PlateSize, true
	}
	return 0, false
}

// AABB is an axis-aligned bounding box in fixed-point space.
type AABB struct {
	Min, Max nds.Vec3Fx32
}

// Contains reports whether p lies inside the box, edges included.
func (b AABB) Contains(p nds.Vec3Fx32) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Plate is one collision plane of a collision leaf.
type Plate struct {
	Normal     nds.Vec3Fx16
	Attributes uint16
	Constant   nds.Fx32
}

// Node is a decoded tree node. Children holds arena indices.
type Node struct {
	Kind      Kind
	Flags     uint8
	Position  nds.Vec3Fx32
	Scale     nds.Vec3Fx16
	RotationY uint16 // 65536 = full turn
	BoundsMin nds.Vec3Fx32
	BoundsMax nds.Vec3Fx32

	Children []int
	Vertices []nds.Vec3Fx16
	Plates   []Plate
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Bounds returns the node's bounding box.
func (n *Node) Bounds() AABB {
	return AABB{Min: n.BoundsMin, Max: n.BoundsMax}
}

// Angle returns the Y rotation in radians.
func (n *Node) Angle() float64 {
	return float64(n.RotationY) / 65536 * 2 * gomath.Pi
}

// LocalMatrix returns the node transform relative to its parent: scale,
// then rotate around Y, then translate.
func (n *Node) LocalMatrix() math.Mat43 {
	return math.Scale(n.Scale.Float()).
		Then(math.RotateY(n.Angle())).
		Then(math.Translate(n.Position.Float()))
}

// Tree is a decoded model tree.
type Tree struct {
	nodes []Node
	// post-order completion sequence; children always precede parents
	order []int
}

// Len returns the number of distinct nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.Node(0)
}

// Node returns the node at arena index i, or nil if i is out of range.
func (t *Tree) Node(i int) *Node {
	if i < 0 || i >= len(t.nodes) {
		return nil
	}
	return &t.nodes[i]
}

// WalkFunc is called by Walk for every node reference. shared is true when
// the node was already visited through another parent; its children are not
// visited again. Returning false stops the walk.
type WalkFunc func(index, depth int, n *Node, shared bool) bool

// Walk visits nodes depth first in pre-order, starting at the root with depth
// 0. Each node is descended into once, so the number of calls is bounded by
// the number of child links.
func (t *Tree) Walk(fn WalkFunc) {
	if len(t.nodes) == 0 {
		return
	}

	type item struct{ index, depth int }
	visited := make([]bool, len(t.nodes))
	stack := []item{{0, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[it.index]
		shared := visited[it.index]
		if !fn(it.index, it.depth, n, shared) {
			return
		}
		if shared {
			continue
		}
		visited[it.index] = true
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{n.Children[i], it.depth + 1})
		}
	}
}

// Depth returns the number of levels on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if len(t.nodes) == 0 {
		return 0
	}

	levels := make([]int, len(t.nodes))
	for _, i := range t.order {
		deepest := 0
		for _, c := range t.nodes[i].Children {
			deepest = max(deepest, levels[c])
		}
		levels[i] = deepest + 1
	}
	return levels[0]
}

// Leaves returns the arena indices of all leaf nodes in ascending order.
func (t *Tree) Leaves() []int {
	var leaves []int
	for i := range t.nodes {
		if t.nodes[i].IsLeaf() {
			leaves = append(leaves, i)
		}
	}
	return leaves
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (t *Tree) UnmarshalBinary(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

type visit struct {
	index int
	done  bool
}

type frame struct {
	offset   uint32
	index    int
	children []uint32
	next     int
}

type parser struct {
	data  []byte
	limit int
	seen  map[uint32]*visit
	nodes []Node
	order []int
}

// Parse decodes a model tree from data.
func Parse(data []byte) (*Tree, error) {
	if len(data) < HeaderSize {
		return nil, treeError(0, ErrOutOfBounds)
	}
	if string(data[0:4]) != Magic {
		return nil, treeError(0, ErrBadMagic)
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != Version {
		return nil, treeError(4, ErrUnsupportedVersion)
	}
	limit := int(binary.LittleEndian.Uint16(data[6:8]))
	if limit < 1 || limit > MaxNodes {
		return nil, treeError(6, ErrNodeLimit)
	}
	root := binary.LittleEndian.Uint32(data[8:12])

	p := &parser{
		data:  data,
		limit: limit,
		seen:  make(map[uint32]*visit),
	}
	if err := p.run(root); err != nil {
		return nil, err
	}
	return &Tree{nodes: p.nodes, order: p.order}, nil
}

func (p *parser) run(root uint32) error {
	f, err := p.enter(root)
	if err != nil {
		return err
	}
	stack := []frame{f}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.children) {
			p.seen[top.offset].done = true
			p.order = append(p.order, top.index)
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.children[top.next]
		top.next++
		parent := top.index

		if v, ok := p.seen[child]; ok {
			if !v.done {
				return treeError(child, ErrCycleDetected)
			}
			p.nodes[parent].Children = append(p.nodes[parent].Children, v.index)
			continue
		}

		f, err := p.enter(child)
		if err != nil {
			return err
		}
		p.nodes[parent].Children = append(p.nodes[parent].Children, f.index)
		stack = append(stack, f)
	}
	return nil
}

// enter decodes the node at off, appends it to the arena and marks it in
// progress.
func (p *parser) enter(off uint32) (frame, error) {
	if len(p.nodes) >= p.limit {
		return frame{}, treeError(off, ErrNodeLimit)
	}
	n, children, err := p.decode(off)
	if err != nil {
		return frame{}, err
	}

	index := len(p.nodes)
	p.nodes = append(p.nodes, n)
	p.seen[off] = &visit{index: index}
	return frame{offset: off, index: index, children: children}, nil
}

func (p *parser) decode(off uint32) (Node, []uint32, error) {
	if off%nodeAlign != 0 {
		return Node{}, nil, treeError(off, ErrMisaligned)
	}
	start := uint64(off)
	if start < HeaderSize || start+NodeHeaderSize > uint64(len(p.data)) {
		return Node{}, nil, treeError(off, ErrOutOfBounds)
	}

	kind := Kind(p.data[start])
	elemSize, ok := kind.payloadElemSize()
	if !ok {
		return Node{}, nil, treeError(off, ErrUnknownNodeKind)
	}
	count := int(binary.LittleEndian.Uint16(p.data[start+2:]))
	end := start + NodeHeaderSize + uint64(count)*uint64(elemSize)
	if end > uint64(len(p.data)) {
		return Node{}, nil, treeError(off, ErrOutOfBounds)
	}

	r := record.NewReader("model tree node", p.data[start:end])
	n := Node{
		Kind:  Kind(r.U8("kind")),
		Flags: r.U8("flags"),
	}
	r.Skip("count", 2)
	n.Position = r.Vec3Fx32("position")
	n.Scale = r.Vec3Fx16("scale")
	n.RotationY = r.U16("rotation y")
	n.BoundsMin = r.Vec3Fx32("bounds min")
	n.BoundsMax = r.Vec3Fx32("bounds max")

	var children []uint32
	switch kind {
	case KindGroup:
		children = make([]uint32, 0, count)
		for range count {
			if ref := r.U32("child offset"); ref != EmptySlot {
				children = append(children, ref)
			}
		}
		n.Children = make([]int, 0, len(children))
	case KindMesh:
		n.Vertices = make([]nds.Vec3Fx16, count)
		for i := range n.Vertices {
			n.Vertices[i] = r.Vec3Fx16("vertex")
		}
	case KindCollision:
		n.Plates = make([]Plate, count)
		for i := range n.Plates {
			n.Plates[i] = Plate{
				Normal:     r.Vec3Fx16("plate normal"),
				Attributes: r.U16("plate attributes"),
				Constant:   r.Fx32("plate constant"),
			}
		}
	}
	if err := r.Err(); err != nil {
		return Node{}, nil, treeError(off, err)
	}
	return n, children, nil
}
