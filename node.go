package marionette

import (
	"fmt"

	"github.com/phanxgames/marionette/model"
)

// NodeKind distinguishes the node variants the engine evaluates.
type NodeKind uint8

const (
	// NodeKindPlain is a hierarchy-only node. It is never drawn but its
	// transform is inherited by its children.
	NodeKindPlain NodeKind = iota
	// NodeKindDrawable has a mesh and, for parts, texture data.
	NodeKindDrawable
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindPlain:
		return "plain"
	case NodeKindDrawable:
		return "drawable"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// Drawable is the payload of NodeKindDrawable nodes. The engine only carries
// it through to the renderer.
type Drawable struct {
	Mesh *model.MeshData
	// Part is nil for untextured drawables.
	Part *model.PartData
}

// Node is a node of the lowered puppet tree. All nodes share the same base
// fields; Drawable is non-nil exactly when Kind is NodeKindDrawable.
//
// The tree is owned by the Engine and mutated only by Engine.Update. Node
// accessors must not be called concurrently with Update.
type Node struct {
	id       model.UUID
	name     string
	kind     NodeKind
	enabled  bool
	children []*Node
	bindings []*Binding
	drawable *Drawable

	// As declared by the puppet, relative to the parent and without
	// parameter offsets.
	baseTransform Transform
	baseZSort     float32
	lockToRoot    bool

	// Resolved by the last update.
	globalTransform Transform
	zsort           float32
}

// lowerNode converts src and its subtree. Bindings are taken from table
// before the children are lowered.
func lowerNode(table *ParamTable, src *model.Node) (*Node, error) {
	n := &Node{
		id:              src.UUID,
		name:            src.Name,
		enabled:         src.Enabled,
		baseTransform:   trsFromModel(src.Transform).Matrix(),
		baseZSort:       src.ZSort,
		lockToRoot:      src.LockToRoot,
		globalTransform: IdentityTransform(),
		zsort:           src.ZSort,
	}
	switch src.Type {
	case model.NodeTypeNode:
		n.kind = NodeKindPlain
	case model.NodeTypeDrawable, model.NodeTypePart:
		n.kind = NodeKindDrawable
		n.drawable = &Drawable{Mesh: src.Mesh, Part: src.Part}
	default:
		return nil, fmt.Errorf("node %q (%s) has unimplemented type %s: %w", src.Name, src.UUID, src.Type, ErrUnsupported)
	}

	n.bindings = table.Take(src.UUID)

	if len(src.Children) > 0 {
		n.children = make([]*Node, 0, len(src.Children))
	}
	for _, c := range src.Children {
		if c == nil {
			return nil, fmt.Errorf("node %q (%s) has a nil child: %w", src.Name, src.UUID, ErrInvalid)
		}
		child, err := lowerNode(table, c)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	return n, nil
}

// update resolves n's Z and global transform from its bindings and parent,
// records a command and recurses into the children.
func (n *Node) update(rb *renderBuffer, parent *Transform) {
	zsort := n.baseZSort
	offset := IdentityTRS()
	for _, b := range n.bindings {
		v := b.Value()
		switch b.target {
		case TargetZSort:
			zsort += v
		case TargetTranslationX:
			offset.Translation[0] += v
		case TargetTranslationY:
			offset.Translation[1] += v
		case TargetTranslationZ:
			offset.Translation[2] += v
		case TargetRotationX:
			offset.Rotation[0] += v
		case TargetRotationY:
			offset.Rotation[1] += v
		case TargetRotationZ:
			offset.Rotation[2] += v
		case TargetScaleX:
			offset.Scale[0] += v
		case TargetScaleY:
			offset.Scale[1] += v
		}
	}

	// Offsets apply in the node's own frame, so a bound rotation pivots
	// around the node origin.
	self := n.baseTransform
	if len(n.bindings) > 0 {
		self = self.Mul(offset.Matrix())
	}

	n.zsort = zsort
	if n.lockToRoot {
		n.globalTransform = self
	} else {
		n.globalTransform = self.Mul(*parent)
	}

	rb.push(RenderCommand{
		Node:      n.id,
		ZSort:     zsort,
		Transform: n.globalTransform,
		Enabled:   n.enabled,
	})

	for _, c := range n.children {
		c.update(rb, &n.globalTransform)
	}
}

// Walk calls fn for n and each descendant in pre-order. Returning false from
// fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

func (n *Node) ID() model.UUID { return n.id }
func (n *Node) Name() string   { return n.name }
func (n *Node) Kind() NodeKind { return n.kind }
func (n *Node) Enabled() bool  { return n.enabled }

// Children returns the child list. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Bindings returns the bindings that drive this node.
func (n *Node) Bindings() []*Binding { return n.bindings }

// Drawable returns the drawable payload, or nil for plain nodes.
func (n *Node) Drawable() *Drawable { return n.drawable }

// LockToRoot reports whether the node ignores its parent's transform.
func (n *Node) LockToRoot() bool { return n.lockToRoot }

// BaseTransform returns the declared transform relative to the parent.
func (n *Node) BaseTransform() Transform { return n.baseTransform }

// GlobalTransform returns the transform resolved by the last update.
func (n *Node) GlobalTransform() Transform { return n.globalTransform }

// ZSort returns the Z value resolved by the last update, or the declared Z
// before the first update.
func (n *Node) ZSort() float32 { return n.zsort }
