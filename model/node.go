package model

import (
	"encoding/json"
	"fmt"
)

// NodeType identifies the kind of a node.
type NodeType string

const (
	NodeTypeNode          NodeType = "Node"          // hierarchy-only, not drawn
	NodeTypeDrawable      NodeType = "Drawable"      // mesh without texture
	NodeTypePart          NodeType = "Part"          // textured mesh
	NodeTypeMask          NodeType = "Mask"          // mesh used only as a mask source
	NodeTypeComposite     NodeType = "Composite"     // renders children to an offscreen layer
	NodeTypePathDeform    NodeType = "PathDeform"    // deforms drawables along joints
	NodeTypeSimplePhysics NodeType = "SimplePhysics" // drives a parameter from a pendulum
)

// Node is one element of the puppet hierarchy. Fields that only apply to
// some node types are held in the type-specific payload pointers.
type Node struct {
	Type       NodeType
	UUID       UUID
	Name       string
	Enabled    bool
	ZSort      float32
	Transform  Transform
	LockToRoot bool
	Children   []*Node

	Mesh          *MeshData          // Drawable, Part, Mask
	Part          *PartData          // Part
	Composite     *CompositeData     // Composite
	PathDeform    *PathDeformData    // PathDeform
	SimplePhysics *SimplePhysicsData // SimplePhysics
}

// NewNode creates an enabled node with an identity transform.
func NewNode(typ NodeType, id UUID, name string) *Node {
	return &Node{
		Type:      typ,
		UUID:      id,
		Name:      name,
		Enabled:   true,
		Transform: IdentityTransform(),
	}
}

// AddChild appends child to n's children.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// Walk calls fn for n and every descendant in pre-order. Returning false from
// fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// BlendMode describes how a node is composited onto the pixels below it.
type BlendMode string

const (
	BlendNormal         BlendMode = "Normal"
	BlendMultiply       BlendMode = "Multiply"
	BlendColorDodge     BlendMode = "ColorDodge"
	BlendLinearDodge    BlendMode = "LinearDodge"
	BlendScreen         BlendMode = "Screen"
	BlendClipToLower    BlendMode = "ClipToLower"
	BlendSliceFromLower BlendMode = "SliceFromLower"
)

// MaskMode specifies how mask sources affect a part.
type MaskMode string

const (
	MaskModeMask  MaskMode = "Mask"  // keep pixels where the mask is present
	MaskModeDodge MaskMode = "Dodge" // keep pixels where the mask is absent
)

// MeshData is the triangle mesh underlying drawable nodes.
type MeshData struct {
	// Verts and UVs are packed x,y pairs.
	Verts   []float32 `json:"verts"`
	UVs     []float32 `json:"uvs,omitempty"`
	Indices []uint16  `json:"indices"`
	Origin  Vec2      `json:"origin"`
}

// VertexCount returns the number of vertices in the mesh.
func (m *MeshData) VertexCount() int { return len(m.Verts) / 2 }

// Vertex returns the i-th vertex position.
func (m *MeshData) Vertex(i int) Vec2 { return Vec2{m.Verts[2*i], m.Verts[2*i+1]} }

// UV returns the i-th texture coordinate. ok is false when the mesh has no
// texture coordinates.
func (m *MeshData) UV(i int) (uv Vec2, ok bool) {
	if 2*i+1 >= len(m.UVs) {
		return Vec2{}, false
	}
	return Vec2{m.UVs[2*i], m.UVs[2*i+1]}, true
}

// PartData holds the fields specific to Part nodes.
type PartData struct {
	// Textures indexes into Puppet.Textures.
	Textures      []uint32  `json:"textures"`
	Opacity       float32   `json:"opacity"`
	MaskThreshold float32   `json:"mask_threshold"`
	Tint          Vec3      `json:"tint"`
	BlendMode     BlendMode `json:"blend_mode"`
	MaskMode      MaskMode  `json:"mask_mode,omitempty"`
	MaskedBy      []UUID    `json:"masked_by,omitempty"`
}

// CompositeData holds the fields specific to Composite nodes.
type CompositeData struct {
	BlendMode     BlendMode `json:"blend_mode"`
	Tint          Vec3      `json:"tint"`
	MaskThreshold float32   `json:"mask_threshold"`
	Opacity       float32   `json:"opacity"`
}

// JointBinding attaches path joints to the vertices of one drawable.
type JointBinding struct {
	BoundTo UUID `json:"bound_to"`
	// BindData holds, per joint, the indices of affected vertices.
	BindData [][]int `json:"bind_data"`
}

// PathDeformData holds the fields specific to PathDeform nodes.
type PathDeformData struct {
	Joints   []Vec2         `json:"joints"`
	Bindings []JointBinding `json:"bindings"`
}

// SimplePhysicsData holds the fields specific to SimplePhysics nodes.
type SimplePhysicsData struct {
	Param         UUID    `json:"param"`
	ModelType     string  `json:"model_type"`
	MapMode       string  `json:"map_mode"`
	Gravity       float32 `json:"gravity"`
	Length        float32 `json:"length"`
	Frequency     float32 `json:"frequency"`
	AngleDamping  float32 `json:"angle_damping"`
	LengthDamping float32 `json:"length_damping"`
	OutputScale   Vec2    `json:"output_scale"`
}

// --- JSON ---

// nodeBaseJSON is the set of fields shared by every node type.
type nodeBaseJSON struct {
	Type       NodeType  `json:"type"`
	UUID       UUID      `json:"uuid"`
	Name       string    `json:"name"`
	Enabled    bool      `json:"enabled"`
	ZSort      float32   `json:"zsort"`
	Transform  Transform `json:"transform"`
	LockToRoot bool      `json:"lockToRoot"`
	Children   []*Node   `json:"children,omitempty"`
}

// MarshalJSON encodes the node as an object tagged by "type" with the
// type-specific fields flattened next to the base fields.
func (n *Node) MarshalJSON() ([]byte, error) {
	base := nodeBaseJSON{
		Type:       n.Type,
		UUID:       n.UUID,
		Name:       n.Name,
		Enabled:    n.Enabled,
		ZSort:      n.ZSort,
		Transform:  n.Transform,
		LockToRoot: n.LockToRoot,
		Children:   n.Children,
	}
	switch n.Type {
	case NodeTypeDrawable, NodeTypeMask:
		return json.Marshal(struct {
			nodeBaseJSON
			Mesh *MeshData `json:"mesh"`
		}{base, n.Mesh})
	case NodeTypePart:
		part := n.Part
		if part == nil {
			part = &PartData{}
		}
		return json.Marshal(struct {
			nodeBaseJSON
			Mesh *MeshData `json:"mesh"`
			*PartData
		}{base, n.Mesh, part})
	case NodeTypeComposite:
		comp := n.Composite
		if comp == nil {
			comp = &CompositeData{}
		}
		return json.Marshal(struct {
			nodeBaseJSON
			*CompositeData
		}{base, comp})
	case NodeTypePathDeform:
		pd := n.PathDeform
		if pd == nil {
			pd = &PathDeformData{}
		}
		return json.Marshal(struct {
			nodeBaseJSON
			*PathDeformData
		}{base, pd})
	case NodeTypeSimplePhysics:
		sp := n.SimplePhysics
		if sp == nil {
			sp = &SimplePhysicsData{}
		}
		return json.Marshal(struct {
			nodeBaseJSON
			*SimplePhysicsData
		}{base, sp})
	default:
		return json.Marshal(base)
	}
}

// UnmarshalJSON decodes a node object. Unknown node types are kept with only
// their base fields so that the engine can report them.
func (n *Node) UnmarshalJSON(data []byte) error {
	base := nodeBaseJSON{Enabled: true, Transform: IdentityTransform()}
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	if base.Type == "" {
		return fmt.Errorf("node %q: missing type", base.Name)
	}
	*n = Node{
		Type:       base.Type,
		UUID:       base.UUID,
		Name:       base.Name,
		Enabled:    base.Enabled,
		ZSort:      base.ZSort,
		Transform:  base.Transform,
		LockToRoot: base.LockToRoot,
		Children:   base.Children,
	}

	switch n.Type {
	case NodeTypeDrawable, NodeTypeMask:
		var v struct {
			Mesh *MeshData `json:"mesh"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		n.Mesh = v.Mesh
	case NodeTypePart:
		var v struct {
			Mesh *MeshData `json:"mesh"`
			PartData
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		n.Mesh = v.Mesh
		n.Part = &v.PartData
	case NodeTypeComposite:
		n.Composite = new(CompositeData)
		if err := json.Unmarshal(data, n.Composite); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
	case NodeTypePathDeform:
		n.PathDeform = new(PathDeformData)
		if err := json.Unmarshal(data, n.PathDeform); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
	case NodeTypeSimplePhysics:
		n.SimplePhysics = new(SimplePhysicsData)
		if err := json.Unmarshal(data, n.SimplePhysics); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	return nil
}
