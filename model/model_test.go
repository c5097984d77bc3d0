package model

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func samplePuppet() *Puppet {
	root := NewNode(NodeTypeNode, 1, "Root")
	body := NewNode(NodeTypePart, 2, "Body")
	body.ZSort = 0.5
	body.Transform.Translation = Vec3{10, 0, 0}
	body.Mesh = &MeshData{
		Verts:   []float32{0, 0, 1, 0, 0, 1},
		UVs:     []float32{0, 0, 1, 0, 0, 1},
		Indices: []uint16{0, 1, 2},
	}
	body.Part = &PartData{Textures: []uint32{0}, Opacity: 1, Tint: Vec3{1, 1, 1}, BlendMode: BlendNormal}
	root.AddChild(body)

	thumb := uint32(0)
	return &Puppet{
		Meta:    Metadata{Name: "sample", Version: "1.0", ThumbnailID: &thumb},
		Physics: DefaultPhysics(),
		Root:    root,
		Params: []Param{{
			UUID:       100,
			Name:       "Head:: Yaw",
			Min:        Vec2{-1, 0},
			Max:        Vec2{1, 0},
			AxisPoints: [][]float32{{0, 0.5, 1}, {0}},
			Bindings: []Binding{{
				Node:          2,
				ParamName:     "transform.t.x",
				Values:        [][]Value{{Scalar(-5), Scalar(0), Scalar(5)}},
				IsSet:         [][]bool{{true, true, true}},
				Interpolation: InterpolationLinear,
			}},
		}},
		Automations: []Automation{{Type: AutomationSine, Name: "breathe", Speed: 1, SineType: SineCos,
			Bindings: []AutomationBinding{{Param: "Head:: Yaw", Axis: AxisX, Range: Vec2{-1, 1}}}}},
		Textures:   []Texture{{Encoding: TexturePNG, Data: []byte{1, 2, 3}}},
		VendorData: []VendorData{{Name: "com.example", Payload: []byte("hi")}},
	}
}

// --- Container ---

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := samplePuppet().Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("TRNSRTS\x00")) {
		t.Fatalf("missing header magic: %q", buf.Bytes()[:8])
	}

	p, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if p.Meta.Name != "sample" {
		t.Errorf("Meta.Name = %q, want sample", p.Meta.Name)
	}
	if id, ok := p.Meta.Thumbnail(); !ok || id != 0 {
		t.Errorf("Thumbnail = %d, %v, want 0, true", id, ok)
	}
	if len(p.Root.Children) != 1 {
		t.Fatalf("root children = %d, want 1", len(p.Root.Children))
	}
	body := p.Root.Children[0]
	if body.Type != NodeTypePart || body.Part == nil || body.Mesh == nil {
		t.Fatalf("body = %+v, want a Part with mesh", body)
	}
	if body.Transform.Translation[0] != 10 {
		t.Errorf("body X = %v, want 10", body.Transform.Translation[0])
	}
	if body.Mesh.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", body.Mesh.VertexCount())
	}
	if got := p.Params[0].Bindings[0].Values[0][2].Scalar; got != 5 {
		t.Errorf("binding value = %v, want 5", got)
	}
	if len(p.Automations) != 1 || p.Automations[0].SineType != SineCos {
		t.Errorf("automations = %+v", p.Automations)
	}
	if len(p.Textures) != 1 || !bytes.Equal(p.Textures[0].Data, []byte{1, 2, 3}) {
		t.Errorf("textures = %+v", p.Textures)
	}
	if len(p.VendorData) != 1 || p.VendorData[0].Name != "com.example" || string(p.VendorData[0].Payload) != "hi" {
		t.Errorf("vendor data = %+v", p.VendorData)
	}
}

func TestReadWithoutVendorSection(t *testing.T) {
	var buf bytes.Buffer
	p := samplePuppet()
	p.VendorData = nil
	if err := p.Write(&buf); err != nil {
		t.Fatal(err)
	}
	// Drop the trailing empty vendor section: magic plus a zero count.
	data := buf.Bytes()[:buf.Len()-12]

	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.VendorData) != 0 {
		t.Errorf("VendorData = %v, want none", got.VendorData)
	}
}

func TestReadBadMagic(t *testing.T) {
	_, err := Read(strings.NewReader("NOTAPUPPET"))
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := samplePuppet().Write(&buf); err != nil {
		t.Fatal(err)
	}
	// Cut inside the JSON payload.
	_, err := Read(bytes.NewReader(buf.Bytes()[:20]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestReadInvalidTextureEncoding(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("TRNSRTS\x00")
	payload := []byte(`{"meta":{"version":"1"},"nodes":{"type":"Node","uuid":1,"name":"Root"},"param":[]}`)
	binary.Write(&buf, binary.BigEndian, uint32(len(payload)))
	buf.Write(payload)
	buf.WriteString("TEX_SECT")
	binary.Write(&buf, binary.BigEndian, uint32(1))
	binary.Write(&buf, binary.BigEndian, uint32(0))
	buf.WriteByte(9)

	if _, err := Read(&buf); err == nil {
		t.Error("expected error for encoding 9")
	}
}

func TestSaveOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.inp")
	if err := samplePuppet().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Root.Name != "Root" {
		t.Errorf("Root.Name = %q, want Root", p.Root.Name)
	}
}

// --- JSON ---

func TestNodeJSONTagged(t *testing.T) {
	data := []byte(`{
		"type": "Drawable", "uuid": 7, "name": "eye", "enabled": false, "zsort": -0.2,
		"transform": {"trans": [1, 2, 3], "rot": [0, 0, 0], "scale": [2, 2]},
		"lockToRoot": true,
		"mesh": {"verts": [0, 0, 1, 1], "indices": [0, 1, 0], "origin": [0, 0]}
	}`)
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if n.Type != NodeTypeDrawable || n.UUID != 7 || n.Enabled || !n.LockToRoot {
		t.Errorf("node = %+v", n)
	}
	if n.Transform.Scale != (Vec2{2, 2}) {
		t.Errorf("Scale = %v, want [2 2]", n.Transform.Scale)
	}
	if n.Mesh == nil || n.Mesh.VertexCount() != 2 {
		t.Fatalf("Mesh = %+v", n.Mesh)
	}
	if _, ok := n.Mesh.UV(0); ok {
		t.Error("UV ok = true for mesh without uvs")
	}

	out, err := json.Marshal(&n)
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(out, &fields); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"type", "uuid", "mesh", "lockToRoot", "transform"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("marshalled node missing %q: %s", k, out)
		}
	}
}

func TestNodeJSONDefaults(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`{"type":"Node","uuid":1,"name":"n"}`), &n); err != nil {
		t.Fatal(err)
	}
	if !n.Enabled {
		t.Error("Enabled = false, want true when omitted")
	}
	if n.Transform.Scale != (Vec2{1, 1}) {
		t.Errorf("Scale = %v, want identity", n.Transform.Scale)
	}
}

func TestNodeJSONMissingType(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`{"uuid":1,"name":"n"}`), &n); err == nil {
		t.Error("expected error for node without type")
	}
}

func TestNodeJSONSimplePhysics(t *testing.T) {
	data := []byte(`{"type":"SimplePhysics","uuid":3,"name":"hair","param":100,
		"model_type":"Pendulum","map_mode":"AngleLength","gravity":1,"length":100,
		"frequency":1,"angle_damping":0.5,"length_damping":0.5,"output_scale":[1,1]}`)
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		t.Fatal(err)
	}
	if n.SimplePhysics == nil || n.SimplePhysics.Param != 100 || n.SimplePhysics.Length != 100 {
		t.Errorf("SimplePhysics = %+v", n.SimplePhysics)
	}
}

func TestValueJSON(t *testing.T) {
	var vals []Value
	if err := json.Unmarshal([]byte(`[1.5, [[1, 2], [3, 4]], []]`), &vals); err != nil {
		t.Fatal(err)
	}
	if vals[0].IsDeformation() || vals[0].Scalar != 1.5 {
		t.Errorf("vals[0] = %+v, want scalar 1.5", vals[0])
	}
	if !vals[1].IsDeformation() || vals[1].Deform[1] != (Vec2{3, 4}) {
		t.Errorf("vals[1] = %+v", vals[1])
	}
	if !vals[2].IsDeformation() {
		t.Error("empty array should decode as a deformation")
	}

	out, err := json.Marshal(vals)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `[1.5,[[1,2],[3,4]],[]]` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestPuppetJSONDefaults(t *testing.T) {
	var p Puppet
	if err := json.Unmarshal([]byte(`{"meta":{"version":"1"},"nodes":{"type":"Node","uuid":1,"name":"Root"},"param":[]}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Physics != DefaultPhysics() {
		t.Errorf("Physics = %+v, want defaults", p.Physics)
	}
	if p.Automations != nil {
		t.Errorf("Automations = %v, want nil", p.Automations)
	}
	if _, ok := p.Meta.Thumbnail(); ok {
		t.Error("Thumbnail ok = true, want false")
	}
}

func TestPuppetJSONMissingRoot(t *testing.T) {
	var p Puppet
	if err := json.Unmarshal([]byte(`{"meta":{},"param":[]}`), &p); err == nil {
		t.Error("expected error for missing nodes")
	}
}

func TestThumbnailSentinel(t *testing.T) {
	none := ^uint32(0)
	m := Metadata{ThumbnailID: &none}
	if _, ok := m.Thumbnail(); ok {
		t.Error("Thumbnail ok = true for u32 max")
	}
}

// --- Walk ---

func TestWalkPreOrder(t *testing.T) {
	root := NewNode(NodeTypeNode, 1, "a")
	b := NewNode(NodeTypeNode, 2, "b")
	c := NewNode(NodeTypeNode, 3, "c")
	d := NewNode(NodeTypeNode, 4, "d")
	root.AddChild(b)
	root.AddChild(d)
	b.AddChild(c)

	var names []string
	var depths []int
	root.Walk(func(n *Node, depth int) bool {
		names = append(names, n.Name)
		depths = append(depths, depth)
		return true
	})
	if strings.Join(names, "") != "abcd" {
		t.Errorf("order = %v, want a b c d", names)
	}
	if depths[2] != 2 {
		t.Errorf("depth of c = %d, want 2", depths[2])
	}

	names = names[:0]
	root.Walk(func(n *Node, _ int) bool {
		names = append(names, n.Name)
		return n.Name != "b"
	})
	if strings.Join(names, "") != "abd" {
		t.Errorf("pruned order = %v, want a b d", names)
	}
}

// --- Textures ---

func TestTextureDecodePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	got, err := Texture{Encoding: TexturePNG, Data: buf.Bytes()}.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Bounds().Dx() != 2 {
		t.Errorf("width = %d, want 2", got.Bounds().Dx())
	}
	r, _, _, _ := got.At(1, 1).RGBA()
	if r != 0xffff {
		t.Errorf("red = %#x, want 0xffff", r)
	}
}

func TestTextureDecodeBC7(t *testing.T) {
	_, err := Texture{Encoding: TextureBC7, Data: []byte{0}}.Decode()
	if !errors.Is(err, ErrUnsupportedTexture) {
		t.Errorf("err = %v, want ErrUnsupportedTexture", err)
	}
}
