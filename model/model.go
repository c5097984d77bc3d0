// Package model describes a rigged puppet as it is stored on disk: a node tree,
// the parameters that drive it, automation descriptions, and the embedded
// textures.
//
// The types here are plain data. They carry no animation state; the
// marionette engine lowers a [Puppet] into its own runtime representation.
//
// A puppet file is a binary container holding a JSON payload followed by a
// texture section and an optional vendor data section. Use [Open] or [Read] to
// load one and [Puppet.Save] or [Puppet.Write] to store it.
package model

import "fmt"

// UUID identifies a node or parameter within a puppet.
type UUID uint64

// String formats the UUID as a decimal number.
func (u UUID) String() string {
	return fmt.Sprintf("%d", uint64(u))
}

// Vec2 is a vector or point in 2D space.
type Vec2 = [2]float32

// Vec3 is a vector or point in 3D space.
type Vec3 = [3]float32

// Puppet is a complete puppet description.
type Puppet struct {
	Meta        Metadata
	Physics     Physics
	Root        *Node
	Params      []Param
	Automations []Automation
	Textures    []Texture
	VendorData  []VendorData
}

// Metadata holds authorship and licensing information.
type Metadata struct {
	Name string `json:"name,omitempty"`
	// Version is the version of the program that produced the file, not the
	// version of the puppet.
	Version        string  `json:"version"`
	Rigger         string  `json:"rigger,omitempty"`
	Artist         string  `json:"artist,omitempty"`
	Rights         string  `json:"rights,omitempty"`
	Copyright      string  `json:"copyright,omitempty"`
	LicenseURL     string  `json:"licenseURL,omitempty"`
	Contact        string  `json:"contact,omitempty"`
	Reference      string  `json:"reference,omitempty"`
	ThumbnailID    *uint32 `json:"thumbnailId,omitempty"`
	PreservePixels bool    `json:"preservePixels"`
}

// noThumbnail is written by some editors instead of omitting the field.
const noThumbnail = ^uint32(0)

// Thumbnail returns the texture index used as a preview image.
func (m Metadata) Thumbnail() (uint32, bool) {
	if m.ThumbnailID == nil || *m.ThumbnailID == noThumbnail {
		return 0, false
	}
	return *m.ThumbnailID, true
}

// Physics holds puppet-wide physics constants.
type Physics struct {
	PixelsPerMeter float32 `json:"pixelsPerMeter"`
	Gravity        float32 `json:"gravity"`
}

// DefaultPhysics returns the constants used when a file omits them.
func DefaultPhysics() Physics {
	return Physics{PixelsPerMeter: 1000, Gravity: 9.8}
}

// Transform is a node's transform relative to its parent.
//
// Scale is applied first, then rotation (Euler angles in radians, X then Y
// then Z), then translation. Y points down, X to the right, Z into the scene.
type Transform struct {
	Translation Vec3 `json:"trans"`
	Rotation    Vec3 `json:"rot"`
	Scale       Vec2 `json:"scale"`
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Scale: Vec2{1, 1}}
}

// --- Parameters ---

// Param is a named control value with one or two axes.
type Param struct {
	UUID   UUID   `json:"uuid"`
	Name   string `json:"name"`
	IsVec2 bool   `json:"is_vec2"`
	// Min, Max and Defaults hold one entry per axis. For 1D parameters the
	// second entry is ignored.
	Min      Vec2 `json:"min"`
	Max      Vec2 `json:"max"`
	Defaults Vec2 `json:"defaults"`
	// AxisPoints holds the normalized breakpoints of each axis. The first
	// point must be 0, the last 1, and points must be ascending. 1D
	// parameters still carry a second list, normally [0].
	AxisPoints [][]float32 `json:"axis_points"`
	Bindings   []Binding   `json:"bindings"`
}

// Interpolation selects how binding values are blended between breakpoints.
type Interpolation string

const (
	InterpolationNearest Interpolation = "Nearest" // pick the closest breakpoint value
	InterpolationLinear  Interpolation = "Linear"  // blend neighbouring breakpoint values
)

// Binding describes how a parameter affects one property of one node.
//
// Valid property names are zSort, transform.t.{x,y,z}, transform.r.{x,y,z},
// transform.s.{x,y} and deform.
type Binding struct {
	Node      UUID   `json:"node"`
	ParamName string `json:"param_name"`
	// Values is indexed [y][x] by breakpoint index.
	Values        [][]Value     `json:"values"`
	IsSet         [][]bool      `json:"isSet"`
	Interpolation Interpolation `json:"interpolate_mode"`
}

// Value is one cell of a binding grid: either a scalar or a per-vertex
// deformation.
type Value struct {
	Scalar float32
	// Deform is non-nil for deformation values.
	Deform []Vec2
}

// Scalar returns a scalar grid value.
func Scalar(f float32) Value { return Value{Scalar: f} }

// IsDeformation reports whether v holds per-vertex offsets.
func (v Value) IsDeformation() bool { return v.Deform != nil }

// --- Automation ---

// AutomationType distinguishes automation variants.
type AutomationType string

const (
	AutomationSine    AutomationType = "sine"
	AutomationPhysics AutomationType = "physics"
)

// SineType selects the periodic function of a sine automation.
type SineType uint8

const (
	SineSin SineType = iota
	SineCos
	SineTan
)

// AutomationAxis selects which axis of a parameter an automation drives.
type AutomationAxis uint8

const (
	AxisX AutomationAxis = iota
	AxisY
)

// Automation describes time-driven parameter animation. The engine does not
// evaluate automations; they are kept so files round-trip.
type Automation struct {
	Type     AutomationType      `json:"type"`
	Name     string              `json:"name"`
	Bindings []AutomationBinding `json:"bindings"`

	// Sine fields.
	Speed    float32  `json:"speed,omitempty"`
	SineType SineType `json:"sine_type,omitempty"`

	// Physics fields.
	Nodes      []VerletNode `json:"nodes,omitempty"`
	Damping    float32      `json:"damping,omitempty"`
	Bounciness float32      `json:"bounciness,omitempty"`
	Gravity    float32      `json:"gravity,omitempty"`
}

// AutomationBinding maps an automation's output onto a parameter axis.
type AutomationBinding struct {
	Param string         `json:"param"`
	Axis  AutomationAxis `json:"axis"`
	Range Vec2           `json:"range"`
}

// VerletNode is one point of a physics automation chain.
type VerletNode struct {
	Distance    float32 `json:"distance"`
	Position    Vec2    `json:"position"`
	OldPosition Vec2    `json:"old_position"`
}

// --- Binary payloads ---

// TextureEncoding identifies how a texture payload is encoded.
type TextureEncoding uint8

const (
	TexturePNG TextureEncoding = iota // lossless PNG
	TextureTGA                        // lossless Truevision TGA
	TextureBC7                        // BC7 block compression, not decodable
)

func (e TextureEncoding) String() string {
	switch e {
	case TexturePNG:
		return "PNG"
	case TextureTGA:
		return "TGA"
	case TextureBC7:
		return "BC7"
	default:
		return fmt.Sprintf("TextureEncoding(%d)", uint8(e))
	}
}

// Texture is an encoded texture image.
type Texture struct {
	Encoding TextureEncoding
	Data     []byte
}

// VendorData is application specific extension data.
type VendorData struct {
	Name    string
	Payload []byte
}
