package marionette

import (
	"fmt"
	"sort"

	"github.com/phanxgames/marionette/model"
)

// Axis is one axis of a parameter: the range of accepted values and the
// normalized breakpoints at which binding grids hold exact values.
type Axis struct {
	Min, Max float32
	// Points are ascending, start at exactly 0 and end at exactly 1.
	Points []float32
}

// newAxis validates axis i of p.
func newAxis(p *model.Param, i int) (Axis, error) {
	if i >= len(p.AxisPoints) || len(p.AxisPoints[i]) == 0 {
		return Axis{}, fmt.Errorf("parameter %q: axis %d has no breakpoints: %w", p.Name, i, ErrInvalid)
	}
	pts := p.AxisPoints[i]
	if pts[0] != 0 || pts[len(pts)-1] != 1 {
		return Axis{}, fmt.Errorf("parameter %q: axis %d breakpoints %v must start at 0 and end at 1: %w",
			p.Name, i, pts, ErrInvalid)
	}
	if !isSortedTotal(pts) {
		return Axis{}, fmt.Errorf("parameter %q: axis %d breakpoints %v are not sorted: %w", p.Name, i, pts, ErrInvalid)
	}
	if p.Min[i] > p.Max[i] {
		return Axis{}, fmt.Errorf("parameter %q: axis %d minimum %v exceeds maximum %v: %w",
			p.Name, i, p.Min[i], p.Max[i], ErrInvalid)
	}
	return Axis{Min: p.Min[i], Max: p.Max[i], Points: append([]float32(nil), pts...)}, nil
}

// Interp locates v on the axis. v is clamped to [Min, Max] and normalized to
// [0, 1]; NaN is treated as Max. The result names the breakpoint at or below
// the normalized value and the fractional distance to the next one.
func (a Axis) Interp(v float32) Interp {
	if !(v <= a.Max) {
		v = a.Max
	}
	if v < a.Min {
		v = a.Min
	}
	var n float32
	if a.Max > a.Min {
		n = (v - a.Min) / (a.Max - a.Min)
	}

	pts := a.Points
	upper := sort.Search(len(pts), func(i int) bool { return pts[i] > n })
	if upper == len(pts) {
		upper = len(pts) - 1
	}
	lower := max(upper-1, 0)

	width := pts[upper] - pts[lower]
	var dist float32
	switch {
	case width > 0:
		dist = (n - pts[lower]) / width
	case upper > lower && n >= pts[upper]:
		// Repeated final breakpoint.
		dist = 1
	}
	return Interp{Index: lower, Dist: dist}
}

// Interp is a position between two adjacent breakpoints.
type Interp struct {
	Index int
	// Dist is in [0, 1]: 0 is exactly at Index, 1 exactly at Index+1.
	Dist float32
}

// lookup blends row[Index] towards row[Index+1]. The next cell is only read
// when Dist is positive.
func (i Interp) lookup(row []float32) float32 {
	start := row[i.Index]
	if i.Dist > 0 {
		end := row[i.Index+1]
		return start*(1-i.Dist) + end*i.Dist
	}
	return start
}

// Param is a shared handle to a parameter's current value. Handles are safe
// for concurrent use: any goroutine may write a value while the engine reads
// it during Update.
//
// The concrete types are [*Param1D] and [*Param2D].
type Param interface {
	ID() model.UUID
	Name() string
	Is2D() bool
	// Reset restores the declared default value.
	Reset()

	interp() (x, y Interp)
}

// Param1D is a handle to a one-axis parameter.
type Param1D struct {
	id    model.UUID
	name  string
	axis  Axis
	def   float32
	value AtomicFloat32
}

func newParam1D(p *model.Param) (*Param1D, error) {
	axis, err := newAxis(p, 0)
	if err != nil {
		return nil, err
	}
	h := &Param1D{id: p.UUID, name: p.Name, axis: axis, def: p.Defaults[0]}
	h.value.Store(h.def)
	return h, nil
}

func (p *Param1D) ID() model.UUID { return p.id }
func (p *Param1D) Name() string   { return p.name }
func (p *Param1D) Is2D() bool     { return false }
func (p *Param1D) Axis() Axis     { return p.axis }
func (p *Param1D) Default() float32 {
	return p.def
}

// Set stores v. Values outside the axis range are kept as given and clamped
// when bindings are evaluated.
func (p *Param1D) Set(v float32) { p.value.Store(v) }

// Value returns the last stored value.
func (p *Param1D) Value() float32 { return p.value.Load() }

// Swap stores v and returns the previous value.
func (p *Param1D) Swap(v float32) float32 { return p.value.Swap(v) }

func (p *Param1D) Reset() { p.value.Store(p.def) }

func (p *Param1D) interp() (x, y Interp) {
	return p.axis.Interp(p.value.Load()), Interp{}
}

// Param2D is a handle to a two-axis parameter. Both components are read and
// written together.
type Param2D struct {
	id    model.UUID
	name  string
	axes  [2]Axis
	def   [2]float32
	value AtomicFloat32x2
}

func newParam2D(p *model.Param) (*Param2D, error) {
	h := &Param2D{id: p.UUID, name: p.Name, def: p.Defaults}
	for i := range h.axes {
		axis, err := newAxis(p, i)
		if err != nil {
			return nil, err
		}
		h.axes[i] = axis
	}
	h.value.Store(h.def[0], h.def[1])
	return h, nil
}

func (p *Param2D) ID() model.UUID { return p.id }
func (p *Param2D) Name() string   { return p.name }
func (p *Param2D) Is2D() bool     { return true }

// Axes returns the X and Y axes.
func (p *Param2D) Axes() (x, y Axis) { return p.axes[0], p.axes[1] }

func (p *Param2D) Default() (x, y float32) {
	return p.def[0], p.def[1]
}

// Set stores both components.
func (p *Param2D) Set(x, y float32) { p.value.Store(x, y) }

// Value returns the last stored pair.
func (p *Param2D) Value() (x, y float32) { return p.value.Load() }

// Swap stores (x, y) and returns the previous pair.
func (p *Param2D) Swap(x, y float32) (oldX, oldY float32) { return p.value.Swap(x, y) }

func (p *Param2D) Reset() { p.value.Store(p.def[0], p.def[1]) }

func (p *Param2D) interp() (x, y Interp) {
	vx, vy := p.value.Load()
	return p.axes[0].Interp(vx), p.axes[1].Interp(vy)
}

// --- Targets ---

// Target is the node property a binding drives.
type Target uint8

const (
	TargetZSort Target = iota
	TargetTranslationX
	TargetTranslationY
	TargetTranslationZ
	TargetRotationX
	TargetRotationY
	TargetRotationZ
	TargetScaleX
	TargetScaleY
)

var targetNames = [...]string{
	TargetZSort:        "zSort",
	TargetTranslationX: "transform.t.x",
	TargetTranslationY: "transform.t.y",
	TargetTranslationZ: "transform.t.z",
	TargetRotationX:    "transform.r.x",
	TargetRotationY:    "transform.r.y",
	TargetRotationZ:    "transform.r.z",
	TargetScaleX:       "transform.s.x",
	TargetScaleY:       "transform.s.y",
}

// String returns the property name used in puppet files.
func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// ParseTarget maps a property name to a Target. Unknown names, including
// "deform", wrap ErrUnsupported.
func ParseTarget(s string) (Target, error) {
	for i, name := range targetNames {
		if name == s {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("parameter target %q: %w", s, ErrUnsupported)
}

// --- Bindings ---

// Binding is the effect of one parameter on one property of one node.
type Binding struct {
	param  Param
	node   model.UUID
	target Target
	// values is indexed [y][x] by breakpoint.
	values [][]float32
}

// Value evaluates the binding at the parameter's current value by bilinear
// interpolation over the grid.
func (b *Binding) Value() float32 {
	x, y := b.param.interp()
	start := x.lookup(b.values[y.Index])
	if y.Dist > 0 {
		end := x.lookup(b.values[min(y.Index+1, len(b.values)-1)])
		return start*(1-y.Dist) + end*y.Dist
	}
	return start
}

func (b *Binding) Param() Param     { return b.param }
func (b *Binding) Node() model.UUID { return b.node }
func (b *Binding) Target() Target   { return b.target }

// newBinding lowers a binding of param. Checks run in a fixed order so that a
// binding with several problems always reports the same one.
func newBinding(param Param, xAxis, yAxis Axis, src *model.Binding) (*Binding, error) {
	if src.Interpolation != model.InterpolationLinear {
		return nil, fmt.Errorf("parameter %q: binding interpolation mode %q: %w",
			param.Name(), src.Interpolation, ErrUnsupported)
	}
	target, err := ParseTarget(src.ParamName)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", param.Name(), err)
	}

	values := make([][]float32, len(src.Values))
	for y, row := range src.Values {
		values[y] = make([]float32, len(row))
		for x, v := range row {
			if v.IsDeformation() {
				return nil, fmt.Errorf("parameter %q: mesh deformation on node %s: %w",
					param.Name(), src.Node, ErrUnsupported)
			}
			values[y][x] = v.Scalar
		}
	}

	if len(values) != len(yAxis.Points) {
		return nil, fmt.Errorf("parameter %q: binding %s on node %s has %d rows, want %d: %w",
			param.Name(), target, src.Node, len(values), len(yAxis.Points), ErrInvalid)
	}
	for y, row := range values {
		if len(row) != len(xAxis.Points) {
			return nil, fmt.Errorf("parameter %q: binding %s on node %s row %d has %d values, want %d: %w",
				param.Name(), target, src.Node, y, len(row), len(xAxis.Points), ErrInvalid)
		}
	}

	return &Binding{param: param, node: src.Node, target: target, values: values}, nil
}
