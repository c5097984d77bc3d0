package marionette

import (
	"maps"
	"slices"

	"github.com/phanxgames/marionette/model"
)

// singleRow is the implicit Y axis of one-axis parameters.
var singleRow = Axis{Points: []float32{0}}

// ParamTable holds the lowered parameters and their bindings indexed by the
// node they target. Bindings are moved out of the table with Take, so each
// binding ends up owned by exactly one node.
type ParamTable struct {
	params []Param
	byNode map[model.UUID][]*Binding
}

// BuildParamTable lowers the declared parameters. It fails with ErrInvalid for
// malformed axes or grids and ErrUnsupported for bindings the engine cannot
// evaluate.
func BuildParamTable(params []model.Param) (*ParamTable, error) {
	t := &ParamTable{
		params: make([]Param, 0, len(params)),
		byNode: make(map[model.UUID][]*Binding),
	}
	for i := range params {
		src := &params[i]

		var (
			handle       Param
			xAxis, yAxis Axis
		)
		if src.IsVec2 {
			h, err := newParam2D(src)
			if err != nil {
				return nil, err
			}
			handle = h
			xAxis, yAxis = h.Axes()
		} else {
			h, err := newParam1D(src)
			if err != nil {
				return nil, err
			}
			handle = h
			xAxis, yAxis = h.Axis(), singleRow
		}
		t.params = append(t.params, handle)

		for j := range src.Bindings {
			b, err := newBinding(handle, xAxis, yAxis, &src.Bindings[j])
			if err != nil {
				return nil, err
			}
			t.byNode[b.node] = append(t.byNode[b.node], b)
		}
	}
	return t, nil
}

// Take removes and returns every binding targeting node. A second call for
// the same node returns nil.
func (t *ParamTable) Take(node model.UUID) []*Binding {
	bs := t.byNode[node]
	delete(t.byNode, node)
	return bs
}

// Remaining returns the node ids that still have bindings in the table, in
// ascending order. After a tree has been lowered these are bindings whose
// node does not exist.
func (t *ParamTable) Remaining() []model.UUID {
	return slices.Sorted(maps.Keys(t.byNode))
}

// Params returns the lowered parameter handles in declaration order.
func (t *ParamTable) Params() []Param {
	return t.params
}
