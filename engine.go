package marionette

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/phanxgames/marionette/model"
)

// Engine evaluates a puppet: each Update resolves every node's transform and
// Z from the current parameter values and returns the nodes in draw order.
//
// Update must be called from one goroutine at a time. Parameter handles
// obtained from the engine may be written from any goroutine.
type Engine struct {
	root *Node
	rb   *renderBuffer

	nodes  map[model.UUID]*Node
	params []Param
	byName map[string]Param
	byID   map[model.UUID]Param

	bindingCount int
	frame        uint64
	debug        bool
	log          *slog.Logger
}

// New lowers p into an engine. It fails with an error wrapping ErrInvalid or
// ErrUnsupported if the description is malformed or uses features the
// engine does not evaluate; no partially built engine is returned.
//
// New panics if p is nil.
func New(p *model.Puppet, opts ...Option) (*Engine, error) {
	if p == nil {
		panic("marionette: New called with nil puppet")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	if p.Root == nil {
		return nil, fmt.Errorf("puppet has no root node: %w", ErrInvalid)
	}
	table, err := BuildParamTable(p.Params)
	if err != nil {
		return nil, err
	}
	root, err := lowerNode(table, p.Root)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		root:   root,
		rb:     newRenderBuffer(o.commandCap),
		nodes:  make(map[model.UUID]*Node),
		params: table.Params(),
		byName: make(map[string]Param, len(p.Params)),
		byID:   make(map[model.UUID]Param, len(p.Params)),
		debug:  o.debug,
		log:    log,
	}

	root.Walk(func(n *Node, _ int) bool {
		if _, dup := e.nodes[n.id]; dup {
			log.Warn("duplicate node id", "id", n.id, "node", n.name)
		} else {
			e.nodes[n.id] = n
		}
		e.bindingCount += len(n.bindings)
		return true
	})
	for _, prm := range e.params {
		if _, dup := e.byName[prm.Name()]; dup {
			log.Warn("duplicate parameter name", "param", prm.Name())
		} else {
			e.byName[prm.Name()] = prm
		}
		if _, dup := e.byID[prm.ID()]; !dup {
			e.byID[prm.ID()] = prm
		}
	}

	for _, id := range table.Remaining() {
		for _, b := range table.Take(id) {
			log.Warn("binding targets missing node",
				"param", b.param.Name(), "node", id, "target", b.target.String())
		}
	}
	if n := len(p.Automations); n > 0 {
		log.Warn("automations are not evaluated", "count", n)
	}
	if e.debug {
		e.debugCheckTree()
	}

	log.Info("puppet built",
		"name", p.Meta.Name,
		"nodes", len(e.nodes),
		"params", len(e.params),
		"bindings", e.bindingCount)
	return e, nil
}

// Update resolves the tree for the current parameter values and returns the
// render commands sorted back to front. The returned slice is reused by the
// next call to Update.
//
// delta is the time since the previous frame. Nothing time-driven is
// evaluated yet, so it does not affect the result.
func (e *Engine) Update(delta time.Duration) []RenderCommand {
	e.frame++

	var stats debugStats
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	e.rb.reset()
	identity := IdentityTransform()
	e.root.update(e.rb, &identity)

	if e.debug {
		stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	e.rb.finish()

	if e.debug {
		stats.sortTime = time.Since(t0)
		stats.commandCount = len(e.rb.commands)
		stats.bindingCount = e.bindingCount
		e.debugLog(stats)
	}
	return e.rb.commands
}

// Reset restores every parameter to its declared default.
func (e *Engine) Reset() {
	for _, p := range e.params {
		p.Reset()
	}
}

// Root returns the root of the lowered node tree.
func (e *Engine) Root() *Node { return e.root }

// Node returns the node with the given id.
func (e *Engine) Node(id model.UUID) (*Node, bool) {
	n, ok := e.nodes[id]
	return n, ok
}

// Params returns all parameter handles in declaration order.
func (e *Engine) Params() []Param { return e.params }

// Param returns the parameter with the given name.
func (e *Engine) Param(name string) (Param, bool) {
	p, ok := e.byName[name]
	return p, ok
}

// ParamByID returns the parameter with the given id.
func (e *Engine) ParamByID(id model.UUID) (Param, bool) {
	p, ok := e.byID[id]
	return p, ok
}

// Param1D returns the one-axis parameter with the given name. It returns nil
// if there is no such parameter or it has two axes.
func (e *Engine) Param1D(name string) *Param1D {
	p, _ := e.byName[name].(*Param1D)
	return p
}

// Param2D returns the two-axis parameter with the given name. It returns nil
// if there is no such parameter or it has one axis.
func (e *Engine) Param2D(name string) *Param2D {
	p, _ := e.byName[name].(*Param2D)
	return p
}
