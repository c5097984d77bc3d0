package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MarshalJSON encodes a scalar as a bare number and a deformation as an array
// of [x, y] pairs.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Deform != nil {
		return json.Marshal(v.Deform)
	}
	return json.Marshal(v.Scalar)
}

// UnmarshalJSON accepts either form written by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var d []Vec2
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("deformation value: %w", err)
		}
		if d == nil {
			d = []Vec2{}
		}
		*v = Value{Deform: d}
		return nil
	}
	var f float32
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("scalar value: %w", err)
	}
	*v = Value{Scalar: f}
	return nil
}

// puppetJSON is the layout of the JSON payload of a puppet file.
type puppetJSON struct {
	Meta       Metadata      `json:"meta"`
	Physics    Physics       `json:"physics"`
	Nodes      *Node         `json:"nodes"`
	Param      []Param       `json:"param"`
	Automation *[]Automation `json:"automation,omitempty"`
}

// MarshalJSON encodes the JSON payload of the puppet. Textures and vendor
// data live in the binary container and are not included.
func (p *Puppet) MarshalJSON() ([]byte, error) {
	params := p.Params
	if params == nil {
		params = []Param{}
	}
	doc := puppetJSON{
		Meta:    p.Meta,
		Physics: p.Physics,
		Nodes:   p.Root,
		Param:   params,
	}
	if p.Automations != nil {
		doc.Automation = &p.Automations
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes the JSON payload of a puppet. Textures and vendor
// data are left untouched.
func (p *Puppet) UnmarshalJSON(data []byte) error {
	doc := puppetJSON{Physics: DefaultPhysics()}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Nodes == nil {
		return errors.New("missing root node")
	}
	p.Meta = doc.Meta
	p.Physics = doc.Physics
	p.Root = doc.Nodes
	p.Params = doc.Param
	p.Automations = nil
	if doc.Automation != nil {
		p.Automations = *doc.Automation
	}
	return nil
}
