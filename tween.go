package marionette

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ParamTween eases a parameter from its current value to a target. Create
// one with TweenParam1D or TweenParam2D and call Update(dt) each frame; each
// call stores the eased value into the parameter handle.
//
// Tweens are ordinary parameter writers: Update may run on any goroutine,
// independently of Engine.Update.
type ParamTween struct {
	tweens [2]*gween.Tween
	count  int
	store  func(v [2]float32)
	Done   bool
}

// Update advances the tween by dt seconds and writes the value. Once the
// target is reached Done is set and further calls do nothing.
func (t *ParamTween) Update(dt float32) {
	if t.Done {
		return
	}

	var v [2]float32
	allDone := true
	for i := 0; i < t.count; i++ {
		val, finished := t.tweens[i].Update(dt)
		v[i] = val
		if !finished {
			allDone = false
		}
	}
	t.store(v)
	t.Done = allDone
}

// TweenParam1D creates a ParamTween that moves p to the given value over
// duration seconds using the easing function. A nil fn means linear.
func TweenParam1D(p *Param1D, to, duration float32, fn ease.TweenFunc) *ParamTween {
	if fn == nil {
		fn = ease.Linear
	}
	t := &ParamTween{count: 1}
	t.tweens[0] = gween.New(p.Value(), to, duration, fn)
	t.store = func(v [2]float32) { p.Set(v[0]) }
	return t
}

// TweenParam2D creates a ParamTween that moves both components of p to
// (toX, toY) over duration seconds. The pair is always written as a unit.
func TweenParam2D(p *Param2D, toX, toY, duration float32, fn ease.TweenFunc) *ParamTween {
	if fn == nil {
		fn = ease.Linear
	}
	x, y := p.Value()
	t := &ParamTween{count: 2}
	t.tweens[0] = gween.New(x, toX, duration, fn)
	t.tweens[1] = gween.New(y, toY, duration, fn)
	t.store = func(v [2]float32) { p.Set(v[0], v[1]) }
	return t
}
