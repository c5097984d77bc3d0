package marionette

import (
	"math"
	"sync/atomic"
)

// AtomicFloat32 is a float32 that may be read and written concurrently.
// The zero value holds 0.
type AtomicFloat32 struct {
	bits atomic.Uint32
}

// NewAtomicFloat32 returns an AtomicFloat32 holding v.
func NewAtomicFloat32(v float32) *AtomicFloat32 {
	a := new(AtomicFloat32)
	a.Store(v)
	return a
}

// Load returns the current value.
func (a *AtomicFloat32) Load() float32 {
	return math.Float32frombits(a.bits.Load())
}

// Store sets the value.
func (a *AtomicFloat32) Store(v float32) {
	a.bits.Store(math.Float32bits(v))
}

// Swap stores v and returns the previous value.
func (a *AtomicFloat32) Swap(v float32) float32 {
	return math.Float32frombits(a.bits.Swap(math.Float32bits(v)))
}

// AtomicFloat32x2 is a pair of float32 values read and written as a unit.
//
// Both components live in one 64-bit word (x in the low 32 bits, y in the
// high 32 bits), so a Load never observes x from one Store and y from
// another. Splitting the pair into two words would break this.
type AtomicFloat32x2 struct {
	bits atomic.Uint64
}

// NewAtomicFloat32x2 returns an AtomicFloat32x2 holding (x, y).
func NewAtomicFloat32x2(x, y float32) *AtomicFloat32x2 {
	a := new(AtomicFloat32x2)
	a.Store(x, y)
	return a
}

// Load returns the current pair.
func (a *AtomicFloat32x2) Load() (x, y float32) {
	return unpack2(a.bits.Load())
}

// Store sets both components at once.
func (a *AtomicFloat32x2) Store(x, y float32) {
	a.bits.Store(pack2(x, y))
}

// Swap stores (x, y) and returns the previous pair.
func (a *AtomicFloat32x2) Swap(x, y float32) (oldX, oldY float32) {
	return unpack2(a.bits.Swap(pack2(x, y)))
}

func pack2(x, y float32) uint64 {
	return uint64(math.Float32bits(x)) | uint64(math.Float32bits(y))<<32
}

func unpack2(bits uint64) (x, y float32) {
	return math.Float32frombits(uint32(bits)), math.Float32frombits(uint32(bits >> 32))
}
