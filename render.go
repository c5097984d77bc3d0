package marionette

import "github.com/phanxgames/marionette/model"

// RenderCommand tells the renderer to draw one node.
type RenderCommand struct {
	Node  model.UUID
	ZSort float32
	// Transform is the node's resolved global transform.
	Transform Transform
	// Deform holds per-vertex offsets, one per mesh vertex. Mesh deformation
	// is not evaluated yet, so it is always nil.
	Deform [][2]float32
	// Enabled is false for nodes the puppet marks as hidden. Such nodes are
	// still resolved so their descendants inherit the right transform.
	Enabled bool

	treeOrder int // assigned during traversal for stable sort
}

// renderBuffer collects commands during an update and orders them for
// drawing.
type renderBuffer struct {
	commands []RenderCommand
	sortBuf  []RenderCommand
}

func newRenderBuffer(capacity int) *renderBuffer {
	return &renderBuffer{
		commands: make([]RenderCommand, 0, capacity),
		sortBuf:  make([]RenderCommand, 0, capacity),
	}
}

// reset empties the buffer, keeping its storage.
func (rb *renderBuffer) reset() {
	rb.commands = rb.commands[:0]
}

func (rb *renderBuffer) push(cmd RenderCommand) {
	cmd.treeOrder = len(rb.commands)
	rb.commands = append(rb.commands, cmd)
}

// finish sorts the commands back to front: Z descending, so the node with the
// smallest Z is drawn last. Equal Z values keep traversal order.
func (rb *renderBuffer) finish() {
	rb.mergeSort()
}

// commandLessOrEqual orders by negated Z under totalOrder, then tree order.
// Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b *RenderCommand) bool {
	ka, kb := totalKey(-a.ZSort), totalKey(-b.ZSort)
	if ka != kb {
		return ka < kb
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts rb.commands in-place using rb.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (rb *renderBuffer) mergeSort() {
	n := len(rb.commands)
	if n <= 1 {
		return
	}
	if cap(rb.sortBuf) < n {
		rb.sortBuf = make([]RenderCommand, n)
	}
	rb.sortBuf = rb.sortBuf[:n]

	a := rb.commands
	b := rb.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(rb.commands, rb.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}
