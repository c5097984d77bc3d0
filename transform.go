package marionette

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/phanxgames/marionette/model"
)

// Transform is a 4x4 affine matrix in column-major order.
type Transform struct {
	mat mgl32.Mat4
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return Transform{mat: mgl32.Ident4()}
}

// TransformFromMat4 wraps m.
func TransformFromMat4(m mgl32.Mat4) Transform {
	return Transform{mat: m}
}

// Mul returns the matrix product t * u.
func (t Transform) Mul(u Transform) Transform {
	return Transform{mat: t.mat.Mul4(u.mat)}
}

// Mat4 returns the underlying matrix.
func (t Transform) Mat4() mgl32.Mat4 {
	return t.mat
}

// ColumnMajor returns the 16 matrix elements in column-major order, ready
// for upload as a shader uniform.
func (t *Transform) ColumnMajor() *[16]float32 {
	return (*[16]float32)(&t.mat)
}

// Translation returns the translation column.
func (t Transform) Translation() [3]float32 {
	return [3]float32{t.mat[12], t.mat[13], t.mat[14]}
}

// Apply transforms the point (x, y, 0).
func (t Transform) Apply(x, y float32) (float32, float32) {
	v := t.mat.Mul4x1(mgl32.Vec4{x, y, 0, 1})
	return v[0], v[1]
}

// ApproxEqual reports whether every element of t and u differs by at most eps.
func (t Transform) ApproxEqual(u Transform, eps float32) bool {
	return t.mat.ApproxEqualThreshold(u.mat, eps)
}

// TRS is a decomposed transform: translation, Euler rotation in radians and
// non-uniform X/Y scale.
type TRS struct {
	Translation [3]float32
	Rotation    [3]float32
	Scale       [2]float32
}

// IdentityTRS returns a TRS with zero translation and rotation and unit
// scale.
func IdentityTRS() TRS {
	return TRS{Scale: [2]float32{1, 1}}
}

func trsFromModel(t model.Transform) TRS {
	return TRS{Translation: t.Translation, Rotation: t.Rotation, Scale: t.Scale}
}

// Matrix composes the transform as Scale * Rotation * Translation, with the
// rotation being Rz * Ry * Rx. Z scale is always 1.
func (t TRS) Matrix() Transform {
	rot := mgl32.HomogRotate3DZ(t.Rotation[2]).
		Mul4(mgl32.HomogRotate3DY(t.Rotation[1])).
		Mul4(mgl32.HomogRotate3DX(t.Rotation[0]))
	m := mgl32.Scale3D(t.Scale[0], t.Scale[1], 1).
		Mul4(rot).
		Mul4(mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]))
	return Transform{mat: m}
}
