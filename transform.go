package sapling

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// identityMatrix is the identity affine matrix.
var identityMatrix = Mat3x4{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
	0, 0, 0,
}

// IdentityMatrix returns the identity affine matrix.
func IdentityMatrix() Mat3x4 {
	return identityMatrix
}

// Pose is a local transform expressed as translation, rotation and scale.
type Pose struct {
	Origin   Vec3
	Rotation Quat
	Scale    Vec3
}

// IdentityPose returns the pose with zero origin, identity rotation and unit
// scale.
func IdentityPose() Pose {
	return Pose{
		Rotation: mgl64.QuatIdent(),
		Scale:    Vec3{1, 1, 1},
	}
}

// Matrix builds the affine matrix for the pose.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(Origin)
func (p Pose) Matrix() Mat3x4 {
	r := rotationBasis(p.Rotation)
	sx, sy, sz := p.Scale[0], p.Scale[1], p.Scale[2]
	return Mat3x4{
		r[0] * sx, r[1] * sx, r[2] * sx,
		r[3] * sy, r[4] * sy, r[5] * sy,
		r[6] * sz, r[7] * sz, r[8] * sz,
		p.Origin[0], p.Origin[1], p.Origin[2],
	}
}

// Compose multiplies two affine matrices: result = parent * child.
//
//	Matrix layout (column-major, col*3+row):
//	| m0  m3  m6  m9  |
//	| m1  m4  m7  m10 |
//	| m2  m5  m8  m11 |
//	| 0   0   0   1   |
func Compose(p, c Mat3x4) Mat3x4 {
	return Mat3x4{
		p[0]*c[0] + p[3]*c[1] + p[6]*c[2],
		p[1]*c[0] + p[4]*c[1] + p[7]*c[2],
		p[2]*c[0] + p[5]*c[1] + p[8]*c[2],

		p[0]*c[3] + p[3]*c[4] + p[6]*c[5],
		p[1]*c[3] + p[4]*c[4] + p[7]*c[5],
		p[2]*c[3] + p[5]*c[4] + p[8]*c[5],

		p[0]*c[6] + p[3]*c[7] + p[6]*c[8],
		p[1]*c[6] + p[4]*c[7] + p[7]*c[8],
		p[2]*c[6] + p[5]*c[7] + p[8]*c[8],

		p[0]*c[9] + p[3]*c[10] + p[6]*c[11] + p[9],
		p[1]*c[9] + p[4]*c[10] + p[7]*c[11] + p[10],
		p[2]*c[9] + p[5]*c[10] + p[8]*c[11] + p[11],
	}
}

// Invert computes the inverse of an affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func Invert(m Mat3x4) Mat3x4 {
	b := basisOf(m)
	det := b.Det()
	if det > -1e-12 && det < 1e-12 {
		return identityMatrix
	}
	inv := b.Inv()
	t := inv.Mul3x1(Vec3{m[9], m[10], m[11]})
	return Mat3x4{
		inv[0], inv[1], inv[2],
		inv[3], inv[4], inv[5],
		inv[6], inv[7], inv[8],
		-t[0], -t[1], -t[2],
	}
}

// TransformPoint applies an affine matrix to a point.
func TransformPoint(m Mat3x4, v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[3]*v[1] + m[6]*v[2] + m[9],
		m[1]*v[0] + m[4]*v[1] + m[7]*v[2] + m[10],
		m[2]*v[0] + m[5]*v[1] + m[8]*v[2] + m[11],
	}
}

// MatrixOrigin returns the translation column of m.
func MatrixOrigin(m Mat3x4) Vec3 {
	return Vec3{m[9], m[10], m[11]}
}

// DecomposeMatrix splits an affine matrix into origin, rotation and scale.
// Shear is discarded. A negative determinant is folded into the X scale.
func DecomposeMatrix(m Mat3x4) Pose {
	b := basisOf(m)
	sx := b.Col(0).Len()
	sy := b.Col(1).Len()
	sz := b.Col(2).Len()
	if b.Det() < 0 {
		sx = -sx
	}
	return Pose{
		Origin:   MatrixOrigin(m),
		Rotation: quatFromBasis(scaleBasis(b, sx, sy, sz)),
		Scale:    Vec3{sx, sy, sz},
	}
}

// basisOf returns the upper 3x3 part of m.
func basisOf(m Mat3x4) Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[3], m[4], m[5],
		m[6], m[7], m[8],
	}
}

// withBasis returns m with its 3x3 part replaced by b.
func withBasis(m Mat3x4, b Mat3) Mat3x4 {
	copy(m[:9], b[:])
	return m
}

// scaleBasis divides each basis column by the matching scale. Zero scales
// leave the column untouched.
func scaleBasis(b Mat3, sx, sy, sz float64) Mat3 {
	s := [3]float64{sx, sy, sz}
	for col := 0; col < 3; col++ {
		if s[col] == 0 {
			continue
		}
		inv := 1 / s[col]
		b[col*3] *= inv
		b[col*3+1] *= inv
		b[col*3+2] *= inv
	}
	return b
}

// normalizeBasis removes scale from the basis columns of m.
func normalizeBasis(m Mat3x4) Mat3x4 {
	b := basisOf(m)
	return withBasis(m, scaleBasis(b, b.Col(0).Len(), b.Col(1).Len(), b.Col(2).Len()))
}

// rotationBasis converts a quaternion to an orthonormal 3x3 basis.
// Non-unit quaternions are normalized; a zero quaternion yields identity.
func rotationBasis(q Quat) Mat3 {
	l := q.Len()
	if l == 0 {
		return mgl64.Ident3()
	}
	inv := 1 / l
	w, x, y, z := q.W*inv, q.V[0]*inv, q.V[1]*inv, q.V[2]*inv
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return Mat3{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy),
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx),
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy),
	}
}

// quatFromBasis converts an orthonormal basis to a unit quaternion.
func quatFromBasis(b Mat3) Quat {
	m00, m10, m20 := b[0], b[1], b[2]
	m01, m11, m21 := b[3], b[4], b[5]
	m02, m12, m22 := b[6], b[7], b[8]

	var q Quat
	tr := m00 + m11 + m22
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = Quat{W: 0.25 * s, V: Vec3{(m21 - m12) / s, (m02 - m20) / s, (m10 - m01) / s}}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{W: (m21 - m12) / s, V: Vec3{0.25 * s, (m01 + m10) / s, (m02 + m20) / s}}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{W: (m02 - m20) / s, V: Vec3{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s}}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{W: (m10 - m01) / s, V: Vec3{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s}}
	}
	return q
}

// quatToEuler returns roll (X), pitch (Y) and yaw (Z) in radians, for the
// rotation q = yaw * pitch * roll.
func quatToEuler(q Quat) Vec3 {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W

	var e Vec3
	e[0] = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	sinp := 2 * (w*y - z*x)
	if math.Abs(sinp) >= 1 {
		e[1] = math.Copysign(math.Pi/2, sinp)
	} else {
		e[1] = math.Asin(sinp)
	}

	e[2] = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return e
}

// eulerToQuat is the inverse of quatToEuler.
func eulerToQuat(e Vec3) Quat {
	qx := mgl64.QuatRotate(e[0], Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(e[1], Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(e[2], Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx)
}
