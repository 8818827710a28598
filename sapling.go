package sapling

import "github.com/go-gl/mathgl/mgl64"

// Vec3 is a 3D vector used for origins, scales and Euler angles.
type Vec3 = mgl64.Vec3

// Quat is a rotation quaternion.
type Quat = mgl64.Quat

// Mat3 is an orientation basis, column-major. Each column is one axis.
type Mat3 = mgl64.Mat3

// Mat3x4 is an affine matrix, column-major with three rows and four columns.
// Columns 0-2 hold the scaled basis axes and column 3 the translation.
type Mat3x4 = mgl64.Mat3x4

// NodeKind distinguishes transform behavior for a Transform.
type NodeKind uint8

const (
	KindSpatial NodeKind = iota // ordinary 3D transform, joint-compatible
	KindRect                    // UI rect transform, never joins a joint hierarchy
)

// String returns a short lowercase label for the kind.
func (k NodeKind) String() string {
	switch k {
	case KindSpatial:
		return "spatial"
	case KindRect:
		return "rect"
	default:
		return "unknown"
	}
}

// PhysicsKind identifies the physics collaborator attached to a Transform.
// Physics-driven transforms own their world pose during the physics step.
type PhysicsKind uint8

const (
	PhysicsNone         PhysicsKind = iota // not driven by physics
	PhysicsRigidBody                       // driven by a rigid body
	PhysicsVehicleWheel                    // driven by a vehicle wheel
)

// String returns a short lowercase label for the physics kind.
func (k PhysicsKind) String() string {
	switch k {
	case PhysicsNone:
		return "none"
	case PhysicsRigidBody:
		return "rigidbody"
	case PhysicsVehicleWheel:
		return "wheel"
	default:
		return "unknown"
	}
}

// ListenerID identifies a change listener registered with AddListener.
type ListenerID uint32
