package sapling

// Matrix returns the world matrix, recomputing it first if it is stale.
func (t *Transform) Matrix() Mat3x4 {
	if slot, ok := t.local.(*jointSlot); ok {
		if t.worldInvalidated {
			slot.h.refresh()
		}
		return slot.h.worldAt(slot.index)
	}
	if t.worldInvalidated {
		t.updateWorldMatrix()
	}
	return t.world
}

// MatrixNoScale returns the world matrix with scale removed from its basis.
func (t *Transform) MatrixNoScale() Mat3x4 {
	return normalizeBasis(t.Matrix())
}

// WorldInvalidated reports whether the cached world matrix is stale.
func (t *Transform) WorldInvalidated() bool {
	return t.worldInvalidated
}

// updateWorldMatrix recomputes the world matrix of a plain transform from its
// parent's (resolved) world matrix and its local matrix. Joint members never
// come through here; their world matrix lives in the hierarchy.
func (t *Transform) updateWorldMatrix() {
	local := t.local.matrix()
	if t.Parent != nil {
		t.world = Compose(t.Parent.Matrix(), local)
	} else {
		t.world = local
	}
	t.worldInvalidated = false
	frameStats.Recomputes++
}

// parentMatrix returns the resolved world matrix of the parent, or identity.
func (t *Transform) parentMatrix() Mat3x4 {
	if t.Parent == nil {
		return identityMatrix
	}
	return t.Parent.Matrix()
}

// --- World accessors ---

// Origin returns the world-space origin.
func (t *Transform) Origin() Vec3 {
	return MatrixOrigin(t.Matrix())
}

// Scale returns the world-space scale (the lengths of the world basis axes).
func (t *Transform) Scale() Vec3 {
	return DecomposeMatrix(t.Matrix()).Scale
}

// Rotation returns the world-space rotation.
func (t *Transform) Rotation() Quat {
	return DecomposeMatrix(t.Matrix()).Rotation
}

// Axis returns the world-space orientation as an orthonormal basis.
func (t *Transform) Axis() Mat3 {
	return basisOf(t.MatrixNoScale())
}

// Angles returns the world-space rotation as roll (X), pitch (Y) and yaw (Z)
// in radians.
func (t *Transform) Angles() Vec3 {
	return quatToEuler(t.Rotation())
}

// --- World setters ---
//
// World setters convert to local space through the parent's inverse world
// matrix and write the live authority.

// SetMatrix sets the world matrix. Shear is discarded.
func (t *Transform) SetMatrix(m Mat3x4) {
	t.setWorldMatrix(m, t)
}

// SetOrigin sets the world-space origin, keeping the local rotation and scale.
func (t *Transform) SetOrigin(origin Vec3) {
	p := t.local.pose()
	p.Origin = TransformPoint(Invert(t.parentMatrix()), origin)
	t.setLocalPose(p, t)
}

// SetScale sets the world-space scale, keeping the world origin and rotation.
func (t *Transform) SetScale(scale Vec3) {
	w := DecomposeMatrix(t.Matrix())
	w.Scale = scale
	t.setWorldMatrix(w.Matrix(), t)
}

// SetRotation sets the world-space rotation, keeping the world origin and
// scale.
func (t *Transform) SetRotation(rotation Quat) {
	w := DecomposeMatrix(t.Matrix())
	w.Rotation = rotation
	t.setWorldMatrix(w.Matrix(), t)
}

// SetAxis sets the world-space orientation from an orthonormal basis.
func (t *Transform) SetAxis(axis Mat3) {
	t.SetRotation(quatFromBasis(axis))
}

// SetAngles sets the world-space rotation from roll (X), pitch (Y) and yaw
// (Z) in radians.
func (t *Transform) SetAngles(angles Vec3) {
	t.SetRotation(eulerToQuat(angles))
}

// SetOriginRotation sets world-space origin and rotation at once, keeping the
// world scale.
func (t *Transform) SetOriginRotation(origin Vec3, rotation Quat) {
	w := DecomposeMatrix(t.Matrix())
	w.Origin = origin
	w.Rotation = rotation
	t.setWorldMatrix(w.Matrix(), t)
}

// SetOriginAxis sets world-space origin and orientation basis at once,
// keeping the world scale. This is the entry point for physics
// collaborators; see ApplyPhysicsPose.
func (t *Transform) SetOriginAxis(origin Vec3, axis Mat3) {
	t.SetOriginRotation(origin, quatFromBasis(axis))
}

func (t *Transform) setWorldMatrix(m Mat3x4, instigatedBy *Transform) {
	local := m
	if t.Parent != nil {
		local = Compose(Invert(t.Parent.Matrix()), m)
	}
	t.setLocalPose(DecomposeMatrix(local), instigatedBy)
}
