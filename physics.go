package sapling

// SetPhysicsKind attaches (or, with PhysicsNone, detaches) a physics
// collaborator marker. Physics-driven transforms are skipped by propagation
// that another physics write started.
func (t *Transform) SetPhysicsKind(kind PhysicsKind) {
	t.physics = kind
}

// PhysicsKind returns the attached physics collaborator kind.
func (t *Transform) PhysicsKind() PhysicsKind {
	return t.physics
}

// IsPhysicsDriven reports whether a rigid body or vehicle wheel drives this
// transform.
func (t *Transform) IsPhysicsDriven() bool {
	return t.physics != PhysicsNone
}

// BeginPhysicsUpdate marks the start of a physics write on this transform.
// Every Begin must be paired with EndPhysicsUpdate before the frame's render
// phase.
func (t *Transform) BeginPhysicsUpdate() {
	t.physicsUpdating = true
}

// EndPhysicsUpdate marks the end of a physics write.
func (t *Transform) EndPhysicsUpdate() {
	t.physicsUpdating = false
}

// PhysicsUpdating reports whether a physics write is in progress.
func (t *Transform) PhysicsUpdating() bool {
	return t.physicsUpdating
}

// ApplyPhysicsPose writes a simulation result: the world origin and
// orientation basis, bracketed by Begin/EndPhysicsUpdate. Ordinary children
// are invalidated; physics-driven children keep their pose, since the
// physics step updates them independently in the same frame.
func (t *Transform) ApplyPhysicsPose(origin Vec3, axis Mat3) {
	t.BeginPhysicsUpdate()
	t.SetOriginAxis(origin, axis)
	t.EndPhysicsUpdate()
}
