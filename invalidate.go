package sapling

// InvalidateWorldMatrix marks the world matrix stale and propagates the mark
// to every descendant before returning. It is a no-op when the matrix is
// already stale, which bounds the cost to the previously clean subtree.
//
// instigatedBy is the transform whose write started the propagation (nil
// means t). While instigatedBy is inside a physics update, children that are
// themselves physics-driven are skipped: the physics step owns their pose
// this frame.
//
// Joint hierarchy members mark the rest of their locked subtree through the
// hierarchy and only walk the non-member children generically; member world
// matrices are refreshed by the hierarchy's world pass.
func (t *Transform) InvalidateWorldMatrix(instigatedBy *Transform) {
	frameStats.Invalidations++
	if t.worldInvalidated {
		return
	}
	if instigatedBy == nil {
		instigatedBy = t
	}
	t.worldInvalidated = true
	t.notify()

	if slot, ok := t.local.(*jointSlot); ok {
		slot.h.invalidateSubtree(slot.index, instigatedBy)
		return
	}
	t.invalidateChildren(instigatedBy, nil)
}

// invalidateChildren invalidates every child of t, skipping members of
// exclude (the hierarchy t belongs to, if any) and physics-driven children
// during a physics-instigated propagation.
func (t *Transform) invalidateChildren(instigatedBy *Transform, exclude *JointHierarchy) {
	for _, child := range t.children {
		if exclude != nil && exclude.owns(child) {
			continue
		}
		if skipPropagation(instigatedBy, child) {
			continue
		}
		child.InvalidateWorldMatrix(instigatedBy)
	}
}

// skipPropagation reports whether child keeps its world matrix during a
// propagation started by instigatedBy.
func skipPropagation(instigatedBy, child *Transform) bool {
	return instigatedBy.physicsUpdating && child.IsPhysicsDriven()
}
