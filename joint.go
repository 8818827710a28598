package sapling

import "fmt"

// cachedPose remembers the exact pose last written to a slot. It is valid
// only while the slot still holds m; a direct write to LocalMatrices makes
// the slot fall back to decomposition.
type cachedPose struct {
	pose Pose
	m    Mat3x4
	ok   bool
}

// JointHierarchy is a shared buffer of local and world matrices for a locked
// subtree of transforms. Indices follow a depth-first order: the root is at
// index 0 and every joint's parent index is lower than its own.
//
// A hierarchy is created by Transform.ConstructJointHierarchy and shared by
// every participating transform. Batch updates go through
// UpdateJointHierarchy instead of per-node propagation.
type JointHierarchy struct {
	local []Mat3x4
	world []Mat3x4
	poses []cachedPose

	parents    []int
	subtreeEnd []int
	joints     []*Transform

	refCount int
}

// NumJoints returns the number of slots in the hierarchy.
func (h *JointHierarchy) NumJoints() int {
	return len(h.joints)
}

// RefCount returns the number of transforms currently using the hierarchy.
func (h *JointHierarchy) RefCount() int {
	return h.refCount
}

// Released reports whether the hierarchy's buffers have been freed.
func (h *JointHierarchy) Released() bool {
	return h.local == nil
}

// Root returns the transform that owns index 0.
func (h *JointHierarchy) Root() *Transform {
	h.mustBeLive()
	return h.joints[0]
}

// Joint returns the transform at the given index.
func (h *JointHierarchy) Joint(index int) *Transform {
	h.mustBeLive()
	h.checkIndex(index)
	return h.joints[index]
}

// LocalMatrices returns the local matrix array. The animation system may
// write poses directly into it and then call UpdateJointHierarchy. A lazy
// read of a stale member before that call also picks the writes up.
func (h *JointHierarchy) LocalMatrices() []Mat3x4 {
	h.mustBeLive()
	return h.local
}

// WorldMatrices returns the world matrix array as of the last world pass.
// The returned slice MUST NOT be mutated except by a caller that follows up
// with WorldJointMatrixUpdated.
func (h *JointHierarchy) WorldMatrices() []Mat3x4 {
	h.mustBeLive()
	return h.world
}

// ParentIndexes returns the parent index of every joint, -1 for the root.
// The returned slice MUST NOT be mutated.
func (h *JointHierarchy) ParentIndexes() []int {
	h.mustBeLive()
	return h.parents
}

// UpdateJointHierarchy recomputes every world matrix from the local array in
// increasing index order:
//
//	world[0] = externalParentWorld * local[0]
//	world[i] = world[parentIndexes[i]] * local[i]
//
// where externalParentWorld is the world matrix of the root's parent, or
// identity. Participants are then marked fresh and notified through
// WorldJointMatrixUpdated. No participant's InvalidateWorldMatrix is called.
//
// Panics if parentIndexes does not have one entry per joint. In debug mode
// every parentIndexes[i] must also lie in [0, i).
func (h *JointHierarchy) UpdateJointHierarchy(parentIndexes []int) {
	h.mustBeLive()
	if len(parentIndexes) != len(h.local) {
		panic(fmt.Sprintf("sapling: parent index count %d does not match joint count %d", len(parentIndexes), len(h.local)))
	}
	h.computeWorld(parentIndexes)
	h.WorldJointMatrixUpdated()
}

// WorldJointMatrixUpdated marks every participant fresh after a world pass,
// notifies each participant that has listeners, and invalidates every
// non-member child of every participant through the ordinary path.
func (h *JointHierarchy) WorldJointMatrixUpdated() {
	h.mustBeLive()
	for _, j := range h.joints {
		j.worldInvalidated = false
		j.notify()
	}
	for _, j := range h.joints {
		j.invalidateChildren(j, h)
	}
}

// computeWorld runs the world pass with the given parent indexes.
func (h *JointHierarchy) computeWorld(parentIndexes []int) {
	h.world[0] = Compose(h.joints[0].parentMatrix(), h.local[0])
	for i := 1; i < len(h.local); i++ {
		p := parentIndexes[i]
		if globalDebug && (p < 0 || p >= i) {
			panic(fmt.Sprintf("sapling: joint %d has parent index %d, want [0, %d)", i, p, i))
		}
		h.world[i] = Compose(h.world[p], h.local[i])
	}
	frameStats.JointPasses++
}

// refresh resolves the world array for a lazy read of a stale member.
// Stale participants were notified when they went stale, so they are not
// notified again. A participant that was clean but whose world matrix moved
// anyway (its local slot was written directly) is notified here and its
// non-member children are invalidated.
func (h *JointHierarchy) refresh() {
	var moved []int
	for i, j := range h.joints {
		var w Mat3x4
		if i == 0 {
			w = Compose(j.parentMatrix(), h.local[0])
		} else {
			w = Compose(h.world[h.parents[i]], h.local[i])
		}
		if !j.worldInvalidated && w != h.world[i] {
			moved = append(moved, i)
		}
		h.world[i] = w
	}
	frameStats.JointPasses++

	for _, j := range h.joints {
		j.worldInvalidated = false
	}
	for _, i := range moved {
		j := h.joints[i]
		j.notify()
		j.invalidateChildren(j, h)
	}
}

// invalidateSubtree marks the participants of the locked subtree rooted at
// index (the member at index is already marked) and routes the generic
// invalidation into their non-member children.
func (h *JointHierarchy) invalidateSubtree(index int, instigatedBy *Transform) {
	for i := index; i < h.subtreeEnd[index]; i++ {
		j := h.joints[i]
		if i != index {
			if j.worldInvalidated {
				continue
			}
			j.worldInvalidated = true
			j.notify()
		}
		j.invalidateChildren(instigatedBy, h)
	}
}

// owns reports whether t is a participant of h.
func (h *JointHierarchy) owns(t *Transform) bool {
	slot, ok := t.local.(*jointSlot)
	return ok && slot.h == h
}

func (h *JointHierarchy) localAt(index int) Mat3x4 {
	h.mustBeLive()
	h.checkIndex(index)
	return h.local[index]
}

func (h *JointHierarchy) worldAt(index int) Mat3x4 {
	h.mustBeLive()
	h.checkIndex(index)
	return h.world[index]
}

func (h *JointHierarchy) setPose(index int, p Pose) {
	h.mustBeLive()
	h.checkIndex(index)
	m := p.Matrix()
	h.local[index] = m
	h.poses[index] = cachedPose{pose: p, m: m, ok: true}
}

func (h *JointHierarchy) poseAt(index int) Pose {
	h.mustBeLive()
	h.checkIndex(index)
	c := &h.poses[index]
	if c.ok && c.m == h.local[index] {
		return c.pose
	}
	m := h.local[index]
	*c = cachedPose{pose: DecomposeMatrix(m), m: m, ok: true}
	return c.pose
}

func (h *JointHierarchy) mustBeLive() {
	if h.local == nil {
		panic("sapling: use of released joint hierarchy")
	}
}

func (h *JointHierarchy) checkIndex(index int) {
	if index < 0 || index >= len(h.local) {
		panic(fmt.Sprintf("sapling: joint index %d out of range [0, %d)", index, len(h.local)))
	}
}

// --- Construction and release ---

// JointHierarchy returns the hierarchy this transform belongs to, or nil.
func (t *Transform) JointHierarchy() *JointHierarchy {
	if slot, ok := t.local.(*jointSlot); ok {
		return slot.h
	}
	return nil
}

// JointIndex returns this transform's slot in its hierarchy, or -1.
func (t *Transform) JointIndex() int {
	if slot, ok := t.local.(*jointSlot); ok {
		return slot.index
	}
	return -1
}

// ConstructJointHierarchy merges this transform and its locked descendants
// (locked children, their locked children, and so on) into one shared joint
// hierarchy rooted here.
//
// Returns false, allocating nothing, if there is no locked child, if this
// transform is not spatial, or if any locked candidate is not spatial.
// Participants that belong to another hierarchy have that whole hierarchy
// released (with copy-back) first.
func (t *Transform) ConstructJointHierarchy() bool {
	if globalDebug {
		debugCheckDisposed(t, "ConstructJointHierarchy")
	}
	if t.Kind != KindSpatial {
		return false
	}
	joints, parents, subtreeEnd, ok := collectLocked(t)
	if !ok || len(joints) < 2 {
		return false
	}

	for _, j := range joints {
		if prev := j.JointHierarchy(); prev != nil {
			prev.release(true)
		}
	}

	n := len(joints)
	buf := make([]Mat3x4, 2*n)
	h := &JointHierarchy{
		local:      buf[:n:n],
		world:      buf[n:],
		poses:      make([]cachedPose, n),
		parents:    parents,
		subtreeEnd: subtreeEnd,
		joints:     joints,
	}
	for i, j := range joints {
		p := j.local.pose()
		j.local = &jointSlot{h: h, index: i, stash: p}
		h.setPose(i, p)
		h.refCount++
	}

	h.computeWorld(h.parents)
	h.WorldJointMatrixUpdated()
	if globalDebug {
		debugLogf("joint hierarchy %q built with %d joints", t.Name, n)
	}
	return true
}

// collectLocked gathers root and its locked descendants in depth-first
// order, with parent indexes and subtree end indexes. ok is false if a
// locked candidate is not spatial.
func collectLocked(root *Transform) (joints []*Transform, parents, subtreeEnd []int, ok bool) {
	joints = []*Transform{root}
	parents = []int{-1}
	subtreeEnd = []int{0}

	var walk func(n *Transform, index int) bool
	walk = func(n *Transform, index int) bool {
		for _, c := range n.children {
			if !c.locked {
				continue
			}
			if c.Kind != KindSpatial {
				return false
			}
			ci := len(joints)
			joints = append(joints, c)
			parents = append(parents, index)
			subtreeEnd = append(subtreeEnd, 0)
			if !walk(c, ci) {
				return false
			}
		}
		subtreeEnd[index] = len(joints)
		return true
	}
	if !walk(root, 0) {
		return nil, nil, nil, false
	}
	return joints, parents, subtreeEnd, true
}

// ReleaseJointHierarchyRecursive detaches transforms from shared joint
// buffers. If t belongs to a hierarchy, the whole hierarchy is released (a
// locked subtree is never split). Otherwise every descendant hierarchy is
// released.
//
// With copyBack, each participant keeps the pose currently in its slot;
// without it, the pose it had before joining is restored.
func (t *Transform) ReleaseJointHierarchyRecursive(copyBack bool) {
	if h := t.JointHierarchy(); h != nil {
		h.release(copyBack)
		return
	}
	for _, c := range t.children {
		c.ReleaseJointHierarchyRecursive(copyBack)
	}
}

// release returns every participant to plain storage and frees the buffers
// once the last reference is dropped.
func (h *JointHierarchy) release(copyBack bool) {
	h.mustBeLive()
	root := h.joints[0]
	for i, j := range h.joints {
		slot := j.local.(*jointSlot)
		p := slot.stash
		if copyBack {
			p = h.poseAt(i)
		}
		if !j.worldInvalidated {
			j.world = h.world[i]
		}
		j.local = &plainPose{p: p}
		h.joints[i] = nil
		h.refCount--
	}
	if h.refCount == 0 {
		h.local, h.world, h.poses = nil, nil, nil
		h.parents, h.subtreeEnd, h.joints = nil, nil, nil
	}
	root.InvalidateWorldMatrix(root)
}
