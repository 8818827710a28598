package sapling

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic, sapling is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Local storage authority ---

// localAuthority is the single live storage for a transform's local pose:
// either the transform's own fields (*plainPose) or a slot inside a shared
// joint hierarchy (*jointSlot). Which one is live is decided solely by the
// dynamic type.
type localAuthority interface {
	pose() Pose
	setPose(p Pose)
	matrix() Mat3x4
}

type plainPose struct {
	p Pose
}

func (a *plainPose) pose() Pose { return a.p }
func (a *plainPose) setPose(p Pose) { a.p = p }
func (a *plainPose) matrix() Mat3x4 { return a.p.Matrix() }

// jointSlot redirects local reads and writes to h.local[index]. stash keeps
// the plain pose the transform had before joining, restored on release
// without copy-back.
type jointSlot struct {
	h     *JointHierarchy
	index int
	stash Pose
}

func (a *jointSlot) pose() Pose { return a.h.poseAt(a.index) }
func (a *jointSlot) setPose(p Pose) { a.h.setPose(a.index, p) }
func (a *jointSlot) matrix() Mat3x4 { return a.h.localAt(a.index) }

// --- Transform ---

type changeListener struct {
	id ListenerID
	fn func(*Transform)
}

// Transform is the per-entity transform node. It holds a local pose, a lazily
// computed world matrix and its place in the transform tree. A single struct
// is used for every kind to avoid interface dispatch on the hot path.
type Transform struct {
	// Identity
	ID   uint32
	Name string
	Kind NodeKind

	// Hierarchy
	Parent   *Transform
	children []*Transform
	locked   bool

	// Local pose authority (plain fields or joint slot)
	local localAuthority

	// World cache
	world            Mat3x4
	worldInvalidated bool

	// Physics
	physics         PhysicsKind
	physicsUpdating bool

	// Metadata
	UserData any
	EntityID uint32

	// Change listeners
	listeners      []changeListener
	nextListenerID ListenerID

	disposed bool
}

// transformDefaults sets the common default field values shared by all constructors.
// The world matrix starts resolved: a fresh transform has no parent and an
// identity pose.
func transformDefaults(t *Transform) {
	t.ID = nextNodeID()
	t.local = &plainPose{p: IdentityPose()}
	t.world = identityMatrix
	t.worldInvalidated = false
}

// NewTransform creates a spatial transform with an identity pose.
func NewTransform(name string) *Transform {
	t := &Transform{Name: name, Kind: KindSpatial}
	transformDefaults(t)
	return t
}

// NewRectTransform creates a UI rect transform. Rect transforms take part in
// ordinary propagation but are not compatible with joint hierarchies.
func NewRectTransform(name string) *Transform {
	t := &Transform{Name: name, Kind: KindRect}
	transformDefaults(t)
	return t
}

// --- Locking ---

// SetLocked marks this transform as a locked (non-detachable) child of its
// parent. Locked children are the candidates collected by
// ConstructJointHierarchy. Changing the flag does not affect an existing
// joint hierarchy until it is rebuilt.
func (t *Transform) SetLocked(locked bool) {
	t.locked = locked
}

// Locked reports whether this transform is a locked child.
func (t *Transform) Locked() bool {
	return t.locked
}

// --- Tree manipulation ---

// AddChild appends child to this transform's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, child is an ancestor of this transform (cycle), or
// child is a non-root joint hierarchy member.
func (t *Transform) AddChild(child *Transform) {
	t.checkAttach(child, "AddChild")
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = t
	t.children = append(t.children, child)
	child.parentChanged()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(t)
	}
}

// AddChildAt inserts child at the given index, counted before child is
// removed from its current parent. An index of NumChildren() moves an
// existing child to the end. Same reparenting and cycle-check behavior as
// AddChild.
func (t *Transform) AddChildAt(child *Transform, index int) {
	t.checkAttach(child, "AddChildAt")
	if index < 0 || index > len(t.children) {
		panic("sapling: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	// Moving within the same parent shrinks the list by one first.
	if index > len(t.children) {
		index = len(t.children)
	}
	child.Parent = t
	t.children = append(t.children, nil)
	copy(t.children[index+1:], t.children[index:])
	t.children[index] = child
	child.parentChanged()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(t)
	}
}

// RemoveChild detaches child from this transform.
// Panics if child.Parent != t or child is a non-root joint hierarchy member.
func (t *Transform) RemoveChild(child *Transform) {
	if globalDebug {
		debugCheckDisposed(t, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != t {
		panic("sapling: child's parent is not this transform")
	}
	checkDetachable(child)
	t.removeChildByPtr(child)
	child.Parent = nil
	child.parentChanged()
}

// RemoveChildAt removes and returns the child at the given index.
func (t *Transform) RemoveChildAt(index int) *Transform {
	if globalDebug {
		debugCheckDisposed(t, "RemoveChildAt")
	}
	if index < 0 || index >= len(t.children) {
		panic("sapling: child index out of range")
	}
	child := t.children[index]
	checkDetachable(child)
	copy(t.children[index:], t.children[index+1:])
	t.children[len(t.children)-1] = nil
	t.children = t.children[:len(t.children)-1]
	child.Parent = nil
	child.parentChanged()
	return child
}

// RemoveFromParent detaches this transform from its parent.
// No-op if this transform has no parent.
func (t *Transform) RemoveFromParent() {
	if t.Parent == nil {
		return
	}
	t.Parent.RemoveChild(t)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (t *Transform) Children() []*Transform {
	return t.children
}

// NumChildren returns the number of children.
func (t *Transform) NumChildren() int {
	return len(t.children)
}

// ChildAt returns the child at the given index.
func (t *Transform) ChildAt(index int) *Transform {
	return t.children[index]
}

// parentChanged reacts to a new (or removed) parent: the world matrix now
// composes with a different chain.
func (t *Transform) parentChanged() {
	t.InvalidateWorldMatrix(t)
}

func (t *Transform) checkAttach(child *Transform, op string) {
	if child == nil {
		panic("sapling: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(t, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	if isAncestor(child, t) {
		panic("sapling: adding child would create a cycle")
	}
	if child.Parent != nil {
		checkDetachable(child)
	}
}

// checkDetachable panics if t is a locked member of a joint hierarchy that
// is not its root. The hierarchy must be released first.
func checkDetachable(t *Transform) {
	if slot, ok := t.local.(*jointSlot); ok && slot.index != 0 {
		panic("sapling: cannot detach joint hierarchy member " + t.Name + "; release the hierarchy first")
	}
}

// --- Disposal ---

// Dispose releases any joint hierarchy this transform takes part in, removes
// it from its parent, marks it as disposed, and recursively disposes all
// descendants.
func (t *Transform) Dispose() {
	if t.disposed {
		return
	}
	if h := t.JointHierarchy(); h != nil {
		h.release(false)
	}
	t.RemoveFromParent()
	t.dispose()
}

func (t *Transform) dispose() {
	if h := t.JointHierarchy(); h != nil {
		h.release(false)
	}
	t.disposed = true
	t.ID = 0
	for _, child := range t.children {
		child.Parent = nil
		child.dispose()
	}
	t.children = nil
	t.Parent = nil
	t.listeners = nil
	t.UserData = nil
}

// IsDisposed returns true if this transform has been disposed.
func (t *Transform) IsDisposed() bool {
	return t.disposed
}

// --- Change listeners ---

// AddListener registers fn to be called whenever this transform's world
// matrix becomes stale, and once per batch joint update that refreshes it.
// Listeners should defer reads of the matrix to the end of the frame.
func (t *Transform) AddListener(fn func(*Transform)) ListenerID {
	t.nextListenerID++
	id := t.nextListenerID
	t.listeners = append(t.listeners, changeListener{id: id, fn: fn})
	return id
}

// RemoveListener unregisters a listener. Unknown IDs are ignored.
func (t *Transform) RemoveListener(id ListenerID) {
	for i, l := range t.listeners {
		if l.id == id {
			copy(t.listeners[i:], t.listeners[i+1:])
			t.listeners[len(t.listeners)-1] = changeListener{}
			t.listeners = t.listeners[:len(t.listeners)-1]
			return
		}
	}
}

// HasListeners reports whether any change listener is registered.
func (t *Transform) HasListeners() bool {
	return len(t.listeners) > 0
}

func (t *Transform) notify() {
	for _, l := range t.listeners {
		l.fn(t)
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Transform) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from t.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (t *Transform) removeChildByPtr(child *Transform) {
	for i, c := range t.children {
		if c == child {
			copy(t.children[i:], t.children[i+1:])
			t.children[len(t.children)-1] = nil
			t.children = t.children[:len(t.children)-1]
			return
		}
	}
}
