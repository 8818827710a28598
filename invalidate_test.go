package sapling

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func resolveAll(nodes []*Transform) {
	for _, n := range nodes {
		n.Matrix()
	}
}

func descendants(t *Transform, fn func(*Transform)) {
	for _, c := range t.children {
		fn(c)
		descendants(c, fn)
	}
}

func TestInvalidateMarksEveryDescendant(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	nodes := randomTree(rng, 80)

	for trial := 0; trial < 50; trial++ {
		resolveAll(nodes)
		n := nodes[rng.Intn(len(nodes))]
		n.InvalidateWorldMatrix(nil)

		if !n.WorldInvalidated() {
			t.Fatalf("trial %d: invalidated node is clean", trial)
		}
		descendants(n, func(d *Transform) {
			if !d.WorldInvalidated() {
				t.Fatalf("trial %d: descendant left clean", trial)
			}
		})
	}
}

func TestInvalidateIdempotent(t *testing.T) {
	p := NewTransform("p")
	c := NewTransform("c")
	p.AddChild(c)
	p.Matrix()
	c.Matrix()

	var calls int
	c.AddListener(func(*Transform) { calls++ })

	p.InvalidateWorldMatrix(nil)
	p.InvalidateWorldMatrix(nil)
	p.SetLocalOrigin(Vec3{1, 0, 0})

	if calls != 1 {
		t.Errorf("child notified %d times, want 1", calls)
	}
}

func TestInvalidateSkipsCleanAncestors(t *testing.T) {
	p := NewTransform("p")
	c := NewTransform("c")
	gc := NewTransform("gc")
	p.AddChild(c)
	c.AddChild(gc)
	resolveAll([]*Transform{p, c, gc})

	c.SetLocalOrigin(Vec3{0, 1, 0})
	if p.WorldInvalidated() {
		t.Error("parent should stay clean")
	}
	if !c.WorldInvalidated() || !gc.WorldInvalidated() {
		t.Error("c and gc should be stale")
	}
}

// rigidBodyRig builds a rigid body with an ordinary child (with its own
// child) and a physics-driven wheel (with its own child), all resolved.
func rigidBodyRig() (rb, vis, visChild, wheel, hub *Transform) {
	rb = NewTransform("RB")
	rb.SetPhysicsKind(PhysicsRigidBody)
	vis = NewTransform("Vis")
	visChild = NewTransform("VisChild")
	wheel = NewTransform("Wheel")
	wheel.SetPhysicsKind(PhysicsVehicleWheel)
	hub = NewTransform("Hub")

	rb.AddChild(vis)
	vis.AddChild(visChild)
	rb.AddChild(wheel)
	wheel.AddChild(hub)
	resolveAll([]*Transform{rb, vis, visChild, wheel, hub})
	return rb, vis, visChild, wheel, hub
}

func TestPhysicsWriteSkipsPhysicsDrivenChildren(t *testing.T) {
	rb, vis, visChild, wheel, hub := rigidBodyRig()

	rb.BeginPhysicsUpdate()
	rb.SetOriginAxis(Vec3{0, 3, 0}, mgl64.Rotate3DZ(0.2))
	rb.EndPhysicsUpdate()

	if !rb.WorldInvalidated() {
		t.Error("RB should be stale")
	}
	if !vis.WorldInvalidated() || !visChild.WorldInvalidated() {
		t.Error("Vis and its child should be stale")
	}
	if wheel.WorldInvalidated() || hub.WorldInvalidated() {
		t.Error("Wheel and its child should keep their matrices")
	}
	if rb.PhysicsUpdating() {
		t.Error("PhysicsUpdating should be cleared")
	}
}

func TestApplyPhysicsPose(t *testing.T) {
	rb, vis, _, wheel, _ := rigidBodyRig()
	vis.SetLocalOrigin(Vec3{0, -1, 0})
	vis.Matrix()

	rb.ApplyPhysicsPose(Vec3{2, 3, 0}, mgl64.Ident3())

	if wheel.WorldInvalidated() {
		t.Error("Wheel should keep its matrix")
	}
	if rb.PhysicsUpdating() {
		t.Error("PhysicsUpdating should be cleared")
	}
	assertVec3(t, "vis", vis.Origin(), Vec3{2, 2, 0})
}

func TestOrdinaryWriteReachesPhysicsDrivenChildren(t *testing.T) {
	rb, _, _, wheel, hub := rigidBodyRig()

	rb.SetLocalOrigin(Vec3{1, 0, 0})

	if !wheel.WorldInvalidated() || !hub.WorldInvalidated() {
		t.Error("non-physics writes must reach physics-driven children")
	}
}

func TestPhysicsWriteFromPlainInstigator(t *testing.T) {
	// The skip rule only looks at the instigator's update flag.
	carrier := NewTransform("carrier")
	wheel := NewTransform("wheel")
	wheel.SetPhysicsKind(PhysicsVehicleWheel)
	carrier.AddChild(wheel)
	resolveAll([]*Transform{carrier, wheel})

	carrier.ApplyPhysicsPose(Vec3{0, 1, 0}, mgl64.Ident3())
	if wheel.WorldInvalidated() {
		t.Error("wheel should be skipped")
	}
}

func TestSetPhysicsKind(t *testing.T) {
	n := NewTransform("n")
	n.SetPhysicsKind(PhysicsRigidBody)
	if !n.IsPhysicsDriven() || n.PhysicsKind() != PhysicsRigidBody {
		t.Error("should be a rigid body")
	}
	if n.PhysicsKind().String() != "rigidbody" {
		t.Errorf("String() = %q", n.PhysicsKind().String())
	}
	n.SetPhysicsKind(PhysicsNone)
	if n.IsPhysicsDriven() {
		t.Error("should not be physics-driven")
	}
}

func TestNotificationOrderParentFirst(t *testing.T) {
	p := NewTransform("p")
	c := NewTransform("c")
	p.AddChild(c)
	resolveAll([]*Transform{p, c})

	var order []string
	p.AddListener(func(tr *Transform) { order = append(order, tr.Name) })
	c.AddListener(func(tr *Transform) { order = append(order, tr.Name) })

	p.SetLocalScale(Vec3{2, 2, 2})
	if len(order) != 2 || order[0] != "p" || order[1] != "c" {
		t.Errorf("order = %v, want [p c]", order)
	}
}

func BenchmarkInvalidateWideTree(b *testing.B) {
	root := NewTransform("root")
	for i := 0; i < 1000; i++ {
		root.AddChild(NewTransform(""))
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		root.SetLocalOrigin(Vec3{float64(i % 10), 0, 0})
		resolveSubtree(root)
	}
}
