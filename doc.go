// Package sapling is a hierarchical 3D transform system with lazily cached
// world matrices and shared joint hierarchies for skeletal animation.
//
// # Transforms
//
// Every entity owns a [Transform]. Transforms form a tree; a child's world
// matrix is its parent's world matrix composed with its own local pose
// (origin, rotation, scale). World matrices are cached and recomputed only
// when read after a change:
//
//	root := sapling.NewTransform("root")
//	arm := sapling.NewTransform("arm")
//	root.AddChild(arm)
//	arm.SetLocalOrigin(sapling.Vec3{1, 0, 0})
//	world := arm.Matrix() // recomputed here, cached afterwards
//
// Writing a local pose marks the transform and all of its descendants stale
// before the setter returns. Register a listener with [Transform.AddListener]
// to learn when a world matrix went stale.
//
// # Joint hierarchies
//
// A subtree of locked children (see [Transform.SetLocked]) can be merged into
// one [JointHierarchy]: a shared buffer of local and world matrices indexed
// depth-first, with the root at index 0.
//
//	if root.ConstructJointHierarchy() {
//		h := root.JointHierarchy()
//		local := h.LocalMatrices()
//		// ... write animated poses into local ...
//		h.UpdateJointHierarchy(h.ParentIndexes())
//	}
//
// Members keep the ordinary getters and setters; their storage is simply
// redirected to their slot. [Transform.ReleaseJointHierarchyRecursive] returns
// them to plain storage.
//
// # Physics
//
// Physics-driven transforms (see [Transform.SetPhysicsKind]) receive
// simulation results through [Transform.ApplyPhysicsPose]. Propagation
// started by such a write still reaches ordinary children but skips children
// that are physics-driven themselves.
//
// # Frame loop
//
// [Scene] runs the gameplay, physics and resolve phases in this order every
// frame and implements [ebiten.Game]; [Run] opens a window with a debug
// skeleton view. Tweens are provided via [gween] (see [TweenGroup] and
// [JointAnimator]); change notifications can be bridged into a [Donburi]
// world with sapling/ecs.
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package sapling
