package ecs

import (
	"github.com/phanxgames/sapling"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TransformChanged is published when a transform's world matrix changed.
// Read the new matrix through the transform once the frame's phases are done.
type TransformChanged struct {
	Transform *sapling.Transform
	ID        uint32
	EntityID  uint32
	Name      string
}

// TransformChangedEventType is the Donburi event type for transform changes.
var TransformChangedEventType = events.NewEventType[TransformChanged]()

// Forward registers a listener on t that publishes TransformChanged events
// into world. Events are queued; consume them with ProcessEvents.
func Forward(world donburi.World, t *sapling.Transform) sapling.ListenerID {
	return t.AddListener(func(n *sapling.Transform) {
		TransformChangedEventType.Publish(world, TransformChanged{
			Transform: n,
			ID:        n.ID,
			EntityID:  n.EntityID,
			Name:      n.Name,
		})
	})
}

// ForwardSubtree calls Forward for root and every current descendant.
// Transforms added later are not covered.
func ForwardSubtree(world donburi.World, root *sapling.Transform) {
	Forward(world, root)
	for _, c := range root.Children() {
		ForwardSubtree(world, c)
	}
}
