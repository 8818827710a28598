// Package ecs provides ECS adapters for sapling's change notifications.
//
// The primary adapter is [Forward], which publishes a [TransformChanged]
// event into a [Donburi] world whenever a transform's world matrix goes
// stale or is refreshed by a joint hierarchy batch update. Subscribe to
// [TransformChangedEventType] in your ECS systems to receive them.
//
// Usage:
//
//	ecs.ForwardSubtree(world, scene.Root())
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
