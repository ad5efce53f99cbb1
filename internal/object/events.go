package object

// Listener receives an entity's collision notifications. Calls happen
// synchronously inside Collide and ReflectFrom.
type Listener interface {
	// OnCollision is called when e collides with other.
	OnCollision(e, other *Entity)
	// OnLayerCollision is called when e collides with something on layer.
	OnLayerCollision(e *Entity, layer Mask)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Collision      func(e, other *Entity)
	LayerCollision func(e *Entity, layer Mask)
}

// OnCollision implements Listener.
func (f ListenerFuncs) OnCollision(e, other *Entity) {
	if f.Collision != nil {
		f.Collision(e, other)
	}
}

// OnLayerCollision implements Listener.
func (f ListenerFuncs) OnLayerCollision(e *Entity, layer Mask) {
	if f.LayerCollision != nil {
		f.LayerCollision(e, layer)
	}
}

func (e *Entity) notifyCollision(other *Entity) {
	for _, l := range e.listeners {
		l.OnCollision(e, other)
	}
}

func (e *Entity) notifyLayerCollision(layer Mask) {
	for _, l := range e.listeners {
		l.OnLayerCollision(e, layer)
	}
}

// CollisionEventKind identifies collision event types.
type CollisionEventKind uint8

const (
	// CollisionWithEntity is recorded by OnCollision.
	CollisionWithEntity CollisionEventKind = iota
	// CollisionWithLayer is recorded by OnLayerCollision.
	CollisionWithLayer
)

func (k CollisionEventKind) String() string {
	if k == CollisionWithEntity {
		return "entity"
	}
	return "layer"
}

// CollisionEvent is one recorded notification. Other is nil for layer events
// and Layer is zero for entity events.
type CollisionEvent struct {
	Kind   CollisionEventKind
	Entity *Entity
	Other  *Entity
	Layer  Mask
}

// EventQueue is a Listener that records notifications in firing order so
// they can be handled after the physics step.
type EventQueue struct {
	items []CollisionEvent
}

var _ Listener = (*EventQueue)(nil)

// OnCollision implements Listener.
func (q *EventQueue) OnCollision(e, other *Entity) {
	q.Push(CollisionEvent{Kind: CollisionWithEntity, Entity: e, Other: other})
}

// OnLayerCollision implements Listener.
func (q *EventQueue) OnLayerCollision(e *Entity, layer Mask) {
	q.Push(CollisionEvent{Kind: CollisionWithLayer, Entity: e, Layer: layer})
}

// Push adds an event.
func (q *EventQueue) Push(evt CollisionEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []CollisionEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
