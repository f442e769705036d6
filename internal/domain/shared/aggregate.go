package shared

// EventRecorder collects domain events raised by an aggregate until a
// consumer drains them.
type EventRecorder struct {
	events []DomainEvent
}

// Record appends a domain event to the recorder
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// DrainEvents returns recorded events and clears the recorder
func (r *EventRecorder) DrainEvents() []DomainEvent {
	events := r.events
	r.events = nil
	return events
}
