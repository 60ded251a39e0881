package worker

// Subscriber is a service that listens on the event dispatcher.
type Subscriber interface {
	RegisterHandlers()
}

// StartSubscribers registers the handlers of every non-nil subscriber.
func StartSubscribers(subscribers ...Subscriber) {
	for _, s := range subscribers {
		if s == nil {
			continue
		}
		s.RegisterHandlers()
	}
}
