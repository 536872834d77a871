package captioner

import "github.com/rs/zerolog"

// LogPublisher writes lifecycle events as structured log lines.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(l zerolog.Logger) LogPublisher {
	return LogPublisher{log: l.With().Str("component", "captioner").Logger()}
}

func (p LogPublisher) Publish(e Event) {
	ev := p.log.Info()
	if e.Name == "load_failed" || e.Name == "unload_timeout" {
		ev = p.log.Warn()
	}
	ev.Str("event", e.Name).Str("model", e.ModelID).Fields(e.Fields).Msg("model event")
}

// multiPublisher fans an event out to several publishers.
type multiPublisher []EventPublisher

func (mp multiPublisher) Publish(e Event) {
	for _, p := range mp {
		p.Publish(e)
	}
}

// Publishers combines publishers into one.
func Publishers(ps ...EventPublisher) EventPublisher {
	return multiPublisher(ps)
}
