package driver

// Stage identifies a phase of the check pipeline for progress reporting.
type Stage uint8

const (
	StageLoad Stage = iota
	StageScan
)

// Status describes where a file is within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress update. An empty Path describes the pipeline as a
// whole rather than a single file.
type Event struct {
	Path   string
	Stage  Stage
	Status Status
}

// Sink receives progress events. Implementations must be safe for calls from
// multiple goroutines.
type Sink interface {
	Publish(Event)
}

// ChannelSink forwards events into a channel, dropping them when the channel
// is full so a slow UI never stalls the check.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) Publish(ev Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- ev:
	default:
	}
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Publish(Event) {}

func publish(sink Sink, ev Event) {
	if sink != nil {
		sink.Publish(ev)
	}
}
