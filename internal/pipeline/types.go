package pipeline

import "time"

// Status is the state of one script in a check.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusError means the script compiled with findings or could not be read.
	StatusError Status = "error"
)

// Finished reports whether no more events follow for the script.
func (s Status) Finished() bool { return s == StatusDone || s == StatusError }

// Event reports the status change of one script. Sections and Elapsed are
// set once the script is finished.
type Event struct {
	File     string
	Status   Status
	Sections int
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. Workers report from their own
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch != nil {
		s.Ch <- evt
	}
}

// CompileStats sums compile time over the scripts of one check.
type CompileStats struct {
	Total   time.Duration
	Slowest string
	Max     time.Duration
}

func (s *CompileStats) add(path string, d time.Duration) {
	s.Total += d
	if d > s.Max || s.Slowest == "" {
		s.Slowest, s.Max = path, d
	}
}
