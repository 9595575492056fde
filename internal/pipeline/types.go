// Package pipeline holds the progress vocabulary shared by the driver and
// the terminal UI.
package pipeline

import "time"

// Stage is a step of expanding one file.
type Stage string

const (
	StageRead        Stage = "read"        // load, lex, build tree
	StageDeclare     Stage = "declare"     // parse define blocks, build scaffolds
	StageInstantiate Stage = "instantiate" // monomorphize invocations
	StageApply       Stage = "apply"       // construct / extend_parameter_list
	StageFormat      Stage = "format"
	StageWrite       Stage = "write"
)

// Stages lists the stages in execution order.
var Stages = []Stage{StageRead, StageDeclare, StageInstantiate, StageApply, StageFormat, StageWrite}

// Status is the state of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached"
	StatusError   Status = "error"
)

// Terminal reports whether no further events follow for the file.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; the driver emits from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}
