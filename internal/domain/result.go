package domain

// Stage identifies a step of the send pipeline.
type Stage int

const (
	StageRecognize Stage = iota
	StageFormat
	StageFreshness
	StageSign
	StageSend
	StageDone
)

// String returns a human-readable representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageRecognize:
		return "recognize"
	case StageFormat:
		return "format"
	case StageFreshness:
		return "freshness"
	case StageSign:
		return "sign"
	case StageSend:
		return "send"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome records how far a single file got through the pipeline.
type Outcome struct {
	// File is the input file, unchanged
	File File

	// Stage is the stage that failed, or StageDone when the file was sent
	Stage Stage

	// Err is the reason for the failure; nil when sent
	Err error
}

// Sent returns true if the file made it through every stage.
func (o Outcome) Sent() bool {
	return o.Stage == StageDone && o.Err == nil
}

// Result is the outcome of a batch run.
type Result struct {
	// Skipped holds the files that were not sent, in input order
	Skipped []File

	// Outcomes holds one entry per input file, in input order
	Outcomes []Outcome
}

// NewResult builds a Result from per-file outcomes, preserving their order.
func NewResult(outcomes []Outcome) Result {
	r := Result{
		Skipped:  make([]File, 0),
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		if !o.Sent() {
			r.Skipped = append(r.Skipped, o.File)
		}
	}
	return r
}

// SentCount returns the number of files that were sent.
func (r Result) SentCount() int {
	return len(r.Outcomes) - len(r.Skipped)
}
