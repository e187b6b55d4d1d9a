package organize

// Action records how a placed file reached its destination.
type Action string

const (
	ActionCopied Action = "copied"
	ActionMoved  Action = "moved"
)

// Outcome classifies the terminal state of one placement attempt.
type Outcome int

const (
	// OutcomePlaced means the file was copied or moved to its destination.
	OutcomePlaced Outcome = iota
	// OutcomeDuplicate means an already-placed file holds the same bytes.
	OutcomeDuplicate
	// OutcomeNoDate means no source yielded a trustworthy date.
	OutcomeNoDate
	// OutcomeIgnoredExtension means the extension filter excluded the file.
	OutcomeIgnoredExtension
	// OutcomeFailed means a per-file error; the source is left untouched.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlaced:
		return "placed"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeNoDate:
		return "no date"
	case OutcomeIgnoredExtension:
		return "ignored extension"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of attempting to place one file. Produced once per
// input file and never retried within the same run.
type Result struct {
	Source  string
	Outcome Outcome
	// Destination is set when Outcome is OutcomePlaced.
	Destination string
	Action      Action
	// Existing is the path already holding the same bytes when Outcome is
	// OutcomeDuplicate.
	Existing string
	// Err carries the failure reason when Outcome is OutcomeFailed.
	Err error
}

// Failure pairs a source path with the reason its placement failed.
type Failure struct {
	Source string
	Reason string
}

// Summary aggregates placement results over one run.
type Summary struct {
	Placed            int
	Duplicates        int
	NoDate            int
	IgnoredExtensions int
	Failed            int
	Failures          []Failure
}

// Add folds one result into the summary.
func (s *Summary) Add(result Result) {
	switch result.Outcome {
	case OutcomePlaced:
		s.Placed++
	case OutcomeDuplicate:
		s.Duplicates++
	case OutcomeNoDate:
		s.NoDate++
	case OutcomeIgnoredExtension:
		s.IgnoredExtensions++
	case OutcomeFailed:
		s.Failed++
		reason := "unknown failure"
		if result.Err != nil {
			reason = result.Err.Error()
		}
		s.Failures = append(s.Failures, Failure{Source: result.Source, Reason: reason})
	}
}

// Total returns the number of files the run examined.
func (s Summary) Total() int {
	return s.Placed + s.Duplicates + s.NoDate + s.IgnoredExtensions + s.Failed
}
