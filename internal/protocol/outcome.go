package protocol

// FailureKind classifies an expected protocol failure.
type FailureKind string

const (
	// FailureBackend: the server was reached but returned a non-2xx status.
	FailureBackend FailureKind = "backend_error"
	// FailureInvalidResponse: a 2xx body that does not parse as JSON.
	FailureInvalidResponse FailureKind = "invalid_response"
	// FailureNetwork: the request never completed.
	FailureNetwork FailureKind = "network_error"
)

// Answer is a successful exchange.
type Answer struct {
	Text        string
	SourcesUsed int
}

// Failure is a classified, expected failure. It is a value, not an error:
// the caller surfaces it in the transcript rather than propagating it.
type Failure struct {
	Kind   FailureKind
	Detail string
}

// Message renders the failure the way it appears in the transcript.
func (f Failure) Message() string {
	if f.Detail == "" {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Detail
}

// Outcome is the normalized result of one exchange: exactly one of Answer
// or Failure is set.
type Outcome struct {
	Answer  *Answer
	Failure *Failure
}

func answerOutcome(text string, sources int) Outcome {
	return Outcome{Answer: &Answer{Text: text, SourcesUsed: sources}}
}

func failureOutcome(kind FailureKind, detail string) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Detail: detail}}
}
