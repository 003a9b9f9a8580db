package tool

import "time"

// Result contains the output of a tool execution. Every outcome, including
// lookup failures, is carried as a single block of text.
type Result struct {
	// Text is the content returned to the client.
	Text string `json:"text"`

	// Duration is how long the execution took.
	Duration time.Duration `json:"duration"`
}

// NewResult creates a result with the given text.
func NewResult(text string) Result {
	return Result{Text: text}
}

// NewResultWithDuration creates a result with timing information.
func NewResultWithDuration(text string, duration time.Duration) Result {
	return Result{
		Text:     text,
		Duration: duration,
	}
}
