// Package judge implements the LLM-judge port that tournament drivers
// consume: a pairwise, bidirectional comparison of two candidate
// responses to the same query, producing two scalar scores.
package judge

import (
	"context"

	"github.com/eigen-ai-labs/qqr/pkg/sample"
)

// PairKey identifies which two candidates a comparison call concerns.
// It replaces the free-form keyword tags a judge call used to accept,
// giving the round executor a typed value to correlate a completed
// comparison with the pair that produced it, independent of goroutine
// completion order.
type PairKey struct {
	I int
	J int
}

// Judge scores a pair of candidate responses to the same query. Each
// candidate is an opaque sequence of messages; the judge forwards it to
// an LLM and never inspects its structure beyond what a prompt needs.
//
// Implementations must be safe for concurrent use: the round executor
// invokes a Judge from multiple goroutines within a single round.
type Judge interface {
	// Compare scores messagesA against messagesB in the given orientation
	// and returns (scoreA, scoreB). Higher is better; only relative order
	// and magnitude are meaningful, there is no fixed scale.
	Compare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair PairKey) (scoreA, scoreB float64, err error)

	// BidirectionalCompare scores the pair in both orientations
	// (A-then-B and B-then-A) and averages each candidate's two scores,
	// canceling positional bias in the underlying judge. meta carries
	// implementation-defined diagnostic data (e.g. raw per-direction
	// scores) and is opaque to callers.
	BidirectionalCompare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair PairKey) (scoreA, scoreB float64, meta map[string]any, err error)
}

// flattenText joins a candidate's messages into a single string for
// judge prompts.
func flattenText(messages []sample.Message) string {
	s := ""
	for i, m := range messages {
		if i > 0 {
			s += "\n"
		}
		s += string(m.Role) + ": " + m.Content
	}
	return s
}
