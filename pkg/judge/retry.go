package judge

import (
	"context"

	"github.com/eigen-ai-labs/qqr/pkg/retry"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
)

// retryingJudge wraps a Judge and retries a failed BidirectionalCompare
// (or Compare) call according to cfg, mirroring the teacher's @retry
// decorator pattern applied to judge invocations rather than HTTP calls.
type retryingJudge struct {
	inner Judge
	cfg   retry.Config
}

// WithRetry decorates j so that BidirectionalCompare and Compare are
// retried on failure per cfg.
func WithRetry(j Judge, cfg retry.Config) Judge {
	return &retryingJudge{inner: j, cfg: cfg}
}

func (r *retryingJudge) Compare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair PairKey) (float64, float64, error) {
	var scoreA, scoreB float64
	err := retry.Do(ctx, r.cfg, func() error {
		var err error
		scoreA, scoreB, err = r.inner.Compare(ctx, messagesA, messagesB, query, pair)
		return err
	})
	return scoreA, scoreB, err
}

func (r *retryingJudge) BidirectionalCompare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair PairKey) (float64, float64, map[string]any, error) {
	var scoreA, scoreB float64
	var meta map[string]any
	err := retry.Do(ctx, r.cfg, func() error {
		var err error
		scoreA, scoreB, meta, err = r.inner.BidirectionalCompare(ctx, messagesA, messagesB, query, pair)
		return err
	})
	return scoreA, scoreB, meta, err
}
