package metrics

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
)

// instrumentedJudge wraps a judge.Judge and records call counts and
// latency into a Metrics, mirroring the teacher's scanner.go pattern of
// incrementing atomic counters around each probe dispatch rather than a
// full metrics-client SDK.
type instrumentedJudge struct {
	inner judge.Judge
	m     *Metrics
}

// InstrumentJudge decorates j so that every Compare/BidirectionalCompare
// call updates m's counters and cumulative duration.
func InstrumentJudge(j judge.Judge, m *Metrics) judge.Judge {
	return &instrumentedJudge{inner: j, m: m}
}

func (i *instrumentedJudge) Compare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair judge.PairKey) (float64, float64, error) {
	start := time.Now()
	scoreA, scoreB, err := i.inner.Compare(ctx, messagesA, messagesB, query, pair)
	i.record(start, err)
	return scoreA, scoreB, err
}

func (i *instrumentedJudge) BidirectionalCompare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair judge.PairKey) (float64, float64, map[string]any, error) {
	start := time.Now()
	scoreA, scoreB, meta, err := i.inner.BidirectionalCompare(ctx, messagesA, messagesB, query, pair)
	i.record(start, err)
	return scoreA, scoreB, meta, err
}

func (i *instrumentedJudge) record(start time.Time, err error) {
	atomic.AddInt64(&i.m.JudgeCallsTotal, 1)
	atomic.AddInt64(&i.m.JudgeCallDurationMs, time.Since(start).Milliseconds())
	if err != nil {
		atomic.AddInt64(&i.m.JudgeCallsFailed, 1)
		return
	}
	atomic.AddInt64(&i.m.JudgeCallsSucceeded, 1)
}
