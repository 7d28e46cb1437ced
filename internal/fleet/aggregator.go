package fleet

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/fleetstatus/internal/domain"
	"github.com/hamed0406/fleetstatus/internal/probe"
)

const DefaultBatchSize = 10

// Aggregator probes projects in fixed-size batches, then sorts and
// summarizes them.
type Aggregator struct {
	Prober    probe.Prober
	BatchSize int
	Logger    *zap.Logger

	// OnBatch, when set, is called before batch index (0-based) of the
	// given size starts.
	OnBatch func(index, size int)
}

func NewAggregator(p probe.Prober, batchSize int, logger *zap.Logger) *Aggregator {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{Prober: p, BatchSize: batchSize, Logger: logger}
}

// Aggregate returns a sorted copy of projects with every status resolved to
// live or down, and the summary of that copy. projects is not modified.
func (a *Aggregator) Aggregate(ctx context.Context, projects []domain.Project) ([]domain.Project, domain.Summary) {
	out := make([]domain.Project, len(projects))
	copy(out, projects)

	size := a.BatchSize
	if size < 1 {
		size = DefaultBatchSize
	}
	for index, start := 0, 0; start < len(out); index, start = index+1, start+size {
		batch := out[start:min(start+size, len(out))]
		if a.OnBatch != nil {
			a.OnBatch(index, len(batch))
		}
		a.probeBatch(ctx, batch)
		a.logger().Debug("probe_batch_done",
			zap.Int("batch", index),
			zap.Int("size", len(batch)),
		)
	}

	SortProjects(out)
	return out, domain.Summarize(out)
}

// probeBatch probes every member concurrently and returns once all have
// settled. Each goroutine writes only its own slot.
func (a *Aggregator) probeBatch(ctx context.Context, batch []domain.Project) {
	var g errgroup.Group
	for i := range batch {
		p := &batch[i]
		if p.PrimaryDomain == "" {
			p.Status = domain.StatusDown
			continue
		}
		g.Go(func() error {
			// a panicking prober marks its own project down and nothing else
			defer func() {
				if rec := recover(); rec != nil {
					p.Status = domain.StatusDown
					a.logger().Error("probe_panic",
						zap.String("project", p.Name),
						zap.String("domain", p.PrimaryDomain),
						zap.Any("panic", rec),
					)
				}
			}()
			res := a.Prober.Probe(ctx, p.PrimaryDomain)
			p.Status = res.Status
			if p.Status != domain.StatusLive {
				p.Status = domain.StatusDown
				a.logger().Debug("probe_down",
					zap.String("project", p.Name),
					zap.String("domain", p.PrimaryDomain),
					zap.Int("status", res.StatusCode),
					zap.String("reason", res.Reason),
					zap.Float64("latency_ms", res.LatencyMS),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// SortProjects orders by category rank, then live before not live, then
// name (byte-wise, case-sensitive).
func SortProjects(projects []domain.Project) {
	slices.SortFunc(projects, func(x, y domain.Project) int {
		if c := cmp.Compare(domain.Rank(x.Category), domain.Rank(y.Category)); c != 0 {
			return c
		}
		if c := cmp.Compare(liveRank(x.Status), liveRank(y.Status)); c != 0 {
			return c
		}
		return strings.Compare(x.Name, y.Name)
	})
}

func liveRank(s domain.Status) int {
	if s == domain.StatusLive {
		return 0
	}
	return 1
}
