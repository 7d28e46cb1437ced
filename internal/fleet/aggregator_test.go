package fleet

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/fleetstatus/internal/domain"
	"github.com/hamed0406/fleetstatus/internal/probe"
)

// stubProber answers from a fixed table; unknown domains are down.
type stubProber struct {
	mu    sync.Mutex
	live  map[string]bool
	calls []string
}

func (s *stubProber) Probe(_ context.Context, d string) probe.Result {
	s.mu.Lock()
	s.calls = append(s.calls, d)
	s.mu.Unlock()
	if s.live[d] {
		return probe.Result{Domain: d, Status: domain.StatusLive, StatusCode: 200}
	}
	return probe.Result{Domain: d, Status: domain.StatusDown, StatusCode: 503, Reason: probe.ReasonHTTPStatus}
}

func rec(name string, cat domain.Category, primary string) domain.Project {
	return domain.Project{
		Name:          name,
		PrimaryDomain: primary,
		AllDomains:    []string{primary},
		Category:      cat,
		Status:        domain.StatusUnknown,
	}
}

func TestAggregate_ResolvesEveryStatus(t *testing.T) {
	sp := &stubProber{live: map[string]bool{"a.com": true}}
	agg := NewAggregator(sp, 10, zap.NewNop())

	input := []domain.Project{
		rec("a", domain.CategoryTest, "a.com"),
		rec("b", domain.CategoryTest, "b.com"),
		rec("nodomain", domain.CategoryTest, ""),
	}
	out, summary := agg.Aggregate(context.Background(), input)

	require.Len(t, out, 3)
	for _, p := range out {
		assert.Contains(t, []domain.Status{domain.StatusLive, domain.StatusDown}, p.Status, p.Name)
	}
	assert.ElementsMatch(t, []string{"a.com", "b.com"}, sp.calls, "empty domain must not be probed")
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Live)
	assert.Equal(t, 2, summary.Down)
	assert.Equal(t, 3, summary.ByCategory[domain.CategoryTest])

	// input untouched
	for _, p := range input {
		assert.Equal(t, domain.StatusUnknown, p.Status)
	}
}

func TestAggregate_SortOrder(t *testing.T) {
	sp := &stubProber{live: map[string]bool{"a.com": true, "c.com": true}}
	agg := NewAggregator(sp, 10, nil)

	out, _ := agg.Aggregate(context.Background(), []domain.Project{
		rec("b", domain.CategoryDuendes, "b.com"),
		rec("a", domain.CategoryDuendes, "a.com"),
		rec("c", domain.CategoryCastle, "c.com"),
	})

	assert.Equal(t, []string{"a", "b", "c"}, names(out))
}

func TestSortProjects_TotalOrder(t *testing.T) {
	projects := []domain.Project{
		{Name: "zeta", Category: domain.CategoryTest, Status: domain.StatusLive},
		{Name: "odd", Category: domain.Category("mystery"), Status: domain.StatusLive},
		{Name: "beta", Category: domain.CategoryLegacy, Status: domain.StatusDown},
		{Name: "Alpha", Category: domain.CategoryLegacy, Status: domain.StatusDown},
		{Name: "alpha", Category: domain.CategoryLegacy, Status: domain.StatusLive},
		{Name: "first", Category: domain.CategoryDuendes, Status: domain.StatusDown},
	}

	SortProjects(projects)

	assert.Equal(t, []string{"first", "alpha", "Alpha", "beta", "zeta", "odd"}, names(projects))
}

func TestAggregate_Idempotent(t *testing.T) {
	sp := &stubProber{live: map[string]bool{"p1.com": true, "p4.com": true}}
	agg := NewAggregator(sp, 3, nil)
	input := []domain.Project{
		rec("p4", domain.CategoryTest, "p4.com"),
		rec("p2", domain.CategoryCastle, "p2.com"),
		rec("p1", domain.CategoryCastle, "p1.com"),
		rec("p3", domain.CategoryExpat, ""),
	}

	out1, sum1 := agg.Aggregate(context.Background(), input)
	out2, sum2 := agg.Aggregate(context.Background(), input)

	assert.Equal(t, out1, out2)
	assert.Equal(t, sum1, sum2)
}

func TestAggregate_BatchesAreSequentialAndBounded(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	prober := probe.ProberFunc(func(_ context.Context, d string) probe.Result {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return probe.Result{Domain: d, Status: domain.StatusLive}
	})

	var sizes []int
	agg := NewAggregator(prober, 10, nil)
	agg.OnBatch = func(index, size int) {
		assert.Equal(t, len(sizes), index)
		assert.Zero(t, inFlight.Load(), "batch %d started before the previous one settled", index)
		sizes = append(sizes, size)
	}

	projects := make([]domain.Project, 25)
	for i := range projects {
		projects[i] = rec(fmt.Sprintf("p%02d", i), domain.CategoryTest, fmt.Sprintf("p%02d.com", i))
	}
	out, summary := agg.Aggregate(context.Background(), projects)

	assert.Equal(t, []int{10, 10, 5}, sizes)
	assert.LessOrEqual(t, maxInFlight.Load(), int32(10))
	assert.Len(t, out, 25)
	assert.Equal(t, 25, summary.Live)
}

func TestAggregate_ProbesWithinBatchRunConcurrently(t *testing.T) {
	// every probe blocks until all five have started; a serial run would
	// never release
	var started sync.WaitGroup
	started.Add(5)
	prober := probe.ProberFunc(func(_ context.Context, d string) probe.Result {
		started.Done()
		started.Wait()
		return probe.Result{Domain: d, Status: domain.StatusLive}
	})
	agg := NewAggregator(prober, 5, nil)

	projects := make([]domain.Project, 5)
	for i := range projects {
		projects[i] = rec(fmt.Sprintf("p%d", i), domain.CategoryTest, fmt.Sprintf("p%d.com", i))
	}

	done := make(chan struct{})
	go func() {
		agg.Aggregate(context.Background(), projects)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("probes in a batch did not run concurrently")
	}
}

func TestAggregate_Empty(t *testing.T) {
	agg := NewAggregator(&stubProber{}, 10, nil)
	out, summary := agg.Aggregate(context.Background(), nil)
	assert.Empty(t, out)
	assert.Equal(t, 0, summary.Total)
	assert.Len(t, summary.ByCategory, len(domain.Categories))
}

func names(ps []domain.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestAggregate_PanickingProberMarksOnlyThatProjectDown(t *testing.T) {
	prober := probe.ProberFunc(func(_ context.Context, d string) probe.Result {
		if d == "bad.com" {
			panic("prober bug")
		}
		return probe.Result{Domain: d, Status: domain.StatusLive}
	})
	core, logs := observer.New(zap.ErrorLevel)
	agg := NewAggregator(prober, 10, zap.New(core))

	var (
		out     []domain.Project
		summary domain.Summary
	)
	require.NotPanics(t, func() {
		out, summary = agg.Aggregate(context.Background(), []domain.Project{
			rec("bad", domain.CategoryTest, "bad.com"),
			rec("good", domain.CategoryTest, "good.com"),
		})
	})

	assert.Equal(t, []string{"good", "bad"}, names(out))
	assert.Equal(t, domain.StatusLive, out[0].Status)
	assert.Equal(t, domain.StatusDown, out[1].Status)
	assert.Equal(t, 1, summary.Down)
	assert.Equal(t, 1, logs.FilterMessage("probe_panic").Len())
}
