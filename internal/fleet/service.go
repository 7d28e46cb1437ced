// Package fleet runs status cycles: fetch the inventory, classify each
// project, probe its primary domain and aggregate the results.
package fleet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/fleetstatus/internal/classify"
	"github.com/hamed0406/fleetstatus/internal/domain"
)

// Source lists the deployed projects of the fleet.
type Source interface {
	ListProjects(ctx context.Context) ([]domain.SourceProject, error)
}

// Classifier assigns a category from a project's name and aliases.
type Classifier interface {
	Classify(name string, aliases []string) domain.Category
}

type Report struct {
	CycleID  string           `json:"-"`
	Projects []domain.Project `json:"projects"`
	Summary  domain.Summary   `json:"summary"`
}

type Service struct {
	Source     Source
	Classifier Classifier
	Policy     classify.DomainPolicy
	Aggregator *Aggregator
	Logger     *zap.Logger
}

func NewService(src Source, cl Classifier, policy classify.DomainPolicy, agg *Aggregator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Source: src, Classifier: cl, Policy: policy, Aggregator: agg, Logger: logger}
}

// Status runs one full cycle. Nothing is kept between calls, so concurrent
// calls are independent.
func (s *Service) Status(ctx context.Context) (*Report, error) {
	cycleID := uuid.NewString()
	log := s.Logger.With(zap.String("cycle_id", cycleID))
	start := time.Now()

	src, err := s.Source.ListProjects(ctx)
	if err != nil {
		log.Warn("source_fetch_failed", zap.Error(err))
		return nil, err
	}
	log.Info("fleet_cycle_start", zap.Int("projects", len(src)))

	records := make([]domain.Project, 0, len(src))
	for _, sp := range src {
		records = append(records, s.buildRecord(sp))
	}

	projects, summary := s.Aggregator.Aggregate(ctx, records)

	log.Info("fleet_cycle_done",
		zap.Int("total", summary.Total),
		zap.Int("live", summary.Live),
		zap.Int("down", summary.Down),
		zap.Duration("took", time.Since(start)),
	)
	return &Report{CycleID: cycleID, Projects: projects, Summary: summary}, nil
}

func (s *Service) buildRecord(sp domain.SourceProject) domain.Project {
	aliases := sp.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return domain.Project{
		Name:          sp.Name,
		PrimaryDomain: s.Policy.SelectPrimary(aliases),
		AllDomains:    aliases,
		Repo:          sp.Repo,
		Category:      s.Classifier.Classify(sp.Name, aliases),
		Status:        domain.StatusUnknown,
		UpdatedAt:     sp.UpdatedAt,
	}
}
