package service

import (
	"context"
	"log/slog"
	"time"

	"bourse/internal/middleware"
	"bourse/internal/observability"
	"bourse/internal/repository"
)

// ReconcileService repairs drift between cached member counts and the
// membership ledger. Under normal operation the transactional increments keep
// the counts exact; reconciliation exists for counts seeded by bulk imports,
// manual surgery or historical bugs.
type ReconcileService struct {
	communityRepo repository.CommunityRepository
}

// ReconcileResult summarizes one reconciliation run.
type ReconcileResult struct {
	CommunitiesChecked int                     `json:"communities_checked"`
	Drifted            []repository.CountDrift `json:"drifted"`
	TotalDrift         int64                   `json:"total_drift"`
}

func NewReconcileService(communityRepo repository.CommunityRepository) *ReconcileService {
	return &ReconcileService{communityRepo: communityRepo}
}

// RecomputeOne resets a single community's member count from the ledger and
// returns the exact count.
func (s *ReconcileService) RecomputeOne(ctx context.Context, communityID uint) (int64, error) {
	return s.communityRepo.RecomputeMemberCount(ctx, communityID)
}

// RecomputeAll resets every community's member count from the ledger and
// reports which communities had drifted and by how much.
func (s *ReconcileService) RecomputeAll(ctx context.Context) (*ReconcileResult, error) {
	drifts, checked, err := s.communityRepo.RecomputeAllMemberCounts(ctx)
	if err != nil {
		observability.ReconcileRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	var total int64
	for _, d := range drifts {
		diff := d.Cached - d.Actual
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}

	observability.MemberCountDrift.Set(float64(total))
	observability.ReconcileRuns.WithLabelValues("ok").Inc()

	if len(drifts) > 0 {
		middleware.Logger.WarnContext(ctx, "member counts drifted",
			slog.Int("communities", len(drifts)),
			slog.Int64("total_drift", total),
		)
	}

	return &ReconcileResult{
		CommunitiesChecked: int(checked),
		Drifted:            drifts,
		TotalDrift:         total,
	}, nil
}

// RunPeriodic reconciles on the given interval until ctx is cancelled.
func (s *ReconcileService) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RecomputeAll(ctx); err != nil {
				middleware.Logger.ErrorContext(ctx, "periodic reconcile failed",
					slog.String("error", err.Error()))
			}
		}
	}
}
