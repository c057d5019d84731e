package usecase

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/internal/metrics"
)

// ThrottledRepository paces calls into the member store so that many
// concurrent traversals cannot saturate it. A nil limiter only counts.
type ThrottledRepository struct {
	repo    MemberRepository
	limiter *rate.Limiter
}

func NewThrottledRepository(repo MemberRepository, limiter *rate.Limiter) *ThrottledRepository {
	return &ThrottledRepository{repo: repo, limiter: limiter}
}

func (r *ThrottledRepository) ListChildren(ctx context.Context, parentIDs []string) ([]chitfund.DownlineEntry, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	children, err := r.repo.ListChildren(ctx, parentIDs)
	if err != nil {
		metrics.ChildQueriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ChildQueriesTotal.WithLabelValues("ok").Inc()
	return children, nil
}

func (r *ThrottledRepository) GetSubscriptionAmount(ctx context.Context, memberID string) (float64, error) {
	if err := r.wait(ctx); err != nil {
		return 0, err
	}
	return r.repo.GetSubscriptionAmount(ctx, memberID)
}

func (r *ThrottledRepository) wait(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}

var _ MemberRepository = (*ThrottledRepository)(nil)
