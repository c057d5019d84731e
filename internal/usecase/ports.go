package usecase

import (
	"context"
	"time"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/internal/domain"
)

// MemberRepository is the read side of the referral graph snapshot.
type MemberRepository interface {
	// ListChildren returns every member referred by one of parentIDs.
	ListChildren(ctx context.Context, parentIDs []string) ([]chitfund.DownlineEntry, error)
	// GetSubscriptionAmount returns the member's current subscription amount.
	GetSubscriptionAmount(ctx context.Context, memberID string) (float64, error)
}

// Cache keeps computed results between calls. It is owned by the caller;
// entries expire after ttl and can be dropped explicitly.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ReportPublisher announces finished batch reports.
type ReportPublisher interface {
	PublishReport(ctx context.Context, summary domain.ReportSummary) error
}
