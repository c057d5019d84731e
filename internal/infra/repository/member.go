package repository

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/downline"
	"github.com/totegamma/chitfund/internal/domain"
	"github.com/totegamma/chitfund/internal/infra/database/models"
)

// maxParentBatch keeps one ListChildren query well under the 65535 bind
// parameter limit of postgres.
const maxParentBatch = 10_000

// MemberRepository reads the referral graph and subscriptions from postgres.
type MemberRepository struct {
	db        *gorm.DB
	batchSize int
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db, batchSize: maxParentBatch}
}

// ListChildren returns every member referred by one of parentIDs, ordered
// by join time. Large frontiers are split into batches of batchSize.
func (r *MemberRepository) ListChildren(ctx context.Context, parentIDs []string) ([]chitfund.DownlineEntry, error) {
	if len(parentIDs) == 0 {
		return []chitfund.DownlineEntry{}, nil
	}

	var rows []models.Member
	for batch := range slices.Chunk(parentIDs, r.batchSize) {
		var part []models.Member
		err := r.db.WithContext(ctx).
			Where("referrer_id IN ?", batch).
			Order("joined_at ASC, id ASC").
			Find(&part).Error
		if err != nil {
			return nil, errors.Wrap(err, "MemberRepository.ListChildren: query failed")
		}
		rows = append(rows, part...)
	}

	entries := make([]chitfund.DownlineEntry, 0, len(rows))
	for _, row := range rows {
		if row.ReferrerID == nil {
			continue
		}
		entries = append(entries, chitfund.DownlineEntry{
			ID:         row.ID,
			JoinedAt:   row.JoinedAt,
			ReferrerID: *row.ReferrerID,
		})
	}
	if len(parentIDs) > r.batchSize {
		entries = downline.SortByJoin(entries)
	}
	return entries, nil
}

// GetSubscriptionAmount returns the amount of the member's latest subscription.
func (r *MemberRepository) GetSubscriptionAmount(ctx context.Context, memberID string) (float64, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("c_date DESC, id DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.NotFoundError{Resource: "subscription"}
		}
		return 0, errors.Wrap(err, "MemberRepository.GetSubscriptionAmount: query failed")
	}
	return sub.Amount, nil
}

func (r *MemberRepository) Get(ctx context.Context, memberID string) (chitfund.Member, error) {
	var row models.Member
	err := r.db.WithContext(ctx).Where("id = ?", memberID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chitfund.Member{}, domain.NotFoundError{Resource: "member"}
		}
		return chitfund.Member{}, err
	}
	return chitfund.Member{ID: row.ID, JoinedAt: row.JoinedAt, ReferrerID: row.ReferrerID}, nil
}

// Upsert inserts or replaces a member row.
func (r *MemberRepository) Upsert(ctx context.Context, member chitfund.Member) error {
	return r.db.WithContext(ctx).Save(&models.Member{
		ID:         member.ID,
		ReferrerID: member.ReferrerID,
		JoinedAt:   member.JoinedAt,
	}).Error
}

func (r *MemberRepository) AddSubscription(ctx context.Context, memberID string, amount float64) error {
	if amount < 0 {
		return chitfund.NewInvalidInput("amount", "must not be negative, got %v", amount)
	}
	return r.db.WithContext(ctx).Create(&models.Subscription{
		MemberID: memberID,
		Amount:   amount,
	}).Error
}
