package usecase

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/downline"
	"github.com/totegamma/chitfund/internal/domain"
	"github.com/totegamma/chitfund/internal/metrics"
	"github.com/totegamma/chitfund/payout"
)

var tracer = otel.Tracer("usecase")

// NetworkUsecase runs the downline, step and payout pipeline for one root
// against the member repository.
type NetworkUsecase struct {
	repo  MemberRepository
	cache Cache
	ttl   time.Duration
	calc  *payout.Calculator
	log   *slog.Logger
}

// NewNetworkUsecase wires the pipeline. cache may be nil to disable caching.
func NewNetworkUsecase(repo MemberRepository, cache Cache, ttl time.Duration, calc *payout.Calculator, log *slog.Logger) *NetworkUsecase {
	if log == nil {
		log = slog.Default()
	}
	if calc == nil {
		calc = payout.NewCalculator(nil)
	}
	return &NetworkUsecase{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		calc:  calc,
		log:   log,
	}
}

func (uc *NetworkUsecase) ComputeDownline(ctx context.Context, rootID string) ([]chitfund.DownlineEntry, error) {
	ctx, span := tracer.Start(ctx, "Network.Usecase.ComputeDownline")
	defer span.End()
	span.SetAttributes(attribute.String("RootID", rootID))

	key := domain.DownlineCachePrefix + rootID
	var cached []chitfund.DownlineEntry
	if uc.lookup(ctx, key, &cached) {
		metrics.DownlineComputationsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}

	entries, err := downline.Compute(ctx, rootID, uc.repo)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to compute downline of %s: %w", rootID, err)
	}
	metrics.DownlineComputationsTotal.WithLabelValues("miss").Inc()
	metrics.DownlineSize.Observe(float64(len(entries)))
	span.SetAttributes(attribute.Int("DownlineSize", len(entries)))

	uc.store(ctx, key, entries)
	uc.log.Debug("computed downline", "root", rootID, "size", len(entries))
	return entries, nil
}

// AssignSteps places the root's downline on steps in join order.
func (uc *NetworkUsecase) AssignSteps(ctx context.Context, rootID string) (map[string]downline.Assignment, error) {
	entries, err := uc.ComputeDownline(ctx, rootID)
	if err != nil {
		return nil, err
	}
	return downline.AssignSteps(downline.SortByJoin(entries)), nil
}

func (uc *NetworkUsecase) StepCounts(ctx context.Context, rootID string) ([]int, error) {
	assignments, err := uc.AssignSteps(ctx, rootID)
	if err != nil {
		return nil, err
	}
	return downline.StepCounts(assignments), nil
}

// Tree returns the root's downline as a nested referral tree.
func (uc *NetworkUsecase) Tree(ctx context.Context, rootID string) (downline.Node, error) {
	entries, err := uc.ComputeDownline(ctx, rootID)
	if err != nil {
		return downline.Node{}, err
	}
	assignments := downline.AssignSteps(downline.SortByJoin(entries))
	return downline.BuildTree(chitfund.DownlineEntry{ID: rootID}, entries, assignments)
}

// ResolveTier classifies the member by current subscription amount.
func (uc *NetworkUsecase) ResolveTier(ctx context.Context, memberID string) (payout.Tier, float64, error) {
	ctx, span := tracer.Start(ctx, "Network.Usecase.ResolveTier")
	defer span.End()

	amount, err := uc.repo.GetSubscriptionAmount(ctx, memberID)
	if err != nil {
		span.RecordError(err)
		return payout.Tier{}, 0, fmt.Errorf("failed to get subscription of %s: %w", memberID, err)
	}
	return payout.ResolveTier(amount), amount, nil
}

func (uc *NetworkUsecase) ComputePayout(baseRate float64, maxSteps int) (payout.Result, error) {
	return uc.calc.Calculate(baseRate, maxSteps)
}

// ComputePayoutFromActualCounts pays baseRate on the given step counts.
// Results are cached by rate and counts, so a hit carries the
// Metadata.CalculatedAt of the call that first computed it; totals are
// unaffected.
func (uc *NetworkUsecase) ComputePayoutFromActualCounts(ctx context.Context, baseRate float64, counts []int) (payout.Result, error) {
	key := countsKey(baseRate, counts)
	var cached payout.Result
	if uc.lookup(ctx, key, &cached) {
		return cached, nil
	}

	result, err := uc.calc.CalculateWithActualCounts(baseRate, counts)
	if err != nil {
		return payout.Result{}, err
	}
	uc.store(ctx, key, result)
	return result, nil
}

// MemberPayout resolves the member's tier and pays it on the actual step
// populations of its downline.
func (uc *NetworkUsecase) MemberPayout(ctx context.Context, memberID string) (domain.MemberPayout, error) {
	ctx, span := tracer.Start(ctx, "Network.Usecase.MemberPayout")
	defer span.End()
	span.SetAttributes(attribute.String("MemberID", memberID))

	tier, amount, err := uc.ResolveTier(ctx, memberID)
	if err != nil {
		return domain.MemberPayout{}, err
	}

	assignments, err := uc.AssignSteps(ctx, memberID)
	if err != nil {
		return domain.MemberPayout{}, err
	}
	counts := downline.StepCounts(assignments)

	result, err := uc.ComputePayoutFromActualCounts(ctx, tier.BaseRate, counts)
	if err != nil {
		span.RecordError(err)
		return domain.MemberPayout{}, err
	}

	return domain.MemberPayout{
		MemberID:     memberID,
		Amount:       amount,
		Tier:         tier,
		DownlineSize: len(assignments),
		StepCounts:   counts,
		Payout:       result,
	}, nil
}

// Invalidate drops the cached downline of rootID.
func (uc *NetworkUsecase) Invalidate(ctx context.Context, rootID string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Delete(ctx, domain.DownlineCachePrefix+rootID)
}

func (uc *NetworkUsecase) lookup(ctx context.Context, key string, dst any) bool {
	if uc.cache == nil {
		return false
	}
	raw, found, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn("cache get failed", "key", key, "error", err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		uc.log.Warn("cache entry undecodable", "key", key, "error", err)
		return false
	}
	return true
}

func (uc *NetworkUsecase) store(ctx context.Context, key string, value any) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		uc.log.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
		uc.log.Warn("cache set failed", "key", key, "error", err)
	}
}

// countsKey hashes a base rate and count vector into a cache key.
func countsKey(baseRate float64, counts []int) string {
	buf := make([]byte, 8, 8*(len(counts)+1))
	binary.LittleEndian.PutUint64(buf, math.Float64bits(baseRate))
	for _, c := range counts {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(c))
	}
	return domain.PayoutCachePrefix + strconv.FormatUint(xxh3.Hash(buf), 16)
}
