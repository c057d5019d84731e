package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/internal/domain"
	"github.com/totegamma/chitfund/internal/metrics"
)

const defaultReportWorkers = 4

// ReportUsecase computes payouts for many members in one run.
type ReportUsecase struct {
	network   *NetworkUsecase
	publisher ReportPublisher
	workers   int
	clock     clockwork.Clock
	log       *slog.Logger
}

// NewReportUsecase builds a report runner. publisher may be nil.
func NewReportUsecase(network *NetworkUsecase, publisher ReportPublisher, workers int, clock clockwork.Clock, log *slog.Logger) *ReportUsecase {
	if workers <= 0 {
		workers = defaultReportWorkers
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReportUsecase{
		network:   network,
		publisher: publisher,
		workers:   workers,
		clock:     clock,
		log:       log,
	}
}

// Build computes every member's payout on a bounded worker pool. A member
// whose payout fails is recorded as skipped and the rest of the batch
// continues; only cancellation of ctx aborts the report.
func (uc *ReportUsecase) Build(ctx context.Context, memberIDs []string) (domain.Report, error) {
	ctx, span := tracer.Start(ctx, "Report.Usecase.Build")
	defer span.End()
	span.SetAttributes(attribute.Int("Members", len(memberIDs)))

	if len(memberIDs) == 0 {
		return domain.Report{}, chitfund.NewInvalidInput("members", "must not be empty")
	}

	start := uc.clock.Now()
	items := make([]domain.ReportItem, len(memberIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, memberID := range memberIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = uc.buildItem(gctx, memberID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return domain.Report{}, fmt.Errorf("report aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Report{}, fmt.Errorf("report aborted: %w", err)
	}

	report := domain.Report{
		ID:          uuid.NewString(),
		GeneratedAt: uc.clock.Now().UTC(),
		Items:       items,
		TotalPayout: decimal.Zero,
	}
	for _, item := range items {
		if item.Status == domain.ReportItemSkipped {
			report.Skipped++
			continue
		}
		report.Processed++
		report.TotalPayout = report.TotalPayout.Add(item.TotalPayout)
	}
	report.TotalPayout = report.TotalPayout.Round(2)

	metrics.ReportDuration.Observe(uc.clock.Since(start).Seconds())
	uc.log.Info("built payout report",
		"report", report.ID,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"total", report.TotalPayout.StringFixed(2),
		"duration", uc.clock.Since(start).Round(time.Millisecond),
	)

	if uc.publisher != nil {
		if err := uc.publisher.PublishReport(ctx, report.Summary()); err != nil {
			uc.log.Warn("failed to publish report summary", "report", report.ID, "error", err)
		}
	}

	return report, nil
}

func (uc *ReportUsecase) buildItem(ctx context.Context, memberID string) domain.ReportItem {
	result, err := uc.network.MemberPayout(ctx, memberID)
	if err != nil {
		uc.log.Warn("skipping member in report", "member", memberID, "error", err)
		metrics.ReportItemsTotal.WithLabelValues(string(domain.ReportItemSkipped)).Inc()
		return domain.ReportItem{
			MemberID:    memberID,
			Status:      domain.ReportItemSkipped,
			TotalPayout: decimal.Zero,
			Error:       err.Error(),
		}
	}

	metrics.ReportItemsTotal.WithLabelValues(string(domain.ReportItemOK)).Inc()
	return domain.ReportItem{
		MemberID:     memberID,
		Status:       domain.ReportItemOK,
		Tier:         result.Tier.Name,
		BaseRate:     result.Tier.BaseRate,
		DownlineSize: result.DownlineSize,
		TotalPayout:  decimal.NewFromFloat(result.Payout.TotalPayout).Round(2),
	}
}
