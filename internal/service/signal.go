package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/totegamma/chitfund/internal/domain"
)

const DefaultReportChannel = "chitfund:reports"

// SignalService announces finished reports on a redis pub/sub channel.
type SignalService struct {
	rdb     *redis.Client
	channel string
}

func NewSignalService(redisClient *redis.Client, channel string) *SignalService {
	if channel == "" {
		channel = DefaultReportChannel
	}
	return &SignalService{
		rdb:     redisClient,
		channel: channel,
	}
}

func (s *SignalService) PublishReport(ctx context.Context, summary domain.ReportSummary) error {

	jsonstr, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, s.channel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}
