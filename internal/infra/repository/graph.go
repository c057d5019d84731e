package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/internal/domain"
)

const listChildrenCypher = `
MATCH (p:Member)-[:REFERRED]->(c:Member)
WHERE p.id IN $ids
RETURN c.id AS id, c.joinedAt AS joinedAt, p.id AS referrerId
ORDER BY joinedAt, id`

const subscriptionCypher = `
MATCH (m:Member {id: $id})-[:SUBSCRIBED]->(s:Subscription)
RETURN s.amount AS amount
ORDER BY s.createdAt DESC
LIMIT 1`

// GraphRepository reads the referral graph from neo4j, where referrals are
// (:Member)-[:REFERRED]->(:Member) edges.
type GraphRepository struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewGraphRepository(driver neo4j.DriverWithContext, database string) *GraphRepository {
	return &GraphRepository{driver: driver, database: database}
}

func (r *GraphRepository) ListChildren(ctx context.Context, parentIDs []string) ([]chitfund.DownlineEntry, error) {
	if len(parentIDs) == 0 {
		return []chitfund.DownlineEntry{}, nil
	}

	result, err := neo4j.ExecuteQuery(ctx, r.driver, listChildrenCypher,
		map[string]any{"ids": parentIDs},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.database),
		neo4j.ExecuteQueryWithReadersRouting(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "GraphRepository.ListChildren: query failed")
	}

	entries := make([]chitfund.DownlineEntry, 0, len(result.Records))
	for _, record := range result.Records {
		entry, err := decodeChild(record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *GraphRepository) GetSubscriptionAmount(ctx context.Context, memberID string) (float64, error) {
	result, err := neo4j.ExecuteQuery(ctx, r.driver, subscriptionCypher,
		map[string]any{"id": memberID},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.database),
		neo4j.ExecuteQueryWithReadersRouting(),
	)
	if err != nil {
		return 0, errors.Wrap(err, "GraphRepository.GetSubscriptionAmount: query failed")
	}
	if len(result.Records) == 0 {
		return 0, domain.NotFoundError{Resource: "subscription"}
	}
	return decodeAmount(result.Records[0])
}

func decodeChild(record *neo4j.Record) (chitfund.DownlineEntry, error) {
	id, _, err := neo4j.GetRecordValue[string](record, "id")
	if err != nil {
		return chitfund.DownlineEntry{}, fmt.Errorf("decode child id: %w", err)
	}
	referrer, _, err := neo4j.GetRecordValue[string](record, "referrerId")
	if err != nil {
		return chitfund.DownlineEntry{}, fmt.Errorf("decode referrer of %s: %w", id, err)
	}
	joinedAt, isNil, err := neo4j.GetRecordValue[time.Time](record, "joinedAt")
	if err != nil && !isNil {
		return chitfund.DownlineEntry{}, fmt.Errorf("decode joinedAt of %s: %w", id, err)
	}
	return chitfund.DownlineEntry{ID: id, JoinedAt: joinedAt, ReferrerID: referrer}, nil
}

// amounts may be stored as integers or floats
func decodeAmount(record *neo4j.Record) (float64, error) {
	raw, ok := record.Get("amount")
	if !ok {
		return 0, fmt.Errorf("decode amount: missing column")
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case nil:
		return 0, domain.NotFoundError{Resource: "subscription"}
	default:
		return 0, fmt.Errorf("decode amount: unexpected type %T", raw)
	}
}
