package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/internal/domain"
)

var epoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type mockMemberRepo struct {
	mu            sync.Mutex
	members       []chitfund.Member
	subscriptions map[string]float64
	failOn        map[string]error
	listCalls     int
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{
		subscriptions: map[string]float64{},
		failOn:        map[string]error{},
	}
}

func (m *mockMemberRepo) add(id, referrer string, amount float64) {
	ref := referrer
	m.members = append(m.members, chitfund.Member{
		ID:         id,
		JoinedAt:   epoch.Add(time.Duration(len(m.members)) * time.Hour),
		ReferrerID: &ref,
	})
	if amount > 0 {
		m.subscriptions[id] = amount
	}
}

func (m *mockMemberRepo) ListChildren(ctx context.Context, parentIDs []string) ([]chitfund.DownlineEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	for _, id := range parentIDs {
		if err, ok := m.failOn[id]; ok {
			return nil, err
		}
	}
	result := []chitfund.DownlineEntry{}
	for _, member := range m.members {
		if member.ReferrerID != nil && slices.Contains(parentIDs, *member.ReferrerID) {
			result = append(result, chitfund.DownlineEntry{ID: member.ID, JoinedAt: member.JoinedAt, ReferrerID: *member.ReferrerID})
		}
	}
	return result, nil
}

func (m *mockMemberRepo) GetSubscriptionAmount(ctx context.Context, memberID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	amount, ok := m.subscriptions[memberID]
	if !ok {
		return 0, domain.NotFoundError{Resource: "subscription"}
	}
	return amount, nil
}

func (m *mockMemberRepo) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, errors.New("cache unavailable")
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

type mockPublisher struct {
	summaries []domain.ReportSummary
	err       error
}

func (m *mockPublisher) PublishReport(ctx context.Context, summary domain.ReportSummary) error {
	m.summaries = append(m.summaries, summary)
	return m.err
}
