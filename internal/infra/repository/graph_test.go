package repository

import (
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/chitfund/internal/domain"
)

func TestDecodeChild(t *testing.T) {
	joined := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	record := &neo4j.Record{
		Keys:   []string{"id", "joinedAt", "referrerId"},
		Values: []any{"m2", joined, "m1"},
	}

	entry, err := decodeChild(record)
	require.NoError(t, err)
	require.Equal(t, "m2", entry.ID)
	require.Equal(t, "m1", entry.ReferrerID)
	require.True(t, joined.Equal(entry.JoinedAt))
}

func TestDecodeChild_MissingJoinedAt(t *testing.T) {
	record := &neo4j.Record{
		Keys:   []string{"id", "joinedAt", "referrerId"},
		Values: []any{"m2", nil, "m1"},
	}

	entry, err := decodeChild(record)
	require.NoError(t, err)
	require.True(t, entry.JoinedAt.IsZero())
}

func TestDecodeChild_BadID(t *testing.T) {
	record := &neo4j.Record{
		Keys:   []string{"id", "joinedAt", "referrerId"},
		Values: []any{int64(7), time.Now(), "m1"},
	}

	_, err := decodeChild(record)
	require.Error(t, err)
}

func TestDecodeAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    float64
		wantErr error
	}{
		{name: "float", value: 75_000.5, want: 75_000.5},
		{name: "integer", value: int64(50_000), want: 50_000},
		{name: "null", value: nil, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &neo4j.Record{Keys: []string{"amount"}, Values: []any{tt.value}}
			got, err := decodeAmount(record)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := decodeAmount(&neo4j.Record{Keys: []string{"amount"}, Values: []any{"lots"}})
	require.Error(t, err)
}
