package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/totegamma/chitfund/downline"
)

func TestOrderedKVMap_MarshalJSON(t *testing.T) {
	om := OrderedKVMap[string]{
		"z": {Value: "first", Order: 0},
		"a": {Value: "second", Order: 1},
		"m": {Value: "third", Order: 2},
	}

	b, err := json.Marshal(om)
	require.NoError(t, err)
	require.Equal(t, `{"z":"first","a":"second","m":"third"}`, string(b))
}

func TestOrderedKVMap_Empty(t *testing.T) {
	b, err := json.Marshal(OrderedKVMap[int]{})
	require.NoError(t, err)
	require.Equal(t, `{}`, string(b))
}

func TestStepMap(t *testing.T) {
	assignments := map[string]downline.Assignment{
		"late":  {ID: "late", Step: 2, JoinOrder: 3},
		"early": {ID: "early", Step: 1, JoinOrder: 0},
		"mid":   {ID: "mid", Step: 1, JoinOrder: 1},
	}

	b, err := json.Marshal(StepMap(assignments))
	require.NoError(t, err)
	require.Equal(t, `{"early":1,"mid":1,"late":2}`, string(b))
}
