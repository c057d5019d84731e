package utils

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/totegamma/chitfund/downline"
)

// OrderedKV is a value with its position in an OrderedKVMap.
type OrderedKV[T any] struct {
	Value T
	Order int64
}

// OrderedKVMap marshals to a JSON object whose keys follow Order instead of
// the lexical order encoding/json would use. Ties fall back to the key.
type OrderedKVMap[T any] map[string]OrderedKV[T]

func (om OrderedKVMap[T]) MarshalJSON() ([]byte, error) {
	type pair struct {
		key   string
		value T
		order int64
	}
	pairs := make([]pair, 0, len(om))
	for k, v := range om {
		pairs = append(pairs, pair{
			key:   k,
			value: v.Value,
			order: v.Order,
		})
	}

	slices.SortFunc(pairs, func(a, b pair) int {
		if a.order != b.order {
			if a.order < b.order {
				return -1
			}
			return 1
		}
		return strings.Compare(a.key, b.key)
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := json.Marshal(p.key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valueBytes, err := json.Marshal(p.value)
		if err != nil {
			return nil, err
		}
		buf.Write(valueBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StepMap renders member -> step in join order.
func StepMap(assignments map[string]downline.Assignment) OrderedKVMap[int] {
	om := make(OrderedKVMap[int], len(assignments))
	for i, a := range downline.Ordered(assignments) {
		om[a.ID] = OrderedKV[int]{Value: a.Step, Order: int64(i)}
	}
	return om
}
