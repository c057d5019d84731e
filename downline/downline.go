// Package downline walks a referral graph and places the discovered members
// on the steps of the ternary capacity model.
package downline

import (
	"context"
	"fmt"

	"github.com/totegamma/chitfund"
)

// ChildLister returns every member whose referrer is one of parentIDs.
// Implementations must answer a whole frontier in one call.
type ChildLister interface {
	ListChildren(ctx context.Context, parentIDs []string) ([]chitfund.DownlineEntry, error)
}

// ListerFunc adapts a function to ChildLister.
type ListerFunc func(ctx context.Context, parentIDs []string) ([]chitfund.DownlineEntry, error)

func (f ListerFunc) ListChildren(ctx context.Context, parentIDs []string) ([]chitfund.DownlineEntry, error) {
	return f(ctx, parentIDs)
}

// Compute returns the downline of rootID in breadth-first discovery order.
// The root is never part of the result and every member appears once, even
// when the graph holds cycles or self referrals. An unknown root yields an
// empty downline.
func Compute(ctx context.Context, rootID string, lister ChildLister) ([]chitfund.DownlineEntry, error) {

	// the root is seeded as visited, so a root that refers to itself is
	// never discovered again as its own child.
	visited := map[string]struct{}{rootID: {}}
	frontier := []string{rootID}
	result := []chitfund.DownlineEntry{}

	for depth := 1; len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		children, err := lister.ListChildren(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("failed to list children at depth %d: %w", depth, err)
		}

		next := make([]string, 0, len(children))
		for _, child := range children {
			if _, ok := visited[child.ID]; ok {
				continue
			}
			visited[child.ID] = struct{}{}
			result = append(result, child)
			next = append(next, child.ID)
		}

		frontier = next
	}

	return result, nil
}
