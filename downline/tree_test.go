package downline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/totegamma/chitfund"
)

func TestBuildTree(t *testing.T) {
	t.Parallel()
	g := &graph{}
	g.add("b", "a", 1)
	g.add("c", "a", 2)
	g.add("d", "b", 3)
	g.add("a", "d", 4)

	entries, err := Compute(context.Background(), "a", g)
	require.NoError(t, err)
	assignments := AssignSteps(SortByJoin(entries))

	tree, err := BuildTree(chitfund.DownlineEntry{ID: "a"}, entries, assignments)
	require.NoError(t, err)

	require.Equal(t, "a", tree.ID)
	require.Equal(t, chitfund.RootStep, tree.Step)
	require.Len(t, tree.Children, 2)
	require.Equal(t, "b", tree.Children[0].ID)
	require.Equal(t, "c", tree.Children[1].ID)
	require.Equal(t, "d", tree.Children[0].Children[0].ID)
	require.Equal(t, 1, tree.Children[0].Children[0].Step)
	require.Equal(t, 3, tree.Size())
}

func TestBuildTree_DepthGuard(t *testing.T) {
	t.Parallel()
	entries := []chitfund.DownlineEntry{}
	parent := "root"
	for i := 0; i <= MaxTreeDepth; i++ {
		id := fmt.Sprintf("m%d", i)
		entries = append(entries, chitfund.DownlineEntry{ID: id, ReferrerID: parent})
		parent = id
	}

	_, err := BuildTree(chitfund.DownlineEntry{ID: "root"}, entries, nil)
	require.ErrorIs(t, err, ErrTreeTooDeep)

	_, err = BuildTree(chitfund.DownlineEntry{ID: "root"}, entries[:MaxTreeDepth], nil)
	require.NoError(t, err)
}
