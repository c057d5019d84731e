package downline

import (
	"errors"
	"time"

	"github.com/totegamma/chitfund"
)

// MaxTreeDepth bounds the recursion of BuildTree.
const MaxTreeDepth = 512

var ErrTreeTooDeep = errors.New("downline tree exceeds maximum depth")

// Node is one member of a referral tree together with its step.
type Node struct {
	ID       string    `json:"id"`
	JoinedAt time.Time `json:"joinedAt"`
	Step     int       `json:"step"`
	Children []Node    `json:"children,omitempty"`
}

// BuildTree arranges a computed downline under root. Entries are grouped by
// ReferrerID; siblings keep their discovery order. Members missing from
// assignments keep step 0.
func BuildTree(root chitfund.DownlineEntry, entries []chitfund.DownlineEntry, assignments map[string]Assignment) (Node, error) {
	children := make(map[string][]chitfund.DownlineEntry)
	for _, e := range entries {
		if e.ID == e.ReferrerID {
			continue
		}
		children[e.ReferrerID] = append(children[e.ReferrerID], e)
	}

	seen := map[string]struct{}{root.ID: {}}

	var build func(entry chitfund.DownlineEntry, step, depth int) (Node, error)
	build = func(entry chitfund.DownlineEntry, step, depth int) (Node, error) {
		if depth > MaxTreeDepth {
			return Node{}, ErrTreeTooDeep
		}
		node := Node{ID: entry.ID, JoinedAt: entry.JoinedAt, Step: step}
		for _, child := range children[entry.ID] {
			if _, ok := seen[child.ID]; ok {
				continue
			}
			seen[child.ID] = struct{}{}
			sub, err := build(child, assignments[child.ID].Step, depth+1)
			if err != nil {
				return Node{}, err
			}
			node.Children = append(node.Children, sub)
		}
		return node, nil
	}

	return build(root, chitfund.RootStep, 0)
}

// Size counts the members below n.
func (n Node) Size() int {
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Size()
	}
	return total
}
