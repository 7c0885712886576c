package model

import (
	"context"
	"fmt"
)

// TreeNode is one node of a flattened decision tree. Internal nodes send x
// left when x[FeatureIdx] <= Threshold.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

// DecisionTree walks a flattened tree rooted at node 0.
type DecisionTree struct {
	nodes       []TreeNode
	numFeatures int
}

// NewDecisionTree checks that every reference in nodes is in range.
func NewDecisionTree(nodes []TreeNode, numFeatures int) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty tree", ErrMalformedArtifact)
	}
	for i, n := range nodes {
		if n.IsLeaf {
			continue
		}
		if n.FeatureIdx < 0 || n.FeatureIdx >= numFeatures {
			return nil, fmt.Errorf("%w: node %d splits on feature %d of %d", ErrMalformedArtifact, i, n.FeatureIdx, numFeatures)
		}
		if !inRange(n.LeftChild, len(nodes)) || !inRange(n.RightChild, len(nodes)) {
			return nil, fmt.Errorf("%w: node %d has a child out of range", ErrMalformedArtifact, i)
		}
	}
	return &DecisionTree{nodes: append([]TreeNode(nil), nodes...), numFeatures: numFeatures}, nil
}

// Leaves returns the distinct class labels found at leaves.
func (t *DecisionTree) Leaves() []int {
	seen := map[int]bool{}
	var out []int
	for _, n := range t.nodes {
		if n.IsLeaf && !seen[n.ClassLabel] {
			seen[n.ClassLabel] = true
			out = append(out, n.ClassLabel)
		}
	}
	return out
}

// Predict implements Classifier.
func (t *DecisionTree) Predict(ctx context.Context, x []float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := checkVector(x, t.numFeatures); err != nil {
		return 0, err
	}
	idx := 0
	// A well formed tree reaches a leaf in fewer steps than it has nodes.
	for steps := 0; steps <= len(t.nodes); steps++ {
		node := t.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nil
		}
		if x[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return 0, fmt.Errorf("%w: cycle detected", ErrTreeWalk)
}

// Kind implements Classifier.
func (t *DecisionTree) Kind() string { return KindDecisionTree }

// NumFeatures implements Classifier.
func (t *DecisionTree) NumFeatures() int { return t.numFeatures }

func inRange(i, n int) bool { return i >= 0 && i < n }
