package artifact

import (
	"context"
	"fmt"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// KindForest selects a RandomForestClassifier export.
const KindForest = "forest"

const leafNode = -1

var _ driven.Classifier = (*RandomForest)(nil)

// Tree mirrors the arrays of a fitted sklearn tree_. Value holds one row
// of class weights per node.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// RandomForest averages the leaf class distributions of its trees.
type RandomForest struct {
	classes   []string
	trees     []Tree
	nFeatures int
}

// NewRandomForest validates the trees and creates a forest classifier.
func NewRandomForest(classes []string, nFeatures int, trees []Tree) (*RandomForest, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: forest needs at least 2 classes, got %d", domain.ErrInvalidArtifact, len(classes))
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", domain.ErrInvalidArtifact)
	}
	if nFeatures <= 0 {
		return nil, fmt.Errorf("%w: forest n_features must be positive", domain.ErrInvalidArtifact)
	}
	for i, t := range trees {
		if err := t.validate(len(classes), nFeatures); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %w", domain.ErrInvalidArtifact, i, err)
		}
	}
	return &RandomForest{classes: classes, trees: trees, nFeatures: nFeatures}, nil
}

func (t Tree) validate(nClasses, nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for node := range n {
		left, right := t.ChildrenLeft[node], t.ChildrenRight[node]
		if len(t.Value[node]) != nClasses {
			return fmt.Errorf("node %d has %d class values, expected %d", node, len(t.Value[node]), nClasses)
		}
		if left == leafNode {
			if right != leafNode {
				return fmt.Errorf("node %d has only one child", node)
			}
			continue
		}
		// Children always follow their parent in sklearn's layout
		if left <= node || left >= n || right <= node || right >= n {
			return fmt.Errorf("node %d has children out of range", node)
		}
		if f := t.Feature[node]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d", node, f)
		}
	}
	return nil
}

// leaf walks x down to its leaf; x <= threshold goes left. Features are
// compared at float32 precision, as the trees were fitted.
func (t Tree) leaf(x []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if float64(float32(x[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// Kind returns "forest".
func (m *RandomForest) Kind() string { return KindForest }

// Classes returns the class labels.
func (m *RandomForest) Classes() []string { return m.classes }

// Predict returns the most probable class of each row.
func (m *RandomForest) Predict(ctx context.Context, x domain.FeatureMatrix) ([]string, error) {
	proba, err := m.PredictProba(ctx, x)
	if err != nil {
		return nil, err
	}
	return argmaxLabels(m.classes, proba), nil
}

// PredictProba returns the mean normalised leaf distribution for each row.
func (m *RandomForest) PredictProba(ctx context.Context, x domain.FeatureMatrix) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := checkWidth(row, m.nFeatures, "RandomForestClassifier"); err != nil {
			return nil, err
		}
		proba := make([]float64, len(m.classes))
		for _, t := range m.trees {
			value := t.leaf(row)
			var total float64
			for _, v := range value {
				total += v
			}
			if total == 0 {
				continue
			}
			for k, v := range value {
				proba[k] += v / total
			}
		}
		for k := range proba {
			proba[k] /= float64(len(m.trees))
		}
		out[i] = proba
	}
	return out, nil
}
