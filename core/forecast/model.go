package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cedricly/demandcast/core/feature"
)

// Model is the black-box numeric function loaded from the artifact:
// deterministic, pure, same vector in, same value out.
type Model interface {
	Name() string
	Schema() feature.Schema
	Predict(v feature.Vector) (float64, error)
}

type linearModel struct {
	name      string
	schema    feature.Schema
	intercept float64
	coefs     *mat.VecDense
}

func newLinearModel(a *Artifact) (Model, error) {
	return &linearModel{
		name:      a.Name,
		schema:    a.Schema,
		intercept: a.Linear.Intercept,
		coefs:     mat.NewVecDense(len(a.Linear.Coefficients), a.Linear.Coefficients),
	}, nil
}

func (m *linearModel) Name() string           { return m.name }
func (m *linearModel) Schema() feature.Schema { return m.schema }

// Predict computes the dot product plus intercept.
func (m *linearModel) Predict(v feature.Vector) (float64, error) {
	if len(v.Values) != m.coefs.Len() {
		return 0, fmt.Errorf("vector has %d values, model expects %d: %w", len(v.Values), m.coefs.Len(), feature.ErrSchemaMismatch)
	}
	x := mat.NewVecDense(len(v.Values), v.Values)
	return m.intercept + mat.Dot(m.coefs, x), nil
}

type treeModel struct {
	name   string
	schema feature.Schema
	bias   float64
	trees  []compiledTree
}

type compiledTree struct {
	features   []int
	thresholds []float64
	leaves     []float64
}

func newTreeModel(a *Artifact) (Model, error) {
	idx := indexSchema(a.Schema)
	trees := make([]compiledTree, len(a.Trees.Trees))
	for i, t := range a.Trees.Trees {
		ct := compiledTree{
			features:   make([]int, len(t.Splits)),
			thresholds: make([]float64, len(t.Splits)),
			leaves:     t.Leaves,
		}
		for j, s := range t.Splits {
			ct.features[j] = idx[s.Feature]
			ct.thresholds[j] = s.Threshold
		}
		trees[i] = ct
	}
	return &treeModel{name: a.Name, schema: a.Schema, bias: a.Trees.Bias, trees: trees}, nil
}

func (m *treeModel) Name() string           { return m.name }
func (m *treeModel) Schema() feature.Schema { return m.schema }

// Predict sums the leaf values selected by each oblivious tree. Level
// j contributes bit j of the leaf index when the feature exceeds its
// threshold.
func (m *treeModel) Predict(v feature.Vector) (float64, error) {
	if len(v.Values) != len(m.schema) {
		return 0, fmt.Errorf("vector has %d values, model expects %d: %w", len(v.Values), len(m.schema), feature.ErrSchemaMismatch)
	}
	sum := m.bias
	for _, t := range m.trees {
		leaf := 0
		for j := range t.features {
			if v.Values[t.features[j]] > t.thresholds[j] {
				leaf |= 1 << j
			}
		}
		sum += t.leaves[leaf]
	}
	return sum, nil
}
