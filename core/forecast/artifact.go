package forecast

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cedricly/demandcast/core/feature"
)

// Quality carries the training metrics stored in the artifact. They
// are opaque metadata for display, never asserted on at runtime.
type Quality struct {
	R2   float64 `json:"r2"`
	RMSE float64 `json:"rmse"`
}

// Artifact is the on-disk model file written by the training pipeline:
// the feature schema, optional normalization constants and training
// ranges, and the parameters of exactly one model kind.
type Artifact struct {
	Name          string                   `json:"name"`
	Kind          string                   `json:"kind"` // "linear" or "trees"
	Schema        feature.Schema           `json:"schema"`
	Normalization map[string]feature.Norm  `json:"normalization,omitempty"`
	Ranges        map[string]feature.Range `json:"ranges,omitempty"`
	Linear        *LinearParams            `json:"linear,omitempty"`
	Trees         *EnsembleParams          `json:"trees,omitempty"`
	Quality       Quality                  `json:"quality"`
}

// LinearParams holds a fitted linear regression.
type LinearParams struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// EnsembleParams holds a fitted oblivious-tree ensemble.
type EnsembleParams struct {
	Bias  float64 `json:"bias"`
	Trees []Tree  `json:"trees"`
}

// Tree is one oblivious tree: every node on the same level shares a
// split, so depth d trees carry d splits and 2^d leaf values.
type Tree struct {
	Splits []Split   `json:"splits"`
	Leaves []float64 `json:"leaves"`
}

// Split compares one named feature against a threshold.
type Split struct {
	Feature   string  `json:"feature"`
	Threshold float64 `json:"threshold"`
}

// ReadArtifact decodes and validates the artifact file at path.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w: %v", path, ErrModelLoad, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w: %v", path, ErrModelLoad, err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if len(a.Schema) == 0 {
		return fmt.Errorf("artifact has no schema: %w", ErrModelLoad)
	}
	switch a.Kind {
	case "linear":
		if a.Linear == nil {
			return fmt.Errorf("linear artifact without parameters: %w", ErrModelLoad)
		}
		if got, want := len(a.Linear.Coefficients), len(a.Schema); got != want {
			return fmt.Errorf("%d coefficients for %d features: %w", got, want, ErrModelLoad)
		}
	case "trees":
		if a.Trees == nil || len(a.Trees.Trees) == 0 {
			return fmt.Errorf("tree artifact without trees: %w", ErrModelLoad)
		}
		idx := indexSchema(a.Schema)
		for ti, t := range a.Trees.Trees {
			if len(t.Leaves) != 1<<len(t.Splits) {
				return fmt.Errorf("tree %d: %d leaves for depth %d: %w", ti, len(t.Leaves), len(t.Splits), ErrModelLoad)
			}
			for _, s := range t.Splits {
				if _, ok := idx[s.Feature]; !ok {
					return fmt.Errorf("tree %d splits on unknown feature %q: %w", ti, s.Feature, ErrModelLoad)
				}
			}
		}
	default:
		return fmt.Errorf("unknown model kind %q: %w", a.Kind, ErrModelLoad)
	}
	return nil
}

// Model builds the inference function described by the artifact.
func (a *Artifact) Model() (Model, error) {
	switch a.Kind {
	case "linear":
		return newLinearModel(a)
	case "trees":
		return newTreeModel(a)
	}
	return nil, fmt.Errorf("unknown model kind %q: %w", a.Kind, ErrModelLoad)
}

// Encoder builds the feature encoder matching the artifact schema.
func (a *Artifact) Encoder() (*feature.Encoder, error) {
	enc, err := feature.NewEncoder(a.Schema, a.Normalization, a.Ranges)
	if err != nil {
		return nil, fmt.Errorf("artifact schema: %w: %v", ErrModelLoad, err)
	}
	return enc, nil
}

func indexSchema(s feature.Schema) map[string]int {
	m := make(map[string]int, len(s))
	for i, n := range s {
		m[n] = i
	}
	return m
}
