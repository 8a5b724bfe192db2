package churn

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
)

//go:embed model.json
var defaultModelJSON []byte

// Model is a logistic regression over the named features in
// FeatureRecord.vector. The weights live in an embedded JSON artifact so
// a retrained model ships as a data change.
type Model struct {
	Bias    float64            `json:"bias"`
	Weights map[string]float64 `json:"weights"`
}

func LoadDefaultModel() (*Model, error) {
	return loadModel(defaultModelJSON)
}

func loadModel(data []byte) (*Model, error) {
	var m Model

	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing churn model: %w", err)
	}

	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("churn model has no weights")
	}

	return &m, nil
}

// Probability returns the chance of churn in [0, 1]. Features the model
// has no weight for are ignored, so model and code can evolve
// independently.
func (m *Model) Probability(r *FeatureRecord) float64 {
	z := m.Bias

	for name, value := range r.vector() {
		z += m.Weights[name] * value
	}

	return 1 / (1 + math.Exp(-z))
}

// RiskScore maps the churn probability to an integer 0..100.
func (m *Model) RiskScore(r *FeatureRecord) int {
	return int(math.Round(m.Probability(r) * 100))
}
