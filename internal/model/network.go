package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Network is the forward-pass backend behind an Artifact. Implementations
// must be deterministic (identical input, identical output) and safe for
// concurrent Predict calls on an immutable artifact.
type Network interface {
	// Predict runs one standardized feature vector through the network
	// and returns the class probability vector.
	Predict(ctx context.Context, features []float64) ([]float64, error)
	InputSize() int
	OutputSize() int
	// Close releases native resources. A no-op for pure-Go backends.
	Close()
}

// denseLayerSpec is one fully-connected layer as stored in model.json.
// Weights are row-major: weights[i][j] multiplies input j into output i.
type denseLayerSpec struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

type denseNetworkSpec struct {
	Layers []denseLayerSpec `json:"layers"`
}

type denseLayer struct {
	weights    *mat.Dense
	bias       *mat.VecDense
	activation string
}

// DenseNetwork is the default backend: a fully-connected network with
// topology and weights read from model.json, evaluated with gonum. It has
// no native buffers, so Close is a no-op and Predict allocates nothing
// that outlives the call.
type DenseNetwork struct {
	layers  []denseLayer
	inSize  int
	outSize int
}

// ParseDenseNetwork builds a DenseNetwork from the raw model.json bytes.
// Layer shapes are chained and validated here so a structurally broken
// model fails at load, not at first prediction.
func ParseDenseNetwork(data []byte) (*DenseNetwork, error) {
	var spec denseNetworkSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse model definition: %w", err)
	}
	if len(spec.Layers) == 0 {
		return nil, fmt.Errorf("model definition has no layers")
	}

	network := &DenseNetwork{layers: make([]denseLayer, 0, len(spec.Layers))}
	prevOut := -1
	for i, layer := range spec.Layers {
		rows := len(layer.Weights)
		if rows == 0 {
			return nil, fmt.Errorf("layer %d has no weights", i)
		}
		cols := len(layer.Weights[0])
		flat := make([]float64, 0, rows*cols)
		for r, row := range layer.Weights {
			if len(row) != cols {
				return nil, fmt.Errorf("layer %d row %d has %d columns, want %d", i, r, len(row), cols)
			}
			flat = append(flat, row...)
		}
		if len(layer.Bias) != rows {
			return nil, fmt.Errorf("layer %d bias has %d entries, want %d", i, len(layer.Bias), rows)
		}
		if prevOut != -1 && cols != prevOut {
			return nil, fmt.Errorf("layer %d expects %d inputs, previous layer outputs %d", i, cols, prevOut)
		}
		if i == 0 {
			network.inSize = cols
		}
		prevOut = rows

		bias := make([]float64, rows)
		copy(bias, layer.Bias)
		network.layers = append(network.layers, denseLayer{
			weights:    mat.NewDense(rows, cols, flat),
			bias:       mat.NewVecDense(rows, bias),
			activation: layer.Activation,
		})
	}
	network.outSize = prevOut
	return network, nil
}

func (n *DenseNetwork) InputSize() int  { return n.inSize }
func (n *DenseNetwork) OutputSize() int { return n.outSize }

// Close implements Network; the dense backend holds no native resources.
func (n *DenseNetwork) Close() {}

// Predict runs the forward pass. The context is only consulted up front:
// the pass itself is a handful of small matrix products and does not
// block.
func (n *DenseNetwork) Predict(ctx context.Context, features []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(features) != n.inSize {
		return nil, fmt.Errorf("feature vector has %d entries, network expects %d", len(features), n.inSize)
	}

	x := mat.NewVecDense(len(features), append([]float64(nil), features...))
	for i, layer := range n.layers {
		rows, _ := layer.weights.Dims()
		y := mat.NewVecDense(rows, nil)
		y.MulVec(layer.weights, x)
		y.AddVec(y, layer.bias)
		if err := applyActivation(layer.activation, y.RawVector().Data); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		x = y
	}

	out := make([]float64, x.Len())
	copy(out, x.RawVector().Data)
	return out, nil
}

func applyActivation(name string, v []float64) error {
	switch name {
	case "", "linear":
	case "relu":
		for i, x := range v {
			if x < 0 {
				v[i] = 0
			}
		}
	case "tanh":
		for i, x := range v {
			v[i] = math.Tanh(x)
		}
	case "sigmoid":
		for i, x := range v {
			v[i] = 1 / (1 + math.Exp(-x))
		}
	case "softmax":
		// Shift by the max for numerical stability.
		max := floats.Max(v)
		for i, x := range v {
			v[i] = math.Exp(x - max)
		}
		sum := floats.Sum(v)
		floats.Scale(1/sum, v)
	default:
		return fmt.Errorf("unsupported activation %q", name)
	}
	return nil
}
