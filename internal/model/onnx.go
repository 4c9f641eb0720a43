package model

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var ortInit sync.Once

// ONNXNetwork serves a model exported to ONNX through onnxruntime. Input
// and output tensors are allocated once and reused across calls, so a
// mutex serializes Predict; the runtime environment is initialized once
// per process and left up for its lifetime.
type ONNXNetwork struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	inSize       int
	outSize      int
	closed       bool
}

// NewONNXNetwork opens the ONNX model at path with the given input and
// output sizes (batch size is fixed at 1). Partially constructed tensors
// are destroyed on every failure path.
func NewONNXNetwork(path string, inputSize, outputSize int) (*ONNXNetwork, error) {
	var initErr error
	ortInit.Do(func() {
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return nil, fmt.Errorf("initialize onnx environment: %w", initErr)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(inputSize)))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(outputSize)))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(path,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ONNXNetwork{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		inSize:       inputSize,
		outSize:      outputSize,
	}, nil
}

func (n *ONNXNetwork) InputSize() int  { return n.inSize }
func (n *ONNXNetwork) OutputSize() int { return n.outSize }

// Predict copies the features into the session's input tensor, runs it
// and copies the probabilities back out as float64.
func (n *ONNXNetwork) Predict(ctx context.Context, features []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(features) != n.inSize {
		return nil, fmt.Errorf("feature vector has %d entries, network expects %d", len(features), n.inSize)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, fmt.Errorf("onnx session is closed")
	}

	input := n.inputTensor.GetData()
	for i, v := range features {
		input[i] = float32(v)
	}

	if err := n.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	output := n.outputTensor.GetData()
	probabilities := make([]float64, len(output))
	for i, v := range output {
		probabilities[i] = float64(v)
	}
	return probabilities, nil
}

// Close destroys the session and its tensors. Safe to call once; further
// Predict calls fail cleanly.
func (n *ONNXNetwork) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	if n.session != nil {
		n.session.Destroy()
	}
	if n.inputTensor != nil {
		n.inputTensor.Destroy()
	}
	if n.outputTensor != nil {
		n.outputTensor.Destroy()
	}
}
