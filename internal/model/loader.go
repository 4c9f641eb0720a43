package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nutrimood/nutrimood-api/internal/nutrition"
)

// Artifact file names, relative to the base path handed to Load.
const (
	modelFile    = "model.json"
	onnxFile     = "model.onnx"
	metadataFile = "metadata.json"
	foodFile     = "food_data.json"
)

type loaderOptions struct {
	client *http.Client
	onnx   bool
}

// Option configures Load.
type Option func(*loaderOptions)

// WithHTTPClient overrides the client used for HTTP base paths.
func WithHTTPClient(client *http.Client) Option {
	return func(o *loaderOptions) { o.client = client }
}

// WithONNXNetwork loads the network from model.onnx through onnxruntime
// instead of the dense model.json definition. Requires a local base path;
// the runtime opens the model file itself.
func WithONNXNetwork() Option {
	return func(o *loaderOptions) { o.onnx = true }
}

// Load fetches the three artifacts (network definition, metadata, food
// catalog) concurrently from basePath - either a directory or an HTTP
// base URL - validates them, and runs a self-test prediction through the
// real pipeline before returning. Failures wrap ErrModelLoad, except a
// failed self-test which wraps ErrSelfTest; in both cases nothing usable
// is returned and any native resources are released.
//
// Load is a pure constructor: it keeps no package state, so callers load
// once and inject the artifact wherever predictions are made.
func Load(ctx context.Context, basePath string, opts ...Option) (*Artifact, error) {
	options := loaderOptions{client: http.DefaultClient}
	for _, opt := range opts {
		opt(&options)
	}

	remote := strings.HasPrefix(basePath, "http://") || strings.HasPrefix(basePath, "https://")
	if options.onnx && remote {
		return nil, fmt.Errorf("%w: onnx backend requires a local model directory, got %q", ErrModelLoad, basePath)
	}

	var modelData, metadataData, foodData []byte
	group, groupCtx := errgroup.WithContext(ctx)
	if !options.onnx {
		group.Go(func() (err error) {
			modelData, err = fetch(groupCtx, options.client, basePath, modelFile, remote)
			return err
		})
	}
	group.Go(func() (err error) {
		metadataData, err = fetch(groupCtx, options.client, basePath, metadataFile, remote)
		return err
	})
	group.Go(func() (err error) {
		foodData, err = fetch(groupCtx, options.client, basePath, foodFile, remote)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	var metadata Metadata
	if err := json.Unmarshal(metadataData, &metadata); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrModelLoad, metadataFile, err)
	}
	if err := metadata.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelLoad, metadataFile, err)
	}

	var foods []nutrition.FoodItem
	if err := json.Unmarshal(foodData, &foods); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrModelLoad, foodFile, err)
	}
	if len(foods) == 0 {
		log.Warn().Str("base", basePath).Msg("food catalog is empty")
	}

	network, err := buildNetwork(basePath, modelData, metadata, options)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	artifact := &Artifact{
		Network:  network,
		Metadata: metadata,
		Foods:    foods,
	}

	if err := selfTest(ctx, artifact); err != nil {
		artifact.Close()
		return nil, fmt.Errorf("%w: %w", ErrSelfTest, err)
	}

	log.Info().
		Str("base", basePath).
		Strs("classes", metadata.Labels.Classes).
		Int("input_size", metadata.ModelInfo.InputSize).
		Int("foods", len(foods)).
		Bool("onnx", options.onnx).
		Msg("model loaded")

	return artifact, nil
}

func buildNetwork(basePath string, modelData []byte, metadata Metadata, options loaderOptions) (Network, error) {
	if options.onnx {
		return NewONNXNetwork(filepath.Join(basePath, onnxFile),
			metadata.ModelInfo.InputSize, len(metadata.Labels.Classes))
	}

	network, err := ParseDenseNetwork(modelData)
	if err != nil {
		return nil, err
	}
	if network.InputSize() != metadata.ModelInfo.InputSize {
		network.Close()
		return nil, fmt.Errorf("network expects %d inputs, metadata says %d",
			network.InputSize(), metadata.ModelInfo.InputSize)
	}
	if network.OutputSize() != len(metadata.Labels.Classes) {
		network.Close()
		return nil, fmt.Errorf("network outputs %d classes, metadata has %d",
			network.OutputSize(), len(metadata.Labels.Classes))
	}
	return network, nil
}

// selfTest pushes a fixed dummy category vector through the full pipeline
// (standardize, forward pass, decode) so structural mismatches surface at
// load time instead of at the first real prediction.
func selfTest(ctx context.Context, artifact *Artifact) error {
	categories := make([]int, artifact.Metadata.ModelInfo.InputSize)
	for i := range categories {
		categories[i] = 1 + i%2 // [1,2,1,2,...]
	}
	probabilities, err := artifact.infer(ctx, categories)
	if err != nil {
		return err
	}
	if len(probabilities) != len(artifact.Metadata.Labels.Classes) {
		return fmt.Errorf("self-test returned %d probabilities, want %d",
			len(probabilities), len(artifact.Metadata.Labels.Classes))
	}
	return nil
}

func fetch(ctx context.Context, client *http.Client, base, name string, remote bool) ([]byte, error) {
	if !remote {
		data, err := os.ReadFile(filepath.Join(base, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}

	url := strings.TrimSuffix(base, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", name, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", name, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
