// Package bundle loads the serialized encoder+model pair produced by the
// offline training job.
//
// A bundle is one JSON document, optionally gzip-compressed when its file name
// ends in ".gz":
//
//	{
//	  "format_version": 1,
//	  "metadata": {"name": "water-quality", "version": "2024-05", "target": "water_pollution"},
//	  "encoder":  {"classes": ["Andorra", "Argentina", ...]},
//	  "model":    {"kind": "forest", "params": {...}}
//	}
//
// Built-in model kinds are "linear" and "forest"; other kinds (onnx) are
// registered by the caller with WithFactory.
package bundle

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"waterquality/internal/encoder"
	"waterquality/internal/model"
	"waterquality/pkg/platform/sentinel"
)

// FormatVersion is the only bundle layout this loader understands.
const FormatVersion = 1

// StartupLoadError reports a bundle that cannot be used. It is fatal: the
// service must not start without a model.
type StartupLoadError struct {
	Path string
	Err  error
}

func (e *StartupLoadError) Error() string {
	return fmt.Sprintf("load model bundle %s: %v", e.Path, e.Err)
}

func (e *StartupLoadError) Unwrap() error { return e.Err }

// Metadata describes the training run that produced a bundle.
type Metadata struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Target    string `json:"target"`
	TrainedAt string `json:"trained_at,omitempty"`
}

// Bundle is the loaded, immutable encoder and model.
type Bundle struct {
	Encoder  *encoder.LabelEncoder
	Model    model.Regressor
	Metadata Metadata
}

// Close releases model resources when the model holds any (ONNX sessions).
func (b *Bundle) Close() error {
	if c, ok := b.Model.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Factory builds a regressor from a model section's params. baseDir is the
// directory containing the bundle, for resolving relative paths.
type Factory func(params json.RawMessage, baseDir string) (model.Regressor, error)

type document struct {
	FormatVersion int      `json:"format_version"`
	Metadata      Metadata `json:"metadata"`
	Encoder       struct {
		Classes []string `json:"classes"`
	} `json:"encoder"`
	Model struct {
		Kind   string          `json:"kind"`
		Params json.RawMessage `json:"params"`
	} `json:"model"`
}

type linearParams struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Loader decodes bundles using a registry of model factories.
type Loader struct {
	factories map[string]Factory
}

// Option configures a Loader.
type Option func(*Loader)

// WithFactory registers or replaces the factory for a model kind.
func WithFactory(kind string, f Factory) Option {
	return func(l *Loader) {
		if f != nil {
			l.factories[kind] = f
		}
	}
}

// NewLoader returns a loader that knows the built-in model kinds.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{factories: map[string]Factory{
		model.KindLinear: newLinear,
		model.KindForest: newForest,
	}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the bundle at path with the built-in model kinds.
func Load(path string) (*Bundle, error) {
	return NewLoader().Load(path)
}

// Load reads, decodes and smoke-tests the bundle at path. Every failure is a
// *StartupLoadError.
func (l *Loader) Load(path string) (*Bundle, error) {
	b, err := l.load(path)
	if err != nil {
		return nil, &StartupLoadError{Path: path, Err: err}
	}
	return b, nil
}

func (l *Loader) load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", sentinel.ErrNotFound, err)
		}
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", sentinel.ErrCorrupt, err)
		}
		defer gz.Close()
		r = gz
	}

	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", sentinel.ErrCorrupt, err)
	}
	if doc.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format_version %d", sentinel.ErrCorrupt, doc.FormatVersion)
	}

	enc, err := encoder.FromClasses(doc.Encoder.Classes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel.ErrCorrupt, err)
	}

	factory, ok := l.factories[doc.Model.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown model kind %q", sentinel.ErrCorrupt, doc.Model.Kind)
	}
	if len(doc.Model.Params) == 0 {
		return nil, fmt.Errorf("%w: model params missing", sentinel.ErrCorrupt)
	}
	m, err := factory(doc.Model.Params, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%w: build %s model: %v", sentinel.ErrCorrupt, doc.Model.Kind, err)
	}

	b := &Bundle{Encoder: enc, Model: m, Metadata: doc.Metadata}
	if err := smokeTest(b); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("%w: %v", sentinel.ErrCorrupt, err)
	}
	return b, nil
}

// smokeTest runs one prediction so a model that cannot predict is rejected at
// startup instead of on the first request.
func smokeTest(b *Bundle) error {
	out, err := b.Model.Predict([]model.Features{{CountryCode: 0}})
	if err != nil {
		return fmt.Errorf("smoke prediction: %w", err)
	}
	if len(out) != 1 {
		return fmt.Errorf("smoke prediction returned %d values", len(out))
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return fmt.Errorf("smoke prediction is not finite")
	}
	return nil
}

func newLinear(raw json.RawMessage, _ string) (model.Regressor, error) {
	var p linearParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return model.NewLinear(p.Coefficients, p.Intercept)
}

func newForest(raw json.RawMessage, _ string) (model.Regressor, error) {
	var spec model.ForestSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	return model.NewForest(spec)
}
