// Package onnx runs a regressor exported to ONNX (for example with
// skl2onnx) through ONNX Runtime.
package onnx

import (
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"waterquality/internal/model"
)

// Kind identifies ONNX-backed models in a bundle.
const Kind = "onnx"

// Default tensor names produced by skl2onnx for a regressor.
const (
	DefaultInputName  = "float_input"
	DefaultOutputName = "variable"
)

// Config locates the runtime library and the model graph.
type Config struct {
	// LibraryPath is the onnxruntime shared library. Empty uses the
	// platform default search path.
	LibraryPath string
	ModelPath   string
	InputName   string
	OutputName  string
}

var (
	envOnce sync.Once
	envErr  error
)

func initEnvironment(libraryPath string) error {
	envOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

// Regressor evaluates a [N,3] float32 input and reads a [N,1] float32 output.
// Each Predict call allocates its own tensors, so one session serves
// concurrent callers.
type Regressor struct {
	session *ort.DynamicAdvancedSession
	cfg     Config
}

// New initializes the runtime once per process and opens a session.
func New(cfg Config) (*Regressor, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("onnx model path is required")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("onnx model: %w", err)
	}
	if cfg.InputName == "" {
		cfg.InputName = DefaultInputName
	}
	if cfg.OutputName == "" {
		cfg.OutputName = DefaultOutputName
	}
	if err := initEnvironment(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("open onnx session: %w", err)
	}
	return &Regressor{session: session, cfg: cfg}, nil
}

// Predict runs one batch through the session.
func (r *Regressor) Predict(rows []model.Features) ([]float64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to predict", model.ErrInference)
	}
	data := make([]float32, 0, len(rows)*model.NumFeatures)
	for _, row := range rows {
		for _, v := range row.Vector() {
			data = append(data, float32(v))
		}
	}

	input, err := ort.NewTensor(ort.NewShape(int64(len(rows)), model.NumFeatures), data)
	if err != nil {
		return nil, fmt.Errorf("%w: input tensor: %v", model.ErrInference, err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(len(rows)), 1))
	if err != nil {
		return nil, fmt.Errorf("%w: output tensor: %v", model.ErrInference, err)
	}
	defer output.Destroy()

	if err := r.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInference, err)
	}

	raw := output.GetData()
	if len(raw) != len(rows) {
		return nil, fmt.Errorf("%w: expected %d outputs, got %d", model.ErrInference, len(rows), len(raw))
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out, nil
}

func (r *Regressor) Kind() string { return Kind }

// Close releases the session. The runtime environment stays initialized for
// the life of the process.
func (r *Regressor) Close() error {
	if r == nil || r.session == nil {
		return nil
	}
	err := r.session.Destroy()
	r.session = nil
	return err
}
