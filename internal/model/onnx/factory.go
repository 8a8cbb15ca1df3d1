package onnx

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"waterquality/internal/model"
)

// Params is the "params" object of an onnx model section in a bundle.
type Params struct {
	Path   string `json:"path"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
}

// NewFactory returns a bundle model factory that opens ONNX graphs with the
// given runtime library. Relative graph paths resolve against the bundle's directory.
func NewFactory(libraryPath string) func(params json.RawMessage, baseDir string) (model.Regressor, error) {
	return func(raw json.RawMessage, baseDir string) (model.Regressor, error) {
		var p Params
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode onnx params: %w", err)
		}
		if p.Path == "" {
			return nil, fmt.Errorf("onnx params: path is required")
		}
		path := p.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return New(Config{
			LibraryPath: libraryPath,
			ModelPath:   path,
			InputName:   p.Input,
			OutputName:  p.Output,
		})
	}
}
