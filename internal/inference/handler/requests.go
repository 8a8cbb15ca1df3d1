package handler

import (
	dErrors "waterquality/pkg/domain-errors"
)

// PredictRequest is the HTTP request body for POST /api/v1/predict.
// Numeric fields are pointers so a missing value can be told apart from zero.
type PredictRequest struct {
	Country    string   `json:"country"`
	AirQuality *float64 `json:"air_quality"`
	PM25       *float64 `json:"pm25"`
}

// Validate checks presence only. Ranges are not enforced and the country is
// passed on untouched: the encoder decides whether it is known.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *PredictRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Country) > 256 {
		return dErrors.New(dErrors.CodeValidation, "country must be at most 256 characters")
	}
	if r.Country == "" {
		return dErrors.New(dErrors.CodeValidation, "country is required")
	}
	if r.AirQuality == nil {
		return dErrors.New(dErrors.CodeValidation, "air_quality is required")
	}
	if r.PM25 == nil {
		return dErrors.New(dErrors.CodeValidation, "pm25 is required")
	}
	return nil
}
