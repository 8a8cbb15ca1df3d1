package handler

import "waterquality/internal/inference"

// PredictResponse is returned by POST /api/v1/predict.
type PredictResponse struct {
	Prediction float64 `json:"prediction"`
	Formatted  string  `json:"formatted"`
}

func fromPrediction(p inference.Prediction) PredictResponse {
	return PredictResponse{Prediction: p.Value, Formatted: p.Formatted()}
}

// CountriesResponse lists the selectable countries.
type CountriesResponse struct {
	Countries []string `json:"countries"`
}

// CitiesResponse lists the static display cities in their original order.
type CitiesResponse struct {
	Cities []string `json:"cities"`
}
