package services

import "errors"

var (
	// ErrFeatureExtraction: a log record could not be turned into a
	// complete feature vector. Classification must not run on it.
	ErrFeatureExtraction = errors.New("feature extraction failed")

	// ErrModelUnavailable: the inference service was never configured or
	// cannot be reached.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrPrediction: the inference call itself failed.
	ErrPrediction = errors.New("prediction failed")

	// ErrInsufficientData: the aggregator was invoked with fewer than 7 logs.
	ErrInsufficientData = errors.New("insufficient data for weekly average")
)
