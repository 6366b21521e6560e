package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lim28y/Sleep-Disorder-Prediction/ai"
	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"github.com/lim28y/Sleep-Disorder-Prediction/utils"
	"go.uber.org/zap"
)

// Classifier adapts the external inference service to the closed label set.
// The model itself is a read-only injected dependency: the adapter holds no
// mutable state and is safe to share across requests.
type Classifier struct {
	client *ai.ModelClient
	logger *zap.Logger
}

func NewClassifier(client *ai.ModelClient, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{client: client, logger: logger}
}

// Classify runs inference on a complete feature vector. Unlike
// ClassifyOrSentinel it surfaces failure as an error, so callers can tell
// "model says normal" apart from "model is broken".
func (c *Classifier) Classify(ctx context.Context, vec FeatureVector) (models.Label, error) {
	if !c.client.IsConfigured() {
		return models.LabelModelError, ErrModelUnavailable
	}

	class, err := c.client.Predict(ctx, vec[:])
	if err != nil {
		if errors.Is(err, ai.ErrModelNotConfigured) {
			return models.LabelModelError, ErrModelUnavailable
		}
		return models.LabelPredictionError, fmt.Errorf("%w: %v", ErrPrediction, err)
	}

	switch class {
	case 0:
		return models.LabelNormal, nil
	case 1:
		return models.LabelInsomnia, nil
	case 2:
		return models.LabelSleepApnea, nil
	default:
		return models.LabelUnknown, nil
	}
}

// ClassifyOrSentinel never fails: inference errors degrade to sentinel
// labels so the logging path stays available with a broken model. Every
// degradation is logged and counted, not swallowed.
func (c *Classifier) ClassifyOrSentinel(ctx context.Context, vec FeatureVector, source string) models.Label {
	label, err := c.Classify(ctx, vec)
	if err != nil {
		c.logger.Warn("classification_degraded",
			zap.String("source", source),
			zap.String("label", string(label)),
			zap.Error(err),
		)
	}
	utils.PredictionCount.WithLabelValues(source, string(label)).Inc()
	return label
}
