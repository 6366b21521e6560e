package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lim28y/Sleep-Disorder-Prediction/ai"
	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testVector(t *testing.T) FeatureVector {
	t.Helper()
	vec, err := BuildFeatures(RecordFromLog(sampleLog()))
	require.NoError(t, err)
	return vec
}

func modelServer(t *testing.T, class int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Features []float64 `json:"features"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Features, 11)
		json.NewEncoder(w).Encode(map[string]int{"class": class})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClassifyMapsClasses(t *testing.T) {
	cases := []struct {
		class int
		want  models.Label
	}{
		{0, models.LabelNormal},
		{1, models.LabelInsomnia},
		{2, models.LabelSleepApnea},
		{7, models.LabelUnknown},
	}

	for _, tc := range cases {
		srv := modelServer(t, tc.class)
		c := NewClassifier(ai.NewModelClient(srv.URL, time.Second), zap.NewNop())

		label, err := c.Classify(context.Background(), testVector(t))
		require.NoError(t, err)
		assert.Equal(t, tc.want, label)
	}
}

func TestClassifySentinelWhenModelMissing(t *testing.T) {
	c := NewClassifier(ai.NewModelClient("", time.Second), zap.NewNop())

	label, err := c.Classify(context.Background(), testVector(t))
	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, models.LabelModelError, label)

	// The sentinel path never raises.
	label = c.ClassifyOrSentinel(context.Background(), testVector(t), "daily")
	assert.Equal(t, models.LabelModelError, label)
}

func TestClassifySentinelOnInferenceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClassifier(ai.NewModelClient(srv.URL, time.Second), zap.NewNop())

	label, err := c.Classify(context.Background(), testVector(t))
	require.ErrorIs(t, err, ErrPrediction)
	assert.Equal(t, models.LabelPredictionError, label)

	label = c.ClassifyOrSentinel(context.Background(), testVector(t), "weekly")
	assert.Equal(t, models.LabelPredictionError, label)
}
