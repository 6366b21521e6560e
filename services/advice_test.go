package services

import (
	"context"
	"testing"
	"time"

	"github.com/lim28y/Sleep-Disorder-Prediction/ai"
	"github.com/lim28y/Sleep-Disorder-Prediction/config"
	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdviceFallbackWhenUnconfigured(t *testing.T) {
	client := ai.NewOllamaClient(ai.OllamaConfig{}) // no base URL
	svc, err := NewAdviceService(config.AdviceConfig{
		Timeout:    time.Second,
		MaxRetries: 0,
	}, client, zap.NewNop())
	require.NoError(t, err)

	tip := svc.DailyTip(context.Background(), sampleLog(), models.LabelNormal)
	assert.Equal(t, FallbackTip, tip)
}

func TestDescribeProfile(t *testing.T) {
	log := sampleLog()
	desc := DescribeProfile(log, models.LabelInsomnia)

	assert.Contains(t, desc, "30 year old Male")
	assert.Contains(t, desc, "Current Status: Insomnia Detected.")
	assert.Contains(t, desc, "Sleep Duration: 7.5 hours")
	assert.Contains(t, desc, "Stress Level: 4/10")
	assert.Contains(t, desc, "Blood Pressure: 120/80")

	log.Gender = 0
	assert.Contains(t, DescribeProfile(log, models.LabelNormal), "Female")
}

func TestChunkText(t *testing.T) {
	assert.Nil(t, chunkText("   ", 100, 20))

	short := chunkText("hello world", 100, 20)
	require.Len(t, short, 1)
	assert.Equal(t, "hello world", short[0])

	long := make([]byte, 0, 2500)
	for i := 0; i < 2500; i++ {
		long = append(long, 'a')
	}
	chunks := chunkText(string(long), 1000, 200)
	require.NotEmpty(t, chunks)
	assert.Len(t, chunks[0], 1000)
	// consecutive chunks overlap by 200 characters
	assert.Equal(t, chunks[0][800:], chunks[1][:200])
}
