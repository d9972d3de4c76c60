package service

import (
	"context"
	"dyslexiatutor/internal/model"
	"dyslexiatutor/internal/observe"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterTotal(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestTutorService_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	met, err := observe.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	h := newHarness(t, bankOf(map[model.Difficulty]int{"Easy": 1}), nil, TutorOptions{Metrics: met})
	_, err = h.svc.StartMode(ctx, testSession, "1")
	require.NoError(t, err)

	h.tutor.Err = errors.New("quota exceeded")
	_, err = h.svc.SubmitTurn(ctx, testSession, "wEasy0")
	require.Error(t, err)

	h.tutor.Err = nil
	h.tutor.Default = advanceLine
	_, err = h.svc.SubmitTurn(ctx, testSession, "wEasy0")
	require.NoError(t, err)

	got := collectMetrics(t, reader)
	assert.Equal(t, int64(1), counterTotal(t, got[observe.ModeStartsName]))
	assert.Equal(t, int64(1), counterTotal(t, got[observe.TurnsName]), "failed turns are not counted")
	assert.Equal(t, int64(1), counterTotal(t, got[observe.SessionsCompletedName]))
	assert.Equal(t, int64(1), counterTotal(t, got[observe.UpstreamErrorsName]))

	hist, ok := got[observe.UpstreamDurationName].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var calls uint64
	for _, dp := range hist.DataPoints {
		calls += dp.Count
	}
	// greeting narration, failed tutor call, tutor call, reply narration
	assert.Equal(t, uint64(4), calls)
}

func TestSubmitTurn_FlagsPhoneticNearMiss(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, []model.Question{{Word: "phone", Answer: "phone", Choices: []string{"phone", "fone"}, Difficulty: "Easy"}}, nil, TutorOptions{})
	_, err := h.svc.StartMode(ctx, testSession, "1")
	require.NoError(t, err)

	resp, err := h.svc.SubmitTurn(ctx, testSession, "fone")
	require.NoError(t, err)
	assert.False(t, resp.Correct)
	assert.True(t, resp.SoundsSimilar)

	resp, err = h.svc.SubmitTurn(ctx, testSession, "phone")
	require.NoError(t, err)
	assert.True(t, resp.Correct)
	assert.False(t, resp.SoundsSimilar)
}
