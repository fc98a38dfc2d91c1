package charting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
)

func TestRenderer_HourlyUsage(t *testing.T) {
	r := NewRenderer()

	t.Run("draws both series", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.HourlyUsage(&buf, []domain.HourlyUsage{
			{Hour: 0, CasualAvg: 3, RegisteredAvg: 13},
			{Hour: 8, CasualAvg: 7.5, RegisteredAvg: 120},
			{Hour: 17, CasualAvg: 22, RegisteredAvg: 200.25},
		})
		require.NoError(t, err)

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "<svg"))
		assert.Contains(t, out, "Casual Users (Avg)")
		assert.Contains(t, out, "Registered Users (Avg)")
		assert.NotContains(t, out, NoDataMessage)
	})

	t.Run("single hour", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.HourlyUsage(&buf, []domain.HourlyUsage{{Hour: 8, CasualAvg: 0, RegisteredAvg: 0}})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "<svg")
	})

	t.Run("empty input renders placeholder", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.HourlyUsage(&buf, nil))
		assert.Contains(t, buf.String(), NoDataMessage)
		assert.Contains(t, buf.String(), "Average Bike Usage per Hour")
	})
}

func TestRenderer_WeatherUsage(t *testing.T) {
	r := NewRenderer()

	t.Run("draws labelled bars", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.WeatherUsage(&buf, []domain.WeatherUsage{
			{Weather: 1, Label: domain.WeatherLabel(1), TotalAvg: 54.13},
			{Weather: 3, Label: domain.WeatherLabel(3), TotalAvg: 18},
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Clear/Partly Cloudy")
		assert.Contains(t, out, "Light Rain/Snow")
		assert.NotContains(t, out, NoDataMessage)
	})

	t.Run("empty input renders placeholder", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.WeatherUsage(&buf, []domain.WeatherUsage{}))
		assert.Contains(t, buf.String(), NoDataMessage)
	})
}

func TestRenderer_SegmentCounts(t *testing.T) {
	r := NewRenderer()

	t.Run("keeps zero segments", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.SegmentCounts(&buf, []domain.SegmentCount{
			{Segment: domain.SegmentVIP, Days: 1},
			{Segment: domain.SegmentRegular, Days: 4},
			{Segment: domain.SegmentChurnRisk, Days: 0},
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "VIP")
		assert.Contains(t, out, "Regular")
		assert.Contains(t, out, "Churn Risk")
	})

	t.Run("all zero renders placeholder", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.SegmentCounts(&buf, []domain.SegmentCount{
			{Segment: domain.SegmentVIP},
			{Segment: domain.SegmentRegular},
			{Segment: domain.SegmentChurnRisk},
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), NoDataMessage)
	})
}

func TestHeadroom(t *testing.T) {
	assert.Equal(t, 1.0, headroom(0))
	assert.InDelta(t, 110.0, headroom(100), 1e-9)
}
