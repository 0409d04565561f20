package geo

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	mumbai := Point{Lat: 19.0760, Lng: 72.8777}
	pune := Point{Lat: 18.5204, Lng: 73.8567}

	assert.Zero(t, DistanceKm(mumbai, mumbai))
	d := DistanceKm(mumbai, pune)
	assert.InDelta(t, 120, d, 5, "Mumbai to Pune is roughly 120 km great-circle")
	assert.InDelta(t, d, DistanceKm(pune, mumbai), 1e-9, "symmetric")
}

func TestTravelMinutes(t *testing.T) {
	assert.InDelta(t, 60, TravelMinutes(50, 50), 1e-9)
	assert.InDelta(t, 30, TravelMinutes(25, 50), 1e-9)
	assert.True(t, math.IsInf(TravelMinutes(10, 0), 1))
	assert.True(t, math.IsInf(TravelMinutes(10, -5), 1))
}

func TestBuildMatrices(t *testing.T) {
	pts := []Point{
		{Lat: 18.9356, Lng: 72.8376},
		{Lat: 18.9447, Lng: 72.8235},
		{Lat: 18.9322, Lng: 72.8264},
	}
	dist, tmin := BuildMatrices(pts, 60)
	require.Len(t, dist, 3)
	require.Len(t, tmin, 3)
	for i := range pts {
		assert.Zero(t, dist[i][i])
		assert.Zero(t, tmin[i][i])
		for j := range pts {
			if i == j {
				continue
			}
			assert.Positive(t, dist[i][j])
			assert.InDelta(t, dist[i][j], dist[j][i], 1e-9)
			assert.InDelta(t, dist[i][j], tmin[i][j], 1e-9, "at 60 km/h, km equals minutes")
		}
	}
}

func TestParseTime(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:05", 545},
		{"9:05", 545},
		{"23:59", 1439},
	} {
		got, err := ParseTime(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{
		"", "noon", "24:00", "12:60", "-1:30",
		"12:34:56", "12:34xyz", "10:00 ", " 10:00", "10:0", "10:000",
	} {
		_, err := ParseTime(in)
		assert.Error(t, err, in)
	}
}

func TestFormatTimeRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		s := FormatTime(m)
		back, err := ParseTime(s)
		require.NoError(t, err, s)
		require.Equal(t, m, back, s)
	}
	assert.Equal(t, "00:30", FormatTime(MinutesPerDay+30), "next-day minutes wrap to wall clock")
	assert.Equal(t, "23:00", FormatTime(-60))
}

func TestWindowContains(t *testing.T) {
	plain := NormalizeWindow(540, 1080) // 09:00-18:00
	require.False(t, plain.Wraps)
	assert.True(t, plain.Contains(540))
	assert.True(t, plain.Contains(1080))
	assert.True(t, plain.Contains(800.5))
	assert.False(t, plain.Contains(539.9))
	assert.False(t, plain.Contains(1080.1))
	assert.True(t, plain.Contains(540+MinutesPerDay), "next-day minutes reduce to minute-of-day")

	wrap := NormalizeWindow(1320, 120) // 22:00-02:00
	require.True(t, wrap.Wraps)
	assert.True(t, wrap.Contains(1320))
	assert.True(t, wrap.Contains(1439.5))
	assert.True(t, wrap.Contains(0))
	assert.True(t, wrap.Contains(120))
	assert.False(t, wrap.Contains(121))
	assert.False(t, wrap.Contains(700))
}

func TestWindowWaitUntilStart(t *testing.T) {
	w := NormalizeWindow(600, 720) // 10:00-12:00
	assert.InDelta(t, 57.5, w.WaitUntilStart(542.5), 1e-9)
	assert.Zero(t, w.WaitUntilStart(650), "inside the window")
	assert.Zero(t, w.WaitUntilStart(730), "past the window, waiting cannot help")

	wrap := NormalizeWindow(1320, 120)
	assert.InDelta(t, 120, wrap.WaitUntilStart(1200), 1e-9)
	assert.Zero(t, wrap.WaitUntilStart(60), "inside the wrapped tail")
}

func TestValidCoordinates(t *testing.T) {
	for _, tc := range []struct {
		lat, lng float64
		ok       bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.01, 0, false},
		{0, 180.01, false},
		{-91, 10, false},
	} {
		assert.Equal(t, tc.ok, ValidCoordinates(tc.lat, tc.lng), fmt.Sprintf("%v,%v", tc.lat, tc.lng))
	}
}
