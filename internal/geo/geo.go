// Package geo provides geodesic distances, travel times, and
// minute-of-day time handling for the route solver.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinutesPerDay is the number of minutes in one day.
const MinutesPerDay = 24 * 60

// Point is a WGS84 coordinate pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// ValidCoordinates reports whether lat/lng are within WGS84 bounds.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// DistanceKm returns the haversine great-circle distance in kilometers.
func DistanceKm(a, b Point) float64 {
	const earthRadiusKm = 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// TravelMinutes converts a distance to travel time at the given speed.
// A speed of zero or below yields +Inf, which propagates as infeasibility.
func TravelMinutes(distanceKm, speedKmh float64) float64 {
	if speedKmh <= 0 {
		return math.Inf(1)
	}
	return distanceKm / speedKmh * 60
}

// BuildMatrices computes pairwise distance (km) and travel time (minutes)
// matrices for the given points. The diagonal is zero.
func BuildMatrices(points []Point, speedKmh float64) (dist, tmin [][]float64) {
	n := len(points)
	dist = make([][]float64, n)
	tmin = make([][]float64, n)
	for i := 0; i < n; i++ {
		dist[i] = make([]float64, n)
		tmin[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := DistanceKm(points[i], points[j])
			dist[i][j] = d
			tmin[i][j] = TravelMinutes(d, speedKmh)
		}
	}
	return dist, tmin
}

// ParseTime converts an "HH:MM" string to minutes since midnight. The
// whole string must match: trailing characters are an error, not ignored.
func ParseTime(s string) (int, error) {
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || len(hs) < 1 || len(hs) > 2 || len(ms) != 2 {
		return 0, fmt.Errorf("parse time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: want HH:MM", s)
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: want HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse time %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatTime converts minutes since midnight to "HH:MM", wrapping past
// midnight so arrivals on the next day render as wall-clock times.
func FormatTime(minutes int) string {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Window is a minute-of-day interval. Wraps is set when the interval spans
// midnight (end < start in the raw input).
type Window struct {
	Start int
	End   int
	Wraps bool
}

// NormalizeWindow builds the canonical form of a raw [start,end] window.
func NormalizeWindow(start, end int) Window {
	return Window{Start: start, End: end, Wraps: end < start}
}

// Contains reports whether the given absolute minute falls inside the
// window. The minute is reduced to minute-of-day first; wrap-around windows
// accept any minute at or after Start or at or before End. Minutes are
// fractional because travel times are.
func (w Window) Contains(minute float64) bool {
	m := minuteOfDay(minute)
	if w.Wraps {
		return m >= float64(w.Start) || m <= float64(w.End)
	}
	return m >= float64(w.Start) && m <= float64(w.End)
}

// WaitUntilStart returns the idle minutes needed before the window opens,
// or zero when the minute is already inside the window or past it.
func (w Window) WaitUntilStart(minute float64) float64 {
	if w.Contains(minute) {
		return 0
	}
	m := minuteOfDay(minute)
	if m < float64(w.Start) {
		return float64(w.Start) - m
	}
	return 0
}

func minuteOfDay(minute float64) float64 {
	m := math.Mod(minute, MinutesPerDay)
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}
