package utils

import (
	"math"
	"testing"
	"time"
)

func TestStatsUpdate(t *testing.T) {
	s := NewStats()

	s.Update(1, 100, 10, 4, 12*time.Millisecond)
	if s.TotalGenerations != 1 || s.TotalBirths != 10 || s.TotalDeaths != 4 {
		t.Fatalf("totals = %d gen, %d births, %d deaths",
			s.TotalGenerations, s.TotalBirths, s.TotalDeaths)
	}
	if s.LastTickDuration != 12*time.Millisecond {
		t.Fatalf("last tick = %v", s.LastTickDuration)
	}
	if s.AveragePopulation != 100 {
		t.Fatalf("first sample average = %v, want 100", s.AveragePopulation)
	}

	s.Update(2, 50, 3, 5, 10*time.Millisecond)
	if s.TotalBirths != 13 || s.TotalDeaths != 9 {
		t.Fatalf("totals after second update = %d births, %d deaths",
			s.TotalBirths, s.TotalDeaths)
	}
	want := 100*0.9 + 50*0.1
	if math.Abs(s.AveragePopulation-want) > 1e-9 {
		t.Fatalf("average = %v, want %v", s.AveragePopulation, want)
	}
	if s.GenerationsPerSecond <= 0 {
		t.Fatalf("rate = %v, want positive", s.GenerationsPerSecond)
	}
}
