package utils

import "time"

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	BirthsPerSecond      float64
	DeathsPerSecond      float64
	TotalGenerations     int
	TotalBirths          int
	TotalDeaths          int
	LastTickDuration     time.Duration
	StartTime            time.Time
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Update refreshes the counters after a completed generation
func (s *Stats) Update(generation, population, births, deaths int, duration time.Duration) {
	s.TotalGenerations = generation
	s.TotalBirths += births
	s.TotalDeaths += deaths
	s.LastTickDuration = duration

	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.GenerationsPerSecond = float64(generation) / elapsed
		s.BirthsPerSecond = float64(s.TotalBirths) / elapsed
		s.DeathsPerSecond = float64(s.TotalDeaths) / elapsed
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}
