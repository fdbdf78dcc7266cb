package session

import (
	"fmt"
	"math"
)

// Config holds gating and readiness thresholds.
type Config struct {
	// MinMessages is the message count a topic needs before it can be
	// marked understood.
	MinMessages int
	// ReadinessRatio is the fraction of topics that must be rated STRONG
	// for the learner to count as ready.
	ReadinessRatio float64
}

// DefaultConfig requires two full exchanges per topic and 60% STRONG.
func DefaultConfig() Config {
	return Config{
		MinMessages:    4,
		ReadinessRatio: 0.6,
	}
}

// Validate rejects thresholds that would make gating or readiness meaningless.
func (c Config) Validate() error {
	if c.MinMessages < 0 {
		return fmt.Errorf("min messages must be >= 0, got %d", c.MinMessages)
	}
	if c.ReadinessRatio < 0 || c.ReadinessRatio > 1 || math.IsNaN(c.ReadinessRatio) {
		return fmt.Errorf("readiness ratio must be within [0, 1], got %v", c.ReadinessRatio)
	}
	return nil
}

// RequiredStrong returns ceil(ReadinessRatio * topicCount).
func (c Config) RequiredStrong(topicCount int) int {
	// Round before ceil so 0.6*5 does not become 3.0000000000000004.
	product := math.Round(c.ReadinessRatio*float64(topicCount)*1e9) / 1e9
	return int(math.Ceil(product))
}
