package spawn

import (
	"errors"
	"fmt"
	"math"

	"github.com/udisondev/mixity/internal/world"
)

// ErrInvalidConfig is returned when placer configuration is out of range.
var ErrInvalidConfig = errors.New("invalid placer config")

// ScaleRange is a uniform range [Min, Max). Min == Max yields a constant scale.
type ScaleRange struct {
	Min float64
	Max float64
}

// Sample draws a scale from the range.
func (s ScaleRange) Sample(r Rand) float64 {
	return s.Min + r.Float64()*(s.Max-s.Min)
}

func (s ScaleRange) validate() error {
	if !isFinite(s.Min) || !isFinite(s.Max) || s.Min <= 0 || s.Max < s.Min {
		return fmt.Errorf("scale range [%v, %v)", s.Min, s.Max)
	}
	return nil
}

// Config parameterizes one placement pass.
type Config struct {
	Region            world.Region
	Attempts          int     // fixed attempt budget, not a target count
	ExclusionRadius   float64 // no placement closer than this to Region.Center()
	RarityProbability float64
	CommonScale       ScaleRange
	RareScale         ScaleRange
	GroundHeight      float64
}

// Validate rejects configuration a pass cannot run with.
func (c Config) Validate() error {
	if c.Region == nil {
		return fmt.Errorf("%w: nil region", ErrInvalidConfig)
	}
	if c.Attempts <= 0 {
		return fmt.Errorf("%w: attempts must be positive, got %d", ErrInvalidConfig, c.Attempts)
	}
	if !isFinite(c.ExclusionRadius) || c.ExclusionRadius < 0 {
		return fmt.Errorf("%w: exclusion radius %v", ErrInvalidConfig, c.ExclusionRadius)
	}
	if math.IsNaN(c.RarityProbability) || c.RarityProbability < 0 || c.RarityProbability > 1 {
		return fmt.Errorf("%w: rarity probability %v", ErrInvalidConfig, c.RarityProbability)
	}
	if err := c.CommonScale.validate(); err != nil {
		return fmt.Errorf("%w: common %v", ErrInvalidConfig, err)
	}
	if err := c.RareScale.validate(); err != nil {
		return fmt.Errorf("%w: rare %v", ErrInvalidConfig, err)
	}
	if !isFinite(c.GroundHeight) {
		return fmt.Errorf("%w: ground height %v", ErrInvalidConfig, c.GroundHeight)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
