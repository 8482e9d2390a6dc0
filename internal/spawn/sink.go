package spawn

import "github.com/udisondev/mixity/internal/model"

// Sink receives accepted placements in attempt order.
// The placer keeps no reference to a result after Emit returns.
type Sink interface {
	Emit(result model.PlacementResult)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(model.PlacementResult)

// Emit calls f(result).
func (f SinkFunc) Emit(result model.PlacementResult) {
	f(result)
}

// Collector buffers every emitted result.
type Collector struct {
	Results []model.PlacementResult
}

// NewCollector creates a collector with room for capacity results.
func NewCollector(capacity int) *Collector {
	return &Collector{Results: make([]model.PlacementResult, 0, capacity)}
}

// Emit appends result.
func (c *Collector) Emit(result model.PlacementResult) {
	c.Results = append(c.Results, result)
}

// MultiSink fans each result out to every sink in order.
type MultiSink []Sink

// Emit forwards result to all sinks.
func (m MultiSink) Emit(result model.PlacementResult) {
	for _, s := range m {
		s.Emit(result)
	}
}
