package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/mixity/internal/model"
)

func TestMultiSink(t *testing.T) {
	c := NewCollector(0)
	var names []string
	sink := MultiSink{c, SinkFunc(func(r model.PlacementResult) {
		names = append(names, r.Name)
	})}

	sink.Emit(model.PlacementResult{Seq: 1, Name: "Tree 1"})
	sink.Emit(model.PlacementResult{Seq: 4, Name: "Bush 4"})

	assert.Equal(t, []string{"Tree 1", "Bush 4"}, names)
	assert.Len(t, c.Results, 2)
	assert.Equal(t, 4, c.Results[1].Seq)
}
