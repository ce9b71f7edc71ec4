// Package events carries generation lifecycle notifications between the
// music service and its observers.
package events

import (
	"time"

	"github.com/itsatony/sensorscore/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	GenerationCompleted = "generation.completed"
	GenerationFailed    = "generation.failed"
	RecordFailed        = "record.failed"
)

// All lists every event the bus publishes
var All = []string{GenerationCompleted, GenerationFailed, RecordFailed}

// Bus publishes GenerationEvents. A nil *Bus drops everything.
type Bus struct {
	emitter *nuts.EventEmitter
}

func NewBus() *Bus {
	return &Bus{emitter: nuts.NewEventEmitter()}
}

// Publish emits e under name, stamping At when unset
func (b *Bus) Publish(name string, e models.GenerationEvent) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b.emitter.Emit(name, e)
}

// Subscribe registers handler for name. handlerID must be unique per event.
func (b *Bus) Subscribe(name, handlerID string, handler func(models.GenerationEvent)) {
	if b == nil {
		return
	}
	b.emitter.On(name, handlerID, func(args ...interface{}) {
		if len(args) > 0 {
			if e, ok := args[0].(models.GenerationEvent); ok {
				handler(e)
			}
		}
	})
}
