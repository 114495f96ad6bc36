package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	t.Run("registers handler for multiple event types", func(t *testing.T) {
		reg := NewHandlerRegistry()
		handler := &recordingHandler{}

		reg.Register(handler, "ScheduleCreated", "ScheduleCancelled")

		assert.Len(t, reg.HandlersFor("ScheduleCreated"), 1)
		assert.Len(t, reg.HandlersFor("ScheduleCancelled"), 1)
		assert.Empty(t, reg.HandlersFor("PaymentConfirmed"))
	})

	t.Run("wildcard handler matches every type", func(t *testing.T) {
		reg := NewHandlerRegistry()
		handler := &recordingHandler{}

		reg.Register(handler)

		assert.Len(t, reg.HandlersFor("anything"), 1)
	})

	t.Run("specific handlers come before wildcard handlers", func(t *testing.T) {
		reg := NewHandlerRegistry()
		specific := &recordingHandler{}
		wildcard := &recordingHandler{}

		reg.Register(wildcard)
		reg.Register(specific, "ScheduleCreated")

		handlers := reg.HandlersFor("ScheduleCreated")
		assert.Len(t, handlers, 2)
		assert.Same(t, specific, handlers[0].(*recordingHandler))
		assert.Same(t, wildcard, handlers[1].(*recordingHandler))
	})

	t.Run("unregister removes handler from all types", func(t *testing.T) {
		reg := NewHandlerRegistry()
		handler := &recordingHandler{}

		reg.Register(handler, "ScheduleCreated", "PaymentConfirmed")
		reg.Unregister(handler)

		assert.Empty(t, reg.HandlersFor("ScheduleCreated"))
		assert.Empty(t, reg.HandlersFor("PaymentConfirmed"))
	})

	t.Run("unregister keeps other handlers", func(t *testing.T) {
		reg := NewHandlerRegistry()
		first := &recordingHandler{}
		second := &recordingHandler{}

		reg.Register(first, "ScheduleCreated")
		reg.Register(second, "ScheduleCreated")
		reg.Unregister(first)

		handlers := reg.HandlersFor("ScheduleCreated")
		assert.Len(t, handlers, 1)
		assert.Same(t, second, handlers[0].(*recordingHandler))
	})
}
