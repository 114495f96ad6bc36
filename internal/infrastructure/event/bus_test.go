package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cobranza/backend/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	evt := shared.NewBaseDomainEvent(eventType, "PaymentSchedule", uuid.New(), uuid.New())
	return &evt
}

func TestInMemoryEventBusPublish(t *testing.T) {
	t.Run("delivers event to matching handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"PaymentRecordedOnManagement"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("PaymentRecordedOnManagement"))
		require.NoError(t, err)
		assert.Len(t, handler.received, 1)
	})

	t.Run("does not deliver unrelated event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"PaymentRecordedOnManagement"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("ScheduleCreated"))
		require.NoError(t, err)
		assert.Empty(t, handler.received)
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(),
			newTestEvent("ScheduleCreated"),
			newTestEvent("PaymentConfirmed"),
		))
		assert.Len(t, handler.received, 2)
	})

	t.Run("handler error does not block other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"ScheduleCreated"}, err: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"ScheduleCreated"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("ScheduleCreated")))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("handler panic is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"ScheduleCreated"}, panics: true}
		healthy := &recordingHandler{types: []string{"ScheduleCreated"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newTestEvent("ScheduleCreated"))
		})
		assert.Len(t, healthy.received, 1)
	})
}

func TestInMemoryEventBusSubscribe(t *testing.T) {
	t.Run("explicit event types override handler declaration", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"PaymentConfirmed"}}
		bus.Subscribe(handler, "ScheduleCreated")

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("ScheduleCreated")))
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("PaymentConfirmed")))
		assert.Len(t, handler.received, 1)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"ScheduleCreated"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("ScheduleCreated")))
		assert.Empty(t, handler.received)
	})
}

func TestInMemoryEventBusLifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))
}
