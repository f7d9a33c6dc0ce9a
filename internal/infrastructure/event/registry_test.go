package event

import (
	"context"
	"testing"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type noopHandler struct {
	eventTypes []string
}

func (h *noopHandler) Handle(ctx context.Context, event shared.DomainEvent) error { return nil }
func (h *noopHandler) EventTypes() []string                                       { return h.eventTypes }

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &noopHandler{eventTypes: []string{"inventory.stock_increased", "inventory.stock_decreased"}}

	registry.Register(handler, "inventory.stock_increased", "inventory.stock_decreased")

	assert.Len(t, registry.GetHandlers("inventory.stock_increased"), 1)
	assert.Len(t, registry.GetHandlers("inventory.stock_decreased"), 1)
	assert.Empty(t, registry.GetHandlers("inventory.transfer_completed"))
}

func TestHandlerRegistry_Register_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &noopHandler{}

	registry.Register(handler)

	assert.Len(t, registry.GetHandlers("inventory.stock_increased"), 1)
	assert.Len(t, registry.GetHandlers("inventory.adjustment_approved"), 1)
}

func TestHandlerRegistry_GetHandlers_Ordering(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := &noopHandler{eventTypes: []string{"inventory.stock_below_minimum"}}
	wildcard := &noopHandler{}

	registry.Register(wildcard)
	registry.Register(typed, "inventory.stock_below_minimum")

	handlers := registry.GetHandlers("inventory.stock_below_minimum")
	assert.Len(t, handlers, 2)
	// Type-specific handlers come before wildcard handlers
	assert.Same(t, typed, handlers[0].(*noopHandler))
	assert.Same(t, wildcard, handlers[1].(*noopHandler))
}

func TestHandlerRegistry_Unregister_SpecificHandler(t *testing.T) {
	registry := NewHandlerRegistry()
	handler1 := &noopHandler{eventTypes: []string{"inventory.transfer_completed"}}
	handler2 := &noopHandler{eventTypes: []string{"inventory.transfer_completed"}}

	registry.Register(handler1, "inventory.transfer_completed")
	registry.Register(handler2, "inventory.transfer_completed")
	assert.Len(t, registry.GetHandlers("inventory.transfer_completed"), 2)

	registry.Unregister(handler1)

	handlers := registry.GetHandlers("inventory.transfer_completed")
	assert.Len(t, handlers, 1)
	assert.Same(t, handler2, handlers[0].(*noopHandler))
}

func TestHandlerRegistry_Unregister_WildcardHandler(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcard := &noopHandler{}

	registry.Register(wildcard)
	assert.Len(t, registry.GetHandlers("inventory.stock_increased"), 1)

	registry.Unregister(wildcard)
	assert.Empty(t, registry.GetHandlers("inventory.stock_increased"))
}

func TestHandlerRegistry_Unregister_LastHandlerClearsType(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &noopHandler{eventTypes: []string{"inventory.adjustment_cancelled"}}

	registry.Register(handler, "inventory.adjustment_cancelled")
	registry.Unregister(handler)

	assert.Empty(t, registry.GetHandlers("inventory.adjustment_cancelled"))
	assert.Empty(t, registry.byType, "empty subscription lists are removed entirely")
}
