package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is an entity that owns a version counter and a buffer of
// domain events collected during a change
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot carries the version column used for optimistic locking
// and the in-memory event buffer, which GORM never persists
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent buffers an event until the repository publishes it after
// a successful save
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.domainEvents }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.domainEvents = nil }

// NewBaseAggregateRoot creates an aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// AuditedAggregateRoot extends BaseAggregateRoot with creator tracking.
// The acting user is always supplied explicitly by the caller; the domain
// never reads it from ambient state.
type AuditedAggregateRoot struct {
	BaseAggregateRoot
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// NewAuditedAggregateRoot records the creating user, a nil UUID leaves
// CreatedBy unset
func NewAuditedAggregateRoot(createdBy uuid.UUID) AuditedAggregateRoot {
	root := AuditedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
	}
	if createdBy != uuid.Nil {
		root.CreatedBy = &createdBy
	}
	return root
}

func (a *AuditedAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	a.CreatedBy = &userID
}

func (a *AuditedAggregateRoot) GetCreatedBy() *uuid.UUID {
	return a.CreatedBy
}
