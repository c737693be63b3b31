package scheduled

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages scheduled transaction persistence
type Repository interface {
	Create(ctx context.Context, st *ScheduledTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*ScheduledTransaction, error)
	List(ctx context.Context) ([]*ScheduledTransaction, error)
	Update(ctx context.Context, st *ScheduledTransaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrNotFound indicates missing scheduled transaction
type ErrNotFound struct {
	ID uuid.UUID
}

func (e ErrNotFound) Error() string {
	return "scheduled transaction not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrNotFound
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
