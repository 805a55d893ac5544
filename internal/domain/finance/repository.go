package finance

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository manages the append-only payment ledger. Entries are
// never updated except through MarkCompleted, and never deleted.
type PaymentRepository interface {
	Append(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByReference(ctx context.Context, refType PaymentReferenceType, refID uuid.UUID) ([]*Payment, error)
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]*Payment, error)
}

// ExpenseRepository manages expense records
type ExpenseRepository interface {
	Append(ctx context.Context, expense *Expense) error
	FindByReference(ctx context.Context, referenceID uuid.UUID) ([]*Expense, error)
}
