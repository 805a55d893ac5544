package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// PaymentType classifies an entry in the payment ledger
type PaymentType string

const (
	// PaymentTypeRefundReceived is money coming in from a supplier refund
	PaymentTypeRefundReceived PaymentType = "REFUND_RECEIVED"
	// PaymentTypeAdditionalDue is an amount owed to the supplier because
	// replacement goods were worth more than the returned ones
	PaymentTypeAdditionalDue PaymentType = "ADDITIONAL_DUE"
	// PaymentTypeCustomerDue is an amount settled with a customer over a
	// sales return, signed from the business point of view
	PaymentTypeCustomerDue PaymentType = "CUSTOMER_DUE"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeRefundReceived, PaymentTypeAdditionalDue, PaymentTypeCustomerDue:
		return true
	}
	return false
}

// String returns the string representation
func (t PaymentType) String() string {
	return string(t)
}

// PaymentLedgerStatus represents whether a ledger entry has settled
type PaymentLedgerStatus string

const (
	PaymentLedgerStatusPending   PaymentLedgerStatus = "PENDING"
	PaymentLedgerStatusCompleted PaymentLedgerStatus = "COMPLETED"
)

// IsValid checks if the status is valid
func (s PaymentLedgerStatus) IsValid() bool {
	switch s {
	case PaymentLedgerStatusPending, PaymentLedgerStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation
func (s PaymentLedgerStatus) String() string {
	return string(s)
}

// PaymentReferenceType tells which document a ledger entry settles
type PaymentReferenceType string

const (
	PaymentReferencePurchaseReturn PaymentReferenceType = "PURCHASE_RETURN"
	PaymentReferenceSalesReturn    PaymentReferenceType = "SALES_RETURN"
)

// Payment is a signed, append-only entry in the payment ledger. The sign
// convention is from the business point of view: positive means money
// received, negative means money owed or paid out. Both monetary views carry
// the same sign.
type Payment struct {
	shared.BaseEntity
	PartyID       uuid.UUID            `gorm:"type:uuid;not null;index:idx_payment_party"`
	Type          PaymentType          `gorm:"type:varchar(30);not null"`
	Status        PaymentLedgerStatus  `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ShadowAmount  decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ReferenceType PaymentReferenceType `gorm:"type:varchar(30);not null;index:idx_payment_reference"`
	ReferenceID   uuid.UUID            `gorm:"type:uuid;not null;index:idx_payment_reference"`
	Note          string               `gorm:"type:varchar(500)"`
	CreatedBy     *uuid.UUID           `gorm:"type:uuid"`
	CompletedAt   *time.Time
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewRefundReceivedPayment records a supplier refund coming in. The amount
// must be positive and is booked completed immediately.
func NewRefundReceivedPayment(supplierID uuid.UUID, amount valueobject.Valuation, refType PaymentReferenceType, refID uuid.UUID, actor shared.Actor) (*Payment, error) {
	if amount.Sign() <= 0 {
		return nil, shared.NewValidationError("Refund amount must be positive")
	}
	p, err := newPayment(supplierID, PaymentTypeRefundReceived, amount, refType, refID, actor)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p.Status = PaymentLedgerStatusCompleted
	p.CompletedAt = &now
	return p, nil
}

// NewAdditionalDuePayment records money owed to a supplier. The entry is
// stored negative and starts pending until the debt is settled.
func NewAdditionalDuePayment(supplierID uuid.UUID, amount valueobject.Valuation, refType PaymentReferenceType, refID uuid.UUID, actor shared.Actor) (*Payment, error) {
	if amount.Sign() <= 0 {
		return nil, shared.NewValidationError("Due amount must be positive")
	}
	return newPayment(supplierID, PaymentTypeAdditionalDue, amount.Neg(), refType, refID, actor)
}

// NewCustomerDuePayment records the settlement of a sales return with a
// customer. A positive amount means the customer owes the business, a
// negative one means money goes back to the customer. Entries start pending.
func NewCustomerDuePayment(customerID uuid.UUID, amount valueobject.Valuation, refID uuid.UUID, actor shared.Actor) (*Payment, error) {
	if amount.IsZero() {
		return nil, shared.NewValidationError("Settlement amount cannot be zero")
	}
	return newPayment(customerID, PaymentTypeCustomerDue, amount, PaymentReferenceSalesReturn, refID, actor)
}

func newPayment(partyID uuid.UUID, paymentType PaymentType, amount valueobject.Valuation, refType PaymentReferenceType, refID uuid.UUID, actor shared.Actor) (*Payment, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewValidationError("Party ID cannot be empty")
	}
	if refID == uuid.Nil {
		return nil, shared.NewValidationError("Reference ID cannot be empty")
	}

	p := &Payment{
		BaseEntity:    shared.NewBaseEntity(),
		PartyID:       partyID,
		Type:          paymentType,
		Status:        PaymentLedgerStatusPending,
		Amount:        amount.Real(),
		ShadowAmount:  amount.Shadow(),
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	if actor.IsValid() {
		id := actor.UserID
		p.CreatedBy = &id
	}
	return p, nil
}

// AmountValuation returns the dual signed amount
func (p *Payment) AmountValuation() valueobject.Valuation {
	return valueobject.NewValuation(p.Amount, p.ShadowAmount)
}

// IsInflow reports whether the entry represents money received
func (p *Payment) IsInflow() bool {
	return p.Amount.GreaterThan(decimal.Zero)
}

// MarkCompleted settles a pending entry. It is the only mutation a ledger
// entry allows.
func (p *Payment) MarkCompleted() error {
	if p.Status == PaymentLedgerStatusCompleted {
		return shared.NewDomainError(shared.CodeInvalidStateTransition, "Payment already completed")
	}
	now := time.Now()
	p.Status = PaymentLedgerStatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	return nil
}
