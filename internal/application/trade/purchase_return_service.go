package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appstock "github.com/retailcore/backend/internal/application/stock"
	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/stock"
	"github.com/retailcore/backend/internal/domain/trade"
)

// PurchaseReturnService drives the purchase return workflow:
// create (pending) -> approve (stock leaves) -> complete (money settles).
type PurchaseReturnService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPurchaseReturnService creates a new PurchaseReturnService
func NewPurchaseReturnService(scope TransactionScope, logger *zap.Logger) *PurchaseReturnService {
	return &PurchaseReturnService{scope: scope, logger: logger}
}

// Create creates a pending purchase return. Each line is validated against
// stock on hand and against what remains of the purchase item after
// previously completed returns.
func (s *PurchaseReturnService) Create(ctx context.Context, req CreatePurchaseReturnRequest, actor shared.Actor) (*PurchaseReturnResponse, error) {
	returnType := trade.PurchaseReturnType(req.ReturnType)
	paymentType := trade.RefundPaymentType(req.PaymentType)

	var response PurchaseReturnResponse
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		purchase, err := repos.Purchases().FindByID(ctx, req.PurchaseID)
		if err != nil {
			return err
		}

		pr, err := trade.NewPurchaseReturn(purchase, returnType, paymentType, actor)
		if err != nil {
			return err
		}

		ledger := appstock.NewLedger(repos.StockLots(), repos.StockMovements())
		for _, input := range req.Items {
			item := purchase.GetItem(input.PurchaseItemID)
			if item == nil {
				return shared.NewDomainError(shared.CodeNotFound, "Purchase item not found: "+input.PurchaseItemID.String())
			}

			warehouseID := purchase.WarehouseID
			available, err := ledger.Available(ctx, item.ProductID, item.VariantID, &warehouseID)
			if err != nil {
				return err
			}
			alreadyReturned, err := repos.PurchaseReturns().SumCompletedReturnQuantity(ctx, item.ID)
			if err != nil {
				return err
			}

			if _, err := pr.AddItem(item, input.ReturnQuantity, available, alreadyReturned); err != nil {
				return err
			}
		}

		for _, input := range req.Replacements {
			price := valueobject.NewValuation(input.UnitPrice, input.ShadowUnitPrice)
			if _, err := pr.AddReplacement(input.ProductID, input.VariantID, input.Quantity, price); err != nil {
				return err
			}
		}

		if err := repos.PurchaseReturns().Save(ctx, pr); err != nil {
			return err
		}
		response = ToPurchaseReturnResponse(pr)
		return nil
	})
	if err != nil {
		s.logger.Warn("purchase return creation failed",
			zap.String("purchase_id", req.PurchaseID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("purchase return created",
		zap.String("return_id", response.ID.String()),
		zap.String("purchase_id", req.PurchaseID.String()),
		zap.String("return_type", response.ReturnType))
	return &response, nil
}

// Approve moves a pending return to approved and takes the returned goods
// out of stock. Both settle types hand the goods back at approval.
func (s *PurchaseReturnService) Approve(ctx context.Context, returnID uuid.UUID, actor shared.Actor) (*PurchaseReturnResponse, error) {
	var response PurchaseReturnResponse
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		pr, err := repos.PurchaseReturns().FindByIDForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if err := pr.Approve(actor); err != nil {
			return err
		}

		ledger := appstock.NewLedger(repos.StockLots(), repos.StockMovements())
		for idx := range pr.Items {
			item := &pr.Items[idx]
			err := ledger.ReverseOut(ctx, pr.WarehouseID, item.ProductID, item.VariantID,
				item.ReturnQuantity, stock.ReferenceTypePurchaseReturn, pr.ID, actor)
			if err != nil {
				return err
			}
		}

		if err := repos.PurchaseReturns().Save(ctx, pr); err != nil {
			return err
		}
		response = ToPurchaseReturnResponse(pr)
		return nil
	})
	if err != nil {
		s.logger.Warn("purchase return approval failed",
			zap.String("return_id", returnID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("purchase return approved", zap.String("return_id", returnID.String()))
	return &response, nil
}

// Complete settles an approved return. Money back applies the refund to the
// purchase header; product replacement swaps the purchase lines, restocks the
// replacement goods and books the net difference.
func (s *PurchaseReturnService) Complete(ctx context.Context, returnID uuid.UUID, actor shared.Actor) (*PurchaseReturnResponse, error) {
	var response PurchaseReturnResponse
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		pr, err := repos.PurchaseReturns().FindByIDForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if err := pr.Complete(actor); err != nil {
			return err
		}

		purchase, err := repos.Purchases().FindByIDForUpdate(ctx, pr.PurchaseID)
		if err != nil {
			return err
		}

		switch pr.ReturnType {
		case trade.PurchaseReturnTypeMoneyBack:
			if err := s.completeMoneyBack(ctx, repos, pr, purchase, actor); err != nil {
				return err
			}
		case trade.PurchaseReturnTypeProductReplacement:
			if err := s.completeReplacement(ctx, repos, pr, purchase, actor); err != nil {
				return err
			}
		}

		if err := repos.Purchases().Save(ctx, purchase); err != nil {
			return err
		}
		if err := repos.PurchaseReturns().Save(ctx, pr); err != nil {
			return err
		}
		response = ToPurchaseReturnResponse(pr)
		return nil
	})
	if err != nil {
		s.logger.Warn("purchase return completion failed",
			zap.String("return_id", returnID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("purchase return completed", zap.String("return_id", returnID.String()))
	return &response, nil
}

func (s *PurchaseReturnService) completeMoneyBack(ctx context.Context, repos Repositories, pr *trade.PurchaseReturn, purchase *trade.Purchase, actor shared.Actor) error {
	refund := pr.TotalReturnValuation()
	purchase.ApplyRefund(refund)

	if pr.PaymentType == trade.RefundPaymentTypeAdjustToAdvance {
		supplier, err := s.supplierForUpdate(ctx, repos, pr.SupplierID)
		if err != nil {
			return err
		}
		if err := supplier.IncreaseAdvance(refund); err != nil {
			return err
		}
		if err := repos.Suppliers().Save(ctx, supplier); err != nil {
			return err
		}
	}

	payment, err := finance.NewRefundReceivedPayment(pr.SupplierID, refund,
		finance.PaymentReferencePurchaseReturn, pr.ID, actor)
	if err != nil {
		return err
	}
	return repos.Payments().Append(ctx, payment)
}

func (s *PurchaseReturnService) completeReplacement(ctx context.Context, repos Repositories, pr *trade.PurchaseReturn, purchase *trade.Purchase, actor shared.Actor) error {
	if err := purchase.ApplyReplacementItems(pr.Items, pr.Replacements); err != nil {
		return err
	}

	ledger := appstock.NewLedger(repos.StockLots(), repos.StockMovements())
	for idx := range pr.Replacements {
		line := &pr.Replacements[idx]
		_, err := ledger.Replenish(ctx, pr.WarehouseID, line.ProductID, line.VariantID,
			line.Quantity, line.UnitPriceValuation(), stock.ReferenceTypePurchaseReturn, pr.ID, actor)
		if err != nil {
			return err
		}
	}

	net := pr.NetDifference()
	switch net.Sign() {
	case 1:
		purchase.IncreaseDue(net)
		payment, err := finance.NewAdditionalDuePayment(pr.SupplierID, net,
			finance.PaymentReferencePurchaseReturn, pr.ID, actor)
		if err != nil {
			return err
		}
		return repos.Payments().Append(ctx, payment)
	case -1:
		refund := net.Abs()
		purchase.ApplyRefund(refund)
		payment, err := finance.NewRefundReceivedPayment(pr.SupplierID, refund,
			finance.PaymentReferencePurchaseReturn, pr.ID, actor)
		if err != nil {
			return err
		}
		return repos.Payments().Append(ctx, payment)
	}
	return nil
}

// supplierForUpdate loads the supplier row, creating it when the supplier
// referenced by the purchase has no local row yet.
func (s *PurchaseReturnService) supplierForUpdate(ctx context.Context, repos Repositories, supplierID uuid.UUID) (*partner.Supplier, error) {
	supplier, err := repos.Suppliers().FindByIDForUpdate(ctx, supplierID)
	if err == nil {
		return supplier, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	supplier, err = partner.NewSupplierWithID(supplierID, "supplier "+supplierID.String())
	if err != nil {
		return nil, err
	}
	if err := repos.Suppliers().Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete removes a return that is still pending
func (s *PurchaseReturnService) Delete(ctx context.Context, returnID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		pr, err := repos.PurchaseReturns().FindByIDForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if err := pr.EnsureDeletable(); err != nil {
			return err
		}
		return repos.PurchaseReturns().Delete(ctx, returnID)
	})
	if err != nil {
		s.logger.Warn("purchase return deletion failed",
			zap.String("return_id", returnID.String()),
			zap.Error(err))
		return err
	}

	s.logger.Info("purchase return deleted", zap.String("return_id", returnID.String()))
	return nil
}

// GetByID retrieves a purchase return by ID
func (s *PurchaseReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*PurchaseReturnResponse, error) {
	var response PurchaseReturnResponse
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		pr, err := repos.PurchaseReturns().FindByID(ctx, returnID)
		if err != nil {
			return err
		}
		response = ToPurchaseReturnResponse(pr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves purchase returns with pagination
func (s *PurchaseReturnService) List(ctx context.Context, offset, limit int) ([]PurchaseReturnResponse, int64, error) {
	var (
		responses []PurchaseReturnResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		returns, count, err := repos.PurchaseReturns().List(ctx, offset, limit)
		if err != nil {
			return err
		}
		total = count
		responses = make([]PurchaseReturnResponse, 0, len(returns))
		for _, pr := range returns {
			responses = append(responses, ToPurchaseReturnResponse(pr))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}
