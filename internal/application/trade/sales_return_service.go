package trade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appstock "github.com/retailcore/backend/internal/application/stock"
	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/stock"
	"github.com/retailcore/backend/internal/domain/trade"
)

// SalesReturnService handles customer returns. A sales return has no
// approval workflow; stock, expense and payment effects settle in the same
// transaction that creates it.
type SalesReturnService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewSalesReturnService creates a new SalesReturnService
func NewSalesReturnService(scope TransactionScope, logger *zap.Logger) *SalesReturnService {
	return &SalesReturnService{scope: scope, logger: logger}
}

// Create creates and settles a sales return. At most one return per sale;
// a second attempt fails with ErrDuplicateReturn and changes nothing.
func (s *SalesReturnService) Create(ctx context.Context, req CreateSalesReturnRequest, actor shared.Actor) (*SalesReturnResponse, error) {
	kind := trade.SalesReturnKind(req.Kind)
	settlement := trade.SalesReturnSettlement(req.Settlement)

	var response SalesReturnResponse
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		exists, err := repos.SalesReturns().ExistsForSale(ctx, req.SaleID)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrDuplicateReturn
		}

		sale, err := repos.Sales().FindByIDForUpdate(ctx, req.SaleID)
		if err != nil {
			return err
		}

		sr, err := trade.NewSalesReturn(sale, req.WarehouseID, kind, settlement, actor)
		if err != nil {
			return err
		}
		for _, input := range req.Items {
			item := sale.GetItem(input.SaleItemID)
			if item == nil {
				return shared.NewDomainError(shared.CodeNotFound, "Sale item not found: "+input.SaleItemID.String())
			}
			if _, err := sr.AddItem(item, input.ReturnQuantity); err != nil {
				return err
			}
		}
		for _, input := range req.Replacements {
			price := valueobject.NewValuation(input.UnitPrice, input.ShadowUnitPrice)
			if _, err := sr.AddReplacement(input.ProductID, input.VariantID, input.Quantity, price); err != nil {
				return err
			}
		}

		if err := s.settle(ctx, repos, sr, actor); err != nil {
			return err
		}

		if err := repos.SalesReturns().Save(ctx, sr); err != nil {
			return err
		}

		sale.RecomputeReturnStatus(sr.TotalReturnedQuantity())
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}

		response = ToSalesReturnResponse(sr)
		return nil
	})
	if err != nil {
		s.logger.Warn("sales return creation failed",
			zap.String("sale_id", req.SaleID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("sales return created",
		zap.String("return_id", response.ID.String()),
		zap.String("sale_id", req.SaleID.String()),
		zap.String("kind", response.Kind))
	return &response, nil
}

// settle applies the stock, expense and payment effects of the return
func (s *SalesReturnService) settle(ctx context.Context, repos Repositories, sr *trade.SalesReturn, actor shared.Actor) error {
	ledger := appstock.NewLedger(repos.StockLots(), repos.StockMovements())

	if sr.RestocksGoods() {
		// Returned goods go back into sellable stock at the sale unit price
		for idx := range sr.Items {
			item := &sr.Items[idx]
			cost := valueobject.NewValuation(item.UnitPrice, item.ShadowUnitPrice)
			_, err := ledger.Replenish(ctx, sr.WarehouseID, item.ProductID, item.VariantID,
				item.ReturnQuantity, cost, stock.ReferenceTypeSalesReturn, sr.ID, actor)
			if err != nil {
				return err
			}
		}
	}

	if sr.Settlement == trade.SalesReturnSettlementProductReplacement {
		// Replacement goods ship out of stock to the customer
		for idx := range sr.Replacements {
			line := &sr.Replacements[idx]
			warehouseID := sr.WarehouseID
			_, err := ledger.Allocate(ctx, line.ProductID, line.VariantID, &warehouseID,
				line.Quantity, stock.ReferenceTypeSalesReturn, sr.ID, actor)
			if err != nil {
				return err
			}
		}

		net := sr.NetDifference()
		if net.Sign() > 0 {
			payment, err := finance.NewCustomerDuePayment(sr.CustomerID, net, sr.ID, actor)
			if err != nil {
				return err
			}
			if err := repos.Payments().Append(ctx, payment); err != nil {
				return err
			}
		}

		// A damaged swap writes off the cost of the replacement goods shipped
		// out. A sale_return swap moves sellable stock both ways and books
		// no expense.
		if sr.Kind == trade.SalesReturnKindDamaged {
			cost := sr.ReplacementTotalValuation()
			if cost.Sign() > 0 {
				return s.bookExpense(ctx, repos, sr,
					finance.ExpenseCategoryDamagedGoods, cost, "damaged goods replacement", actor)
			}
		}
		return nil
	}

	// Money-back settlement: the refunded amount is the cost of the return
	refund := sr.TotalReturnValuation()
	if refund.Sign() > 0 {
		category, note := finance.ExpenseCategorySalesRefund, "sales return refund"
		if sr.Kind == trade.SalesReturnKindDamaged {
			category, note = finance.ExpenseCategoryDamagedGoods, "damaged goods write-off"
		}
		return s.bookExpense(ctx, repos, sr, category, refund, note, actor)
	}
	return nil
}

func (s *SalesReturnService) bookExpense(ctx context.Context, repos Repositories, sr *trade.SalesReturn, category finance.ExpenseCategory, amount valueobject.Valuation, note string, actor shared.Actor) error {
	expense, err := finance.NewExpense(category, amount, sr.ID, note, actor)
	if err != nil {
		return err
	}
	return repos.Expenses().Append(ctx, expense)
}

// GetByID retrieves a sales return by ID
func (s *SalesReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*SalesReturnResponse, error) {
	var response SalesReturnResponse
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		sr, err := repos.SalesReturns().FindByID(ctx, returnID)
		if err != nil {
			return err
		}
		response = ToSalesReturnResponse(sr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves sales returns with pagination
func (s *SalesReturnService) List(ctx context.Context, offset, limit int) ([]SalesReturnResponse, int64, error) {
	var (
		responses []SalesReturnResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		returns, count, err := repos.SalesReturns().List(ctx, offset, limit)
		if err != nil {
			return err
		}
		total = count
		responses = make([]SalesReturnResponse, 0, len(returns))
		for _, sr := range returns {
			responses = append(responses, ToSalesReturnResponse(sr))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}
