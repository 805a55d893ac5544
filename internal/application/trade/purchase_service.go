package trade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appstock "github.com/retailcore/backend/internal/application/stock"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/stock"
	"github.com/retailcore/backend/internal/domain/trade"
)

// PurchaseService handles purchase business operations
type PurchaseService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(scope TransactionScope, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{scope: scope, logger: logger}
}

// Create creates a purchase and replenishes stock for every line. Goods land
// in the lot for the (warehouse, product, variant) key at a weighted average
// cost, with an inbound movement per line.
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest, actor shared.Actor) (*PurchaseResponse, error) {
	var response PurchaseResponse

	err := s.scope.Execute(ctx, func(repos Repositories) error {
		purchase, err := trade.NewPurchase(req.SupplierID, req.WarehouseID, actor)
		if err != nil {
			return err
		}
		for _, input := range req.Items {
			price := valueobject.NewValuation(input.UnitPrice, input.ShadowUnitPrice)
			if _, err := purchase.AddItem(input.ProductID, input.VariantID, input.Quantity, price); err != nil {
				return err
			}
		}
		if err := repos.Purchases().Save(ctx, purchase); err != nil {
			return err
		}

		ledger := appstock.NewLedger(repos.StockLots(), repos.StockMovements())
		for _, input := range req.Items {
			cost := valueobject.NewValuation(input.UnitPrice, input.ShadowUnitPrice)
			_, err := ledger.Replenish(ctx, req.WarehouseID, input.ProductID, input.VariantID,
				input.Quantity, cost, stock.ReferenceTypePurchase, purchase.ID, actor)
			if err != nil {
				return err
			}
		}

		response = ToPurchaseResponse(purchase)
		return nil
	})
	if err != nil {
		s.logger.Warn("purchase creation failed",
			zap.String("supplier_id", req.SupplierID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("purchase created",
		zap.String("purchase_id", response.ID.String()),
		zap.String("supplier_id", req.SupplierID.String()),
		zap.Int("items", len(response.Items)))
	return &response, nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	var response PurchaseResponse
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		purchase, err := repos.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		response = ToPurchaseResponse(purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves purchases with pagination
func (s *PurchaseService) List(ctx context.Context, offset, limit int) ([]PurchaseResponse, int64, error) {
	var (
		responses []PurchaseResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		purchases, count, err := repos.Purchases().List(ctx, offset, limit)
		if err != nil {
			return err
		}
		total = count
		responses = make([]PurchaseResponse, 0, len(purchases))
		for _, purchase := range purchases {
			responses = append(responses, ToPurchaseResponse(purchase))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}
