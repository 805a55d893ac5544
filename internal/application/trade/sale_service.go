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

// SaleService handles sale business operations
type SaleService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(scope TransactionScope, logger *zap.Logger) *SaleService {
	return &SaleService{scope: scope, logger: logger}
}

// Create creates a sale and allocates stock FIFO for every line. The sale,
// the lot deductions and the movement rows commit together; if any line
// cannot be covered the whole sale is rolled back.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest, actor shared.Actor) (*SaleResponse, error) {
	var response SaleResponse

	err := s.scope.Execute(ctx, func(repos Repositories) error {
		sale, err := trade.NewSale(req.CustomerID, actor)
		if err != nil {
			return err
		}
		for _, input := range req.Items {
			price := valueobject.NewValuation(input.UnitPrice, input.ShadowUnitPrice)
			if _, err := sale.AddItem(input.ProductID, input.VariantID, input.Quantity, price); err != nil {
				return err
			}
		}
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}

		ledger := appstock.NewLedger(repos.StockLots(), repos.StockMovements())
		for _, input := range req.Items {
			_, err := ledger.Allocate(ctx, input.ProductID, input.VariantID, req.WarehouseID,
				input.Quantity, stock.ReferenceTypeSale, sale.ID, actor)
			if err != nil {
				return err
			}
		}

		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		s.logger.Warn("sale creation failed",
			zap.String("customer_id", req.CustomerID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("sale_id", response.ID.String()),
		zap.String("customer_id", req.CustomerID.String()),
		zap.Int("items", len(response.Items)))
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var response SaleResponse
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		sale, err := repos.Sales().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves sales with pagination
func (s *SaleService) List(ctx context.Context, offset, limit int) ([]SaleResponse, int64, error) {
	var (
		responses []SaleResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos Repositories) error {
		sales, count, err := repos.Sales().List(ctx, offset, limit)
		if err != nil {
			return err
		}
		total = count
		responses = make([]SaleResponse, 0, len(sales))
		for _, sale := range sales {
			responses = append(responses, ToSaleResponse(sale))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}
