package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/trade"
)

// ==================== Shared DTOs ====================

// DualAmount carries one value in both monetary views
type DualAmount struct {
	Real   decimal.Decimal `json:"real"`
	Shadow decimal.Decimal `json:"shadow"`
}

// ==================== Sale DTOs ====================

// CreateSaleItemInput is one line in a create sale request
type CreateSaleItemInput struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	VariantID       uuid.UUID       `json:"variant_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
	ShadowUnitPrice decimal.Decimal `json:"shadow_unit_price" binding:"required"`
}

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	CustomerID  uuid.UUID             `json:"customer_id" binding:"required"`
	WarehouseID *uuid.UUID            `json:"warehouse_id"`
	Items       []CreateSaleItemInput `json:"items" binding:"required,min=1"`
}

// SaleItemResponse is one line on a sale response
type SaleItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice DualAmount      `json:"unit_price"`
	Total     DualAmount      `json:"total"`
}

// SaleResponse represents a sale
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	Items         []SaleItemResponse `json:"items"`
	GrandTotal    DualAmount         `json:"grand_total"`
	PaidAmount    DualAmount         `json:"paid_amount"`
	DueAmount     DualAmount         `json:"due_amount"`
	PaymentStatus string             `json:"payment_status"`
	ReturnStatus  string             `json:"return_status"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToSaleResponse converts a sale aggregate to its response form
func ToSaleResponse(s *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for idx := range s.Items {
		item := &s.Items[idx]
		items = append(items, SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: DualAmount{Real: item.UnitPrice, Shadow: item.ShadowUnitPrice},
			Total:     DualAmount{Real: item.Total, Shadow: item.ShadowTotal},
		})
	}
	return SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		Items:         items,
		GrandTotal:    DualAmount{Real: s.GrandTotal, Shadow: s.ShadowGrandTotal},
		PaidAmount:    DualAmount{Real: s.PaidAmount, Shadow: s.ShadowPaidAmount},
		DueAmount:     DualAmount{Real: s.DueAmount, Shadow: s.ShadowDueAmount},
		PaymentStatus: s.PaymentStatus.String(),
		ReturnStatus:  s.ReturnStatus.String(),
		CreatedAt:     s.CreatedAt,
	}
}

// ==================== Purchase DTOs ====================

// CreatePurchaseItemInput is one line in a create purchase request
type CreatePurchaseItemInput struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	VariantID       uuid.UUID       `json:"variant_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
	ShadowUnitPrice decimal.Decimal `json:"shadow_unit_price" binding:"required"`
}

// CreatePurchaseRequest represents a request to create a purchase
type CreatePurchaseRequest struct {
	SupplierID  uuid.UUID                 `json:"supplier_id" binding:"required"`
	WarehouseID uuid.UUID                 `json:"warehouse_id" binding:"required"`
	Items       []CreatePurchaseItemInput `json:"items" binding:"required,min=1"`
}

// PurchaseItemResponse is one line on a purchase response
type PurchaseItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice DualAmount      `json:"unit_price"`
	Total     DualAmount      `json:"total"`
	Returned  bool            `json:"returned"`
}

// PurchaseResponse represents a purchase
type PurchaseResponse struct {
	ID            uuid.UUID              `json:"id"`
	SupplierID    uuid.UUID              `json:"supplier_id"`
	WarehouseID   uuid.UUID              `json:"warehouse_id"`
	Items         []PurchaseItemResponse `json:"items"`
	GrandTotal    DualAmount             `json:"grand_total"`
	PaidAmount    DualAmount             `json:"paid_amount"`
	DueAmount     DualAmount             `json:"due_amount"`
	PaymentStatus string                 `json:"payment_status"`
	CreatedAt     time.Time              `json:"created_at"`
}

// ToPurchaseResponse converts a purchase aggregate to its response form
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, 0, len(p.Items))
	for idx := range p.Items {
		item := &p.Items[idx]
		items = append(items, PurchaseItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: DualAmount{Real: item.UnitPrice, Shadow: item.ShadowUnitPrice},
			Total:     DualAmount{Real: item.Total, Shadow: item.ShadowTotal},
			Returned:  item.Returned,
		})
	}
	return PurchaseResponse{
		ID:            p.ID,
		SupplierID:    p.SupplierID,
		WarehouseID:   p.WarehouseID,
		Items:         items,
		GrandTotal:    DualAmount{Real: p.GrandTotal, Shadow: p.ShadowGrandTotal},
		PaidAmount:    DualAmount{Real: p.PaidAmount, Shadow: p.ShadowPaidAmount},
		DueAmount:     DualAmount{Real: p.DueAmount, Shadow: p.ShadowDueAmount},
		PaymentStatus: p.PaymentStatus.String(),
		CreatedAt:     p.CreatedAt,
	}
}

// ==================== Purchase Return DTOs ====================

// CreatePurchaseReturnItemInput is one line in a create purchase return request
type CreatePurchaseReturnItemInput struct {
	PurchaseItemID uuid.UUID       `json:"purchase_item_id" binding:"required"`
	ReturnQuantity decimal.Decimal `json:"return_quantity" binding:"required"`
}

// ReplacementProductInput is one replacement line handed in on creation
type ReplacementProductInput struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	VariantID       uuid.UUID       `json:"variant_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
	ShadowUnitPrice decimal.Decimal `json:"shadow_unit_price" binding:"required"`
}

// CreatePurchaseReturnRequest represents a request to create a purchase return
type CreatePurchaseReturnRequest struct {
	PurchaseID   uuid.UUID                       `json:"purchase_id" binding:"required"`
	ReturnType   string                          `json:"return_type" binding:"required"`
	PaymentType  string                          `json:"payment_type"`
	Items        []CreatePurchaseReturnItemInput `json:"items" binding:"required,min=1"`
	Replacements []ReplacementProductInput       `json:"replacements"`
}

// PurchaseReturnItemResponse is one line on a purchase return response
type PurchaseReturnItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	PurchaseItemID uuid.UUID       `json:"purchase_item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	VariantID      uuid.UUID       `json:"variant_id"`
	ReturnQuantity decimal.Decimal `json:"return_quantity"`
	UnitPrice      DualAmount      `json:"unit_price"`
	RefundAmount   DualAmount      `json:"refund_amount"`
}

// ReplacementProductResponse is one replacement line on a response
type ReplacementProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice DualAmount      `json:"unit_price"`
	Total     DualAmount      `json:"total"`
}

// PurchaseReturnResponse represents a purchase return
type PurchaseReturnResponse struct {
	ID               uuid.UUID                    `json:"id"`
	PurchaseID       uuid.UUID                    `json:"purchase_id"`
	SupplierID       uuid.UUID                    `json:"supplier_id"`
	WarehouseID      uuid.UUID                    `json:"warehouse_id"`
	ReturnType       string                       `json:"return_type"`
	PaymentType      string                       `json:"payment_type"`
	Status           string                       `json:"status"`
	Items            []PurchaseReturnItemResponse `json:"items"`
	Replacements     []ReplacementProductResponse `json:"replacements,omitempty"`
	TotalReturn      DualAmount                   `json:"total_return_amount"`
	ReplacementTotal DualAmount                   `json:"replacement_total"`
	NetDifference    DualAmount                   `json:"net_difference"`
	CreatedAt        time.Time                    `json:"created_at"`
	ApprovedAt       *time.Time                   `json:"approved_at,omitempty"`
	CompletedAt      *time.Time                   `json:"completed_at,omitempty"`
}

// ToPurchaseReturnResponse converts a purchase return aggregate to its response form
func ToPurchaseReturnResponse(pr *trade.PurchaseReturn) PurchaseReturnResponse {
	items := make([]PurchaseReturnItemResponse, 0, len(pr.Items))
	for idx := range pr.Items {
		item := &pr.Items[idx]
		items = append(items, PurchaseReturnItemResponse{
			ID:             item.ID,
			PurchaseItemID: item.PurchaseItemID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			ReturnQuantity: item.ReturnQuantity,
			UnitPrice:      DualAmount{Real: item.UnitPrice, Shadow: item.ShadowUnitPrice},
			RefundAmount:   DualAmount{Real: item.RefundAmount, Shadow: item.ShadowRefundAmount},
		})
	}
	replacements := make([]ReplacementProductResponse, 0, len(pr.Replacements))
	for idx := range pr.Replacements {
		line := &pr.Replacements[idx]
		replacements = append(replacements, ReplacementProductResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: DualAmount{Real: line.UnitPrice, Shadow: line.ShadowUnitPrice},
			Total:     DualAmount{Real: line.Total, Shadow: line.ShadowTotal},
		})
	}
	net := pr.NetDifference()
	return PurchaseReturnResponse{
		ID:               pr.ID,
		PurchaseID:       pr.PurchaseID,
		SupplierID:       pr.SupplierID,
		WarehouseID:      pr.WarehouseID,
		ReturnType:       pr.ReturnType.String(),
		PaymentType:      pr.PaymentType.String(),
		Status:           pr.Status.String(),
		Items:            items,
		Replacements:     replacements,
		TotalReturn:      DualAmount{Real: pr.TotalReturnAmount, Shadow: pr.ShadowTotalReturn},
		ReplacementTotal: DualAmount{Real: pr.ReplacementTotal, Shadow: pr.ShadowReplacementTotal},
		NetDifference:    DualAmount{Real: net.Real(), Shadow: net.Shadow()},
		CreatedAt:        pr.CreatedAt,
		ApprovedAt:       pr.ApprovedAt,
		CompletedAt:      pr.CompletedAt,
	}
}

// ==================== Sales Return DTOs ====================

// CreateSalesReturnItemInput is one line in a create sales return request
type CreateSalesReturnItemInput struct {
	SaleItemID     uuid.UUID       `json:"sale_item_id" binding:"required"`
	ReturnQuantity decimal.Decimal `json:"return_quantity" binding:"required"`
}

// CreateSalesReturnRequest represents a request to create a sales return
type CreateSalesReturnRequest struct {
	SaleID       uuid.UUID                    `json:"sale_id" binding:"required"`
	WarehouseID  uuid.UUID                    `json:"warehouse_id" binding:"required"`
	Kind         string                       `json:"kind" binding:"required"`
	Settlement   string                       `json:"settlement" binding:"required"`
	Items        []CreateSalesReturnItemInput `json:"items" binding:"required,min=1"`
	Replacements []ReplacementProductInput    `json:"replacements"`
}

// SalesReturnItemResponse is one line on a sales return response
type SalesReturnItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	SaleItemID     uuid.UUID       `json:"sale_item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	VariantID      uuid.UUID       `json:"variant_id"`
	ReturnQuantity decimal.Decimal `json:"return_quantity"`
	RefundAmount   DualAmount      `json:"refund_amount"`
}

// SalesReturnResponse represents a sales return
type SalesReturnResponse struct {
	ID               uuid.UUID                    `json:"id"`
	SaleID           uuid.UUID                    `json:"sale_id"`
	CustomerID       uuid.UUID                    `json:"customer_id"`
	WarehouseID      uuid.UUID                    `json:"warehouse_id"`
	Kind             string                       `json:"kind"`
	Settlement       string                       `json:"settlement"`
	Items            []SalesReturnItemResponse    `json:"items"`
	Replacements     []ReplacementProductResponse `json:"replacements,omitempty"`
	TotalReturn      DualAmount                   `json:"total_return_amount"`
	ReplacementTotal DualAmount                   `json:"replacement_total"`
	NetDifference    DualAmount                   `json:"net_difference"`
	CreatedAt        time.Time                    `json:"created_at"`
}

// ToSalesReturnResponse converts a sales return aggregate to its response form
func ToSalesReturnResponse(sr *trade.SalesReturn) SalesReturnResponse {
	items := make([]SalesReturnItemResponse, 0, len(sr.Items))
	for idx := range sr.Items {
		item := &sr.Items[idx]
		items = append(items, SalesReturnItemResponse{
			ID:             item.ID,
			SaleItemID:     item.SaleItemID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			ReturnQuantity: item.ReturnQuantity,
			RefundAmount:   DualAmount{Real: item.RefundAmount, Shadow: item.ShadowRefundAmount},
		})
	}
	replacements := make([]ReplacementProductResponse, 0, len(sr.Replacements))
	for idx := range sr.Replacements {
		line := &sr.Replacements[idx]
		replacements = append(replacements, ReplacementProductResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: DualAmount{Real: line.UnitPrice, Shadow: line.ShadowUnitPrice},
			Total:     DualAmount{Real: line.Total, Shadow: line.ShadowTotal},
		})
	}
	net := sr.NetDifference()
	return SalesReturnResponse{
		ID:               sr.ID,
		SaleID:           sr.SaleID,
		CustomerID:       sr.CustomerID,
		WarehouseID:      sr.WarehouseID,
		Kind:             sr.Kind.String(),
		Settlement:       sr.Settlement.String(),
		Items:            items,
		Replacements:     replacements,
		TotalReturn:      DualAmount{Real: sr.TotalReturnAmount, Shadow: sr.ShadowTotalReturn},
		ReplacementTotal: DualAmount{Real: sr.ReplacementTotal, Shadow: sr.ShadowReplacementTotal},
		NetDifference:    DualAmount{Real: net.Real(), Shadow: net.Shadow()},
		CreatedAt:        sr.CreatedAt,
	}
}
