package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tindahan-pos/internal/model"
	"tindahan-pos/internal/repository"
	"tindahan-pos/internal/ws"
	"tindahan-pos/pkg/logger"
	"tindahan-pos/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type InventoryService interface {
	Resupply(ctx context.Context, req *ResupplyRequest) (*model.ResupplyEvent, error)
	Sell(ctx context.Context, req *SaleRequest) (*SaleReceipt, error)
	QuickResupply(ctx context.Context, productID uint, quantity int, userID *uint) (*model.InventoryView, error)
	QuickSell(ctx context.Context, productID uint, quantity int, userID *uint) (*model.InventoryView, error)

	ListInventory(ctx context.Context) ([]model.InventoryView, error)
	GetSale(ctx context.Context, id uint) (*SaleReceipt, error)
	ResupplyHistory(ctx context.Context, productID uint) ([]model.ResupplyEvent, error)
}

// ResupplyRequest carries every field of a stock receipt; pointers distinguish "missing" from zero
type ResupplyRequest struct {
	ProductID      uint             `json:"product_id" validate:"required"`
	SupplierID     uint             `json:"supplier_id" validate:"required"`
	Quantity       int              `json:"quantity" validate:"required,gt=0"`
	UnitCost       *decimal.Decimal `json:"unit_cost" validate:"required"`
	ExpirationDate string           `json:"expiration_date" validate:"required,datetime=2006-01-02"`
	Threshold      *int             `json:"threshold" validate:"required,gte=0"`
	UserID         *uint            `json:"-"`
}

type SaleLine struct {
	ProductID      uint                  `json:"product_id" validate:"required"`
	Quantity       int                   `json:"quantity" validate:"required,gt=0"`
	StockoutReason *model.StockoutReason `json:"stockout_reason,omitempty" validate:"omitempty,oneof=sold expired"`
}

type SaleRequest struct {
	Items  []SaleLine `json:"items" validate:"dive"`
	UserID *uint      `json:"-"`
}

// SaleReceipt is a committed sale with its lines and grand total
type SaleReceipt struct {
	Sale  *model.Sale      `json:"sale"`
	Items []model.SaleItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

type inventoryService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	invRepo      repository.InventoryRepository
	resupplyRepo repository.ResupplyRepository
	saleRepo     repository.SaleRepository
	events       EventPublisher
	log          *logrus.Logger
	now          func() time.Time
}

func NewInventoryService(
	db *gorm.DB,
	pRepo repository.ProductRepository,
	sRepo repository.SupplierRepository,
	iRepo repository.InventoryRepository,
	rRepo repository.ResupplyRepository,
	saleRepo repository.SaleRepository,
	events EventPublisher,
	log *logrus.Logger,
) InventoryService {
	return &inventoryService{
		db:           db,
		productRepo:  pRepo,
		supplierRepo: sRepo,
		invRepo:      iRepo,
		resupplyRepo: rRepo,
		saleRepo:     saleRepo,
		events:       events,
		log:          log,
		now:          time.Now,
	}
}

func (s *inventoryService) Resupply(ctx context.Context, req *ResupplyRequest) (*model.ResupplyEvent, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}
	if req.UnitCost.IsNegative() {
		return nil, invalid("unit_cost must be non-negative")
	}
	expiration, err := time.Parse(validator.DateLayout, req.ExpirationDate)
	if err != nil {
		return nil, invalid("expiration_date must be YYYY-MM-DD")
	}

	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, notFoundOr(err, "product", req.ProductID)
	}
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, notFoundOr(err, "supplier", req.SupplierID)
	}

	supplierID := req.SupplierID
	event := &model.ResupplyEvent{
		ProductID:      req.ProductID,
		SupplierID:     &supplierID,
		UserID:         req.UserID,
		Quantity:       req.Quantity,
		UnitCost:       req.UnitCost.Round(2),
		ResupplyDate:   s.now().UTC(),
		ExpirationDate: &expiration,
	}

	var inv *model.Inventory
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resupplyRepo.Create(tx, event); err != nil {
			return err
		}
		// First resupply fixes threshold and expiration; later ones only add quantity
		if err := s.invRepo.InsertIfAbsent(tx, &model.Inventory{
			ProductID:      req.ProductID,
			Quantity:       0,
			Threshold:      *req.Threshold,
			ExpirationDate: &expiration,
		}); err != nil {
			return err
		}
		if err := s.invRepo.Increment(tx, req.ProductID, req.Quantity); err != nil {
			return err
		}
		inv, err = s.invRepo.LockByProductID(tx, req.ProductID)
		return err
	})
	if err != nil {
		logger.LogError(s.log, "inventory", "Resupply", "resupply transaction", req, err)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
		"on_hand":    inv.Quantity,
	}).Info("resupply committed")
	publish(s.events, ws.Event{
		Type:    ws.EventResupply,
		Action:  "resupply_created",
		Data:    map[string]interface{}{"event": event, "inventory": inv},
		UserID:  req.UserID,
		Message: fmt.Sprintf("received %d units of product %d", req.Quantity, req.ProductID),
	})
	return event, nil
}

func (s *inventoryService) Sell(ctx context.Context, req *SaleRequest) (*SaleReceipt, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := validationError(req); err != nil {
		return nil, err
	}

	sale := &model.Sale{UserID: req.UserID, SaleDate: s.now().UTC()}
	var after []model.Inventory

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lines for the same product are taken from stock as one quantity
		products := make(map[uint]*model.Product, len(req.Items))
		wanted := make(map[uint]int, len(req.Items))
		var order []uint
		for _, line := range req.Items {
			if _, seen := products[line.ProductID]; !seen {
				product, err := s.productRepo.FindByIDTx(tx, line.ProductID)
				if err != nil {
					return notFoundOr(err, "product", line.ProductID)
				}
				products[line.ProductID] = product
				order = append(order, line.ProductID)
			}
			wanted[line.ProductID] += line.Quantity
		}

		for _, productID := range order {
			ok, err := s.invRepo.DecrementIfAvailable(tx, productID, wanted[productID])
			if err != nil {
				return err
			}
			if !ok {
				return s.shortage(tx, productID, wanted[productID])
			}
		}

		items := make([]model.SaleItem, 0, len(req.Items))
		for _, line := range req.Items {
			product := products[line.ProductID]
			items = append(items, model.SaleItem{
				ProductID:      line.ProductID,
				Quantity:       line.Quantity,
				Amount:         product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
				ProductName:    product.Name,
				StockoutReason: line.StockoutReason,
			})
		}

		sale.Items = items
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}

		after = after[:0]
		for _, productID := range order {
			inv, err := s.invRepo.LockByProductID(tx, productID)
			if err != nil {
				return err
			}
			after = append(after, *inv)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientStock) && !errors.Is(err, ErrNotFound) {
			logger.LogError(s.log, "inventory", "Sell", "sale transaction", req, err)
		}
		return nil, err
	}

	receipt := &SaleReceipt{Sale: sale, Items: sale.Items, Total: sale.Total()}
	s.log.WithFields(logrus.Fields{
		"sale_id": sale.ID,
		"lines":   len(sale.Items),
		"total":   receipt.Total.StringFixed(2),
	}).Info("sale committed")
	s.announceSale(receipt, after)
	return receipt, nil
}

// shortage builds the error for a product the compare-and-decrement refused.
// The row has not been decremented for that product, so Available is the stock on hand.
func (s *inventoryService) shortage(tx *gorm.DB, productID uint, requested int) error {
	available := 0
	inv, err := s.invRepo.LockByProductID(tx, productID)
	switch {
	case err == nil:
		available = inv.Quantity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

func (s *inventoryService) announceSale(receipt *SaleReceipt, after []model.Inventory) {
	publish(s.events, ws.Event{
		Type:    ws.EventSale,
		Action:  "sale_created",
		Data:    receipt,
		UserID:  receipt.Sale.UserID,
		Message: fmt.Sprintf("sale #%d: %d line(s), total %s", receipt.Sale.ID, len(receipt.Items), receipt.Total.StringFixed(2)),
	})

	seen := make(map[uint]bool, len(after))
	for i := range after {
		inv := after[i]
		if seen[inv.ProductID] || !inv.IsLowStock() {
			continue
		}
		seen[inv.ProductID] = true
		publish(s.events, ws.Event{
			Type:    ws.EventLowStock,
			Data:    inv,
			Message: fmt.Sprintf("product %d is low on stock (%d left)", inv.ProductID, inv.Quantity),
		})
	}
}

// QuickResupply adds stock to a product that already has an inventory row, reusing its
// threshold and expiration and the product's supplier.
func (s *inventoryService) QuickResupply(ctx context.Context, productID uint, quantity int, userID *uint) (*model.InventoryView, error) {
	if quantity <= 0 {
		return nil, invalid("quantity must be greater than zero")
	}

	var inv *model.Inventory
	var product *model.Product
	var event *model.ResupplyEvent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		product, err = s.productRepo.FindByIDTx(tx, productID)
		if err != nil {
			return notFoundOr(err, "product", productID)
		}
		current, err := s.invRepo.LockByProductID(tx, productID)
		if err != nil {
			return notFoundOr(err, "inventory", productID)
		}

		event = &model.ResupplyEvent{
			ProductID:      productID,
			SupplierID:     product.SupplierID,
			UserID:         userID,
			Quantity:       quantity,
			UnitCost:       decimal.Zero,
			ResupplyDate:   s.now().UTC(),
			ExpirationDate: current.ExpirationDate,
		}
		if err := s.resupplyRepo.Create(tx, event); err != nil {
			return err
		}
		if err := s.invRepo.Increment(tx, productID, quantity); err != nil {
			return err
		}
		inv, err = s.invRepo.LockByProductID(tx, productID)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.LogError(s.log, "inventory", "QuickResupply", "resupply transaction", productID, err)
		}
		return nil, err
	}

	publish(s.events, ws.Event{
		Type:    ws.EventResupply,
		Action:  "resupply_created",
		Data:    map[string]interface{}{"event": event, "inventory": inv},
		UserID:  userID,
		Message: fmt.Sprintf("received %d units of product %d", quantity, productID),
	})
	return inventoryView(product, inv), nil
}

// QuickSell records a one-line sale and returns the product's remaining stock
func (s *inventoryService) QuickSell(ctx context.Context, productID uint, quantity int, userID *uint) (*model.InventoryView, error) {
	if _, err := s.Sell(ctx, &SaleRequest{
		Items:  []SaleLine{{ProductID: productID, Quantity: quantity}},
		UserID: userID,
	}); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product", productID)
	}
	inv, err := s.invRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "inventory", productID)
	}
	return inventoryView(product, inv), nil
}

func inventoryView(p *model.Product, inv *model.Inventory) *model.InventoryView {
	return &model.InventoryView{
		ProductID:      inv.ProductID,
		Name:           p.Name,
		SKU:            p.SKU,
		Quantity:       inv.Quantity,
		Threshold:      inv.Threshold,
		ExpirationDate: inv.ExpirationDate,
	}
}

func (s *inventoryService) ListInventory(ctx context.Context) ([]model.InventoryView, error) {
	return s.invRepo.FindAll(ctx)
}

func (s *inventoryService) GetSale(ctx context.Context, id uint) (*SaleReceipt, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "sale", id)
	}
	return &SaleReceipt{Sale: sale, Items: sale.Items, Total: sale.Total()}, nil
}

func (s *inventoryService) ResupplyHistory(ctx context.Context, productID uint) ([]model.ResupplyEvent, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, notFoundOr(err, "product", productID)
	}
	return s.resupplyRepo.FindByProductID(ctx, productID)
}
