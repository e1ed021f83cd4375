package service

import (
	"context"
	"errors"
	"strings"

	"tindahan-pos/internal/model"
	"tindahan-pos/internal/repository"
	"tindahan-pos/internal/ws"
	"tindahan-pos/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CatalogService interface {
	AddProduct(ctx context.Context, req *ProductInput, actorID *uint) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *ProductUpdate, actorID *uint) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)

	AddSupplier(ctx context.Context, req *SupplierInput, actorID *uint) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, req *SupplierInput, actorID *uint) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uint) error
	GetSupplier(ctx context.Context, id uint) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
}

type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	SKU         *string         `json:"sku" validate:"omitempty,max=50"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
	SupplierID  *uint           `json:"supplier_id"`
}

// ProductUpdate applies only the non-nil fields. SupplierID 0 detaches the supplier.
type ProductUpdate struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	SKU         *string          `json:"sku" validate:"omitempty,max=50"`
	Description *string          `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	SupplierID  *uint            `json:"supplier_id"`
}

type SupplierInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContactInfo string `json:"contact_info" validate:"max=255"`
	Address     string `json:"address"`
}

type catalogService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	invRepo      repository.InventoryRepository
	events       EventPublisher
	log          *logrus.Logger
}

func NewCatalogService(db *gorm.DB, pRepo repository.ProductRepository, sRepo repository.SupplierRepository, iRepo repository.InventoryRepository, events EventPublisher, log *logrus.Logger) CatalogService {
	return &catalogService{
		db:           db,
		productRepo:  pRepo,
		supplierRepo: sRepo,
		invRepo:      iRepo,
		events:       events,
		log:          log,
	}
}

// normalizeSKU trims the SKU and turns blank into NULL so uniqueness only binds real codes
func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *catalogService) AddProduct(ctx context.Context, req *ProductInput, actorID *uint) (*model.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.SKU = normalizeSKU(req.SKU)
	if err := validationError(req); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, 0, req.Name, req.SKU); err != nil {
		return nil, err
	}
	if err := s.ensureSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	product := &model.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice.Round(2),
		SupplierID:  req.SupplierID,
	}
	product.CreatedBy = actorID
	product.UpdatedBy = actorID

	if err := s.productRepo.Create(ctx, product); err != nil {
		err = s.duplicateOr(ctx, err, req.Name)
		logger.LogError(s.log, "catalog", "AddProduct", "create product", req, err)
		return nil, err
	}

	publish(s.events, ws.Event{Type: ws.EventCatalog, Action: "product_created", Data: product, UserID: actorID})
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, req *ProductUpdate, actorID *uint) (*model.Product, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name must not be blank")
		}
		product.Name = name
	}
	if req.SKU != nil {
		product.SKU = normalizeSKU(req.SKU)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, invalid("unit_price must be non-negative")
		}
		product.UnitPrice = req.UnitPrice.Round(2)
	}
	if req.SupplierID != nil {
		if *req.SupplierID == 0 {
			product.SupplierID = nil
		} else {
			if err := s.ensureSupplier(ctx, req.SupplierID); err != nil {
				return nil, err
			}
			product.SupplierID = req.SupplierID
		}
	}

	if err := s.ensureUnique(ctx, product.ID, product.Name, product.SKU); err != nil {
		return nil, err
	}

	product.UpdatedBy = actorID
	product.Supplier = nil
	product.Inventory = nil
	if err := s.productRepo.Update(ctx, product); err != nil {
		err = s.duplicateOr(ctx, err, product.Name)
		logger.LogError(s.log, "catalog", "UpdateProduct", "save product", id, err)
		return nil, err
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(s.events, ws.Event{Type: ws.EventCatalog, Action: "product_updated", Data: updated, UserID: actorID})
	return updated, nil
}

// DeleteProduct removes the product together with its inventory row. Resupply and sale
// history stay behind with their product id; sale items keep a name snapshot.
func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.invRepo.DeleteByProductID(tx, id); err != nil {
			return err
		}
		return s.productRepo.Delete(tx, id)
	})
	if err != nil {
		err = notFoundOr(err, "product", id)
		if !errors.Is(err, ErrNotFound) {
			logger.LogError(s.log, "catalog", "DeleteProduct", "delete product", id, err)
		}
		return err
	}

	publish(s.events, ws.Event{Type: ws.EventCatalog, Action: "product_deleted", Data: map[string]uint{"id": id}})
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *catalogService) AddSupplier(ctx context.Context, req *SupplierInput, actorID *uint) (*model.Supplier, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return nil, err
	}
	supplier := &model.Supplier{
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
		Address:     req.Address,
	}
	supplier.CreatedBy = actorID
	supplier.UpdatedBy = actorID
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		logger.LogError(s.log, "catalog", "AddSupplier", "create supplier", req, err)
		return nil, err
	}
	return supplier, nil
}

func (s *catalogService) UpdateSupplier(ctx context.Context, id uint, req *SupplierInput, actorID *uint) (*model.Supplier, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "supplier", id)
	}
	supplier.Name = req.Name
	supplier.ContactInfo = req.ContactInfo
	supplier.Address = req.Address
	supplier.UpdatedBy = actorID
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		logger.LogError(s.log, "catalog", "UpdateSupplier", "save supplier", id, err)
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier refuses while any product still points at the supplier
func (s *catalogService) DeleteSupplier(ctx context.Context, id uint) error {
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "supplier", id)
	}
	count, err := s.productRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSupplierInUse
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "supplier", id)
	}
	return nil
}

func (s *catalogService) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "supplier", id)
	}
	return supplier, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(ctx)
}

// ensureUnique checks name and sku against every product other than selfID
func (s *catalogService) ensureUnique(ctx context.Context, selfID uint, name string, sku *string) error {
	existing, err := s.productRepo.FindByName(ctx, name)
	if err == nil && existing.ID != selfID {
		return ErrDuplicateName
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if sku == nil {
		return nil
	}
	existing, err = s.productRepo.FindBySKU(ctx, *sku)
	if err == nil && existing.ID != selfID {
		return ErrDuplicateSku
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *catalogService) ensureSupplier(ctx context.Context, supplierID *uint) error {
	if supplierID == nil {
		return nil
	}
	if _, err := s.supplierRepo.FindByID(ctx, *supplierID); err != nil {
		return notFoundOr(err, "supplier", *supplierID)
	}
	return nil
}

// duplicateOr resolves a unique-constraint error raced past ensureUnique into the named kind
func (s *catalogService) duplicateOr(ctx context.Context, err error, name string) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if _, findErr := s.productRepo.FindByName(ctx, name); findErr == nil {
		return ErrDuplicateName
	}
	return ErrDuplicateSku
}
