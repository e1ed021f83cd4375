package model

// Privilege represents a capability checked before a ledger operation is invoked
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "inventory:resupply"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Resupply Stock"
}

// Privilege codes
const (
	PrivUserView   = "user:view"
	PrivUserCreate = "user:create"
	PrivUserDelete = "user:delete"

	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"

	PrivSupplierView   = "supplier:view"
	PrivSupplierCreate = "supplier:create"
	PrivSupplierUpdate = "supplier:update"
	PrivSupplierDelete = "supplier:delete"

	PrivInventoryView     = "inventory:view"
	PrivInventoryResupply = "inventory:resupply"
	PrivSaleCreate        = "sale:create"
	PrivSaleView          = "sale:view"

	PrivReportView   = "report:view"
	PrivBackupCreate = "backup:create"
	PrivBackupView   = "backup:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	// Catalog
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivSupplierView, Name: "View Supplier"},
	{Code: PrivSupplierCreate, Name: "Create Supplier"},
	{Code: PrivSupplierUpdate, Name: "Update Supplier"},
	{Code: PrivSupplierDelete, Name: "Delete Supplier"},
	// Ledger
	{Code: PrivInventoryView, Name: "View Inventory"},
	{Code: PrivInventoryResupply, Name: "Resupply Stock"},
	{Code: PrivSaleCreate, Name: "Record Sale"},
	{Code: PrivSaleView, Name: "View Sale"},
	// Reports & backups
	{Code: PrivReportView, Name: "View Reports"},
	{Code: PrivBackupCreate, Name: "Create Backup"},
	{Code: PrivBackupView, Name: "View Backups"},
}
