package model

// Role represents user roles in the store
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // OWNER, STAFF, IT_ADMIN
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleOwner   = "OWNER"
	RoleStaff   = "STAFF"
	RoleITAdmin = "IT_ADMIN"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleOwner,
		Name:        "Owner",
		Description: "Store owner with full access",
	},
	{
		Code:        RoleStaff,
		Name:        "Staff",
		Description: "Counter staff: sales, resupply and reports",
	},
	{
		Code:        RoleITAdmin,
		Name:        "IT Admin",
		Description: "Account management and backups",
	},
}

// DefaultRolePrivileges maps each non-owner role to its privilege codes.
// OWNER is granted every privilege.
var DefaultRolePrivileges = map[string][]string{
	RoleStaff: {
		PrivProductView, PrivSupplierView,
		PrivInventoryView, PrivInventoryResupply,
		PrivSaleCreate, PrivSaleView, PrivReportView,
	},
	RoleITAdmin: {
		PrivUserView, PrivUserCreate, PrivUserDelete,
		PrivProductView, PrivSupplierView, PrivInventoryView,
		PrivBackupCreate, PrivBackupView,
	},
}
