package models

type Tenant struct {
	BaseModel

	Name string `gorm:"uniqueIndex;not null"`

	// Relationships
	Users    []User    `gorm:"foreignKey:TenantID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Projects []Project `gorm:"foreignKey:TenantID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
