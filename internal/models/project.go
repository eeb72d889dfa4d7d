package models

type Project struct {
	BaseModel

	Name        string `gorm:"not null"`
	Description string
	TenantID    uint `gorm:"not null;index"`
	CreatedBy   uint `gorm:"not null"`

	// Relationships
	Tenant             Tenant              `gorm:"foreignKey:TenantID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks              []Task              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
