package schema

import "time"

// DisasterReport represents the disaster_reports table
type DisasterReport struct {
	// ID is the dense report identifier assigned by the ledger
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	// PropertyID references the affected property
	PropertyID uint64 `gorm:"column:property_id;not null;index"`
	// Type is one of the disaster type enum values
	Type string `gorm:"column:type;not null;type:text"`
	// Description is the free-form report text
	Description string `gorm:"column:description;not null;type:text"`
	// Reporter is the reporting account's address
	Reporter string `gorm:"column:reporter;not null;type:text"`
	// Verified reflects oracle confirmation
	Verified bool `gorm:"column:verified;not null;default:false"`
	// ReportedAt is the report time
	ReportedAt time.Time `gorm:"column:reported_at;not null;type:timestamptz"`

	// Associations
	Property Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the DisasterReport model
func (DisasterReport) TableName() string {
	return "disaster_reports"
}
