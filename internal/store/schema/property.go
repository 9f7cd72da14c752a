package schema

import "time"

// Property represents the properties table - listed real-estate assets and
// their share accounting
type Property struct {
	// ID is the dense property identifier assigned by the ledger, starting at 0
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	// MetadataPointer is the opaque content-addressed URI for off-ledger metadata
	MetadataPointer string `gorm:"column:metadata_pointer;not null;type:text"`
	// TotalValuation is the listed valuation in smallest token units
	TotalValuation uint64 `gorm:"column:total_valuation;not null"`
	// TotalShares is the total share count the property is divided into
	TotalShares uint64 `gorm:"column:total_shares;not null"`
	// AvailableShares is the unsold share count; only ever decreases
	AvailableShares uint64 `gorm:"column:available_shares;not null"`
	// SharePrice is TotalValuation / TotalShares, floor division
	SharePrice uint64 `gorm:"column:share_price;not null"`
	// Owner is the listing account's address
	Owner string `gorm:"column:owner;not null;type:text;index"`
	// Active indicates the property can accept share purchases
	Active bool `gorm:"column:active;not null;default:false"`
	// Verified indicates the property passed admin verification
	Verified bool `gorm:"column:verified;not null;default:false"`
	// Type is the property classification (residential, commercial, ...)
	Type string `gorm:"column:type;not null;type:text"`
	// Risk is the risk level (low, medium, high)
	Risk string `gorm:"column:risk;not null;type:text"`
	// CreatedAt is the listing time
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when this record last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Holdings []Holding `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Property model
func (Property) TableName() string {
	return "properties"
}
