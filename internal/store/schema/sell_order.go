package schema

import "time"

// SellOrder represents the sell_orders table - secondary-market resale
// offers for property shares
type SellOrder struct {
	// ID is the global monotonic order identifier assigned by the ledger
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	// PropertyID references the property whose shares are offered
	PropertyID uint64 `gorm:"column:property_id;not null;index"`
	// Seller is the offering account's address
	Seller string `gorm:"column:seller;not null;type:text;index"`
	// SharesOffered is the remaining unfilled share count
	SharesOffered uint64 `gorm:"column:shares_offered;not null"`
	// PricePerShare is the asking price per share
	PricePerShare uint64 `gorm:"column:price_per_share;not null"`
	// TotalPrice is the original SharesOffered * PricePerShare
	TotalPrice uint64 `gorm:"column:total_price;not null"`
	// Active is false once fully filled or cancelled. Expired orders stay
	// active in storage; read paths filter on ExpiresAt.
	Active bool `gorm:"column:active;not null;default:true"`
	// CreatedAt is the order creation time
	CreatedAt time.Time `gorm:"column:created_at;not null;type:timestamptz"`
	// ExpiresAt is CreatedAt plus the requested duration
	ExpiresAt time.Time `gorm:"column:expires_at;not null;type:timestamptz"`
	// UpdatedAt is when this row last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Property Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the SellOrder model
func (SellOrder) TableName() string {
	return "sell_orders"
}
