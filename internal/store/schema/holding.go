package schema

import "time"

// Holding represents the holdings table - per (property, investor) share
// positions. Rows are never deleted; a fully divested investor keeps a
// zero-share row.
type Holding struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// PropertyID references the property
	PropertyID uint64 `gorm:"column:property_id;not null;uniqueIndex:idx_holdings_property_investor,priority:1"`
	// Investor is the holder's address
	Investor string `gorm:"column:investor;not null;type:text;uniqueIndex:idx_holdings_property_investor,priority:2;index"`
	// Shares is the current share count
	Shares uint64 `gorm:"column:shares;not null;default:0"`
	// AmountPaid is the cumulative amount spent acquiring shares
	AmountPaid uint64 `gorm:"column:amount_paid;not null;default:0"`
	// LastAcquiredAt is the time of the most recent acquisition
	LastAcquiredAt time.Time `gorm:"column:last_acquired_at;not null;type:timestamptz"`
	// CreatedAt is when the position was first opened
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when this row last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Property Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Holding model
func (Holding) TableName() string {
	return "holdings"
}
