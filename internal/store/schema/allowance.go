package schema

import "time"

// Allowance represents the allowances table - amounts a spender may move
// from an owner's balance
type Allowance struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Owner is the address whose funds may be spent
	Owner string `gorm:"column:owner;not null;type:text;uniqueIndex:idx_allowances_owner_spender,priority:1"`
	// Spender is the address authorized to spend
	Spender string `gorm:"column:spender;not null;type:text;uniqueIndex:idx_allowances_owner_spender,priority:2"`
	// Amount is the remaining approved amount
	Amount uint64 `gorm:"column:amount;not null;default:0"`
	// UpdatedAt is when this allowance last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Allowance model
func (Allowance) TableName() string {
	return "allowances"
}
