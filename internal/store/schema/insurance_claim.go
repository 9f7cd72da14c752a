package schema

import "time"

// InsuranceClaim represents the insurance_claims table
type InsuranceClaim struct {
	// ID is the dense claim identifier assigned by the ledger
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	// ReportID references the verified disaster report backing the claim
	ReportID uint64 `gorm:"column:report_id;not null;index"`
	// PropertyID references the claimed property
	PropertyID uint64 `gorm:"column:property_id;not null;index"`
	// Claimant is the claiming account's address
	Claimant string `gorm:"column:claimant;not null;type:text"`
	// ClaimAmount is the requested payout in base money units
	ClaimAmount uint64 `gorm:"column:claim_amount;not null"`
	// Evidence is an opaque pointer to supporting material
	Evidence string `gorm:"column:evidence;not null;type:text"`
	// Status is one of the claim status enum values
	Status string `gorm:"column:status;not null;type:text"`
	// ApprovedAmount is the payout granted when the claim is approved
	ApprovedAmount uint64 `gorm:"column:approved_amount;not null;default:0"`
	// SubmittedAt is the submission time
	SubmittedAt time.Time `gorm:"column:submitted_at;not null;type:timestamptz"`
	// ProcessedAt is set when the claim leaves Pending
	ProcessedAt *time.Time `gorm:"column:processed_at;type:timestamptz"`

	// Associations
	Report   DisasterReport `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	Property Property       `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the InsuranceClaim model
func (InsuranceClaim) TableName() string {
	return "insurance_claims"
}
