package schema

import "time"

// Proposal represents the proposals table - governance proposals and their
// tallies
type Proposal struct {
	// ID is the dense proposal identifier assigned by the ledger
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	// Title is the short proposal title
	Title string `gorm:"column:title;not null;type:text"`
	// Description is the full proposal text
	Description string `gorm:"column:description;not null;type:text"`
	// Proposer is the creating account's address
	Proposer string `gorm:"column:proposer;not null;type:text;index"`
	// VotesFor is the accumulated supporting voting power
	VotesFor uint64 `gorm:"column:votes_for;not null;default:0"`
	// VotesAgainst is the accumulated opposing voting power
	VotesAgainst uint64 `gorm:"column:votes_against;not null;default:0"`
	// StartTime is when the voting window opens
	StartTime time.Time `gorm:"column:start_time;not null;type:timestamptz"`
	// EndTime is when the voting window closes
	EndTime time.Time `gorm:"column:end_time;not null;type:timestamptz"`
	// Executed indicates the outcome has been recorded
	Executed bool `gorm:"column:executed;not null;default:false"`
	// Passed is the recorded outcome, meaningful only when Executed
	Passed bool `gorm:"column:passed;not null;default:false"`
	// UpdatedAt is when this row last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Votes []Vote `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Proposal model
func (Proposal) TableName() string {
	return "proposals"
}
