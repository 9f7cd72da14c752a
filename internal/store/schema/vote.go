package schema

import "time"

// Vote represents the votes table - one row per (proposal, voter)
type Vote struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ProposalID references the proposal voted on
	ProposalID uint64 `gorm:"column:proposal_id;not null;uniqueIndex:idx_votes_proposal_voter,priority:1"`
	// Voter is the voting account's address
	Voter string `gorm:"column:voter;not null;type:text;uniqueIndex:idx_votes_proposal_voter,priority:2"`
	// Support is the vote direction
	Support bool `gorm:"column:support;not null"`
	// Power is the voter's live ledger balance at cast time
	Power uint64 `gorm:"column:power;not null"`
	// CastAt is the vote time
	CastAt time.Time `gorm:"column:cast_at;not null;type:timestamptz"`

	// Associations
	Proposal Proposal `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Vote model
func (Vote) TableName() string {
	return "votes"
}
