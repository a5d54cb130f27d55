package domain

import "fmt"

// ChallengeType decides which extension table a challenge's proposals land in.
type ChallengeType string

const (
	ChallengeTypeSimple          ChallengeType = "simple"
	ChallengeTypeCommunityChoice ChallengeType = "community-choice"
)

func ParseChallengeType(s string) (ChallengeType, error) {
	switch ChallengeType(s) {
	case ChallengeTypeSimple, ChallengeTypeCommunityChoice:
		return ChallengeType(s), nil
	default:
		return "", fmt.Errorf("unknown challenge type %q", s)
	}
}

// Challenge is a proposal category of a fund. ID is the business key, unique within a fund.
type Challenge struct {
	ID               int32         `db:"id"`
	ChallengeType    ChallengeType `db:"challenge_type"`
	Title            string        `db:"title"`
	Description      string        `db:"description"`
	RewardsTotal     int64         `db:"rewards_total"`
	ProposersRewards int64         `db:"proposers_rewards"`
	FundID           int32         `db:"fund_id"`
	ChallengeURL     string        `db:"challenge_url"`
	Highlights       *string       `db:"highlights"`
}
