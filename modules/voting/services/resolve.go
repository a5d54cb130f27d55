package services

import (
	"fmt"

	"github.com/iota-uz/vitstation/modules/voting/domain"
)

// ChallengeNotFoundError reports a proposal whose challenge_id matches no decoded challenge.
type ChallengeNotFoundError struct {
	ChallengeID int32
	ProposalID  string
}

func (e *ChallengeNotFoundError) Error() string {
	return fmt.Sprintf("challenge with id %d not found (referenced by proposal %s)", e.ChallengeID, e.ProposalID)
}

// resolveChallenges returns, per proposal, the type of the first challenge sharing its
// challenge id. Duplicated challenge ids are not an error here.
func resolveChallenges(proposals []proposalRecord, challenges []challengeRecord) ([]domain.ChallengeType, error) {
	types := make(map[int32]domain.ChallengeType, len(challenges))
	for _, c := range challenges {
		if _, seen := types[c.ID]; seen {
			continue
		}
		t, err := domain.ParseChallengeType(c.ChallengeType)
		if err != nil {
			return nil, fmt.Errorf("%w: challenge %d: %w", ErrInvalidInput, c.ID, err)
		}
		types[c.ID] = t
	}

	out := make([]domain.ChallengeType, len(proposals))
	for i, p := range proposals {
		t, ok := types[p.ChallengeID]
		if !ok {
			return nil, &ChallengeNotFoundError{ChallengeID: p.ChallengeID, ProposalID: p.ProposalID}
		}
		out[i] = t
	}
	return out, nil
}
