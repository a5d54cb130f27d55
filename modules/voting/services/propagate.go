package services

import "github.com/iota-uz/vitstation/modules/voting/domain"

// batch is one fully transformed load, ready to be written.
type batch struct {
	funds           []domain.Fund
	voteplans       []domain.Voteplan
	proposals       []domain.Proposal
	simple          []domain.SimpleChallengeData
	communityChoice []domain.CommunityChoiceChallengeData
	challenges      []challengeRecord
	reviews         []domain.AdvisorReview
	goals           []domain.Goal
}

func (b *batch) counts() map[string]int {
	return map[string]int{
		"funds":                           len(b.funds),
		"voteplans":                       len(b.voteplans),
		"proposals":                       len(b.proposals),
		"simple_challenge_data":           len(b.simple),
		"community_choice_challenge_data": len(b.communityChoice),
		"challenges":                      len(b.challenges),
		"advisor_reviews":                 len(b.reviews),
		"goals":                           len(b.goals),
	}
}

// propagateFundID overwrites the fund reference of every fund-scoped entity, whatever the
// input files said.
func propagateFundID(fundID int32, b *batch) {
	for i := range b.voteplans {
		b.voteplans[i].FundID = fundID
	}
	for i := range b.proposals {
		b.proposals[i].FundID = fundID
	}
	for i := range b.challenges {
		b.challenges[i].FundID = fundID
	}
	for i := range b.goals {
		b.goals[i].FundID = fundID
	}
}
