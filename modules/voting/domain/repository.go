package domain

import "context"

// Repository is the write side of the governance store. Each Insert* call is one bulk
// insert and either persists all given rows or none of them.
type Repository interface {
	// InsertFund stores one fund and returns its generated id.
	InsertFund(ctx context.Context, fund Fund) (int32, error)
	InsertVoteplans(ctx context.Context, voteplans []Voteplan) error
	InsertProposals(ctx context.Context, proposals []Proposal) error
	InsertSimpleChallengeData(ctx context.Context, rows []SimpleChallengeData) error
	InsertCommunityChoiceChallengeData(ctx context.Context, rows []CommunityChoiceChallengeData) error
	InsertChallenges(ctx context.Context, challenges []Challenge) error
	InsertAdvisorReviews(ctx context.Context, reviews []AdvisorReview) error
	InsertGoals(ctx context.Context, goals []Goal) error
	InsertVotes(ctx context.Context, votes []Vote) error
	Close() error
}
