package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/iota-uz/vitstation/modules/voting/domain"
)

var (
	// ErrNoFunds is returned when the funds input holds no rows; the first row is the current fund.
	ErrNoFunds = errors.New("funds file has no rows")
	// ErrInvalidInput marks decoded records that could not be transformed into store rows.
	ErrInvalidInput = errors.New("invalid input")
)

type Step string

const (
	StepCurrentFund     Step = "current fund"
	StepFunds           Step = "funds"
	StepVoteplans       Step = "voteplans"
	StepProposals       Step = "proposals"
	StepSimple          Step = "simple challenge data"
	StepCommunityChoice Step = "community choice challenge data"
	StepChallenges      Step = "challenges"
	StepReviews         Step = "advisor reviews"
	StepGoals           Step = "goals"
	StepVotes           Step = "votes"
)

// WriteError reports the insert step at which a batch stopped.
type WriteError struct {
	Step Step
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Step, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// writeBatch inserts b in dependency order and returns the current fund's generated id.
// The first failing step ends the batch.
func writeBatch(ctx context.Context, repo domain.Repository, b *batch) (int32, error) {
	if len(b.funds) == 0 {
		return 0, ErrNoFunds
	}

	fundID, err := repo.InsertFund(ctx, b.funds[0])
	if err != nil {
		return 0, &WriteError{Step: StepCurrentFund, Err: err}
	}
	for _, f := range b.funds[1:] {
		if _, err := repo.InsertFund(ctx, f); err != nil {
			return fundID, &WriteError{Step: StepFunds, Err: err}
		}
	}

	propagateFundID(fundID, b)

	challenges := make([]domain.Challenge, 0, len(b.challenges))
	for _, c := range b.challenges {
		challenges = append(challenges, c.toDomain())
	}

	steps := []struct {
		step Step
		run  func() error
	}{
		{StepVoteplans, func() error { return repo.InsertVoteplans(ctx, b.voteplans) }},
		{StepProposals, func() error { return repo.InsertProposals(ctx, b.proposals) }},
		{StepSimple, func() error { return repo.InsertSimpleChallengeData(ctx, b.simple) }},
		{StepCommunityChoice, func() error { return repo.InsertCommunityChoiceChallengeData(ctx, b.communityChoice) }},
		{StepChallenges, func() error { return repo.InsertChallenges(ctx, challenges) }},
		{StepReviews, func() error { return repo.InsertAdvisorReviews(ctx, b.reviews) }},
		{StepGoals, func() error { return repo.InsertGoals(ctx, b.goals) }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return fundID, &WriteError{Step: s.step, Err: err}
		}
	}
	return fundID, nil
}

func writeVotes(ctx context.Context, repo domain.Repository, votes []domain.Vote) error {
	if err := repo.InsertVotes(ctx, votes); err != nil {
		return &WriteError{Step: StepVotes, Err: err}
	}
	return nil
}
