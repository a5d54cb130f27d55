package persistence

import (
	"context"
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iota-uz/vitstation/modules/voting/domain"
	"github.com/iota-uz/vitstation/pkg/metrics"
)

// DefaultBatchSize keeps the widest table (proposals) well under SQLite's bind variable limit.
const DefaultBatchSize = 500

const (
	insertFundQuery = `INSERT INTO funds (
		fund_name, fund_goal, voting_power_threshold, registration_snapshot_time,
		next_registration_snapshot_time, fund_start_time, fund_end_time, next_fund_start_time,
		insight_sharing_start, proposal_submission_start, refine_proposals_start,
		finalize_proposals_start, proposal_assessment_start, assessment_qa_start, snapshot_start,
		voting_start, voting_end, tallying_end, results_url, survey_url
	) VALUES (
		:fund_name, :fund_goal, :voting_power_threshold, :registration_snapshot_time,
		:next_registration_snapshot_time, :fund_start_time, :fund_end_time, :next_fund_start_time,
		:insight_sharing_start, :proposal_submission_start, :refine_proposals_start,
		:finalize_proposals_start, :proposal_assessment_start, :assessment_qa_start, :snapshot_start,
		:voting_start, :voting_end, :tallying_end, :results_url, :survey_url
	)`

	insertVoteplansQuery = `INSERT INTO voteplans (
		chain_voteplan_id, chain_vote_start_time, chain_vote_end_time, chain_committee_end_time,
		chain_voteplan_payload, chain_vote_encryption_key, fund_id
	) VALUES (
		:chain_voteplan_id, :chain_vote_start_time, :chain_vote_end_time, :chain_committee_end_time,
		:chain_voteplan_payload, :chain_vote_encryption_key, :fund_id
	)`

	insertProposalsQuery = `INSERT INTO proposals (
		proposal_id, proposal_category, proposal_title, proposal_summary, proposal_public_key,
		proposal_funds, proposal_url, proposal_files_url, proposal_impact_score, proposer_name,
		proposer_contact, proposer_url, proposer_relevant_experience, chain_proposal_id,
		chain_proposal_index, chain_vote_options, chain_voteplan_id, challenge_id, fund_id
	) VALUES (
		:proposal_id, :proposal_category, :proposal_title, :proposal_summary, :proposal_public_key,
		:proposal_funds, :proposal_url, :proposal_files_url, :proposal_impact_score, :proposer_name,
		:proposer_contact, :proposer_url, :proposer_relevant_experience, :chain_proposal_id,
		:chain_proposal_index, :chain_vote_options, :chain_voteplan_id, :challenge_id, :fund_id
	)`

	insertSimpleChallengeQuery = `INSERT INTO proposal_simple_challenge (
		proposal_id, proposal_solution
	) VALUES (:proposal_id, :proposal_solution)`

	insertCommunityChoiceChallengeQuery = `INSERT INTO proposal_community_choice_challenge (
		proposal_id, proposal_brief, proposal_importance, proposal_goal, proposal_metrics
	) VALUES (:proposal_id, :proposal_brief, :proposal_importance, :proposal_goal, :proposal_metrics)`

	insertChallengesQuery = `INSERT INTO challenges (
		id, challenge_type, title, description, rewards_total, proposers_rewards, fund_id,
		challenge_url, highlights
	) VALUES (
		:id, :challenge_type, :title, :description, :rewards_total, :proposers_rewards, :fund_id,
		:challenge_url, :highlights
	)`

	insertAdvisorReviewsQuery = `INSERT INTO community_advisors_reviews (
		id, proposal_id, assessor, impact_alignment_rating_given, impact_alignment_note,
		feasibility_rating_given, feasibility_note, auditability_rating_given, auditability_note,
		ranking, rating_given, tag, note
	) VALUES (
		:id, :proposal_id, :assessor, :impact_alignment_rating_given, :impact_alignment_note,
		:feasibility_rating_given, :feasibility_note, :auditability_rating_given, :auditability_note,
		:ranking, :rating_given, :tag, :note
	)`

	insertGoalsQuery = `INSERT INTO goals (goal_name, fund_id) VALUES (:goal_name, :fund_id)`

	insertVotesQuery = `INSERT INTO votes (
		fragment_id, caster, proposal, voteplan_id, time, choice, raw_fragment
	) VALUES (:fragment_id, :caster, :proposal, :voteplan_id, :time, :choice, :raw_fragment)`
)

type sqliteVotingRepository struct {
	db        *sqlx.DB
	batchSize int
}

// NewSQLiteVotingRepository wraps an open handle. batchSize <= 0 selects DefaultBatchSize.
// Close closes the handle.
func NewSQLiteVotingRepository(db *sqlx.DB, batchSize int) domain.Repository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &sqliteVotingRepository{db: db, batchSize: batchSize}
}

// Opener returns a function that opens the SQLite file at a path as a Repository.
func Opener(batchSize int) func(ctx context.Context, path string) (domain.Repository, error) {
	return func(ctx context.Context, path string) (domain.Repository, error) {
		db, err := Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteVotingRepository(db, batchSize), nil
	}
}

func (r *sqliteVotingRepository) InsertFund(ctx context.Context, fund domain.Fund) (int32, error) {
	res, err := r.db.NamedExecContext(ctx, insertFundQuery, fund)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to insert fund %q", fund.Name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read generated fund id")
	}
	if id <= 0 || id > math.MaxInt32 {
		return 0, errors.Errorf("generated fund id %d does not fit the fund id column", id)
	}
	metrics.AddRows("funds", 1)
	return int32(id), nil
}

func (r *sqliteVotingRepository) InsertVoteplans(ctx context.Context, voteplans []domain.Voteplan) error {
	return bulkInsert(ctx, r.db, r.batchSize, "voteplans", insertVoteplansQuery, voteplans)
}

func (r *sqliteVotingRepository) InsertProposals(ctx context.Context, proposals []domain.Proposal) error {
	return bulkInsert(ctx, r.db, r.batchSize, "proposals", insertProposalsQuery, proposals)
}

func (r *sqliteVotingRepository) InsertSimpleChallengeData(ctx context.Context, rows []domain.SimpleChallengeData) error {
	return bulkInsert(ctx, r.db, r.batchSize, "proposal_simple_challenge", insertSimpleChallengeQuery, rows)
}

func (r *sqliteVotingRepository) InsertCommunityChoiceChallengeData(ctx context.Context, rows []domain.CommunityChoiceChallengeData) error {
	return bulkInsert(ctx, r.db, r.batchSize, "proposal_community_choice_challenge", insertCommunityChoiceChallengeQuery, rows)
}

func (r *sqliteVotingRepository) InsertChallenges(ctx context.Context, challenges []domain.Challenge) error {
	return bulkInsert(ctx, r.db, r.batchSize, "challenges", insertChallengesQuery, challenges)
}

func (r *sqliteVotingRepository) InsertAdvisorReviews(ctx context.Context, reviews []domain.AdvisorReview) error {
	return bulkInsert(ctx, r.db, r.batchSize, "community_advisors_reviews", insertAdvisorReviewsQuery, reviews)
}

func (r *sqliteVotingRepository) InsertGoals(ctx context.Context, goals []domain.Goal) error {
	return bulkInsert(ctx, r.db, r.batchSize, "goals", insertGoalsQuery, goals)
}

func (r *sqliteVotingRepository) InsertVotes(ctx context.Context, votes []domain.Vote) error {
	return bulkInsert(ctx, r.db, r.batchSize, "votes", insertVotesQuery, votes)
}

func (r *sqliteVotingRepository) Close() error {
	return r.db.Close()
}

// bulkInsert writes rows in chunks of batchSize inside one transaction, so a table is either
// fully written or left untouched.
func bulkInsert[T any](ctx context.Context, db *sqlx.DB, batchSize int, table, query string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to begin %s insert", table)
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if _, err := tx.NamedExecContext(ctx, query, rows[start:end]); err != nil {
			return errors.Wrapf(err, "failed to insert %s rows %d..%d", table, start, end-1)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit %s insert", table)
	}
	metrics.AddRows(table, len(rows))
	return nil
}
