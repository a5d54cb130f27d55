package domain

import "fmt"

// ReviewRanking is the community advisor verdict on a review.
type ReviewRanking int32

const (
	RankingExcellent   ReviewRanking = 0
	RankingGood        ReviewRanking = 1
	RankingFilteredOut ReviewRanking = 2
)

func (r ReviewRanking) String() string {
	switch r {
	case RankingExcellent:
		return "excellent"
	case RankingGood:
		return "good"
	case RankingFilteredOut:
		return "filtered-out"
	default:
		return fmt.Sprintf("ranking(%d)", int32(r))
	}
}

const (
	MinRating = 0
	MaxRating = 5
)

// AdvisorReview is a community assessment of one proposal.
type AdvisorReview struct {
	ID                    int32         `db:"id"`
	ProposalID            int32         `db:"proposal_id"`
	Assessor              string        `db:"assessor"`
	ImpactAlignmentRating *int32        `db:"impact_alignment_rating_given"`
	ImpactAlignmentNote   *string       `db:"impact_alignment_note"`
	FeasibilityRating     *int32        `db:"feasibility_rating_given"`
	FeasibilityNote       *string       `db:"feasibility_note"`
	AuditabilityRating    *int32        `db:"auditability_rating_given"`
	AuditabilityNote      *string       `db:"auditability_note"`
	Ranking               ReviewRanking `db:"ranking"`
	Rating                *int32        `db:"rating_given"`
	Tag                   *string       `db:"tag"`
	Note                  *string       `db:"note"`
}
