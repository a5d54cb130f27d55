package services

import (
	"github.com/iota-uz/vitstation/modules/voting/domain"
	"github.com/iota-uz/vitstation/pkg/csvutil"
)

type fundRecord struct {
	Name                         string  `csv:"fund_name" validate:"required"`
	Goal                         string  `csv:"fund_goal"`
	VotingPowerThreshold         int64   `csv:"voting_power_threshold" validate:"gte=0"`
	RegistrationSnapshotTime     int64   `csv:"registration_snapshot_time"`
	NextRegistrationSnapshotTime int64   `csv:"next_registration_snapshot_time"`
	FundStartTime                int64   `csv:"fund_start_time"`
	FundEndTime                  int64   `csv:"fund_end_time" validate:"gtefield=FundStartTime"`
	NextFundStartTime            int64   `csv:"next_fund_start_time"`
	InsightSharingStart          int64   `csv:"insight_sharing_start"`
	ProposalSubmissionStart      int64   `csv:"proposal_submission_start"`
	RefineProposalsStart         int64   `csv:"refine_proposals_start"`
	FinalizeProposalsStart       int64   `csv:"finalize_proposals_start"`
	ProposalAssessmentStart      int64   `csv:"proposal_assessment_start"`
	AssessmentQAStart            int64   `csv:"assessment_qa_start"`
	SnapshotStart                int64   `csv:"snapshot_start"`
	VotingStart                  int64   `csv:"voting_start"`
	VotingEnd                    int64   `csv:"voting_end" validate:"gtefield=VotingStart"`
	TallyingEnd                  int64   `csv:"tallying_end"`
	ResultsURL                   *string `csv:"results_url" validate:"omitempty,url"`
	SurveyURL                    *string `csv:"survey_url" validate:"omitempty,url"`
}

// optTime reads an optional timestamp column; absent or empty cells are zero.
func optTime(r *csvutil.Row, name string) int64 {
	if r.String(name) == "" {
		return 0
	}
	return r.Time(name)
}

func parseFundRecord(r *csvutil.Row) (fundRecord, error) {
	rec := fundRecord{
		Name:                         r.String("fund_name"),
		Goal:                         r.String("fund_goal"),
		VotingPowerThreshold:         r.Int64("voting_power_threshold"),
		RegistrationSnapshotTime:     optTime(r, "registration_snapshot_time"),
		NextRegistrationSnapshotTime: optTime(r, "next_registration_snapshot_time"),
		FundStartTime:                r.Time("fund_start_time"),
		FundEndTime:                  r.Time("fund_end_time"),
		NextFundStartTime:            optTime(r, "next_fund_start_time"),
		InsightSharingStart:          optTime(r, "insight_sharing_start"),
		ProposalSubmissionStart:      optTime(r, "proposal_submission_start"),
		RefineProposalsStart:         optTime(r, "refine_proposals_start"),
		FinalizeProposalsStart:       optTime(r, "finalize_proposals_start"),
		ProposalAssessmentStart:      optTime(r, "proposal_assessment_start"),
		AssessmentQAStart:            optTime(r, "assessment_qa_start"),
		SnapshotStart:                optTime(r, "snapshot_start"),
		VotingStart:                  optTime(r, "voting_start"),
		VotingEnd:                    optTime(r, "voting_end"),
		TallyingEnd:                  optTime(r, "tallying_end"),
		ResultsURL:                   r.OptString("results_url"),
		SurveyURL:                    r.OptString("survey_url"),
	}
	if r.Err() != nil {
		return rec, r.Err()
	}
	return rec, validateRecord(rec)
}

func (f fundRecord) toDomain() domain.Fund {
	return domain.Fund{
		Name:                         f.Name,
		Goal:                         f.Goal,
		VotingPowerThreshold:         f.VotingPowerThreshold,
		RegistrationSnapshotTime:     f.RegistrationSnapshotTime,
		NextRegistrationSnapshotTime: f.NextRegistrationSnapshotTime,
		FundStartTime:                f.FundStartTime,
		FundEndTime:                  f.FundEndTime,
		NextFundStartTime:            f.NextFundStartTime,
		InsightSharingStart:          f.InsightSharingStart,
		ProposalSubmissionStart:      f.ProposalSubmissionStart,
		RefineProposalsStart:         f.RefineProposalsStart,
		FinalizeProposalsStart:       f.FinalizeProposalsStart,
		ProposalAssessmentStart:      f.ProposalAssessmentStart,
		AssessmentQAStart:            f.AssessmentQAStart,
		SnapshotStart:                f.SnapshotStart,
		VotingStart:                  f.VotingStart,
		VotingEnd:                    f.VotingEnd,
		TallyingEnd:                  f.TallyingEnd,
		ResultsURL:                   f.ResultsURL,
		SurveyURL:                    f.SurveyURL,
	}
}

type voteplanRecord struct {
	ChainVoteplanID        string `csv:"chain_voteplan_id" validate:"required"`
	ChainVoteStartTime     int64  `csv:"chain_vote_start_time"`
	ChainVoteEndTime       int64  `csv:"chain_vote_end_time" validate:"gtefield=ChainVoteStartTime"`
	ChainCommitteeEndTime  int64  `csv:"chain_committee_end_time"`
	ChainVoteplanPayload   string `csv:"chain_voteplan_payload" validate:"required,oneof=public private"`
	ChainVoteEncryptionKey string `csv:"chain_vote_encryption_key"`
	FundID                 int32  `csv:"fund_id"`
}

func parseVoteplanRecord(r *csvutil.Row) (voteplanRecord, error) {
	rec := voteplanRecord{
		ChainVoteplanID:        r.String("chain_voteplan_id"),
		ChainVoteStartTime:     r.Time("chain_vote_start_time"),
		ChainVoteEndTime:       r.Time("chain_vote_end_time"),
		ChainCommitteeEndTime:  r.Time("chain_committee_end_time"),
		ChainVoteplanPayload:   r.String("chain_voteplan_payload"),
		ChainVoteEncryptionKey: r.String("chain_vote_encryption_key"),
	}
	if id := r.OptInt32("fund_id"); id != nil {
		rec.FundID = *id
	}
	if r.Err() != nil {
		return rec, r.Err()
	}
	return rec, validateRecord(rec)
}

func (v voteplanRecord) toDomain() domain.Voteplan {
	return domain.Voteplan{
		ChainVoteplanID:        v.ChainVoteplanID,
		ChainVoteStartTime:     v.ChainVoteStartTime,
		ChainVoteEndTime:       v.ChainVoteEndTime,
		ChainCommitteeEndTime:  v.ChainCommitteeEndTime,
		ChainVoteplanPayload:   v.ChainVoteplanPayload,
		ChainVoteEncryptionKey: v.ChainVoteEncryptionKey,
		FundID:                 v.FundID,
	}
}

type challengeRecord struct {
	ID               int32   `csv:"id" validate:"gte=0"`
	ChallengeType    string  `csv:"challenge_type" validate:"required,oneof=simple community-choice"`
	Title            string  `csv:"title" validate:"required"`
	Description      string  `csv:"description"`
	RewardsTotal     int64   `csv:"rewards_total" validate:"gte=0"`
	ProposersRewards int64   `csv:"proposers_rewards" validate:"gte=0"`
	FundID           int32   `csv:"fund_id"`
	ChallengeURL     string  `csv:"challenge_url" validate:"required,url"`
	Highlights       *string `csv:"highlights"`
}

func parseChallengeRecord(r *csvutil.Row) (challengeRecord, error) {
	rec := challengeRecord{
		ID:               r.Int32("id"),
		ChallengeType:    r.String("challenge_type"),
		Title:            r.String("title"),
		Description:      r.String("description"),
		RewardsTotal:     r.Int64("rewards_total"),
		ProposersRewards: r.Int64("proposers_rewards"),
		ChallengeURL:     r.String("challenge_url"),
		Highlights:       r.JSONObject("highlights"),
	}
	if id := r.OptInt32("fund_id"); id != nil {
		rec.FundID = *id
	}
	if r.Err() != nil {
		return rec, r.Err()
	}
	return rec, validateRecord(rec)
}

type proposalRecord struct {
	ProposalID                 string `csv:"proposal_id" validate:"required"`
	Category                   string `csv:"category_name"`
	Title                      string `csv:"proposal_title" validate:"required"`
	Summary                    string `csv:"proposal_summary"`
	PublicKey                  string `csv:"proposal_public_key"`
	Funds                      int64  `csv:"proposal_funds" validate:"gte=0"`
	URL                        string `csv:"proposal_url" validate:"omitempty,url"`
	FilesURL                   string `csv:"proposal_files_url"`
	ImpactScore                int64  `csv:"proposal_impact_score" validate:"gte=0"`
	ProposerName               string `csv:"proposer_name"`
	ProposerContact            string `csv:"proposer_contact"`
	ProposerURL                string `csv:"proposer_url"`
	ProposerRelevantExperience string `csv:"proposer_relevant_experience"`
	ChainProposalID            string `csv:"chain_proposal_id" validate:"required"`
	ChainProposalIndex         int64  `csv:"chain_proposal_index" validate:"gte=0"`
	ChainVoteOptions           string `csv:"chain_vote_options" validate:"required"`
	ChainVoteplanID            string `csv:"chain_voteplan_id" validate:"required"`
	ChallengeID                int32  `csv:"challenge_id"`
	FundID                     int32  `csv:"fund_id"`

	Solution   *string `csv:"proposal_solution"`
	Brief      *string `csv:"proposal_brief"`
	Importance *string `csv:"proposal_importance"`
	Goal       *string `csv:"proposal_goal"`
	Metrics    *string `csv:"proposal_metrics"`
}

func parseProposalRecord(r *csvutil.Row) (proposalRecord, error) {
	rec := proposalRecord{
		ProposalID:                 r.String("proposal_id"),
		Category:                   r.String("category_name"),
		Title:                      r.String("proposal_title"),
		Summary:                    r.String("proposal_summary"),
		PublicKey:                  r.String("proposal_public_key"),
		Funds:                      r.Int64("proposal_funds"),
		URL:                        r.String("proposal_url"),
		FilesURL:                   r.String("proposal_files_url"),
		ProposerName:               r.String("proposer_name"),
		ProposerContact:            r.String("proposer_contact"),
		ProposerURL:                r.String("proposer_url"),
		ProposerRelevantExperience: r.String("proposer_relevant_experience"),
		ChainProposalID:            r.String("chain_proposal_id"),
		ChainProposalIndex:         r.Int64("chain_proposal_index"),
		ChainVoteOptions:           r.String("chain_vote_options"),
		ChainVoteplanID:            r.String("chain_voteplan_id"),
		ChallengeID:                r.Int32("challenge_id"),
		Solution:                   r.OptString("proposal_solution"),
		Brief:                      r.OptString("proposal_brief"),
		Importance:                 r.OptString("proposal_importance"),
		Goal:                       r.OptString("proposal_goal"),
		Metrics:                    r.OptString("proposal_metrics"),
	}
	if r.String("proposal_impact_score") != "" {
		rec.ImpactScore = r.Int64("proposal_impact_score")
	}
	if id := r.OptInt32("fund_id"); id != nil {
		rec.FundID = *id
	}
	if r.Err() != nil {
		return rec, r.Err()
	}
	return rec, validateRecord(rec)
}

type reviewRecord struct {
	ID                    int32   `csv:"id" validate:"gte=0"`
	ProposalID            int32   `csv:"proposal_id" validate:"gte=0"`
	Assessor              string  `csv:"assessor" validate:"required"`
	ImpactAlignmentRating *int32  `csv:"impact_alignment_rating_given"`
	ImpactAlignmentNote   *string `csv:"impact_alignment_note"`
	FeasibilityRating     *int32  `csv:"feasibility_rating_given"`
	FeasibilityNote       *string `csv:"feasibility_note"`
	AuditabilityRating    *int32  `csv:"auditability_rating_given"`
	AuditabilityNote      *string `csv:"auditability_note"`
	Excellent             bool    `csv:"excellent"`
	Good                  bool    `csv:"good"`
	Rating                *int32  `csv:"rating_given"`
	Tag                   *string `csv:"tag"`
	Note                  *string `csv:"note"`
}

func parseReviewRecord(r *csvutil.Row) (reviewRecord, error) {
	rec := reviewRecord{
		ID:                    r.Int32("id"),
		ProposalID:            r.Int32("proposal_id"),
		Assessor:              r.String("assessor"),
		ImpactAlignmentRating: r.OptInt32("impact_alignment_rating_given"),
		ImpactAlignmentNote:   r.OptString("impact_alignment_note"),
		FeasibilityRating:     r.OptInt32("feasibility_rating_given"),
		FeasibilityNote:       r.OptString("feasibility_note"),
		AuditabilityRating:    r.OptInt32("auditability_rating_given"),
		AuditabilityNote:      r.OptString("auditability_note"),
		Excellent:             r.Bool("excellent"),
		Good:                  r.Bool("good"),
		Rating:                r.OptInt32("rating_given"),
		Tag:                   r.OptString("tag"),
		Note:                  r.OptString("note"),
	}
	if r.Err() != nil {
		return rec, r.Err()
	}
	return rec, validateRecord(rec)
}

type goalRecord struct {
	Name   string `csv:"goal_name" validate:"required"`
	FundID int32  `csv:"fund_id"`
}

func parseGoalRecord(r *csvutil.Row) (goalRecord, error) {
	rec := goalRecord{Name: r.String("goal_name")}
	if id := r.OptInt32("fund_id"); id != nil {
		rec.FundID = *id
	}
	if r.Err() != nil {
		return rec, r.Err()
	}
	return rec, validateRecord(rec)
}

func (g goalRecord) toDomain() domain.Goal {
	return domain.Goal{Name: g.Name, FundID: g.FundID}
}

type voteRecord struct {
	FragmentID  string  `csv:"fragment_id" validate:"required"`
	Caster      string  `csv:"caster" validate:"required"`
	Proposal    int32   `csv:"proposal" validate:"gte=0"`
	VoteplanID  string  `csv:"voteplan_id" validate:"required"`
	Time        float64 `csv:"time" validate:"gte=0"`
	Choice      *int16  `csv:"choice"`
	RawFragment string  `csv:"raw_fragment" validate:"required"`
}

func parseVoteRecord(r *csvutil.Row) (voteRecord, error) {
	rec := voteRecord{
		FragmentID:  r.String("fragment_id"),
		Caster:      r.String("caster"),
		Proposal:    r.Int32("proposal"),
		VoteplanID:  r.String("voteplan_id"),
		Time:        r.Float64("time"),
		Choice:      r.OptInt16("choice"),
		RawFragment: r.String("raw_fragment"),
	}
	if r.Err() != nil {
		return rec, r.Err()
	}
	return rec, validateRecord(rec)
}

func (v voteRecord) toDomain() domain.Vote {
	return domain.Vote{
		FragmentID:  v.FragmentID,
		Caster:      v.Caster,
		Proposal:    v.Proposal,
		VoteplanID:  v.VoteplanID,
		Time:        v.Time,
		Choice:      v.Choice,
		RawFragment: v.RawFragment,
	}
}
