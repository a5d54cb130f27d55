package domain

// Fund is one voting round. ID is assigned by the store on insert.
// Every timestamp is unix seconds.
type Fund struct {
	ID                           int32   `db:"id"`
	Name                         string  `db:"fund_name"`
	Goal                         string  `db:"fund_goal"`
	VotingPowerThreshold         int64   `db:"voting_power_threshold"`
	RegistrationSnapshotTime     int64   `db:"registration_snapshot_time"`
	NextRegistrationSnapshotTime int64   `db:"next_registration_snapshot_time"`
	FundStartTime                int64   `db:"fund_start_time"`
	FundEndTime                  int64   `db:"fund_end_time"`
	NextFundStartTime            int64   `db:"next_fund_start_time"`
	InsightSharingStart          int64   `db:"insight_sharing_start"`
	ProposalSubmissionStart      int64   `db:"proposal_submission_start"`
	RefineProposalsStart         int64   `db:"refine_proposals_start"`
	FinalizeProposalsStart       int64   `db:"finalize_proposals_start"`
	ProposalAssessmentStart      int64   `db:"proposal_assessment_start"`
	AssessmentQAStart            int64   `db:"assessment_qa_start"`
	SnapshotStart                int64   `db:"snapshot_start"`
	VotingStart                  int64   `db:"voting_start"`
	VotingEnd                    int64   `db:"voting_end"`
	TallyingEnd                  int64   `db:"tallying_end"`
	ResultsURL                   *string `db:"results_url"`
	SurveyURL                    *string `db:"survey_url"`
}

// Goal is a named objective of a fund.
type Goal struct {
	ID     int32  `db:"id"`
	Name   string `db:"goal_name"`
	FundID int32  `db:"fund_id"`
}

// Voteplan describes one on-chain vote plan of a fund.
type Voteplan struct {
	ChainVoteplanID        string `db:"chain_voteplan_id"`
	ChainVoteStartTime     int64  `db:"chain_vote_start_time"`
	ChainVoteEndTime       int64  `db:"chain_vote_end_time"`
	ChainCommitteeEndTime  int64  `db:"chain_committee_end_time"`
	ChainVoteplanPayload   string `db:"chain_voteplan_payload"`
	ChainVoteEncryptionKey string `db:"chain_vote_encryption_key"`
	FundID                 int32  `db:"fund_id"`
}
