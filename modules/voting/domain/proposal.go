package domain

// Proposal references its challenge by the challenge business key.
type Proposal struct {
	ProposalID                 string `db:"proposal_id"`
	Category                   string `db:"proposal_category"`
	Title                      string `db:"proposal_title"`
	Summary                    string `db:"proposal_summary"`
	PublicKey                  string `db:"proposal_public_key"`
	Funds                      int64  `db:"proposal_funds"`
	URL                        string `db:"proposal_url"`
	FilesURL                   string `db:"proposal_files_url"`
	ImpactScore                int64  `db:"proposal_impact_score"`
	ProposerName               string `db:"proposer_name"`
	ProposerContact            string `db:"proposer_contact"`
	ProposerURL                string `db:"proposer_url"`
	ProposerRelevantExperience string `db:"proposer_relevant_experience"`
	ChainProposalID            []byte `db:"chain_proposal_id"`
	ChainProposalIndex         int64  `db:"chain_proposal_index"`
	ChainVoteOptions           string `db:"chain_vote_options"`
	ChainVoteplanID            string `db:"chain_voteplan_id"`
	ChallengeID                int32  `db:"challenge_id"`
	FundID                     int32  `db:"fund_id"`
}

type SimpleChallengeInfo struct {
	Solution *string
}

type CommunityChoiceInfo struct {
	Brief      *string
	Importance *string
	Goal       *string
	Metrics    *string
}

// ProposalChallengeInfo is the challenge-type dependent part of a proposal.
// Exactly one of Simple and CommunityChoice is set, matching Type.
type ProposalChallengeInfo struct {
	Type            ChallengeType
	Simple          *SimpleChallengeInfo
	CommunityChoice *CommunityChoiceInfo
}

// SimpleChallengeData is a proposal_simple_challenge row.
type SimpleChallengeData struct {
	ProposalID string  `db:"proposal_id"`
	Solution   *string `db:"proposal_solution"`
}

// CommunityChoiceChallengeData is a proposal_community_choice_challenge row.
type CommunityChoiceChallengeData struct {
	ProposalID string  `db:"proposal_id"`
	Brief      *string `db:"proposal_brief"`
	Importance *string `db:"proposal_importance"`
	Goal       *string `db:"proposal_goal"`
	Metrics    *string `db:"proposal_metrics"`
}

func (s SimpleChallengeInfo) WithProposalID(proposalID string) SimpleChallengeData {
	return SimpleChallengeData{ProposalID: proposalID, Solution: s.Solution}
}

func (c CommunityChoiceInfo) WithProposalID(proposalID string) CommunityChoiceChallengeData {
	return CommunityChoiceChallengeData{
		ProposalID: proposalID,
		Brief:      c.Brief,
		Importance: c.Importance,
		Goal:       c.Goal,
		Metrics:    c.Metrics,
	}
}
