package services

import (
	"fmt"
	"strings"

	"github.com/iota-uz/vitstation/modules/voting/domain"
)

// normalizeVoteOptions turns "blank, yes ,no" into "blank,yes,no".
func normalizeVoteOptions(raw string) (string, error) {
	parts := strings.Split(raw, ",")
	options := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			return "", fmt.Errorf("duplicate vote option %q", p)
		}
		seen[p] = struct{}{}
		options = append(options, p)
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no vote options")
	}
	return strings.Join(options, ","), nil
}

// toDomain splits a decoded proposal into its canonical row and the extension payload
// selected by the type of its resolved challenge.
func (p proposalRecord) toDomain(challengeType domain.ChallengeType) (domain.Proposal, domain.ProposalChallengeInfo, error) {
	options, err := normalizeVoteOptions(p.ChainVoteOptions)
	if err != nil {
		return domain.Proposal{}, domain.ProposalChallengeInfo{}, fmt.Errorf("proposal %s: %w", p.ProposalID, err)
	}

	proposal := domain.Proposal{
		ProposalID:                 p.ProposalID,
		Category:                   p.Category,
		Title:                      p.Title,
		Summary:                    p.Summary,
		PublicKey:                  p.PublicKey,
		Funds:                      p.Funds,
		URL:                        p.URL,
		FilesURL:                   p.FilesURL,
		ImpactScore:                p.ImpactScore,
		ProposerName:               p.ProposerName,
		ProposerContact:            p.ProposerContact,
		ProposerURL:                p.ProposerURL,
		ProposerRelevantExperience: p.ProposerRelevantExperience,
		ChainProposalID:            []byte(p.ChainProposalID),
		ChainProposalIndex:         p.ChainProposalIndex,
		ChainVoteOptions:           options,
		ChainVoteplanID:            p.ChainVoteplanID,
		ChallengeID:                p.ChallengeID,
		FundID:                     p.FundID,
	}

	info := domain.ProposalChallengeInfo{Type: challengeType}
	switch challengeType {
	case domain.ChallengeTypeSimple:
		info.Simple = &domain.SimpleChallengeInfo{Solution: p.Solution}
	case domain.ChallengeTypeCommunityChoice:
		info.CommunityChoice = &domain.CommunityChoiceInfo{
			Brief:      p.Brief,
			Importance: p.Importance,
			Goal:       p.Goal,
			Metrics:    p.Metrics,
		}
	default:
		return domain.Proposal{}, domain.ProposalChallengeInfo{}, fmt.Errorf("proposal %s: unknown challenge type %q", p.ProposalID, challengeType)
	}
	return proposal, info, nil
}

func checkRating(name string, v *int32) error {
	if v == nil {
		return nil
	}
	if *v < domain.MinRating || *v > domain.MaxRating {
		return fmt.Errorf("%s %d out of range %d..%d", name, *v, domain.MinRating, domain.MaxRating)
	}
	return nil
}

func (r reviewRecord) ranking() (domain.ReviewRanking, error) {
	switch {
	case r.Excellent && r.Good:
		return 0, fmt.Errorf("flagged both excellent and good")
	case r.Excellent:
		return domain.RankingExcellent, nil
	case r.Good:
		return domain.RankingGood, nil
	default:
		return domain.RankingFilteredOut, nil
	}
}

func (r reviewRecord) toDomain() (domain.AdvisorReview, error) {
	for _, c := range []struct {
		name string
		v    *int32
	}{
		{"impact_alignment_rating_given", r.ImpactAlignmentRating},
		{"feasibility_rating_given", r.FeasibilityRating},
		{"auditability_rating_given", r.AuditabilityRating},
		{"rating_given", r.Rating},
	} {
		if err := checkRating(c.name, c.v); err != nil {
			return domain.AdvisorReview{}, fmt.Errorf("review %d: %w", r.ID, err)
		}
	}
	ranking, err := r.ranking()
	if err != nil {
		return domain.AdvisorReview{}, fmt.Errorf("review %d: %w", r.ID, err)
	}
	return domain.AdvisorReview{
		ID:                    r.ID,
		ProposalID:            r.ProposalID,
		Assessor:              r.Assessor,
		ImpactAlignmentRating: r.ImpactAlignmentRating,
		ImpactAlignmentNote:   r.ImpactAlignmentNote,
		FeasibilityRating:     r.FeasibilityRating,
		FeasibilityNote:       r.FeasibilityNote,
		AuditabilityRating:    r.AuditabilityRating,
		AuditabilityNote:      r.AuditabilityNote,
		Ranking:               ranking,
		Rating:                r.Rating,
		Tag:                   r.Tag,
		Note:                  r.Note,
	}, nil
}

func (c challengeRecord) toDomain() domain.Challenge {
	return domain.Challenge{
		ID:               c.ID,
		ChallengeType:    domain.ChallengeType(c.ChallengeType),
		Title:            c.Title,
		Description:      c.Description,
		RewardsTotal:     c.RewardsTotal,
		ProposersRewards: c.ProposersRewards,
		FundID:           c.FundID,
		ChallengeURL:     c.ChallengeURL,
		Highlights:       c.Highlights,
	}
}
