package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/vitstation/modules/voting/domain"
	"github.com/iota-uz/vitstation/pkg/csvutil"
	"github.com/iota-uz/vitstation/pkg/metrics"
	"github.com/iota-uz/vitstation/pkg/snapshot"
)

const (
	ModeAll   = "all"
	ModeVotes = "votes"
)

// RepositoryOpener hands out a repository on the store file at dbPath. The importer closes
// it before the store file is restored or committed.
type RepositoryOpener func(ctx context.Context, dbPath string) (domain.Repository, error)

type Options struct {
	BackupDir  string
	KeepBackup bool
	// DryRun stops after decoding, transforming and resolving; the store is not touched.
	DryRun bool
	Logger *logrus.Logger
}

// LoadAllInput names the six files of a full load.
type LoadAllInput struct {
	Funds      string
	Voteplans  string
	Proposals  string
	Challenges string
	Reviews    string
	Goals      string
}

// Result summarises one import attempt.
type Result struct {
	Status        string         `json:"status"`
	RunID         string         `json:"run_id"`
	Mode          string         `json:"mode"`
	DB            string         `json:"db"`
	DryRun        bool           `json:"dry_run"`
	CurrentFundID int32          `json:"current_fund_id,omitempty"`
	Counts        map[string]int `json:"counts"`
	Files         []string       `json:"files,omitempty"`
	DurationMS    int64          `json:"duration_ms"`
	Error         string         `json:"error,omitempty"`
}

// Importer loads governance data into one store file. At most one importer may work on a
// given store file at a time.
type Importer struct {
	dbPath string
	open   RepositoryOpener
	opts   Options
	log    *logrus.Entry
}

func NewImporter(dbPath string, open RepositoryOpener, opts Options) *Importer {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Importer{
		dbPath: dbPath,
		open:   open,
		opts:   opts,
		log:    logger.WithField("component", "importer"),
	}
}

func (i *Importer) newResult(mode string) *Result {
	return &Result{
		Status: "ok",
		RunID:  uuid.NewString(),
		Mode:   mode,
		DB:     i.dbPath,
		DryRun: i.opts.DryRun,
		Counts: map[string]int{},
	}
}

func (i *Importer) finish(res *Result, start time.Time, err error) {
	elapsed := time.Since(start)
	res.DurationMS = elapsed.Milliseconds()

	outcome := "ok"
	switch {
	case err != nil && isRestoreFailure(err):
		outcome = "restore_failed"
	case err != nil:
		outcome = "failed"
	case i.opts.DryRun:
		outcome = "dry_run"
	}
	if err != nil {
		res.Status = "failed"
		res.Error = err.Error()
	}
	metrics.ObserveRun(res.Mode, outcome, elapsed)

	log := i.log.WithFields(logrus.Fields{"run_id": res.RunID, "mode": res.Mode, "result": outcome, "duration_ms": res.DurationMS})
	if err != nil {
		log.WithError(err).Error("import failed")
		return
	}
	log.WithField("counts", res.Counts).Info("import finished")
}

func isRestoreFailure(err error) bool {
	return errors.Is(err, snapshot.ErrRestoreFailed)
}

// guard runs prepare and then write inside the backup/restore envelope. The repository is
// opened only once prepare succeeded and is closed before the envelope settles.
func (i *Importer) guard(ctx context.Context, res *Result, prepare func() error, write func(ctx context.Context, repo domain.Repository) error) error {
	opts := snapshot.Options{
		BackupDir:  i.opts.BackupDir,
		KeepBackup: i.opts.KeepBackup,
		RunID:      res.RunID,
		Logger:     i.log.WithField("run_id", res.RunID),
	}
	return snapshot.Guard(ctx, i.dbPath, opts, func(ctx context.Context) (err error) {
		if err := prepare(); err != nil {
			return err
		}
		repo, err := i.open(ctx, i.dbPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := repo.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return write(ctx, repo)
	})
}

// LoadAll decodes the six inputs, validates them against each other and writes them as one
// all-or-nothing unit. On failure the store file is put back as it was before the call.
func (i *Importer) LoadAll(ctx context.Context, in LoadAllInput) (res *Result, err error) {
	start := time.Now()
	res = i.newResult(ModeAll)
	defer func() { i.finish(res, start, err) }()

	if i.opts.DryRun {
		b, err := prepareBatch(in)
		if err != nil {
			return res, err
		}
		res.Counts = b.counts()
		return res, nil
	}

	var b *batch
	prepare := func() error {
		var err error
		if b, err = prepareBatch(in); err != nil {
			return err
		}
		res.Counts = b.counts()
		return nil
	}
	err = i.guard(ctx, res, prepare, func(ctx context.Context, repo domain.Repository) error {
		fundID, err := writeBatch(ctx, repo, b)
		if err != nil {
			return err
		}
		res.CurrentFundID = fundID
		return nil
	})
	return res, err
}

// prepareBatch runs every in-memory stage of a full load: decode, transform and resolve.
func prepareBatch(in LoadAllInput) (*batch, error) {
	funds, err := csvutil.Decode(in.Funds, parseFundRecord)
	if err != nil {
		return nil, err
	}
	if len(funds) == 0 {
		return nil, ErrNoFunds
	}
	voteplans, err := csvutil.Decode(in.Voteplans, parseVoteplanRecord)
	if err != nil {
		return nil, err
	}
	challenges, err := csvutil.Decode(in.Challenges, parseChallengeRecord)
	if err != nil {
		return nil, err
	}
	proposals, err := csvutil.Decode(in.Proposals, parseProposalRecord)
	if err != nil {
		return nil, err
	}
	reviews, err := csvutil.Decode(in.Reviews, parseReviewRecord)
	if err != nil {
		return nil, err
	}
	goals, err := csvutil.Decode(in.Goals, parseGoalRecord)
	if err != nil {
		return nil, err
	}

	b := &batch{
		funds:      make([]domain.Fund, 0, len(funds)),
		voteplans:  make([]domain.Voteplan, 0, len(voteplans)),
		proposals:  make([]domain.Proposal, 0, len(proposals)),
		challenges: challenges,
		reviews:    make([]domain.AdvisorReview, 0, len(reviews)),
		goals:      make([]domain.Goal, 0, len(goals)),
	}
	for _, f := range funds {
		b.funds = append(b.funds, f.toDomain())
	}
	for _, v := range voteplans {
		b.voteplans = append(b.voteplans, v.toDomain())
	}
	for _, r := range reviews {
		review, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		b.reviews = append(b.reviews, review)
	}
	for _, g := range goals {
		b.goals = append(b.goals, g.toDomain())
	}

	types, err := resolveChallenges(proposals, challenges)
	if err != nil {
		return nil, err
	}
	for idx, p := range proposals {
		proposal, info, err := p.toDomain(types[idx])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		b.proposals = append(b.proposals, proposal)
		switch info.Type {
		case domain.ChallengeTypeSimple:
			b.simple = append(b.simple, info.Simple.WithProposalID(proposal.ProposalID))
		case domain.ChallengeTypeCommunityChoice:
			b.communityChoice = append(b.communityChoice, info.CommunityChoice.WithProposalID(proposal.ProposalID))
		}
	}
	return b, nil
}
