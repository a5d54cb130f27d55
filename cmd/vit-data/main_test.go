package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/vitstation/modules/voting/domain"
	"github.com/iota-uz/vitstation/modules/voting/services"
	"github.com/iota-uz/vitstation/pkg/csvutil"
	"github.com/iota-uz/vitstation/pkg/snapshot"
)

func TestExitCode(t *testing.T) {
	restore := &snapshot.RestoreError{Backup: "b", Cause: errors.New("rename"), Original: &services.WriteError{Step: services.StepGoals, Err: errors.New("x")}}

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"usage", withCode(exitUsage, errors.New("--funds is required")), exitUsage},
		{"decode", &csvutil.DecodeError{Path: "f.csv", Line: 3, Err: errors.New("bad")}, exitValidation},
		{"challenge", &services.ChallengeNotFoundError{ChallengeID: 1, ProposalID: "p"}, exitValidation},
		{"no funds", services.ErrNoFunds, exitValidation},
		{"transform", fmt.Errorf("%w: review 1: bad", services.ErrInvalidInput), exitValidation},
		{"missing folder", fmt.Errorf("list: %w", os.ErrNotExist), exitValidation},
		{"no connection", fmt.Errorf("%w: ping", domain.ErrNoConnection), exitDB},
		{"db missing", fmt.Errorf("%w: /x.db", snapshot.ErrDatabaseNotFound), exitDB},
		{"write", &services.WriteError{Step: services.StepProposals, Err: errors.New("constraint")}, exitDBWrite},
		{"restore wins", restore, exitSafetyNet},
		{"restore wins over code", withCode(exitUsage, restore), exitSafetyNet},
		{"unknown", errors.New("boom"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCode(tc.err))
		})
	}
}

func run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())

	if out.Len() == 0 {
		return nil, err
	}
	var summary map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	return summary, err
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const (
	fundsCSV = `fund_name,fund_goal,voting_power_threshold,fund_start_time,fund_end_time,next_fund_start_time,registration_snapshot_time,voting_start,voting_end,tallying_end,results_url,survey_url
Fund7,Grow the ecosystem,450,2021-10-01T00:00:00Z,2021-12-01T00:00:00Z,1640995200,1633046400,1636934400,1637539200,1638144000,,
`
	voteplansCSV = `chain_voteplan_id,chain_vote_start_time,chain_vote_end_time,chain_committee_end_time,chain_voteplan_payload,chain_vote_encryption_key,fund_id
vp-1,1636934400,1637539200,1638144000,public,,
`
	challengesCSV = `id,challenge_type,title,description,rewards_total,proposers_rewards,fund_id,challenge_url,highlights
1,simple,Dapps,Build dapps,1000,900,,https://example.org/c/1,
`
	proposalsCSV = `proposal_id,category_name,proposal_title,proposal_summary,proposal_public_key,proposal_funds,proposal_url,proposal_files_url,proposal_impact_score,proposer_name,proposer_contact,proposer_url,proposer_relevant_experience,chain_proposal_id,chain_proposal_index,chain_vote_options,chain_voteplan_id,challenge_id,proposal_solution,proposal_brief,proposal_importance,proposal_goal,proposal_metrics
p-1,dapps,Title 1,Summary,pk1,1000,https://example.org/p/1,,4,Alice,alice@example.org,,exp,chain-1,0,"blank,yes,no",vp-1,1,Do it,,,,
`
	reviewsCSV = `id,proposal_id,assessor,impact_alignment_rating_given,impact_alignment_note,feasibility_rating_given,feasibility_note,auditability_rating_given,auditability_note,excellent,good
1,1,as1,5,great,4,ok,3,fine,true,false
`
	goalsCSV = `goal_name,fund_id
Adoption,
`
)

func loadAllArgs(t *testing.T, dir, dbPath string) []string {
	t.Helper()
	return []string{
		"load", "all", "--db-url", "sqlite://" + dbPath,
		"--funds", writeInput(t, dir, "funds.csv", fundsCSV),
		"--voteplans", writeInput(t, dir, "voteplans.csv", voteplansCSV),
		"--challenges", writeInput(t, dir, "challenges.csv", challengesCSV),
		"--proposals", writeInput(t, dir, "proposals.csv", proposalsCSV),
		"--reviews", writeInput(t, dir, "reviews.csv", reviewsCSV),
		"--goals", writeInput(t, dir, "goals.csv", goalsCSV),
	}
}

func TestMigrateAndLoadAll(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "store.sqlite3")

	_, err := run(t, "migrate", "--db-url", dbPath)
	require.Error(t, err)
	assert.Equal(t, exitDB, exitCode(err))

	summary, err := run(t, "migrate", "--db-url", dbPath, "--create")
	require.NoError(t, err)
	assert.Equal(t, true, summary["created"])

	summary, err = run(t, loadAllArgs(t, dir, dbPath)...)
	require.NoError(t, err)
	assert.Equal(t, "ok", summary["status"])
	assert.Equal(t, "all", summary["mode"])
	assert.Equal(t, float64(1), summary["current_fund_id"])
	assert.Equal(t, dbPath, summary["db"])
}

func TestLoadAll_DryRunDoesNotNeedStore(t *testing.T) {
	dir := t.TempDir()
	args := append(loadAllArgs(t, dir, filepath.Join(dir, "absent.sqlite3")), "--dry-run")

	summary, err := run(t, args...)
	require.NoError(t, err)
	assert.Equal(t, true, summary["dry_run"])
	assert.NoFileExists(t, filepath.Join(dir, "absent.sqlite3"))
}

func TestLoadAll_MissingStoreReportsSummary(t *testing.T) {
	dir := t.TempDir()

	summary, err := run(t, loadAllArgs(t, dir, filepath.Join(dir, "absent.sqlite3"))...)
	require.ErrorIs(t, err, snapshot.ErrDatabaseNotFound)
	assert.Equal(t, exitDB, exitCode(err))
	assert.Equal(t, "failed", summary["status"])
	assert.Contains(t, summary["error"], "database file not found")
}

func TestUsageErrors(t *testing.T) {
	_, err := run(t, "load", "all", "--db-url", "x.db", "--funds", "f.csv")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
	assert.Contains(t, err.Error(), "--voteplans is required")

	_, err = run(t, "load", "votes", "--db-url", "x.db")
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = run(t, "load", "votes", "--bogus")
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestLoadVotes_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "votes/a.csv", "fragment_id,caster,proposal,voteplan_id,time,choice,raw_fragment\nf1,caster,1,vp-1,1637000000.5,1,raw\nf2,caster,1,vp-1,1637000001.5,0,raw\n")

	summary, err := run(t, "load", "votes", "--db-url", filepath.Join(dir, "store.db"), "--folder", filepath.Join(dir, "votes"), "--dry-run")
	require.NoError(t, err)
	counts, ok := summary["counts"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), counts["votes"])
}
