package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iota-uz/vitstation/modules/voting/domain"
	"github.com/iota-uz/vitstation/pkg/csvutil"
)

// listVoteFiles returns the tabular files directly inside dir in lexical order.
// Subdirectories are not visited.
func listVoteFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes folder: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !csvutil.IsTabular(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func decodeVotes(files []string) ([]domain.Vote, error) {
	var votes []domain.Vote
	for _, f := range files {
		records, err := csvutil.Decode(f, parseVoteRecord)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			votes = append(votes, r.toDomain())
		}
	}
	return votes, nil
}

// LoadVotes imports every vote file found directly in dir with a single bulk insert.
// On failure the store file is put back as it was before the call.
func (i *Importer) LoadVotes(ctx context.Context, dir string) (res *Result, err error) {
	start := time.Now()
	res = i.newResult(ModeVotes)
	defer func() { i.finish(res, start, err) }()

	var votes []domain.Vote
	prepare := func() error {
		files, err := listVoteFiles(dir)
		if err != nil {
			return err
		}
		res.Files = files
		if votes, err = decodeVotes(files); err != nil {
			return err
		}
		res.Counts["votes"] = len(votes)
		return nil
	}

	if i.opts.DryRun {
		return res, prepare()
	}

	err = i.guard(ctx, res, prepare, func(ctx context.Context, repo domain.Repository) error {
		return writeVotes(ctx, repo, votes)
	})
	return res, err
}
