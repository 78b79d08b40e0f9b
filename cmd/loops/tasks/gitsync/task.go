package gitsync

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kevintatou/sparktest/cmd/loops/recurring"
	"github.com/kevintatou/sparktest/pkg/configs/server"
	"github.com/kevintatou/sparktest/pkg/domain"
	kdbdef "github.com/kevintatou/sparktest/pkg/domain/definition/db"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
)

// Repository is where definitions are synced from.
type Repository struct {
	URL       string
	Branch    string
	Directory string
}

// RepositoriesOf reads repositories from config.
func RepositoriesOf(conf *server.SyncConfig) []Repository {
	repos := []Repository{}
	if conf == nil {
		return repos
	}
	for _, r := range conf.Repositories() {
		repos = append(repos, Repository{URL: r.URL(), Branch: r.Branch(), Directory: r.Directory()})
	}
	return repos
}

// initial value for task
func Seed() struct{} {
	return struct{}{}
}

// Task for sync loop.
//
// It clones each repository and upserts definitions found in its directory.
//
// A repository which cannot be cloned and a file which is not valid are logged and skipped.
// Errors from the database stop the cycle.
func Task(
	logger *log.Logger,
	dbDefinition kdbdef.DefinitionInterface,
	repos []Repository,
	clone Cloner,
) recurring.Task[struct{}] {
	return func(ctx context.Context, value struct{}) (struct{}, bool, error) {
		for _, repo := range repos {
			created, updated, err := syncRepository(ctx, logger, dbDefinition, repo, clone)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return value, false, nil
				}
				return value, false, err
			}
			logger.Printf("%s (%s): %d created, %d updated", repo.URL, repo.Branch, created, updated)
		}
		return value, false, nil
	}
}

func syncRepository(
	ctx context.Context,
	logger *log.Logger,
	dbDefinition kdbdef.DefinitionInterface,
	repo Repository,
	clone Cloner,
) (created int, updated int, err error) {
	workdir, err := os.MkdirTemp("", "sparktest-sync-")
	if err != nil {
		return 0, 0, err
	}
	defer os.RemoveAll(workdir)

	if err := clone(ctx, workdir, repo); err != nil {
		if ctx.Err() != nil {
			return 0, 0, ctx.Err()
		}
		logger.Printf("%s (%s): failed to clone: %s", repo.URL, repo.Branch, err)
		return 0, 0, nil
	}

	dir := filepath.Join(workdir, filepath.FromSlash(repo.Directory))
	files, err := Files(dir)
	if err != nil {
		logger.Printf("%s: cannot list files in %s: %s", repo.URL, repo.Directory, err)
		return 0, 0, nil
	}

	for _, name := range files {
		f, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Printf("%s: skipped %s: %s", repo.URL, name, err)
			continue
		}
		def, err := f.Definition()
		if err != nil {
			logger.Printf("%s: skipped %s: %s", repo.URL, name, err)
			continue
		}
		def.Id = uuid.NewString()
		def.Source = pointer.Ref(domain.GitSource(repo.URL, repo.Branch, repo.Directory, name))

		_, isNew, err := dbDefinition.UpsertBySource(ctx, def)
		if err != nil {
			return created, updated, err
		}
		if isNew {
			created += 1
		} else {
			updated += 1
		}
	}
	return created, updated, nil
}
