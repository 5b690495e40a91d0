// Package publish writes generated DDL scripts to a directory and records
// them in a git repository.
package publish

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"jsonflake/internal/common"
	"jsonflake/internal/ddl"
	"jsonflake/internal/observability"
	"jsonflake/pkg/errors"
	"jsonflake/pkg/models"
)

// Publisher owns an output directory
type Publisher struct {
	dir    string
	author models.Publish
	logger *observability.Logger
}

// New creates a publisher for dir. The author is used for commits.
func New(dir string, author models.Publish, logger *observability.Logger) *Publisher {
	if logger == nil {
		logger = observability.GetDefaultLogger()
	}
	return &Publisher{dir: dir, author: author, logger: logger.WithField("dir", dir)}
}

// Dir returns the output directory
func (p *Publisher) Dir() string { return p.dir }

// Write stores one <TABLE>.sql file per statement and returns the file names
// relative to the directory
func (p *Publisher) Write(stmts []ddl.Statement) ([]string, error) {
	if err := os.MkdirAll(p.dir, common.DirPermissionNormal); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePublishWrite, "Failed to create output directory").
			WithContext("dir", p.dir)
	}

	files := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		name := stmt.Schema.Table + ".sql"
		path, err := common.JoinPath(p.dir, name)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePublishWrite, "Invalid output path").
				WithContext("file", name)
		}
		if err := os.WriteFile(path, []byte(stmt.Script()), common.FilePermissionNormal); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePublishWrite, "Failed to write DDL file").
				WithContext("file", path)
		}
		files = append(files, name)
	}

	p.logger.DebugWithFields("ddl written", map[string]interface{}{"files": len(files)})
	return files, nil
}

// Commit stages files and commits them, initializing the repository when
// the directory is not one yet. It returns the commit hash, or "" when
// nothing changed.
func (p *Publisher) Commit(message string, files []string) (string, error) {
	repo, err := git.PlainOpen(p.dir)
	if err == git.ErrRepositoryNotExists {
		p.logger.Info("initializing git repository")
		repo, err = git.PlainInit(p.dir, false)
	}
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeGit, "Failed to open repository").
			WithContext("dir", p.dir)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeGit, "Failed to get worktree")
	}

	for _, file := range files {
		if _, err := worktree.Add(filepath.ToSlash(file)); err != nil {
			return "", errors.Wrap(err, errors.ErrCodeGit, "Failed to stage file").
				WithContext("file", file)
		}
	}

	status, err := worktree.Status()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeGit, "Failed to read worktree status")
	}
	if status.IsClean() {
		p.logger.Info("ddl unchanged, nothing to commit")
		return "", nil
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  p.author.AuthorName,
			Email: p.author.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeGit, "Failed to commit").
			WithSuggestions("Check publish.author_name and publish.author_email in the config file")
	}

	p.logger.InfoWithFields("ddl committed", map[string]interface{}{
		"commit": hash.String()[:7],
		"files":  len(files),
	})
	return hash.String(), nil
}
