// Package git reads commit diffs from local repositories using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultRevision is the revision used when none is given.
const DefaultRevision = "HEAD"

// ErrRevisionNotFound indicates the requested revision could not be resolved.
var ErrRevisionNotFound = errors.New("revision not found")

// CommitDiff is the unified diff introduced by one commit.
type CommitDiff struct {
	sha     string
	subject string
	patch   string
}

// SHA returns the full commit hash.
func (d CommitDiff) SHA() string { return d.sha }

// Subject returns the first line of the commit message.
func (d CommitDiff) Subject() string { return d.subject }

// Patch returns the unified diff against the first parent. A root commit is
// diffed against the empty tree.
func (d CommitDiff) Patch() string { return d.patch }

// GoGitAdapter reads repositories with go-git.
type GoGitAdapter struct {
	logger *slog.Logger
}

// NewGoGitAdapter creates a new GoGitAdapter.
func NewGoGitAdapter(logger *slog.Logger) *GoGitAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoGitAdapter{logger: logger}
}

// CommitDiff returns the diff introduced by revision in the repository at
// localPath. Revision accepts anything go-git resolves (HEAD, HEAD~2,
// branch names, tags, hashes). An empty revision means HEAD.
func (g *GoGitAdapter) CommitDiff(ctx context.Context, localPath string, revision string) (CommitDiff, error) {
	if revision == "" {
		revision = DefaultRevision
	}

	repo, err := gogit.PlainOpenWithOptions(localPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return CommitDiff{}, fmt.Errorf("open repository: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return CommitDiff{}, fmt.Errorf("%w: %s: %v", ErrRevisionNotFound, revision, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return CommitDiff{}, fmt.Errorf("get commit: %w", err)
	}

	parentTree := &object.Tree{}
	if len(commit.ParentHashes) > 0 {
		parent, err := repo.CommitObject(commit.ParentHashes[0])
		if err != nil {
			return CommitDiff{}, fmt.Errorf("get parent commit: %w", err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return CommitDiff{}, fmt.Errorf("get parent tree: %w", err)
		}
	}

	commitTree, err := commit.Tree()
	if err != nil {
		return CommitDiff{}, fmt.Errorf("get commit tree: %w", err)
	}

	changes, err := parentTree.DiffContext(ctx, commitTree)
	if err != nil {
		return CommitDiff{}, fmt.Errorf("compute diff: %w", err)
	}

	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return CommitDiff{}, fmt.Errorf("get patch: %w", err)
	}

	subject, _, _ := strings.Cut(commit.Message, "\n")

	g.logger.DebugContext(ctx, "read commit diff",
		slog.String("sha", commit.Hash.String()),
		slog.Int("files", len(changes)),
	)

	return CommitDiff{
		sha:     commit.Hash.String(),
		subject: subject,
		patch:   patch.String(),
	}, nil
}
