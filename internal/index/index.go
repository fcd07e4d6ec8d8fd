package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vietddude/orglens/internal/core/domain"
	"github.com/vietddude/orglens/internal/infra/blob"
)

// excludedWords filters out umbrella repositories that aggregate many
// unrelated solutions and would skew classification.
var excludedWords = []string{"samples", "examples", "patterns", "labs"}

// Lister fetches the full repository listing for an organization.
type Lister interface {
	ListOrgRepos(ctx context.Context, org string) ([]*domain.Repo, error)
}

// Index is the frozen snapshot of an organization's repositories. Runs
// iterate over a stored index rather than live listings so that resumed
// runs see the same ordering the checkpoint cursor was built against.
type Index struct {
	TotalRepos   int            `json:"total_repos"`
	CreatedAt    string         `json:"created_at"`
	Organization string         `json:"organization"`
	Repositories []*domain.Repo `json:"repositories"`
}

// Key returns the blob key an organization's index is stored under.
func Key(org string) string {
	return fmt.Sprintf("master-index/%s_repos.json", org)
}

// Builder creates and persists master indexes.
type Builder struct {
	lister Lister
	blobs  blob.Store
	now    func() time.Time
	log    *slog.Logger
}

func NewBuilder(lister Lister, blobs blob.Store, log *slog.Logger) *Builder {
	return &Builder{lister: lister, blobs: blobs, now: time.Now, log: log}
}

// Build lists the organization's repositories, drops excluded ones and
// persists the snapshot.
func (b *Builder) Build(ctx context.Context, org string) (*Index, error) {
	repos, err := b.lister.ListOrgRepos(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
	}

	kept := make([]*domain.Repo, 0, len(repos))
	for _, repo := range repos {
		if excluded(repo.Name) {
			b.log.Debug("excluding repository from index", "repo", repo.FullName)
			continue
		}
		kept = append(kept, repo)
	}

	idx := &Index{
		TotalRepos:   len(kept),
		CreatedAt:    b.now().UTC().Format(time.RFC3339),
		Organization: org,
		Repositories: kept,
	}
	if err := Save(ctx, b.blobs, idx); err != nil {
		return nil, err
	}
	b.log.Info("master index built", "org", org, "total", len(kept), "excluded", len(repos)-len(kept))
	return idx, nil
}

// Save persists an index to the blob store.
func Save(ctx context.Context, blobs blob.Store, idx *Index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	key := Key(idx.Organization)
	if err := blobs.Put(ctx, key, data); err != nil {
		return &blob.PersistenceError{Key: key, Err: err}
	}
	return nil
}

// Load reads a previously built index. It returns blob.ErrNotFound when no
// index has been built for the organization.
func Load(ctx context.Context, blobs blob.Store, org string) (*Index, error) {
	data, err := blobs.Get(ctx, Key(org))
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	return &idx, nil
}

func excluded(name string) bool {
	name = strings.ToLower(name)
	for _, w := range excludedWords {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}
