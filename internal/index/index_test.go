package index

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/vietddude/orglens/internal/core/domain"
	"github.com/vietddude/orglens/internal/infra/blob"
)

type fakeLister struct {
	repos []*domain.Repo
	err   error
}

func (f *fakeLister) ListOrgRepos(ctx context.Context, org string) ([]*domain.Repo, error) {
	return f.repos, f.err
}

func TestBuild_FiltersExcludedRepos(t *testing.T) {
	lister := &fakeLister{repos: []*domain.Repo{
		{Name: "cost-optimizer", FullName: "org/cost-optimizer"},
		{Name: "aws-samples-collection", FullName: "org/aws-samples-collection"},
		{Name: "serverless-patterns", FullName: "org/serverless-patterns"},
		{Name: "security-labs", FullName: "org/security-labs"},
		{Name: "code-examples", FullName: "org/code-examples"},
		{Name: "deploy-tool", FullName: "org/deploy-tool"},
	}}
	blobs := blob.NewMemoryStore()

	b := NewBuilder(lister, blobs, slog.Default())
	b.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }

	idx, err := b.Build(context.Background(), "org")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if idx.TotalRepos != 2 {
		t.Fatalf("TotalRepos = %d, want 2", idx.TotalRepos)
	}
	if idx.Repositories[0].Name != "cost-optimizer" || idx.Repositories[1].Name != "deploy-tool" {
		t.Errorf("kept repos = %v", idx.Repositories)
	}
	if idx.Organization != "org" || idx.CreatedAt != "2026-06-01T00:00:00Z" {
		t.Errorf("index meta = %q / %q", idx.Organization, idx.CreatedAt)
	}
}

func TestBuild_PersistsTheIndex(t *testing.T) {
	lister := &fakeLister{repos: []*domain.Repo{{Name: "tool", FullName: "org/tool"}}}
	blobs := blob.NewMemoryStore()

	if _, err := NewBuilder(lister, blobs, slog.Default()).Build(context.Background(), "org"); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got, err := Load(context.Background(), blobs, "org")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.TotalRepos != 1 || got.Repositories[0].FullName != "org/tool" {
		t.Errorf("loaded index = %+v", got)
	}
}

func TestLoad_MissingIndex(t *testing.T) {
	_, err := Load(context.Background(), blob.NewMemoryStore(), "org")
	if !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestBuild_PropagatesListErrors(t *testing.T) {
	lister := &fakeLister{err: errors.New("api down")}
	_, err := NewBuilder(lister, blob.NewMemoryStore(), slog.Default()).Build(context.Background(), "org")
	if err == nil {
		t.Fatal("expected list error to propagate")
	}
}
