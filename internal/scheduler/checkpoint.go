package scheduler

import (
	"context"
	"errors"
	"strings"

	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/storage"
)

// Checkpoint remembers the last day the recap sweep ran to completion.
type Checkpoint interface {
	Load(ctx context.Context) (model.Day, error)
	Save(ctx context.Context, day model.Day) error
}

// RepoCheckpoint keeps the checkpoint under storage.RecapCheckpointKey.
type RepoCheckpoint struct {
	repo storage.Repository
}

func NewRepoCheckpoint(repo storage.Repository) *RepoCheckpoint {
	return &RepoCheckpoint{repo: repo}
}

// Load returns the zero Day when nothing has been recorded yet.
func (c *RepoCheckpoint) Load(ctx context.Context) (model.Day, error) {
	raw, err := c.repo.Get(ctx, storage.RecapCheckpointKey)
	if errors.Is(err, storage.ErrNotFound) {
		return model.Day{}, nil
	}
	if err != nil {
		return model.Day{}, err
	}
	return model.ParseDay(strings.TrimSpace(string(raw)))
}

func (c *RepoCheckpoint) Save(ctx context.Context, day model.Day) error {
	return c.repo.Put(ctx, storage.RecapCheckpointKey, []byte(day.String()))
}
