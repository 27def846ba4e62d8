// Package loader batches user lookups made while resolving one GraphQL request.
package loader

import (
	"context"
	"time"

	"lireddit/internal/models"
	"lireddit/internal/services"

	"github.com/graph-gophers/dataloader/v7"
)

// FetchUsers loads the users with the given ids. Order and completeness of the result do not matter.
type FetchUsers func(ctx context.Context, ids []uint) ([]models.User, error)

// UserLoader coalesces Load calls made within the wait window into one FetchUsers call.
// Build one per request and drop it with the request.
type UserLoader struct {
	loader *dataloader.Loader[uint, *models.User]
}

func NewUserLoader(fetch FetchUsers, wait time.Duration) *UserLoader {
	opts := []dataloader.Option[uint, *models.User]{
		dataloader.WithWait[uint, *models.User](wait),
	}
	if cache, err := newLRUCache[uint, *models.User](defaultCacheSize); err == nil {
		opts = append(opts, dataloader.WithCache[uint, *models.User](cache))
	}
	return &UserLoader{loader: dataloader.NewBatchedLoader(batchUsers(fetch), opts...)}
}

func batchUsers(fetch FetchUsers) dataloader.BatchFunc[uint, *models.User] {
	return func(ctx context.Context, ids []uint) []*dataloader.Result[*models.User] {
		results := make([]*dataloader.Result[*models.User], len(ids))

		users, err := fetch(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*models.User]{Error: err}
			}
			return results
		}

		byID := make(map[uint]*models.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}
		for i, id := range ids {
			if u, ok := byID[id]; ok {
				results[i] = &dataloader.Result[*models.User]{Data: u}
			} else {
				results[i] = &dataloader.Result[*models.User]{Error: services.ErrUserNotFound}
			}
		}
		return results
	}
}

// Load returns a thunk for the user with id.
func (l *UserLoader) Load(ctx context.Context, id uint) dataloader.Thunk[*models.User] {
	return l.loader.Load(ctx, id)
}

// LoadMany returns a thunk for several users, aligned with ids.
func (l *UserLoader) LoadMany(ctx context.Context, ids []uint) dataloader.ThunkMany[*models.User] {
	return l.loader.LoadMany(ctx, ids)
}

// Queue starts loading ids without waiting for them. Later Load calls for
// these ids share the same batch, however the caller's goroutines are scheduled.
func (l *UserLoader) Queue(ctx context.Context, ids []uint) {
	for _, id := range ids {
		l.loader.Load(ctx, id)
	}
}

// Prime seeds the cache with a user already in hand.
func (l *UserLoader) Prime(ctx context.Context, u *models.User) {
	l.loader.Prime(ctx, u.ID, u)
}
