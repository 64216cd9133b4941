package factory

import (
	"context"

	"github.com/bselic/newsbrief/internal/storage"
	"github.com/bselic/newsbrief/internal/storage/memory"
	"github.com/bselic/newsbrief/internal/storage/pg"
	pkgserver "github.com/bselic/newsbrief/pkg/server"
)

// Stores bundles the three storage contracts plus lifecycle hooks, so the
// entrypoint can wire either backend without caring which one it got.
type Stores struct {
	Contents storage.ContentStore
	Links    storage.AssociationIndex
	Users    storage.UserDirectory
	Health   pkgserver.HealthChecker
	Close    func()
}

func New(ctx context.Context, cfg *StorageConfig) (*Stores, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Contents: pg.NewContentStore(pool),
			Links:    pg.NewAssociationIndex(pool),
			Users:    pg.NewUserDirectory(pool),
			Health:   pg.NewHealthChecker(pool),
			Close:    pool.Close,
		}, nil
	case storage.InMem:
		store := memory.NewStore()
		return &Stores{
			Contents: store.Contents(),
			Links:    store.Links(),
			Users:    store.Users(),
			Health:   pkgserver.NewOkHealthChecker(),
			Close:    func() {},
		}, nil
	default:
		return nil, storage.ErrUnsupportedStorage
	}
}
