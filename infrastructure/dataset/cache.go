package dataset

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
	"golang.org/x/sync/singleflight"
)

// CachedLoader loads each source path once and serves the result until the
// process exits. Failed loads are not cached.
type CachedLoader struct {
	source Source
	group  singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Dataset
}

func NewCachedLoader(source Source) *CachedLoader {
	return &CachedLoader{
		source: source,
		cache:  make(map[string]*Dataset),
	}
}

func (l *CachedLoader) Load(ctx context.Context) (*Dataset, error) {
	key := l.source.Path()

	if ds, ok := l.cached(key); ok {
		return ds, nil
	}

	v, err, shared := l.group.Do(key, func() (interface{}, error) {
		if ds, ok := l.cached(key); ok {
			return ds, nil
		}

		// The load is shared, so one caller's cancellation must not fail the others.
		ds, err := l.source.Load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cache[key] = ds
		l.mu.Unlock()

		return ds, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "dataset: load")
	}

	if shared {
		log.ForContext(ctx).WithField("dataset_path", key).Debug("dataset: joined in-flight load")
	}

	return v.(*Dataset), nil
}

// Cached returns the memoized dataset without triggering a load.
func (l *CachedLoader) Cached() (*Dataset, bool) {
	return l.cached(l.source.Path())
}

func (l *CachedLoader) cached(key string) (*Dataset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ds, ok := l.cache[key]
	return ds, ok
}
