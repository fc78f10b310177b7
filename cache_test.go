package elsewhere_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/buzkaaclicker/elsewhere/inmem"
	"github.com/buzkaaclicker/elsewhere/mock"
	"github.com/stretchr/testify/assert"
)

func seededStore(t *testing.T) *inmem.NetworkStore {
	store := inmem.NewNetworkStore()
	for _, n := range []elsewhere.Network{
		{Kind: elsewhere.NetworkKindSocial, Name: "Twitter", Url: "https://twitter.com/%s",
			Icon: "twitter-icon", Identifier: "tw"},
		{Kind: elsewhere.NetworkKindSocial, Name: "Last.fm", Url: "http://www.last.fm/user/%s"},
		{Kind: elsewhere.NetworkKindInstantMessenger, Name: "Skype", Url: "skype:%s?call",
			Icon: "skype.png", Identifier: "sk"},
	} {
		if _, err := store.CreateIfAbsent(context.Background(), n); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestNetworkCacheRebuild(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	backend := inmem.NewCache()
	cache := &elsewhere.NetworkCache{Backend: backend, Store: seededStore(t)}

	social := cache.Get(ctx, elsewhere.NetworkKindSocial)
	assert.Equal(elsewhere.NetworkMap{
		"twitter": {Id: "twitter", Name: "Twitter", Url: "https://twitter.com/%s", Identifier: "tw", Icon: "twitter-icon"},
		"last-fm": {Id: "last-fm", Name: "Last.fm", Url: "http://www.last.fm/user/%s"},
	}, social)

	im := cache.Get(ctx, elsewhere.NetworkKindInstantMessenger)
	// im entries don't carry the identifier
	assert.Equal(elsewhere.NetworkMap{
		"skype": {Id: "skype", Name: "Skype", Url: "skype:%s?call", Icon: "skype.png"},
	}, im)

	raw, err := backend.Get(ctx, "elsewhere_sn_data")
	assert.NoError(err)
	assert.Contains(raw, `"twitter"`)
	_, err = backend.Get(ctx, "elsewhere_im_data")
	assert.NoError(err)

	assert.Equal([]elsewhere.Choice{{Id: "last-fm", Name: "Last.fm"}, {Id: "twitter", Name: "Twitter"}},
		cache.Choices(ctx, elsewhere.NetworkKindSocial))
}

func TestNetworkCacheServesFromBackend(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	var reads int32
	store := mock.NetworkStore{
		NetworksFn: func(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error) {
			atomic.AddInt32(&reads, 1)
			return []elsewhere.Network{{Kind: kind, Name: "GitHub", Url: "https://github.com/%s"}}, nil
		},
	}
	var ttl time.Duration
	backend := inmem.NewCache()
	recording := mock.CacheBackend{
		GetFn:        backend.Get,
		GenerationFn: backend.Generation,
		SetIfGenerationFn: func(ctx context.Context, key string, value string,
			d time.Duration, gen int64) (bool, error) {
			ttl = d
			return backend.SetIfGeneration(ctx, key, value, d, gen)
		},
		InvalidateFn: backend.Invalidate,
	}
	cache := &elsewhere.NetworkCache{Backend: recording, Store: store}

	for i := 0; i < 5; i++ {
		m := cache.Get(ctx, elsewhere.NetworkKindSocial)
		assert.Contains(m, "github")
	}
	assert.Equal(int32(1), atomic.LoadInt32(&reads))
	assert.Equal(24*time.Hour, ttl)
}

func TestNetworkCacheExpiresAfterDay(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	now := time.Date(2021, 6, 1, 8, 0, 0, 0, time.UTC)
	backend := inmem.NewCache()
	backend.Now = func() time.Time { return now }

	store := seededStore(t)
	cache := &elsewhere.NetworkCache{Backend: backend, Store: store}
	assert.Len(cache.Get(ctx, elsewhere.NetworkKindSocial), 2)

	// written directly, bypassing Save invalidation
	_, err := store.CreateIfAbsent(ctx, elsewhere.Network{Kind: elsewhere.NetworkKindSocial,
		Name: "GitHub", Url: "https://github.com/%s"})
	assert.NoError(err)

	now = now.Add(23 * time.Hour)
	assert.Len(cache.Get(ctx, elsewhere.NetworkKindSocial), 2, "stale data served before expiry")

	now = now.Add(time.Hour + time.Second)
	assert.Len(cache.Get(ctx, elsewhere.NetworkKindSocial), 3, "rebuilt after expiry")
}

func TestNetworkCacheStoreNotReady(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	ready := false
	store := mock.NetworkStore{
		NetworksFn: func(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error) {
			if !ready {
				return nil, elsewhere.ErrStoreNotReady
			}
			return []elsewhere.Network{{Kind: kind, Name: "ICQ", Url: "http://www.icq.com/people/%s"}}, nil
		},
	}
	backend := inmem.NewCache()
	cache := &elsewhere.NetworkCache{Backend: backend, Store: store}

	m := cache.Get(ctx, elsewhere.NetworkKindInstantMessenger)
	assert.NotNil(m)
	assert.Empty(m)
	_, err := backend.Get(ctx, "elsewhere_im_data")
	assert.ErrorIs(err, elsewhere.ErrCacheMiss, "cache must stay unset")

	ready = true
	assert.Contains(cache.Get(ctx, elsewhere.NetworkKindInstantMessenger), "icq")
}

func TestNetworkCacheStoreFailureSwallowed(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := mock.NetworkStore{
		NetworksFn: func(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error) {
			return nil, errors.New("connection reset by peer")
		},
	}
	backend := inmem.NewCache()
	cache := &elsewhere.NetworkCache{Backend: backend, Store: store}

	assert.Empty(cache.Get(ctx, elsewhere.NetworkKindSocial))
	_, err := backend.Get(ctx, "elsewhere_sn_data")
	assert.ErrorIs(err, elsewhere.ErrCacheMiss)
}

func TestNetworkCacheBackendFailure(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	backend := mock.CacheBackend{
		GetFn: func(ctx context.Context, key string) (string, error) {
			return "", errors.New("redis: connection refused")
		},
		GenerationFn: func(ctx context.Context, key string) (int64, error) {
			return 0, nil
		},
		SetIfGenerationFn: func(ctx context.Context, key string, value string,
			ttl time.Duration, gen int64) (bool, error) {
			return false, errors.New("redis: connection refused")
		},
	}
	cache := &elsewhere.NetworkCache{Backend: backend, Store: seededStore(t)}
	assert.Len(cache.Get(ctx, elsewhere.NetworkKindSocial), 2)

	// unknown generation, nothing may be stored
	backend.GenerationFn = func(ctx context.Context, key string) (int64, error) {
		return 0, errors.New("redis: connection refused")
	}
	backend.SetIfGenerationFn = func(ctx context.Context, key string, value string,
		ttl time.Duration, gen int64) (bool, error) {
		t.Error("stored without a generation")
		return true, nil
	}
	cache = &elsewhere.NetworkCache{Backend: backend, Store: seededStore(t)}
	assert.Len(cache.Get(ctx, elsewhere.NetworkKindSocial), 2)
}

func TestNetworkCacheCorruptedEntry(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	backend := inmem.NewCache()
	assert.NoError(backend.Set(ctx, "elsewhere_sn_data", "{not json", time.Hour))
	cache := &elsewhere.NetworkCache{Backend: backend, Store: seededStore(t)}
	assert.Len(cache.Get(ctx, elsewhere.NetworkKindSocial), 2)
}

func TestNetworkCacheInvalidateOwnKindOnly(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	backend := inmem.NewCache()
	store := seededStore(t)
	cache := &elsewhere.NetworkCache{Backend: backend, Store: store}
	store.Cache = cache

	cache.Get(ctx, elsewhere.NetworkKindSocial)
	cache.Get(ctx, elsewhere.NetworkKindInstantMessenger)

	twitter, err := store.ByName(ctx, elsewhere.NetworkKindSocial, "Twitter")
	if !assert.NoError(err) {
		return
	}
	twitter.Url = "https://x.com/%s"
	_, err = store.Save(ctx, twitter)
	assert.NoError(err)

	_, err = backend.Get(ctx, "elsewhere_sn_data")
	assert.ErrorIs(err, elsewhere.ErrCacheMiss)
	_, err = backend.Get(ctx, "elsewhere_im_data")
	assert.NoError(err)

	assert.Equal("https://x.com/%s", cache.Get(ctx, elsewhere.NetworkKindSocial)["twitter"].Url)

	// absent key
	assert.NoError(cache.Invalidate(ctx, elsewhere.NetworkKindSocial))
	assert.NoError(cache.Invalidate(ctx, elsewhere.NetworkKindSocial))
}

func TestNetworkCacheConcurrentRebuild(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	var reads int32
	release := make(chan struct{})
	store := mock.NetworkStore{
		NetworksFn: func(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error) {
			atomic.AddInt32(&reads, 1)
			<-release
			return []elsewhere.Network{{Kind: kind, Name: "Vimeo", Url: "http://vimeo.com/%s"}}, nil
		},
	}
	cache := &elsewhere.NetworkCache{Backend: inmem.NewCache(), Store: store}

	var wg sync.WaitGroup
	results := make([]elsewhere.NetworkMap, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(ctx, elsewhere.NetworkKindSocial)
		}(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(int32(1), atomic.LoadInt32(&reads))
	for _, m := range results {
		assert.Contains(m, "vimeo")
	}
}

func TestNetworkCacheRebuildRacingInvalidation(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	backend := inmem.NewCache()
	store := seededStore(t)

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	slowStore := mock.NetworkStore{
		NetworksFn: func(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error) {
			networks, err := store.Networks(ctx, kind)
			if atomic.AddInt32(&calls, 1) == 1 {
				close(started)
				<-release
			}
			return networks, err
		},
	}
	cache := &elsewhere.NetworkCache{Backend: backend, Store: slowStore}
	store.Cache = cache

	stale := make(chan elsewhere.NetworkMap)
	go func() {
		stale <- cache.Get(ctx, elsewhere.NetworkKindSocial)
	}()
	<-started

	twitter, err := store.ByName(ctx, elsewhere.NetworkKindSocial, "Twitter")
	if !assert.NoError(err) {
		close(release)
		return
	}
	twitter.Url = "https://x.com/%s"
	_, err = store.Save(ctx, twitter)
	close(release)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("https://twitter.com/%s", (<-stale)["twitter"].Url)

	_, err = backend.Get(ctx, "elsewhere_sn_data")
	assert.ErrorIs(err, elsewhere.ErrCacheMiss, "snapshot read before save must not be cached")
	assert.Equal("https://x.com/%s", cache.Get(ctx, elsewhere.NetworkKindSocial)["twitter"].Url)
	assert.Equal(int32(2), atomic.LoadInt32(&calls))
}

func TestNetworkCacheRebuildOutlivesCaller(t *testing.T) {
	assert := assert.New(t)

	store := mock.NetworkStore{
		NetworksFn: func(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return []elsewhere.Network{{Kind: kind, Name: "Flickr", Url: "http://www.flickr.com/photos/%s"}}, nil
		},
	}
	backend := inmem.NewCache()
	cache := &elsewhere.NetworkCache{Backend: backend, Store: store}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Contains(cache.Get(ctx, elsewhere.NetworkKindSocial), "flickr")

	raw, err := backend.Get(context.Background(), "elsewhere_sn_data")
	if assert.NoError(err) {
		assert.Contains(raw, `"flickr"`)
	}
}
