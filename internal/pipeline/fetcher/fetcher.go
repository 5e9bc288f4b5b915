package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Downloader retrieves the raw bytes of a remote artifact.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// ParseConnector converts raw document bytes into markdown pages.
type ParseConnector interface {
	ParseDocument(ctx context.Context, filename string, content []byte) ([]entity.Page, error)
}

// Fetcher resolves a remote URL into a RawDocument, caching the
// downloaded artifact on disk. Cache entries are permanent until
// explicitly deleted.
type Fetcher struct {
	downloader Downloader
	parser     ParseConnector
	store      Store
	memo       *gocache.Cache
	logger     *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFetcher(
	downloader Downloader,
	parser ParseConnector,
	store Store,
	memoTTL time.Duration,
	logger *zap.Logger,
) *Fetcher {
	return &Fetcher{
		downloader: downloader,
		parser:     parser,
		store:      store,
		memo:       gocache.New(memoTTL, 2*memoTTL),
		logger:     logger,
		locks:      make(map[string]*sync.Mutex),
	}
}

// NormalizeCacheKey derives the artifact store key from a source URL:
// basename without extension, lowercased, underscores replaced with
// hyphens, anything outside [a-z0-9.-] dropped.
func NormalizeCacheKey(rawURL string) string {
	name := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
		name = parsed.Path
	}

	name = path.Base(name)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")

	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	name = b.String()

	if name == "" || name == "." {
		return "document"
	}
	return name
}

// Fetch resolves url into a RawDocument. The first fetch of a URL
// downloads and persists the artifact; later fetches load the cached
// copy. Concurrent first fetches of the same URL are serialized per key.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*entity.RawDocument, error) {
	key := NormalizeCacheKey(rawURL)
	ctxzap.Info(ctx, "fetching document", zap.String("url", rawURL), zap.String("cache_key", key))

	if doc, ok := f.memo.Get(key); ok {
		ctxzap.Debug(ctx, "document served from memory")
		return doc.(*entity.RawDocument), nil
	}

	lock := f.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// Another fetch may have completed while we waited for the lock.
	if doc, ok := f.memo.Get(key); ok {
		return doc.(*entity.RawDocument), nil
	}

	content, err := f.loadOrDownload(ctx, key, rawURL)
	if err != nil {
		return nil, err
	}

	pages, err := f.parser.ParseDocument(ctx, key, content)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	doc := &entity.RawDocument{
		SourceURL: rawURL,
		CacheKey:  key,
		Pages:     pages,
		FetchedAt: time.Now(),
	}

	f.memo.SetDefault(key, doc)
	return doc, nil
}

func (f *Fetcher) loadOrDownload(ctx context.Context, key, rawURL string) ([]byte, error) {
	exists, err := f.store.Exists(key)
	if err != nil {
		return nil, fmt.Errorf("check cache: %w", err)
	}

	if exists {
		ctxzap.Info(ctx, "cache hit", zap.String("cache_key", key))
		content, err := f.store.Read(key)
		if err != nil {
			return nil, fmt.Errorf("read cached artifact: %w", err)
		}
		return content, nil
	}

	ctxzap.Info(ctx, "cache miss, downloading", zap.String("cache_key", key))
	content, err := f.downloader.Download(ctx, rawURL)
	if err != nil {
		// Nothing is written on a failed download; the cache stays clean.
		return nil, err
	}

	if err := f.store.Write(key, content); err != nil {
		return nil, fmt.Errorf("persist artifact: %w", err)
	}

	return content, nil
}

// Delete removes the cached artifact for url. Deleting an entry that was
// never fetched is a no-op.
func (f *Fetcher) Delete(ctx context.Context, rawURL string) error {
	key := NormalizeCacheKey(rawURL)

	lock := f.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	f.memo.Delete(key)

	existed, err := f.store.Delete(key)
	if err != nil {
		return fmt.Errorf("delete cached artifact: %w", err)
	}

	if !existed {
		ctxzap.Info(ctx, "cache entry not present, nothing to delete", zap.String("cache_key", key))
		return nil
	}

	ctxzap.Info(ctx, "cache entry deleted", zap.String("cache_key", key))
	return nil
}

func (f *Fetcher) keyLock(key string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()

	lock, ok := f.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		f.locks[key] = lock
	}
	return lock
}
