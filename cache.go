package portal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// contentSnapshot is everything the public pages list, loaded together.
type contentSnapshot struct {
	news      []NewsItem
	services  []Service
	gallery   []GalleryItem
	resources []Resource
	social    []SocialLink
	hotlines  []Hotline
}

// ContentCache is an in-memory TTL cache of published content. Admin writes
// and datastore switches invalidate it.
type ContentCache struct {
	mu      sync.RWMutex
	snap    *contentSnapshot
	fetched time.Time
	ttl     time.Duration
	store   func() *Store
}

// NewContentCache creates a cache that reads from whichever store the
// provider returns at load time.
func NewContentCache(store func() *Store, ttl time.Duration) *ContentCache {
	return &ContentCache{store: store, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.snap != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *ContentCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	s := c.store()
	var snap contentSnapshot
	var err error
	if snap.news, err = s.ListNews(ctx, StatusPublished); err != nil {
		return fmt.Errorf("load news: %w", err)
	}
	if snap.services, err = s.ListServices(ctx, ServiceActive); err != nil {
		return fmt.Errorf("load services: %w", err)
	}
	if snap.gallery, err = s.ListGallery(ctx, StatusPublished); err != nil {
		return fmt.Errorf("load gallery: %w", err)
	}
	if snap.resources, err = s.ListResources(ctx, StatusPublished); err != nil {
		return fmt.Errorf("load resources: %w", err)
	}
	if snap.social, err = s.ListSocialLinks(ctx, true); err != nil {
		return fmt.Errorf("load social links: %w", err)
	}
	if snap.hotlines, err = s.ListHotlines(ctx); err != nil {
		return fmt.Errorf("load hotlines: %w", err)
	}
	c.snap = &snap
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the current snapshot, reloading it if stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) ensureLoaded(ctx context.Context) (*contentSnapshot, error) {
	c.mu.RLock()
	if c.valid() {
		snap := c.snap
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.snap, nil
}

// News returns published news, newest first.
func (c *ContentCache) News(ctx context.Context) ([]NewsItem, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.news, nil
}

// GetNews returns one published news item by id.
func (c *ContentCache) GetNews(ctx context.Context, id string) (NewsItem, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return NewsItem{}, err
	}
	for _, n := range snap.news {
		if n.ID == id {
			return n, nil
		}
	}
	return NewsItem{}, ErrNotFound
}

// Services returns active services, optionally filtered by tag.
func (c *ContentCache) Services(ctx context.Context, tag string) ([]Service, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return snap.services, nil
	}
	normalized := normalizeTag(tag)
	var out []Service
	for _, sv := range snap.services {
		for _, t := range sv.Tags {
			if normalizeTag(t) == normalized {
				out = append(out, sv)
				break
			}
		}
	}
	return out, nil
}

// ServiceTags returns the distinct tags of active services.
func (c *ContentCache) ServiceTags(ctx context.Context) ([]string, error) {
	services, err := c.Services(ctx, "")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, sv := range services {
		tags = append(tags, sv.Tags...)
	}
	return uniqueSorted(tags), nil
}

// Gallery returns published gallery items, optionally by category.
func (c *ContentCache) Gallery(ctx context.Context, category string) ([]GalleryItem, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return snap.gallery, nil
	}
	var out []GalleryItem
	for _, g := range snap.gallery {
		if strings.EqualFold(g.Category, category) {
			out = append(out, g)
		}
	}
	return out, nil
}

// FeaturedGallery returns at most limit featured, published items.
func (c *ContentCache) FeaturedGallery(ctx context.Context, limit int) ([]GalleryItem, error) {
	items, err := c.Gallery(ctx, "")
	if err != nil {
		return nil, err
	}
	var out []GalleryItem
	for _, g := range items {
		if g.Featured {
			out = append(out, g)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// Resources returns published resources, optionally by category.
func (c *ContentCache) Resources(ctx context.Context, category string) ([]Resource, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return snap.resources, nil
	}
	var out []Resource
	for _, r := range snap.resources {
		if strings.EqualFold(r.Category, category) {
			out = append(out, r)
		}
	}
	return out, nil
}

// SocialLinks returns active social links.
func (c *ContentCache) SocialLinks(ctx context.Context) ([]SocialLink, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.social, nil
}

// Hotlines returns every hotline grouped by category order.
func (c *ContentCache) Hotlines(ctx context.Context) ([]Hotline, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.hotlines, nil
}
