package portal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestContentCacheServesPublishedOnly(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	pub := NewsItem{Title: "Live", Status: StatusPublished, Date: "2024-02-01"}
	draft := NewsItem{Title: "Hidden", Status: StatusDraft, Date: "2024-02-02"}
	s.CreateNews(ctx, &pub)
	s.CreateNews(ctx, &draft)

	cache := NewContentCache(func() *Store { return s }, time.Minute)
	news, err := cache.News(ctx)
	if err != nil {
		t.Fatalf("News: %v", err)
	}
	if len(news) != 1 || news[0].Title != "Live" {
		t.Fatalf("News = %+v, want only the published item", news)
	}
	if _, err := cache.GetNews(ctx, draft.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetNews(draft) err = %v, want ErrNotFound", err)
	}
}

func TestContentCacheInvalidate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	cache := NewContentCache(func() *Store { return s }, time.Hour)
	if news, _ := cache.News(ctx); len(news) != 0 {
		t.Fatalf("expected empty cache, got %d items", len(news))
	}

	n := NewsItem{Title: "Fresh", Status: StatusPublished, Date: "2024-02-01"}
	s.CreateNews(ctx, &n)
	if news, _ := cache.News(ctx); len(news) != 0 {
		t.Fatalf("cache should still serve the old snapshot, got %d items", len(news))
	}

	cache.Invalidate()
	news, err := cache.News(ctx)
	if err != nil {
		t.Fatalf("News: %v", err)
	}
	if len(news) != 1 {
		t.Errorf("got %d items after Invalidate, want 1", len(news))
	}
}

func TestContentCacheExpires(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	cache := NewContentCache(func() *Store { return s }, 50*time.Millisecond)
	cache.News(ctx)
	n := NewsItem{Title: "Later", Status: StatusPublished, Date: "2024-02-01"}
	s.CreateNews(ctx, &n)

	time.Sleep(80 * time.Millisecond)
	news, _ := cache.News(ctx)
	if len(news) != 1 {
		t.Errorf("got %d items after TTL, want 1", len(news))
	}
}

func TestContentCacheFilters(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	services := []Service{
		{Title: "Rescue", Tags: []string{"response"}, Status: ServiceActive},
		{Title: "Drills", Tags: []string{"training", "Response"}, Status: ServiceActive},
		{Title: "Old", Tags: []string{"legacy"}, Status: ServiceInactive},
	}
	for i := range services {
		s.CreateService(ctx, &services[i])
	}
	gallery := []GalleryItem{
		{Title: "A", Image: "/a.webp", Category: "Drills", Status: StatusPublished, Featured: true},
		{Title: "B", Image: "/b.webp", Category: "Relief", Status: StatusPublished},
		{Title: "C", Image: "/c.webp", Category: "drills", Status: StatusDraft, Featured: true},
	}
	for i := range gallery {
		s.CreateGalleryItem(ctx, &gallery[i])
	}

	cache := NewContentCache(func() *Store { return s }, time.Minute)

	got, err := cache.Services(ctx, "RESPONSE")
	if err != nil {
		t.Fatalf("Services: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Services(response) = %d, want 2", len(got))
	}
	tags, _ := cache.ServiceTags(ctx)
	if len(tags) != 2 || tags[0] != "response" || tags[1] != "training" {
		t.Errorf("ServiceTags = %v, want [response training]", tags)
	}

	drills, _ := cache.Gallery(ctx, "DRILLS")
	if len(drills) != 1 || drills[0].Title != "A" {
		t.Errorf("Gallery(drills) = %+v, want only A", drills)
	}
	featured, _ := cache.FeaturedGallery(ctx, 6)
	if len(featured) != 1 {
		t.Errorf("FeaturedGallery = %d items, want 1", len(featured))
	}
}

func TestContentCacheFollowsActiveStore(t *testing.T) {
	a, cleanupA := setupTestStore(t)
	defer cleanupA()
	b, cleanupB := setupTestStore(t)
	defer cleanupB()
	ctx := context.Background()

	h := Hotline{Name: "Rescue", Number: "911"}
	b.CreateHotline(ctx, &h)

	active := a
	cache := NewContentCache(func() *Store { return active }, time.Hour)
	if got, _ := cache.Hotlines(ctx); len(got) != 0 {
		t.Fatalf("store a should have no hotlines, got %d", len(got))
	}

	active = b
	cache.Invalidate()
	if got, _ := cache.Hotlines(ctx); len(got) != 1 {
		t.Errorf("after switch got %d hotlines, want 1", len(got))
	}
}
