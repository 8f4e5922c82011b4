package portal

import (
	"encoding/json"
	"time"

	"github.com/mdrrmo/portal/views"
)

// Content status values shared by news, gallery, pages and resources.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Service status values.
const (
	ServiceActive   = "active"
	ServiceInactive = "inactive"
)

// Incident urgency levels.
const (
	UrgencyLow    = "LOW"
	UrgencyMedium = "MEDIUM"
	UrgencyHigh   = "HIGH"
)

// Incident triage states.
const (
	IncidentPending    = "pending"
	IncidentInProgress = "in-progress"
	IncidentResolved   = "resolved"
)

// NewsItem is a news article or advisory.
type NewsItem struct {
	ID        string
	Title     string
	Excerpt   string
	Content   string // markdown
	Image     string
	Author    string
	Status    string
	Date      string // YYYY-MM-DD
	ViewCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPublished reports whether the item is visible on the public site.
func (n NewsItem) IsPublished() bool { return n.Status == StatusPublished }

// Link returns the public path of the article.
func (n NewsItem) Link() string { return "/news/" + n.ID + "/" }

// Service is an office service or program listed on the services page.
type Service struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Tags        []string
	Status      string
	SortOrder   int
}

// IncidentReport is a public emergency submission awaiting triage.
type IncidentReport struct {
	ID              string
	ReferenceNumber string
	ReporterName    string
	ContactNumber   string
	Email           string
	Location        string
	IncidentType    string
	Urgency         string
	Description     string
	Status          string
	AdminNotes      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GalleryItem is a photo in the public gallery.
type GalleryItem struct {
	ID          string
	Title       string
	Description string
	Image       string
	Category    string
	Tags        []string
	Featured    bool
	Status      string
	CreatedAt   time.Time
}

// Page is a CMS page served at /:slug/.
type Page struct {
	ID              string
	Slug            string
	Title           string
	Template        string
	HeroTitle       string
	HeroSubtitle    string
	HeroImage       string
	MetaDescription string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Sections        []PageSection
}

// PageSection is one ordered block of a page. Data holds a JSON object
// whose shape depends on Type.
type PageSection struct {
	ID         string
	PageID     string
	Type       string
	Title      string
	Data       json.RawMessage
	OrderIndex int
}

// Resource is a downloadable document (plans, advisories, forms).
type Resource struct {
	ID            string
	Title         string
	Description   string
	FileURL       string
	FileType      string
	FileSize      int64
	Category      string
	Tags          []string
	Status        string
	DownloadCount int
	CreatedAt     time.Time
}

// SocialLink is an official social media account shown in the footer.
type SocialLink struct {
	ID        string
	Platform  string
	URL       string
	Handle    string
	Active    bool
	SortOrder int
}

// Hotline is an emergency contact number.
type Hotline struct {
	ID          string
	Name        string
	Number      string
	Category    string
	Description string
	SortOrder   int
}

// Image is an uploaded file in the admin media library.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// AdminUser can sign in to the admin panel.
type AdminUser struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta = views.Meta
