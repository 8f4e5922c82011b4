package views

// Site holds the public settings templates may show. Secrets and
// connection strings stay in the application config.
type Site struct {
	Name        string
	URL         string
	Description string
	Tagline     string

	OrgAddress string
	OrgPhone   string
	OrgEmail   string
}

// Meta carries per-page OpenGraph and SEO metadata into the <head>.
type Meta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}

// Contact is a hotline listed in the footer.
type Contact struct {
	Name   string
	Number string
}

// Social is a social media link listed in the footer.
type Social struct {
	Platform string
	Handle   string
	URL      string
}

// Chrome is the data the public layout renders around every page. Page
// view structs embed it.
type Chrome struct {
	Site     Site
	Meta     Meta
	Nav      string
	Hotlines []Contact
	Social   []Social
	CSRF     string
	Year     int
}

func (c Chrome) chrome() Chrome { return c }

// AdminChrome is the data the admin layout renders around every page.
type AdminChrome struct {
	Site    Site
	CSRF    string
	User    string
	Nav     string
	Flash   string
	Backend string
}

func (c AdminChrome) adminChrome() AdminChrome { return c }
