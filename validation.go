package portal

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mdrrmo/portal/sections"
)

// IncidentTypes are the categories offered on the public report form.
var IncidentTypes = []string{
	"Flood",
	"Fire",
	"Landslide",
	"Earthquake",
	"Typhoon",
	"Storm Surge",
	"Vehicular Accident",
	"Medical Emergency",
	"Other",
}

// SectionTypes are the section layouts a page can use.
var SectionTypes = sections.Types

var (
	contactPattern = regexp.MustCompile(`^[0-9+()\- ]{7,20}$`)
	// Short codes such as 911 and 160 are valid hotlines.
	hotlinePattern = regexp.MustCompile(`^[0-9+()\- ]{3,20}$`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// reservedSlugs are taken by fixed routes and cannot be used by CMS pages.
var reservedSlugs = []any{
	"admin", "news", "services", "resources", "gallery", "hotlines", "report",
	"public", "feed.xml", "sitemap.xml", "robots.txt", "favicon.svg",
}

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

// Has reports whether field failed validation.
func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// fieldErrors converts ozzo validation errors into FieldErrors. Internal
// validator failures are returned as err.
func fieldErrors(err error) (FieldErrors, error) {
	if err == nil {
		return nil, nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make(FieldErrors, len(verrs))
	for field, e := range verrs {
		out[field] = e.Error()
	}
	return out, nil
}

func anyStrings(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

// Validate checks a public incident submission.
func (r IncidentReport) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReporterName,
			validation.Required.Error("Please enter your name."),
			validation.Length(2, 120)),
		validation.Field(&r.ContactNumber,
			validation.Required.Error("Please enter a contact number."),
			validation.Match(contactPattern).Error("Enter a valid phone number.")),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Location,
			validation.Required.Error("Tell us where the incident is."),
			validation.Length(0, 255)),
		validation.Field(&r.IncidentType,
			validation.Required.Error("Choose an incident type."),
			validation.In(anyStrings(IncidentTypes)...)),
		validation.Field(&r.Urgency,
			validation.Required,
			validation.In(UrgencyLow, UrgencyMedium, UrgencyHigh)),
		validation.Field(&r.Description, validation.Length(0, 4000)),
	)
}

// Validate checks a news form.
func (n NewsItem) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&n.Excerpt, validation.Length(0, 500)),
		validation.Field(&n.Status, validation.Required, validation.In(StatusPublished, StatusDraft)),
		validation.Field(&n.Date, validation.Required, validation.Date("2006-01-02")),
	)
}

// Validate checks a service form.
func (sv Service) Validate() error {
	return validation.ValidateStruct(&sv,
		validation.Field(&sv.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&sv.Status, validation.Required, validation.In(ServiceActive, ServiceInactive)),
	)
}

// Validate checks a gallery form.
func (g GalleryItem) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&g.Image, validation.Required.Error("Upload an image or enter its URL.")),
		validation.Field(&g.Status, validation.Required, validation.In(StatusPublished, StatusDraft)),
	)
}

// Validate checks a resource form.
func (r Resource) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.FileURL, validation.Required.Error("Upload a file or enter its URL.")),
		validation.Field(&r.Status, validation.Required, validation.In(StatusPublished, StatusDraft)),
	)
}

// Validate checks a page form.
func (p Page) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Slug,
			validation.Required,
			validation.Match(slugPattern).Error("Use lowercase letters, numbers and dashes."),
			validation.NotIn(reservedSlugs...).Error("This address is used by the site.")),
		validation.Field(&p.Status, validation.Required, validation.In(StatusPublished, StatusDraft)),
	)
}

// Validate checks a section form. Data is validated against its type schema separately.
func (sec PageSection) Validate() error {
	return validation.ValidateStruct(&sec,
		validation.Field(&sec.Type, validation.Required, validation.In(anyStrings(SectionTypes)...)),
	)
}

// Validate checks a social link form.
func (l SocialLink) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Platform, validation.Required, validation.Length(1, 60)),
		validation.Field(&l.URL, validation.Required, is.URL),
	)
}

// Validate checks a hotline form.
func (h Hotline) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&h.Number,
			validation.Required,
			validation.Match(hotlinePattern).Error("Enter a valid phone number.")),
	)
}
