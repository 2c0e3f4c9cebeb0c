package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ContentType identifies one of the ordered content lists shown on the
// portfolio site. Each has its own order-update endpoint.
type ContentType string

const (
	ContentProjects     ContentType = "projects"
	ContentExperiences  ContentType = "experiences"
	ContentTechnologies ContentType = "technologies"
	ContentServices     ContentType = "services"
	ContentTestimonials ContentType = "testimonials"
)

// ContentTypes lists every orderable content type in display order.
var ContentTypes = []ContentType{
	ContentProjects,
	ContentExperiences,
	ContentTechnologies,
	ContentServices,
	ContentTestimonials,
}

var contentTypeAliases = map[string]ContentType{
	"projects": ContentProjects, "project": ContentProjects,
	"experiences": ContentExperiences, "experience": ContentExperiences, "exp": ContentExperiences,
	"technologies": ContentTechnologies, "technology": ContentTechnologies, "tech": ContentTechnologies,
	"services": ContentServices, "service": ContentServices,
	"testimonials": ContentTestimonials, "testimonial": ContentTestimonials,
}

// ParseContentType resolves a user-supplied name (plural, singular or short
// alias, any case) to a ContentType.
func ParseContentType(s string) (ContentType, error) {
	ct, ok := contentTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown content type %q (want one of %s)", s, joinContentTypes())
	}
	return ct, nil
}

func (c ContentType) Valid() bool {
	for _, ct := range ContentTypes {
		if c == ct {
			return true
		}
	}
	return false
}

// ListPath is the collection endpoint for this content type.
func (c ContentType) ListPath() string { return "/api/" + string(c) }

// OrderPath is the order-update endpoint for this content type.
func (c ContentType) OrderPath() string { return "/api/" + string(c) + "/order" }

// Label returns a human-facing title such as "Projects".
func (c ContentType) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func joinContentTypes() string {
	names := make([]string, len(ContentTypes))
	for i, ct := range ContentTypes {
		names[i] = string(ct)
	}
	return strings.Join(names, ", ")
}

// Resource is any admin CRUD target on the backend. The orderable content
// types are resources too.
type Resource string

const (
	ResourceUsers       Resource = "users"
	ResourceRoles       Resource = "roles"
	ResourcePermissions Resource = "permissions"
	ResourceContacts    Resource = "contacts"
)

var adminResources = []Resource{ResourceUsers, ResourceRoles, ResourcePermissions, ResourceContacts}

// ParseResource accepts content type names and aliases as well as the admin
// resources (users, roles, permissions, contacts).
func ParseResource(s string) (Resource, error) {
	if ct, err := ParseContentType(s); err == nil {
		return Resource(ct), nil
	}
	name := strings.ToLower(strings.TrimSpace(s))
	for _, r := range adminResources {
		if name == string(r) || name+"s" == string(r) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q", s)
}

// Path is the collection endpoint for the resource.
func (r Resource) Path() string { return "/api/" + string(r) }

// ItemPath is the endpoint of one record. id is escaped as a single path
// segment.
func (r Resource) ItemPath(id string) string { return r.Path() + "/" + url.PathEscape(id) }

// ValidateID rejects record ids that cannot name a single path segment.
func ValidateID(id string) error {
	switch strings.TrimSpace(id) {
	case "":
		return errors.New("id is empty")
	case ".", "..":
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}

type CommandAction string

const (
	ActionCreate CommandAction = "create"
	ActionUpdate CommandAction = "update"
	ActionDelete CommandAction = "delete"
)
