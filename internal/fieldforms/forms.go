// Package fieldforms is the boundary to the FieldForms mobile-forms vendor:
// form-identifier resolution across vendor form rebuilds, the logical field
// dictionary, timestamp recovery from GPS-stamped responses, and the outbound
// dispatch/poll HTTP client.
package fieldforms

import (
	"strings"

	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"
)

// FormVersion identifies one build of a vendor form. The vendor assigns a new
// numeric form id every time a form is rebuilt, so one logical form maps to
// several versions over its lifetime.
type FormVersion struct {
	FormID string
	Type   model.FormType
	// Revision orders versions of the same logical form, newest highest.
	Revision int
}

// Registry resolves vendor form identifiers to logical form types. Lookups
// are version-tolerant: any known historical id of a logical form resolves.
type Registry struct {
	byID map[string]FormVersion
}

// NewRegistry builds a Registry from the given versions.
func NewRegistry(versions []FormVersion) *Registry {
	byID := make(map[string]FormVersion, len(versions))
	for _, v := range versions {
		byID[strings.TrimSpace(v.FormID)] = v
	}
	return &Registry{byID: byID}
}

// DefaultRegistry returns the registry of known vendor form builds, oldest
// revisions included so replayed historical submissions still resolve.
func DefaultRegistry() *Registry {
	return NewRegistry([]FormVersion{
		// Pickup form builds.
		{FormID: "5201443", Type: model.FormPickup, Revision: 1},
		{FormID: "5519208", Type: model.FormPickup, Revision: 2},
		// Service form builds. Revision 1 used the name-keyed loop screen
		// encoding; revision 2 onward keys loop groups by serial number.
		{FormID: "5201467", Type: model.FormService, Revision: 1},
		{FormID: "5483930", Type: model.FormService, Revision: 2},
		{FormID: "5617772", Type: model.FormService, Revision: 3},
		// Delivery form builds.
		{FormID: "5201471", Type: model.FormDelivery, Revision: 1},
		{FormID: "5520916", Type: model.FormDelivery, Revision: 2},
	})
}

// Resolve maps a vendor form id to its logical form version. Unknown ids
// return an UnknownForm error; callers discard the event.
func (r *Registry) Resolve(formID string) (FormVersion, error) {
	v, ok := r.byID[strings.TrimSpace(formID)]
	if !ok {
		return FormVersion{}, apperrors.UnknownForm(formID)
	}
	return v, nil
}

// FormIDs returns every known form id of the given logical type, used by the
// poller to sweep all active and historical builds.
func (r *Registry) FormIDs(formType model.FormType) []string {
	var ids []string
	for id, v := range r.byID {
		if v.Type == formType {
			ids = append(ids, id)
		}
	}
	return ids
}

// Current returns the newest known build of the given logical form, used
// when dispatching a fresh form instance. False when no build is registered.
func (r *Registry) Current(formType model.FormType) (FormVersion, bool) {
	var best FormVersion
	found := false
	for _, v := range r.byID {
		if v.Type != formType {
			continue
		}
		if !found || v.Revision > best.Revision {
			best = v
			found = true
		}
	}
	return best, found
}

// AllFormIDs returns every registered vendor form id.
func (r *Registry) AllFormIDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	return ids
}
