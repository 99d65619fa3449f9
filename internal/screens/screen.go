// Package screens implements the lifecycle every entity screen shares:
// fetch the list, normalize the envelope, hold edit-in-place form state,
// submit a create or update, toast the outcome and refetch.
//
// Failures stop here. Network and validation errors become toasts at the
// screen boundary and never propagate upward. There is no retry policy; the
// user re-triggers the action.
package screens

import (
	"context"
	"strconv"
	"time"

	"github.com/campuskit/campusctl/internal/api"
	"github.com/campuskit/campusctl/internal/envelope"
	"github.com/campuskit/campusctl/internal/notify"
	"github.com/campuskit/campusctl/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

// Form is the single shared form-state object a screen edits in place.
type Form map[string]string

// Item is a record prepared for display: identity, title and canonical
// active flag, with the raw record alongside.
type Item struct {
	ID     string
	Title  string
	Active bool
	Record gjson.Result
}

// Screen drives one entity's list and form.
type Screen struct {
	spec   Spec
	api    *api.Client
	bus    *notify.Bus
	logger *log.Logger

	// sleep is swapped out by tests; production uses time.Sleep.
	sleep func(time.Duration)

	records    []gjson.Result
	loaded     bool
	form       Form
	editingID  string
	editing    bool
	submitting bool
}

// New creates a Screen for the given spec.
func New(spec Spec, client *api.Client, bus *notify.Bus, logger *log.Logger) *Screen {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Screen{
		spec:   spec,
		api:    client,
		bus:    bus,
		logger: shared.WithLogger(logger, "entity", spec.Entity.Name),
		sleep:  time.Sleep,
		form:   Form{},
	}
}

// Spec returns the screen's entity spec.
func (s *Screen) Spec() Spec {
	return s.spec
}

// Load fetches and normalizes the entity list. On failure it publishes an
// error toast and keeps the previous list (a failed first load leaves the
// list empty). A load requested while a submit is outstanding
// is skipped; the submit's own refetch will follow.
func (s *Screen) Load(ctx context.Context) {
	if s.submitting {
		return
	}
	s.load(ctx)
}

// load is Load without the submit guard, used for post-mutation refetches.
func (s *Screen) load(ctx context.Context) {
	env, err := s.api.List(ctx, s.spec.Entity)
	if err != nil {
		s.logger.Errorf("list fetch failed: %v", err)
		s.bus.Publish("Could not load "+s.spec.Entity.Title, notify.WithKind(notify.Error))
		return
	}
	if !env.OK() {
		s.bus.Publish(env.ErrorMessage("Could not load "+s.spec.Entity.Title), notify.WithKind(notify.Error))
		return
	}

	s.records = envelope.Normalize(env.Body, s.spec.Entity.Candidates)
	s.loaded = true
}

// Records returns the current normalized list.
func (s *Screen) Records() []gjson.Result {
	return s.records
}

// Loaded reports whether at least one fetch has succeeded.
func (s *Screen) Loaded() bool {
	return s.loaded
}

// Items projects the records for display using the spec's title field and
// the canonical status coercion.
func (s *Screen) Items() []Item {
	items := make([]Item, 0, len(s.records))
	for _, rec := range s.records {
		items = append(items, Item{
			ID:     rec.Get("id").String(),
			Title:  rec.Get(s.spec.TitleField).String(),
			Active: envelope.Truthy(rec.Get("status").Value()),
			Record: rec,
		})
	}
	return items
}

// BeginEdit populates the form from the record's fields and remembers its
// identifier, switching the next submit to an update.
func (s *Screen) BeginEdit(rec gjson.Result) {
	s.form = Form{}
	for _, f := range s.spec.Fields {
		if v := rec.Get(f.Name); v.Exists() {
			s.form[f.Name] = v.String()
		}
	}
	s.editingID = rec.Get("id").String()
	s.editing = true
}

// ResetForm clears the form and forgets the edited identifier; the next
// submit performs a create.
func (s *Screen) ResetForm() {
	s.form = Form{}
	s.editingID = ""
	s.editing = false
}

// SetField writes one form field.
func (s *Screen) SetField(name, value string) {
	s.form[name] = value
}

// Field reads one form field.
func (s *Screen) Field(name string) string {
	return s.form[name]
}

// Form returns the live form state.
func (s *Screen) Form() Form {
	return s.form
}

// Editing returns the remembered record identifier and whether the next
// submit is an update.
func (s *Screen) Editing() (string, bool) {
	return s.editingID, s.editing
}

// Submitting reports whether a submit is in flight; callers disable their
// submit affordance while true.
func (s *Screen) Submitting() bool {
	return s.submitting
}

// Validate runs the spec's synchronous field checks against the form.
func (s *Screen) Validate() error {
	for _, f := range s.spec.Fields {
		value := s.form[f.Name]

		if f.Required {
			if err := Required(f.Label, value); err != nil {
				return err
			}
		}
		if f.Kind == FieldDate && value != "" {
			if err := DateDDMMYYYY(f.Label, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Submit validates the form and performs a create, or an update when an
// identifier is remembered. Validation failures toast without touching the
// network. On success it toasts the server-provided message, clears the form
// and refetches the list; on failure it toasts and retains the form values.
// Returns whether the mutation succeeded.
func (s *Screen) Submit(ctx context.Context) bool {
	if s.submitting {
		return false
	}

	if err := s.Validate(); err != nil {
		s.bus.Publish(err.Error(), notify.WithKind(notify.Error))
		return false
	}

	s.submitting = true
	payload := s.payload()

	var env *api.Envelope
	var err error
	if s.editing {
		env, err = s.api.Update(ctx, s.spec.Entity, s.editingID, payload)
	} else {
		env, err = s.api.Create(ctx, s.spec.Entity, payload)
	}

	if err != nil {
		s.submitting = false
		s.logger.Errorf("submit failed: %v", err)
		s.bus.Publish("Could not save "+s.spec.Entity.Title, notify.WithKind(notify.Error))
		return false
	}
	if !env.OK() {
		s.submitting = false
		s.bus.Publish(env.ErrorMessage("Could not save "+s.spec.Entity.Title), notify.WithKind(notify.Error))
		return false
	}

	s.bus.Publish(env.SuccessMessage("Saved"), notify.WithKind(notify.Success))
	s.ResetForm()
	s.submitting = false

	// Full refetch rather than a local patch, so server-computed fields
	// (status and the like) are reflected.
	s.load(ctx)
	return true
}

// Delete removes a record, toasts the outcome and refetches after the
// entity's configured delay, which rides out backend cache lag.
func (s *Screen) Delete(ctx context.Context, id string) bool {
	env, err := s.api.Delete(ctx, s.spec.Entity, id)
	if err != nil {
		s.logger.Errorf("delete failed: %v", err)
		s.bus.Publish("Could not delete "+s.spec.Entity.Title, notify.WithKind(notify.Error))
		return false
	}
	if !env.OK() {
		s.bus.Publish(env.ErrorMessage("Could not delete "+s.spec.Entity.Title), notify.WithKind(notify.Error))
		return false
	}

	s.bus.Publish(env.SuccessMessage("Deleted"), notify.WithKind(notify.Success))

	if s.editingID == id {
		s.ResetForm()
	}

	if s.spec.Entity.RefetchDelay > 0 {
		s.sleep(s.spec.Entity.RefetchDelay)
	}
	s.load(ctx)
	return true
}

// payload converts the form into the JSON body the backend expects,
// coercing reference fields to numbers and flags to 0/1.
func (s *Screen) payload() map[string]any {
	body := make(map[string]any, len(s.form))
	for _, f := range s.spec.Fields {
		value, ok := s.form[f.Name]
		if !ok || value == "" {
			continue
		}

		switch f.Kind {
		case FieldRef:
			if n, err := strconv.Atoi(value); err == nil {
				body[f.Name] = n
			} else {
				body[f.Name] = value
			}
		case FieldFlag:
			if envelope.Truthy(value) {
				body[f.Name] = 1
			} else {
				body[f.Name] = 0
			}
		default:
			body[f.Name] = value
		}
	}
	return body
}
