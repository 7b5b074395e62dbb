package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

var (
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrUnknownField     = errors.New("unknown field")
)

// EditForm holds the draft of a single user while it is being edited.
//
// The saved user is built by overlaying the draft onto the record the edit
// started from. The update endpoint's response body is never used for this:
// the demo API echoes input without persisting it. Pointed at a backend that
// really stores (and possibly normalises) the values, the overlay would hide
// what the server actually kept.
type EditForm struct {
	client  client.Client
	notify  Notifier
	log     logging.Logger
	onSaved func(models.User)

	mu          sync.Mutex
	original    models.User
	draft       models.UserFields
	fieldErrors map[Field]FieldError
	submitting  bool
}

// NewEditForm starts a draft for user. onSaved, if not nil, receives the
// overlaid user after a successful submit.
func NewEditForm(c client.Client, user models.User, onSaved func(models.User), notify Notifier, log logging.Logger) *EditForm {
	if log == nil {
		log = logging.Nop()
	}
	return &EditForm{
		client:      c,
		notify:      orNop(notify),
		log:         log.With("component", "edit_form", "user_id", user.ID),
		onSaved:     onSaved,
		original:    user,
		draft:       user.Fields(),
		fieldErrors: map[Field]FieldError{},
	}
}

func (f *EditForm) Original() models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.original
}

func (f *EditForm) Draft() models.UserFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Set updates one draft field. Values are kept exactly as typed.
func (f *EditForm) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldFirstName:
		f.draft.FirstName = value
	case FieldLastName:
		f.draft.LastName = value
	case FieldEmail:
		f.draft.Email = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (f *EditForm) FieldErrors() map[Field]FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyFieldErrors(f.fieldErrors)
}

func (f *EditForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Validate refreshes FieldErrors and reports whether the draft is valid.
func (f *EditForm) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fieldErrors = Validate(f.draft)
	return len(f.fieldErrors) == 0
}

// Submit validates the draft and, when valid, sends it to the API.
//
// An invalid draft returns *ValidationError without any network call.
// On transport failure the draft stays as typed so the user can retry.
func (f *EditForm) Submit(ctx context.Context) (models.User, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return models.User{}, ErrSubmitInProgress
	}
	f.fieldErrors = Validate(f.draft)
	if len(f.fieldErrors) > 0 {
		verr := &ValidationError{Fields: copyFieldErrors(f.fieldErrors)}
		f.mu.Unlock()
		return models.User{}, verr
	}
	f.submitting = true
	original, draft := f.original, f.draft
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	// the echo is untrusted, see EditForm
	if _, err := f.client.UpdateUser(ctx, original.ID, draft); err != nil {
		f.log.Warn(ctx, "update failed", "err", err)
		f.notify.Error(failureMessage(err, client.MsgUpdateFailed))
		return models.User{}, err
	}

	updated := original.WithFields(draft)
	f.log.Debug(ctx, "user updated")
	if f.onSaved != nil {
		f.onSaved(updated)
	}
	return updated, nil
}

func copyFieldErrors(in map[Field]FieldError) map[Field]FieldError {
	out := make(map[Field]FieldError, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
