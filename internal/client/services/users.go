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
	ErrStaleResponse  = errors.New("stale response discarded")
	ErrClosed         = errors.New("user list closed")
	ErrEditInProgress = errors.New("another edit is in progress")
	ErrUserNotOnPage  = errors.New("user is not on the current page")
	ErrPageOutOfRange = errors.New("page out of range")
)

// ListState is a point-in-time copy of the user list.
type ListState struct {
	Users      []models.User
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	Loading    bool
	// Loaded is set after the first successful fetch.
	Loaded bool
}

func (s ListState) HasPrev() bool { return s.Loaded && s.Page > 1 }
func (s ListState) HasNext() bool { return s.Loaded && s.Page < s.TotalPages }

// fetchTicket tracks the latest issued fetch: pending until the response with
// the same id arrives. Responses carrying any other id are stale.
type fetchTicket struct {
	id      uint64
	pending bool
}

// UserList owns the current page of users and the single open edit draft.
//
// The collection only ever holds the last successful fetch, plus in-place
// overlays from edits and removals from deletes. It is safe for concurrent
// use; overlapping fetches resolve in favour of the most recently issued one.
type UserList struct {
	client client.Client
	notify Notifier
	log    logging.Logger

	mu     sync.Mutex
	state  ListState
	latest fetchTicket
	draft  *EditForm
	closed bool
}

func NewUserList(c client.Client, notify Notifier, log logging.Logger) *UserList {
	if log == nil {
		log = logging.Nop()
	}
	return &UserList{
		client: c,
		notify: orNop(notify),
		log:    log.With("component", "user_list"),
	}
}

// Snapshot returns a copy of the current state.
func (l *UserList) Snapshot() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state
	s.Users = append([]models.User(nil), l.state.Users...)
	return s
}

// FetchPage loads page and, if it is still the latest request when it
// resolves, replaces the collection with it. On failure the previous page
// stays visible.
func (l *UserList) FetchPage(ctx context.Context, page int) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if page < 1 || (l.state.Loaded && page > l.state.TotalPages) {
		l.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, page)
	}
	l.latest.id++
	l.latest.pending = true
	id := l.latest.id
	l.state.Loading = true
	l.mu.Unlock()

	resp, err := l.client.ListUsers(ctx, page)

	l.mu.Lock()
	switch {
	case l.closed:
		l.mu.Unlock()
		l.log.Debug(ctx, "response after close dropped", "page", page)
		return ErrClosed
	case id != l.latest.id:
		latest := l.latest.id
		l.mu.Unlock()
		l.log.Debug(ctx, "stale response dropped", "page", page, "request", id, "latest", latest)
		return ErrStaleResponse
	}

	l.latest.pending = false
	l.state.Loading = false

	if err != nil {
		l.mu.Unlock()
		l.log.Warn(ctx, "fetch users failed", "page", page, "err", err)
		l.notify.Error(failureMessage(err, client.MsgFetchFailed))
		return err
	}

	if resp.Page < 1 || resp.Page > max(resp.TotalPages, 1) {
		l.mu.Unlock()
		l.log.Warn(ctx, "page outside reported range", "page", resp.Page, "total_pages", resp.TotalPages)
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, resp.Page, resp.TotalPages)
	}

	l.state.Users = append([]models.User(nil), resp.Data...)
	l.state.Page = resp.Page
	l.state.PerPage = resp.PerPage
	l.state.Total = resp.Total
	l.state.TotalPages = resp.TotalPages
	l.state.Loaded = true
	l.mu.Unlock()

	l.log.Debug(ctx, "page loaded", "page", resp.Page, "count", len(resp.Data))
	return nil
}

// ChangePage moves by delta pages. It reports false without fetching when the
// target falls outside [1, TotalPages] or nothing has been loaded yet.
func (l *UserList) ChangePage(ctx context.Context, delta int) (bool, error) {
	s := l.Snapshot()
	target := s.Page + delta
	if !s.Loaded || target < 1 || target > s.TotalPages {
		return false, nil
	}
	return true, l.FetchPage(ctx, target)
}

// BeginEdit opens the draft for the user with id on the current page.
// Only one draft may be open at a time.
func (l *UserList) BeginEdit(id int) (*EditForm, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}
	if l.draft != nil {
		return nil, ErrEditInProgress
	}

	for _, u := range l.state.Users {
		if u.ID != id {
			continue
		}
		var form *EditForm
		form = NewEditForm(l.client, u, func(updated models.User) {
			l.finishEdit(form, updated)
		}, l.notify, l.log)
		l.draft = form
		return form, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUserNotOnPage, id)
}

// CancelEdit discards the open draft, if any.
func (l *UserList) CancelEdit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.draft = nil
}

// Editing returns the open draft or nil.
func (l *UserList) Editing() *EditForm {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draft
}

func (l *UserList) finishEdit(form *EditForm, updated models.User) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	if l.draft != form {
		// cancelled or replaced while the update was in flight
		l.mu.Unlock()
		return
	}
	l.draft = nil
	l.mu.Unlock()

	l.ApplyEdit(updated.ID, updated.Fields())
	l.notify.Success(MsgUserUpdated)
}

// ApplyEdit overlays the submitted fields onto the local record with id.
//
// This is a client-side optimistic overlay: the remote update does not
// persist anything, so its response is not consulted. Every other field of
// the record is kept. An id that is not on the current page is a no-op.
func (l *UserList) ApplyEdit(id int, fields models.UserFields) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, u := range l.state.Users {
		if u.ID == id {
			l.state.Users[i] = u.WithFields(fields)
			return true
		}
	}
	return false
}

// ApplyDelete deletes the user remotely and, on success, drops it from the
// current page. Deleting an id that is not on the page is not an error.
func (l *UserList) ApplyDelete(ctx context.Context, id int) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if _, err := l.client.DeleteUser(ctx, id); err != nil {
		l.log.Warn(ctx, "delete failed", "user_id", id, "err", err)
		l.notify.Error(failureMessage(err, client.MsgDeleteFailed))
		return err
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	kept := l.state.Users[:0]
	for _, u := range l.state.Users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	l.state.Users = kept
	if l.draft != nil && l.draft.Original().ID == id {
		l.draft = nil
	}
	l.mu.Unlock()

	l.log.Info(ctx, "user deleted", "user_id", id)
	l.notify.Success(MsgUserDeleted)
	return nil
}

// Close tears the list down. Responses arriving afterwards are dropped.
func (l *UserList) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.draft = nil
}
