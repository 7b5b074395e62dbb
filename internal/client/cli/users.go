package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/useradmin/internal/client/services"
)

var errUsage = errors.New("usage")

// clearValue typed at a field prompt empties the field.
const clearValue = "-"

// List loads the requested page (the current one when omitted) and prints it.
func (a *App) List(ctx context.Context, args []string) error {
	page := 1
	if s := a.users.Snapshot(); s.Loaded {
		page = s.Page
	}
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(a.out, "Usage: list [page]")
			return errUsage
		}
		page = n
	}
	return a.loadPage(ctx, page)
}

// Next moves one page forward when a next page exists.
func (a *App) Next(ctx context.Context) error {
	return a.changePage(ctx, 1)
}

// Prev moves one page back when a previous page exists.
func (a *App) Prev(ctx context.Context) error {
	return a.changePage(ctx, -1)
}

func (a *App) changePage(ctx context.Context, delta int) error {
	s := a.users.Snapshot()
	switch {
	case delta > 0 && !s.HasNext():
		fmt.Fprintln(a.out, "Already on the last page")
		return nil
	case delta < 0 && !s.HasPrev():
		fmt.Fprintln(a.out, "Already on the first page")
		return nil
	}

	fmt.Fprintln(a.out, "Loading...")
	_, err := a.users.ChangePage(ctx, delta)
	a.renderPage()
	return err
}

// Show reprints the current page without fetching.
func (a *App) Show(ctx context.Context) error {
	a.renderPage()
	return nil
}

// Edit walks the user through the draft of one user: each field is prompted
// with its current value, then the draft is submitted. Invalid drafts and
// failed submits can be retried; declining discards the draft.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: edit <id>")
		return err
	}

	form, err := a.users.BeginEdit(id)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	orig := form.Original()
	fmt.Fprintf(a.out, "Editing #%d %s (Enter keeps a value, '-' clears it)\n", orig.ID, orig.FullName())

	for {
		if err := a.promptDraft(form); err != nil {
			a.users.CancelEdit()
			return err
		}

		_, err := form.Submit(ctx)
		if err == nil {
			a.renderPage()
			return nil
		}

		var verr *services.ValidationError
		if errors.As(err, &verr) {
			a.printFieldErrors(verr.Fields)
		}

		retry, rerr := GetConfirmation(a.reader, "Try again?", a.out)
		if rerr != nil || !retry {
			a.users.CancelEdit()
			fmt.Fprintln(a.out, "Edit cancelled")
			return err
		}
	}
}

func (a *App) promptDraft(form *services.EditForm) error {
	fields := []struct {
		field  services.Field
		prompt string
		value  func() string
	}{
		{services.FieldFirstName, "First name", func() string { return form.Draft().FirstName }},
		{services.FieldLastName, "Last name", func() string { return form.Draft().LastName }},
		{services.FieldEmail, "Email", func() string { return form.Draft().Email }},
	}

	for _, f := range fields {
		v, err := GetTextWithDefault(a.reader, f.prompt, f.value(), a.out)
		if err != nil {
			return err
		}
		if v == clearValue {
			v = ""
		}
		if err := form.Set(f.field, v); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) printFieldErrors(errs map[services.Field]services.FieldError) {
	keys := make([]string, 0, len(errs))
	for f := range errs {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.out, "  %s: %s\n", k, errs[services.Field(k)].Message)
	}
}

// Delete removes a user immediately; there is no confirmation and no undo.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return err
	}
	if err := a.users.ApplyDelete(ctx, id); err != nil {
		return err
	}
	a.renderPage()
	return nil
}

func (a *App) loadPage(ctx context.Context, page int) error {
	fmt.Fprintln(a.out, "Loading...")
	err := a.users.FetchPage(ctx, page)
	if errors.Is(err, services.ErrPageOutOfRange) {
		fmt.Fprintf(a.out, "No such page: %d\n", page)
		return err
	}
	a.renderPage()
	return err
}

// renderPage prints the current page as cards followed by the pager.
func (a *App) renderPage() {
	s := a.users.Snapshot()
	if !s.Loaded {
		fmt.Fprintln(a.out, "No users loaded")
		return
	}

	fmt.Fprintln(a.out, "User Management")
	if len(s.Users) == 0 {
		fmt.Fprintln(a.out, "  (no users on this page)")
	}
	for _, u := range s.Users {
		fmt.Fprintf(a.out, "  %s\n", u)
	}
	fmt.Fprintf(a.out, "%s  Page %d of %d  %s\n",
		pagerButton("prev", s.HasPrev()), s.Page, s.TotalPages, pagerButton("next", s.HasNext()))
}

func pagerButton(label string, enabled bool) string {
	if enabled {
		return "[" + label + "]"
	}
	return " " + label + " "
}

func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, errUsage
	}
	return id, nil
}
