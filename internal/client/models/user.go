// Package models defines client-side data models used by the useradmin CLI.
package models

import "fmt"

// User is a record owned by the remote API. The client never creates users,
// it only reads them and (pseudo-)updates or deletes them.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// FullName returns "First Last".
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) String() string {
	return fmt.Sprintf("#%-3d %-24s <%s>  %s", u.ID, u.FullName(), u.Email, u.Avatar)
}

// Fields returns the editable subset of the user.
func (u User) Fields() UserFields {
	return UserFields{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// WithFields returns a copy of u with the editable fields replaced by f.
// ID and Avatar are always preserved.
func (u User) WithFields(f UserFields) User {
	u.FirstName = f.FirstName
	u.LastName = f.LastName
	u.Email = f.Email
	return u
}

// UserFields is the editable part of a User and the body of an update request.
type UserFields struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// UserPage is one page of the users listing. It is replaced, never merged,
// by the next fetch.
type UserPage struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []User `json:"data"`
}

// Credentials are submitted on login and never stored.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the process-wide authentication state.
type Session struct {
	Token         string
	Authenticated bool
}
