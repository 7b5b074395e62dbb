package fakeapi

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

// Token is returned for every successful login, mirroring the demo API.
const Token = "QpwL5tke4Pnpja7X4"

// DefaultPerPage matches the page size of the demo API.
const DefaultPerPage = 6

// SeedUsers returns the twelve demo users.
func SeedUsers() []models.User {
	names := [][2]string{
		{"George", "Bluth"}, {"Janet", "Weaver"}, {"Emma", "Wong"},
		{"Eve", "Holt"}, {"Charles", "Morris"}, {"Tracey", "Ramos"},
		{"Michael", "Lawson"}, {"Lindsay", "Ferguson"}, {"Tobias", "Funke"},
		{"Byron", "Fields"}, {"George", "Edwards"}, {"Rachel", "Howell"},
	}

	users := make([]models.User, 0, len(names))
	for i, n := range names {
		id := i + 1
		users = append(users, models.User{
			ID:        id,
			Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(n[0]), strings.ToLower(n[1])),
			FirstName: n[0],
			LastName:  n[1],
			Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		})
	}
	return users
}
