// Package models holds the beefboard domain values shared by the API client,
// the local stores and the coordinators.
package models

// User is a beefboard account profile. The signed-in user's profile doubles
// as the cached identity.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
	Email     string `json:"email"`
}

// FullName joins first and last name, skipping empty parts.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
