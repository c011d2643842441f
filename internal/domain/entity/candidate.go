// Package entity contains the core business objects of the project.
package entity

// UserCandidate carries the raw input for creating or updating a user,
// before any rule has been checked. It is an explicit, closed set of
// fields: boundary layers that accept looser shapes (JSON bodies, forms)
// must map into it and reject unknown fields on their side.
//
// Password and PasswordConfirmation are transient, write-only values.
// They are never persisted; only the derived digest and salt are.
type UserCandidate struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}
