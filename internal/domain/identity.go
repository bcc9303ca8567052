package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Identity is the signed-in customer's profile record as returned by the API.
type Identity struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}

// RoleLabel is the human label shown under the profile header.
func (i Identity) RoleLabel() string {
	if i.IsAdmin() {
		return "Administrator"
	}
	return "Customer"
}

// Initial returns the upper-cased first letter of the name, used when no photo is set.
func (i Identity) Initial() string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(i.Name))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
