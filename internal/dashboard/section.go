package dashboard

import (
	"errors"
	"strings"
)

// ErrUnknownSection is returned for a panel identifier outside the menu.
var ErrUnknownSection = errors.New("unknown dashboard section")

// Section identifies one of the five mutually exclusive dashboard panels.
type Section string

const (
	SectionOrders    Section = "orders"
	SectionSupport   Section = "support"
	SectionReferrals Section = "referrals"
	SectionAddresses Section = "addresses"
	SectionProfile   Section = "profile"
)

// MenuItem is one sidebar entry.
type MenuItem struct {
	Section Section `json:"id"`
	Label   string  `json:"label"`
	Icon    string  `json:"icon"`
	Active  bool    `json:"active"`
}

// menu is in sidebar order.
var menu = []MenuItem{
	{Section: SectionOrders, Label: "Orders", Icon: "📦"},
	{Section: SectionSupport, Label: "Customer Support", Icon: "💬"},
	{Section: SectionReferrals, Label: "Manage Referrals", Icon: "❤️"},
	{Section: SectionAddresses, Label: "Addresses", Icon: "📍"},
	{Section: SectionProfile, Label: "Profile", Icon: "👤"},
}

// Sections lists every panel in menu order.
func Sections() []Section {
	out := make([]Section, 0, len(menu))
	for _, m := range menu {
		out = append(out, m.Section)
	}
	return out
}

// ParseSection maps an identifier to a Section.
func ParseSection(s string) (Section, error) {
	sec := Section(strings.ToLower(strings.TrimSpace(s)))
	if !sec.Valid() {
		return "", ErrUnknownSection
	}
	return sec, nil
}

// Valid reports whether s is one of the five panels.
func (s Section) Valid() bool {
	for _, m := range menu {
		if m.Section == s {
			return true
		}
	}
	return false
}

func menuFor(active Section) []MenuItem {
	out := make([]MenuItem, len(menu))
	copy(out, menu)
	for i := range out {
		out[i].Active = out[i].Section == active
	}
	return out
}
