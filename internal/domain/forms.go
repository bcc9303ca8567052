package domain

// ProfileDraft holds the editable profile fields.
type ProfileDraft struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

// DraftFromIdentity seeds a profile draft from the confirmed identity.
func DraftFromIdentity(i Identity) ProfileDraft {
	return ProfileDraft{Name: i.Name, Phone: i.Phone}
}

// PasswordChange is the three-field password form.
type PasswordChange struct {
	Current string `json:"current" validate:"required"`
	New     string `json:"new" validate:"required"`
	Confirm string `json:"confirm" validate:"required"`
}

// SupportTicketDraft is the contact form of the support panel.
type SupportTicketDraft struct {
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Photo is an image picked for upload.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}
