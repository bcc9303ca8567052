package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"storefront-web/internal/domain"
	"storefront-web/internal/media"
)

const (
	msgProfileUpdated  = "Profile updated successfully!"
	msgPhotoUpdated    = "Photo updated successfully!"
	msgPasswordChanged = "Password changed successfully!"
	msgPasswordsDiffer = "New passwords do not match"
	msgNotAnImage      = "Please choose an image file"
	msgPhotoTooLarge   = "Photo must be 5 MB or smaller"

	// MaxPhotoBytes caps an uploaded profile photo.
	MaxPhotoBytes = 5 << 20
)

var (
	// ErrPasswordMismatch rejects a password change whose confirmation differs.
	ErrPasswordMismatch = errors.New(msgPasswordsDiffer)
	// ErrInvalidPhoto rejects a file that is not an image or is too large.
	ErrInvalidPhoto = errors.New("invalid photo")
)

// ProfileView is what the profile panel renders.
type ProfileView struct {
	Editing  bool                  `json:"isEditing"`
	Draft    domain.ProfileDraft   `json:"draft"`
	Password domain.PasswordChange `json:"-"`
	// Photo is the local preview when one is pending, otherwise the
	// confirmed identity's photo ref.
	Photo        string  `json:"photo,omitempty"`
	PhotoPending bool    `json:"photoPending,omitempty"`
	RoleLabel    string  `json:"roleLabel"`
	Initial      string  `json:"initial"`
	Message      Message `json:"message"`
}

type profileState struct {
	editing  bool
	draft    domain.ProfileDraft
	password domain.PasswordChange
	preview  string
	message  Message
}

func (s profileState) view(identity domain.Identity) ProfileView {
	v := ProfileView{
		Editing:   s.editing,
		Draft:     s.draft,
		Password:  s.password,
		Photo:     identity.ProfilePhoto,
		RoleLabel: identity.RoleLabel(),
		Initial:   identity.Initial(),
		Message:   s.message,
	}
	if s.preview != "" {
		v.Photo = s.preview
		v.PhotoPending = true
	}
	return v
}

// BeginProfileEdit opens the profile form seeded from the confirmed identity.
func (d *Dashboard) BeginProfileEdit() {
	identity := d.session.CurrentIdentity()
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.profile.editing {
		d.profile.draft = domain.DraftFromIdentity(identity)
	}
	d.profile.editing = true
}

// CancelProfileEdit closes the form and discards the draft.
func (d *Dashboard) CancelProfileEdit() {
	identity := d.session.CurrentIdentity()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profile.editing = false
	d.profile.draft = domain.DraftFromIdentity(identity)
}

// SubmitProfile sends the draft to the API. On success the session
// identity is replaced and the form closes; on failure the form stays
// open with the draft intact.
func (d *Dashboard) SubmitProfile(ctx context.Context, draft domain.ProfileDraft) error {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Phone = strings.TrimSpace(draft.Phone)

	d.mu.Lock()
	d.profile.message = Message{}
	d.profile.draft = draft
	d.profile.editing = true
	d.mu.Unlock()

	if err := domain.Validate(draft); err != nil {
		d.setProfileError(err)
		return err
	}

	updated, err := d.api.UpdateProfile(ctx, draft)
	if err != nil {
		d.logger.Info("profile update rejected", zap.Error(err))
		d.setProfileError(err)
		return err
	}
	if err := d.replaceIdentity(ctx, *updated); err != nil {
		d.setProfileError(err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.profile.editing = false
	d.profile.draft = domain.DraftFromIdentity(*updated)
	d.profile.message = successMessage(msgProfileUpdated)
	return nil
}

// SubmitPasswordChange checks the confirmation locally before calling the
// API. Entered values are kept on failure and cleared on success.
func (d *Dashboard) SubmitPasswordChange(ctx context.Context, req domain.PasswordChange) error {
	d.mu.Lock()
	d.profile.password = req
	d.mu.Unlock()

	if req.New != req.Confirm {
		d.setProfileError(ErrPasswordMismatch)
		return ErrPasswordMismatch
	}
	if err := domain.Validate(req); err != nil {
		d.setProfileError(err)
		return err
	}

	if err := d.api.ChangePassword(ctx, req.Current, req.New); err != nil {
		d.logger.Info("password change rejected", zap.Error(err))
		d.setProfileError(err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.profile.password = domain.PasswordChange{}
	d.profile.message = successMessage(msgPasswordChanged)
	return nil
}

// UploadPhoto shows a local preview at once, then uploads. A failed upload
// leaves the preview in place and the identity untouched. An empty photo
// is ignored.
func (d *Dashboard) UploadPhoto(ctx context.Context, photo domain.Photo) error {
	if len(photo.Data) == 0 {
		return nil
	}
	if err := checkPhoto(&photo); err != nil {
		d.setProfileError(err)
		return err
	}

	preview := media.PreviewDataURL(photo.Data, photo.ContentType, d.opts.PreviewSide)
	d.mu.Lock()
	d.profile.preview = preview
	d.profile.message = Message{}
	d.mu.Unlock()

	updated, err := d.api.UploadProfilePhoto(ctx, photo)
	if err != nil {
		d.logger.Info("photo upload rejected", zap.Error(err))
		d.setProfileError(err)
		return err
	}
	if err := d.replaceIdentity(ctx, *updated); err != nil {
		d.setProfileError(err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.profile.preview = ""
	if !d.profile.editing {
		d.profile.draft = domain.DraftFromIdentity(*updated)
	}
	d.profile.message = successMessage(msgPhotoUpdated)
	return nil
}

func checkPhoto(photo *domain.Photo) error {
	if len(photo.Data) > MaxPhotoBytes {
		return fmt.Errorf("%w: %s", ErrInvalidPhoto, msgPhotoTooLarge)
	}
	mt := mimetype.Detect(photo.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return fmt.Errorf("%w: %s", ErrInvalidPhoto, msgNotAnImage)
	}
	photo.ContentType = mt.String()
	return nil
}

func (d *Dashboard) replaceIdentity(ctx context.Context, identity domain.Identity) error {
	if err := d.session.ReplaceIdentity(ctx, identity); err != nil {
		d.logger.Error("replace session identity", zap.Error(err))
		return fmt.Errorf("could not refresh your session: %w", err)
	}
	return nil
}

func (d *Dashboard) setProfileError(err error) {
	msg := errorMessage(err, "Something went wrong")
	if errors.Is(err, ErrInvalidPhoto) {
		msg.Text = strings.TrimPrefix(msg.Text, ErrInvalidPhoto.Error()+": ")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.noteRejectedLocked(err)
	d.profile.message = msg
}
