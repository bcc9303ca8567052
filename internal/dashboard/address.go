package dashboard

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"storefront-web/internal/domain"
)

const msgAddressSaved = "Address saved successfully!"

// AddressView is what the addresses panel renders.
type AddressView struct {
	Confirmed domain.ShippingAddress `json:"shippingAddress"`
	Draft     domain.ShippingAddress `json:"draft"`
	Editing   bool                   `json:"isEditing"`
	Loading   bool                   `json:"loading"`
	Message   Message                `json:"message"`
}

// ActionLabel is the edit button caption.
func (v AddressView) ActionLabel() string {
	if v.Confirmed.IsZero() {
		return "Add Address"
	}
	return "Edit Address"
}

type addressState struct {
	confirmed domain.ShippingAddress
	draft     domain.ShippingAddress
	editing   bool
	loading   bool
	message   Message
}

func (s addressState) view() AddressView {
	return AddressView{
		Confirmed: s.confirmed,
		Draft:     s.draft,
		Editing:   s.editing,
		Loading:   s.loading,
		Message:   s.message,
	}
}

func (d *Dashboard) startAddressLoadLocked(ctx context.Context) {
	d.address.loading = true
	d.launchLocked(ctx, "address", d.loadAddress)
}

// A failed load is logged only; the panel keeps its last known state.
func (d *Dashboard) loadAddress(ctx context.Context) {
	addr, err := d.api.GetShippingAddress(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.address.loading = false
	if err != nil {
		d.logger.Warn("load shipping address failed", zap.Error(err))
		d.noteRejectedLocked(err)
		return
	}
	if addr == nil {
		addr = &domain.ShippingAddress{}
	}
	d.address.confirmed = *addr
	if !d.address.editing {
		d.address.draft = *addr
	}
}

// BeginAddressEdit opens the form seeded from the confirmed address.
func (d *Dashboard) BeginAddressEdit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.address.editing {
		d.address.draft = d.address.confirmed
	}
	d.address.editing = true
}

// CancelAddressEdit closes the form and drops the draft.
func (d *Dashboard) CancelAddressEdit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.address.editing = false
	d.address.draft = d.address.confirmed
}

// SubmitAddress saves the draft. The server's copy becomes the confirmed
// address; on failure the form stays open with the draft.
func (d *Dashboard) SubmitAddress(ctx context.Context, draft domain.ShippingAddress) error {
	draft = trimAddress(draft)

	d.mu.Lock()
	d.address.message = Message{}
	d.address.draft = draft
	d.address.editing = true
	d.mu.Unlock()

	if err := domain.Validate(draft); err != nil {
		d.setAddressError(err)
		return err
	}

	saved, err := d.api.UpdateShippingAddress(ctx, draft)
	if err != nil {
		d.logger.Info("address update rejected", zap.Error(err))
		d.setAddressError(err)
		return err
	}
	if saved == nil {
		saved = &draft
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.address.confirmed = *saved
	d.address.draft = *saved
	d.address.editing = false
	d.address.message = successMessage(msgAddressSaved)
	return nil
}

func (d *Dashboard) setAddressError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.noteRejectedLocked(err)
	d.address.message = errorMessage(err, "Something went wrong")
}

func trimAddress(a domain.ShippingAddress) domain.ShippingAddress {
	return domain.ShippingAddress{
		FirstName:     strings.TrimSpace(a.FirstName),
		LastName:      strings.TrimSpace(a.LastName),
		StreetAddress: strings.TrimSpace(a.StreetAddress),
		Apartment:     strings.TrimSpace(a.Apartment),
		City:          strings.TrimSpace(a.City),
		State:         strings.TrimSpace(a.State),
		PinCode:       strings.TrimSpace(a.PinCode),
		Country:       strings.TrimSpace(a.Country),
		Phone:         strings.TrimSpace(a.Phone),
	}
}
