package dashboard

import (
	"context"

	"storefront-web/internal/domain"
)

// Session is the externally owned holder of the signed-in identity. The
// identity can only be read or replaced as a whole.
type Session interface {
	CurrentIdentity() domain.Identity
	ReplaceIdentity(ctx context.Context, identity domain.Identity) error
	EndSession(ctx context.Context) error
}

// OrdersAPI lists the customer's orders.
type OrdersAPI interface {
	ListMyOrders(ctx context.Context) ([]domain.Order, error)
}

// ProfileAPI mutates the customer's profile.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, draft domain.ProfileDraft) (*domain.Identity, error)
	UploadProfilePhoto(ctx context.Context, photo domain.Photo) (*domain.Identity, error)
	ChangePassword(ctx context.Context, current, next string) error
}

// AddressAPI reads and writes the single shipping address.
type AddressAPI interface {
	GetShippingAddress(ctx context.Context) (*domain.ShippingAddress, error)
	UpdateShippingAddress(ctx context.Context, addr domain.ShippingAddress) (*domain.ShippingAddress, error)
}

// API is every remote collaborator the dashboard calls.
type API interface {
	OrdersAPI
	ProfileAPI
	AddressAPI
}
