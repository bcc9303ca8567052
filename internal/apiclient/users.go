package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"storefront-web/internal/domain"
)

// UserClient carries one customer's API token.
type UserClient struct {
	client *Client
	token  string
}

// ListMyOrders returns the customer's orders in the order the API sends them.
func (u *UserClient) ListMyOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := u.client.doJSON(ctx, "list orders", http.MethodGet, "/api/orders/myorders", u.token, nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// UpdateProfile sends the edited name and phone and returns the stored identity.
func (u *UserClient) UpdateProfile(ctx context.Context, draft domain.ProfileDraft) (*domain.Identity, error) {
	var out domain.Identity
	if err := u.client.doJSON(ctx, "update profile", http.MethodPut, "/api/users/profile", u.token, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadProfilePhoto posts the image as multipart field "photo".
func (u *UserClient) UploadProfilePhoto(ctx context.Context, photo domain.Photo) (*domain.Identity, error) {
	const op = "upload photo"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	contentType := photo.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(photo.Data)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, photo.Filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("%s: create part: %w", op, err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return nil, fmt.Errorf("%s: write part: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: close multipart: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.client.baseURL+"/api/users/profile/photo", &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		User domain.Identity `json:"user"`
	}
	if err := u.client.do(req, op, u.token, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword asks the API to replace the password.
func (u *UserClient) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return u.client.doJSON(ctx, "change password", http.MethodPut, "/api/users/password", u.token, body, nil)
}

// GetShippingAddress returns the saved address; a zero value means none yet.
func (u *UserClient) GetShippingAddress(ctx context.Context) (*domain.ShippingAddress, error) {
	var out domain.ShippingAddress
	if err := u.client.doJSON(ctx, "get address", http.MethodGet, "/api/users/shipping-address", u.token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateShippingAddress creates or replaces the address and returns the stored copy.
func (u *UserClient) UpdateShippingAddress(ctx context.Context, addr domain.ShippingAddress) (*domain.ShippingAddress, error) {
	var out domain.ShippingAddress
	if err := u.client.doJSON(ctx, "update address", http.MethodPut, "/api/users/shipping-address", u.token, addr, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
