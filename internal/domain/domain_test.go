package domain

import (
	"errors"
	"testing"
)

func TestShippingAddress_ValidateRequiresEightFields(t *testing.T) {
	err := Validate(ShippingAddress{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 8 {
		t.Fatalf("expected 8 missing fields, got %d: %+v", len(verr.Fields), verr.Fields)
	}
	for _, f := range verr.Fields {
		if f.Field == "apartment" {
			t.Fatalf("apartment must be optional")
		}
	}
	if verr.Fields[0].Message != "firstName is required" {
		t.Fatalf("unexpected message %q", verr.Fields[0].Message)
	}
}

func TestShippingAddress_ValidWithoutApartment(t *testing.T) {
	addr := ShippingAddress{
		FirstName:     "Ananya",
		LastName:      "Rao",
		StreetAddress: "12 MG Road",
		City:          "Bengaluru",
		State:         "KA",
		PinCode:       "560001",
		Country:       "India",
		Phone:         "9876543210",
	}
	if err := Validate(addr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.IsZero() {
		t.Fatalf("filled address reported as zero")
	}
	if !(ShippingAddress{}).IsZero() {
		t.Fatalf("empty address should be zero")
	}
}

func TestOrder_ShortIDAndStatus(t *testing.T) {
	o := Order{ID: "64f1c2d3e4b5a6978877aabb", Status: OrderDelivered}
	if o.ShortID() != "8877aabb" {
		t.Fatalf("unexpected short id %q", o.ShortID())
	}
	if o.Status.Label() != "Delivered" || o.Status.Tone() != "success" {
		t.Fatalf("unexpected label/tone %q/%q", o.Status.Label(), o.Status.Tone())
	}
	if OrderCancelled.Tone() != "danger" || OrderPending.Tone() != "warning" {
		t.Fatalf("unexpected tones")
	}
	if (Order{ID: "abc"}).ShortID() != "abc" {
		t.Fatalf("short ids must be returned whole")
	}
}

func TestIdentity_Labels(t *testing.T) {
	if (Identity{Role: "admin"}).RoleLabel() != "Administrator" {
		t.Fatalf("admin label")
	}
	if (Identity{Role: "user"}).RoleLabel() != "Customer" {
		t.Fatalf("customer label")
	}
	if (Identity{Name: "ananya"}).Initial() != "A" {
		t.Fatalf("initial")
	}
	if (Identity{}).Initial() != "" {
		t.Fatalf("empty initial")
	}
}

func TestPasswordChange_RequiresAllFields(t *testing.T) {
	err := Validate(PasswordChange{Current: "x", New: "y"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "confirm" {
		t.Fatalf("expected confirm to be required, got %v", err)
	}
}
