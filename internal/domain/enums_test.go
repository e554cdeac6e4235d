package domain

import "testing"

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleEmployee, RoleCourier} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	for _, r := range []Role{"", "superuser", "Admin", "courier "} {
		if Role(r).Valid() {
			t.Errorf("%q should be invalid", r)
		}
	}
}

func TestServiceTypeValid(t *testing.T) {
	for _, s := range []ServiceType{ServiceSale, ServiceSendAfterRepair, ServiceReceiveForRepair} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []ServiceType{"", "repair", "SALE"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestStatusValid(t *testing.T) {
	valid := []Status{
		StatusPreparing, StatusAssigned, StatusInDelivery,
		StatusDelivered, StatusDeviceReceived, StatusCancelled,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Status{"", "shipped", "in-delivery", "Delivered"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestImageTypeValid(t *testing.T) {
	for _, it := range []ImageType{ImageBeforeSend, ImageAfterReceive, ImageDeviceCondition} {
		if !it.Valid() {
			t.Errorf("%q should be valid", it)
		}
	}
	for _, it := range []ImageType{"", "selfie", "before-send"} {
		if it.Valid() {
			t.Errorf("%q should be invalid", it)
		}
	}
}
