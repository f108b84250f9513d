package order

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusCreated, StatusPaid, StatusShipped, StatusRefunded, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("Status %q reported invalid", s)
		}
	}
}

func TestStatusInvalid(t *testing.T) {
	for _, s := range []Status{"", "CREATED", "pending", "delivered", "paid "} {
		if s.Valid() {
			t.Errorf("Status %q reported valid", s)
		}
	}
}
