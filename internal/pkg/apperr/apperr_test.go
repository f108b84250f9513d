package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NotFound("product", 4), http.StatusNotFound},
		{ValidationFailed("bad input"), http.StatusBadRequest},
		{EmptyCart(), http.StatusBadRequest},
		{LineCapExceeded(99, 150), http.StatusBadRequest},
		{OutOfStock(7, 1, 3), http.StatusConflict},
		{IntegrityViolation("missing row"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Errorf("%s: HTTPStatus() = %d, want %d", tt.err.Code, got, tt.want)
		}
	}
}

func TestOutOfStockCarriesVariant(t *testing.T) {
	err := OutOfStock(42, 1, 3)

	if err.VariantID != 42 {
		t.Errorf("VariantID = %d, want 42", err.VariantID)
	}
	if err.Code != CodeOutOfStock {
		t.Errorf("Code = %s, want %s", err.Code, CodeOutOfStock)
	}
}

func TestFromUnwrapsChain(t *testing.T) {
	inner := OutOfStock(3, 0, 1)
	wrapped := fmt.Errorf("checkout failed: %w", fmt.Errorf("reserve: %w", inner))

	got := From(wrapped)
	if got == nil {
		t.Fatal("From returned nil for a wrapped *Error")
	}
	if got.Code != CodeOutOfStock || got.VariantID != 3 {
		t.Errorf("From = %+v, want the inner OUT_OF_STOCK error", got)
	}
}

func TestFromForeignError(t *testing.T) {
	if got := From(errors.New("plain failure")); got != nil {
		t.Errorf("From = %+v, want nil for a non-domain error", got)
	}
	if got := From(nil); got != nil {
		t.Errorf("From(nil) = %+v, want nil", got)
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", EmptyCart())

	if !IsCode(err, CodeEmptyCart) {
		t.Error("IsCode(err, EMPTY_CART) = false, want true")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("IsCode(err, NOT_FOUND) = true, want false")
	}
}

func TestExpected(t *testing.T) {
	if IntegrityViolation("broken").Expected() {
		t.Error("integrity violations must not be expected")
	}
	if !OutOfStock(1, 0, 1).Expected() {
		t.Error("out of stock is an expected condition")
	}
}
