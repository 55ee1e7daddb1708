package services

import (
	"context"
	"errors"
	"testing"
)

func TestVerifyRejectsUnknownStatus(t *testing.T) {
	s := &PaymentService{}

	for _, status := range []string{"", "pending", "refunded", "COMPLETED"} {
		_, err := s.Verify(context.Background(), 1, 1, status, "")
		if !errors.Is(err, ErrInvalidPaymentStatus) {
			t.Errorf("Verify(status=%q) error = %v, want ErrInvalidPaymentStatus", status, err)
		}
	}
}
