package service

import (
	"github.com/noah-isme/catequesis-api/internal/models"
)

// RecomputeSettlement derives the financial fields of an enrollment from its
// inputs. It is a pure function over the enrollment: calling it again without
// changing fees, discount or payments yields the same result.
//
// Derivation order: gross = base_fee + materials_fee; the discount applies to
// the gross amount; pending never goes below zero; the payment status follows
// from pending and paid amounts, with Exempt short-circuiting everything when
// the enrollment does not require payment.
func RecomputeSettlement(e *models.Enrollment) {
	gross := e.BaseFee + e.MaterialsFee

	if e.HasDiscount {
		e.DiscountAmount = gross * e.DiscountPercentage / 100
	} else {
		e.DiscountAmount = 0
	}

	e.AmountTotal = gross - e.DiscountAmount

	pending := e.AmountTotal - e.AmountPaid
	if pending < 0 {
		pending = 0
	}
	e.AmountPending = pending

	switch {
	case !e.RequiresPayment:
		e.PaymentStatus = models.PaymentStatusExempt
	case e.AmountPending <= 0:
		e.PaymentStatus = models.PaymentStatusPaid
	case e.AmountPaid > 0:
		e.PaymentStatus = models.PaymentStatusPartiallyPaid
	default:
		e.PaymentStatus = models.PaymentStatusPending
	}
}
