package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/catequesis-api/internal/models"
)

func TestRecomputeSettlementBasic(t *testing.T) {
	e := &models.Enrollment{
		RequiresPayment: true,
		BaseFee:         100,
		MaterialsFee:    20,
	}
	RecomputeSettlement(e)

	assert.Equal(t, 120.0, e.AmountTotal)
	assert.Equal(t, 120.0, e.AmountPending)
	assert.Equal(t, 0.0, e.DiscountAmount)
	assert.Equal(t, models.PaymentStatusPending, e.PaymentStatus)
}

func TestRecomputeSettlementWithDiscount(t *testing.T) {
	kind := models.DiscountSiblings
	e := &models.Enrollment{
		RequiresPayment:    true,
		BaseFee:            100,
		MaterialsFee:       20,
		HasDiscount:        true,
		DiscountKind:       &kind,
		DiscountPercentage: 25,
	}
	RecomputeSettlement(e)

	assert.Equal(t, 30.0, e.DiscountAmount)
	assert.Equal(t, 90.0, e.AmountTotal)
	assert.Equal(t, 90.0, e.AmountPending)
	assert.Equal(t, models.PaymentStatusPending, e.PaymentStatus)
}

func TestRecomputeSettlementPartialAndFullPayment(t *testing.T) {
	e := &models.Enrollment{
		RequiresPayment: true,
		BaseFee:         100,
		MaterialsFee:    20,
		AmountPaid:      50,
	}
	RecomputeSettlement(e)
	assert.Equal(t, 70.0, e.AmountPending)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, e.PaymentStatus)

	e.AmountPaid = 120
	RecomputeSettlement(e)
	assert.Equal(t, 0.0, e.AmountPending)
	assert.Equal(t, models.PaymentStatusPaid, e.PaymentStatus)
}

func TestRecomputeSettlementPendingNeverNegative(t *testing.T) {
	e := &models.Enrollment{
		RequiresPayment: true,
		BaseFee:         100,
		AmountPaid:      150,
	}
	RecomputeSettlement(e)
	assert.Equal(t, 0.0, e.AmountPending)
	assert.Equal(t, models.PaymentStatusPaid, e.PaymentStatus)
}

func TestRecomputeSettlementExempt(t *testing.T) {
	e := &models.Enrollment{
		RequiresPayment: false,
		BaseFee:         100,
		MaterialsFee:    20,
	}
	RecomputeSettlement(e)
	assert.Equal(t, models.PaymentStatusExempt, e.PaymentStatus)
	assert.Equal(t, 120.0, e.AmountTotal)
}

func TestRecomputeSettlementIdempotent(t *testing.T) {
	kind := models.DiscountScholarship
	e := &models.Enrollment{
		RequiresPayment:    true,
		BaseFee:            80,
		MaterialsFee:       15,
		HasDiscount:        true,
		DiscountKind:       &kind,
		DiscountPercentage: 10,
		AmountPaid:         30,
	}
	RecomputeSettlement(e)
	first := *e
	RecomputeSettlement(e)
	assert.Equal(t, first.AmountTotal, e.AmountTotal)
	assert.Equal(t, first.AmountPending, e.AmountPending)
	assert.Equal(t, first.DiscountAmount, e.DiscountAmount)
	assert.Equal(t, first.PaymentStatus, e.PaymentStatus)
}

func TestRecomputeSettlementDiscountRemoved(t *testing.T) {
	kind := models.DiscountSpecial
	e := &models.Enrollment{
		RequiresPayment:    true,
		BaseFee:            100,
		HasDiscount:        true,
		DiscountKind:       &kind,
		DiscountPercentage: 50,
	}
	RecomputeSettlement(e)
	assert.Equal(t, 50.0, e.AmountTotal)

	e.HasDiscount = false
	RecomputeSettlement(e)
	assert.Equal(t, 0.0, e.DiscountAmount)
	assert.Equal(t, 100.0, e.AmountTotal)
}
