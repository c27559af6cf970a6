package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	apperrors "github.com/bhanu79755/Shopbuy/pkg/errors"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
	"github.com/bhanu79755/Shopbuy/pkg/validator"
)

func validShipping() domain.ShippingDetails {
	return domain.ShippingDetails{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Address:    "12 Analytical Row",
		City:       "London",
		State:      "LDN",
		ZIP:        "N1 9GU",
		Country:    "UK",
		CardNumber: "4242 4242 4242 4242",
		NameOnCard: "A LOVELACE",
		Expiry:     "08/29",
		CVC:        "123",
	}
}

func newTestCheckout(pub EventPublisher) *CheckoutService {
	c := NewCheckoutService(pub, logger.Discard())
	c.now = func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) }
	c.newID = func() string { return "order-1" }
	return c
}

func TestPlaceOrder_Success(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.AddToCart(product(1, 1999), 2))
	require.NoError(t, s.AddToCart(product(2, 500), 1))

	pub := new(mockPublisher)
	pub.On("PublishOrderPlaced", mock.Anything, "s1", mock.MatchedBy(func(o domain.OrderConfirmation) bool {
		return o.OrderID == "order-1" && o.Total == 4498
	})).Return(nil).Once()

	order, err := newTestCheckout(pub).PlaceOrder(context.Background(), s, validShipping())
	require.NoError(t, err)

	assert.Equal(t, "order-1", order.OrderID)
	assert.Equal(t, int64(4498), order.Total)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC), order.PlacedAt)
	assert.Empty(t, s.Cart().Items)
	pub.AssertExpectations(t)
}

func TestPlaceOrder_GeneratesUUID(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.AddToCart(product(1, 100), 1))
	pub := new(mockPublisher)
	pub.On("PublishOrderPlaced", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	order, err := NewCheckoutService(pub, logger.Discard()).PlaceOrder(context.Background(), s, validShipping())
	require.NoError(t, err)
	assert.Len(t, order.OrderID, 36)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	pub := new(mockPublisher)
	_, err := newTestCheckout(pub).PlaceOrder(context.Background(), newTestSession(), validShipping())

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	pub.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_InvalidFormLeavesCart(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.AddToCart(product(1, 100), 1))

	details := validShipping()
	details.City = " "
	details.Expiry = "13/29"
	details.CVC = "12a"

	_, err := newTestCheckout(new(mockPublisher)).PlaceOrder(context.Background(), s, details)

	var ve *validator.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields(), "city")
	assert.Contains(t, ve.Fields(), "expiry")
	assert.Contains(t, ve.Fields(), "cvc")
	assert.Len(t, s.Cart().Items, 1)
}

func TestPlaceOrder_PublishFailureIsNotFatal(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.AddToCart(product(1, 100), 1))
	pub := new(mockPublisher)
	pub.On("PublishOrderPlaced", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("kafka down"))

	order, err := newTestCheckout(pub).PlaceOrder(context.Background(), s, validShipping())
	require.NoError(t, err)
	assert.Equal(t, int64(100), order.Total)
	assert.Empty(t, s.Cart().Items)
}
