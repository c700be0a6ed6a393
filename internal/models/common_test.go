// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusPending.Valid())
	assert.True(t, OrderStatusConfirmed.Valid())
	assert.True(t, OrderStatusShipping.Valid())
	assert.True(t, OrderStatusDelivered.Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("returned").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentMethodCOD.Valid())
	assert.True(t, PaymentMethodCard.Valid())
	assert.False(t, PaymentMethod("Bitcoin").Valid())
}

func TestJSONBRoundtrip(t *testing.T) {
	addr := JSONB{"street": "1 Lê Lợi", "city": "Hồ Chí Minh"}

	value, err := addr.Value()
	assert.NoError(t, err)

	var decoded JSONB
	err = decoded.Scan(value)
	assert.NoError(t, err)
	assert.Equal(t, "1 Lê Lợi", decoded["street"])
	assert.Equal(t, "Hồ Chí Minh", decoded["city"])
}

func TestUserPasswordHashing(t *testing.T) {
	user := User{}
	err := user.SetPassword("s3cret-password")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("s3cret-password"))
	assert.Error(t, user.CheckPassword("wrong-password"))
}
