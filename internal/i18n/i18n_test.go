// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslations(t *testing.T) {
	err := Initialize("./locales", "vi")
	assert.NoError(t, err)

	assert.Equal(t, "Đặt hàng thành công", T("vi", KeyOrderCreated))
	assert.Equal(t, "Order placed successfully", T("en", KeyOrderCreated))
}

func TestTranslationWithArgs(t *testing.T) {
	err := Initialize("./locales", "vi")
	assert.NoError(t, err)

	msg := T("vi", KeyProductInsufficient, "iPhone 15", 3, 2)
	assert.Equal(t, "Sản phẩm iPhone 15 không đủ số lượng: cần 3, còn 2", msg)
}

func TestTranslationFallbacks(t *testing.T) {
	err := Initialize("./locales", "vi")
	assert.NoError(t, err)

	// Unknown language falls back to the default.
	assert.Equal(t, "Đặt hàng thành công", T("fr", KeyOrderCreated))

	// Unknown key falls back to the key itself.
	assert.Equal(t, "no.such.key", T("vi", "no.such.key"))
}
