package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColumnsMapsLegacyAliases(t *testing.T) {
	got := NormalizeColumns([]string{"image_path", "name", "price", "spec"})
	assert.Equal(t, []string{ColImage, ColCustomerName, ColUnitPrice, ColProductDesc}, got)
}

func TestNormalizeColumnsDropsUnknownKeys(t *testing.T) {
	got := NormalizeColumns([]string{"customer_name", "no_such_column", "quantity"})
	assert.Equal(t, []string{ColCustomerName, ColQuantity}, got)
}

func TestNormalizeColumnsPreservesOrderAndDedupes(t *testing.T) {
	got := NormalizeColumns([]string{"quantity", "customer_name", "quantity", "name"})
	assert.Equal(t, []string{ColQuantity, ColCustomerName}, got)
}

func TestNormalizeColumnsEmpty(t *testing.T) {
	assert.Empty(t, NormalizeColumns(nil))
	assert.Empty(t, NormalizeColumns([]string{"bogus"}))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "客户名称", DisplayName(ColCustomerName))
	assert.Equal(t, "mystery", DisplayName("mystery"))
}

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, float64(50), ColumnWidth(ColImage))
	assert.Equal(t, float64(defaultColumnWidth), ColumnWidth("mystery"))
}

func TestAllColumnsHaveDisplayNames(t *testing.T) {
	for _, col := range AllColumns() {
		assert.NotEqual(t, col, DisplayName(col), "column %s has no display name", col)
	}
}

func TestDefaultColumnsAreCanonical(t *testing.T) {
	defaults := DefaultColumns()
	assert.Equal(t, defaults, NormalizeColumns(defaults))
}
