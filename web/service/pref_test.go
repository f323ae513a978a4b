package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefMissingReturnsEmpty(t *testing.T) {
	setup()
	defer teardown()

	service := PreferenceService{}
	value, err := service.GetPref(1, PrefExportColumns)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestPrefRoundTripAndOverwrite(t *testing.T) {
	setup()
	defer teardown()

	service := PreferenceService{}
	require.NoError(t, service.SetPref(1, PrefExportColumns, "customer_name,quantity"))

	value, err := service.GetPref(1, PrefExportColumns)
	require.NoError(t, err)
	assert.Equal(t, "customer_name,quantity", value)

	// upsert replaces the previous value
	require.NoError(t, service.SetPref(1, PrefExportColumns, "doc_date"))
	value, err = service.GetPref(1, PrefExportColumns)
	require.NoError(t, err)
	assert.Equal(t, "doc_date", value)
}

func TestPrefScopedPerUser(t *testing.T) {
	setup()
	defer teardown()

	service := PreferenceService{}
	require.NoError(t, service.SetPref(1, PrefExportColumns, "customer_name"))
	require.NoError(t, service.SetPref(2, PrefExportColumns, "salesperson"))

	first, err := service.GetPref(1, PrefExportColumns)
	require.NoError(t, err)
	second, err := service.GetPref(2, PrefExportColumns)
	require.NoError(t, err)
	assert.Equal(t, "customer_name", first)
	assert.Equal(t, "salesperson", second)
}
