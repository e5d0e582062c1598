package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcel_RoundTrip(t *testing.T) {
	c := defaultCatalog(t)

	var buf bytes.Buffer
	require.NoError(t, c.ExportXLSX(&buf))

	products, report, err := LoadXLSX(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Loaded: 15}, report)

	want := c.Products()
	require.Len(t, products, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, products[i].ID)
		assert.Equal(t, want[i].Name, products[i].Name)
		assert.Equal(t, want[i].Images, products[i].Images)
		assert.Equal(t, want[i].Featured, products[i].Featured)
		assert.Equal(t, want[i].Rating, products[i].Rating)
		assert.Equal(t, want[i].Reviews, products[i].Reviews)
		assert.True(t, want[i].Price.Equal(products[i].Price), want[i].ID)
	}

	reloaded, err := New(products)
	require.NoError(t, err)
	assert.Equal(t, c.Facets(), reloaded.Facets())
}

func TestLoadXLSX_RejectsGarbage(t *testing.T) {
	data := []byte("not a spreadsheet")
	_, _, err := LoadXLSX(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}
