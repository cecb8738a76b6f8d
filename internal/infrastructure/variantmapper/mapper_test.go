package variantmapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func float(v float64) *float64 { return &v }

func TestToDomainVariants_Cap(t *testing.T) {
	remote := make([]remoteVariant, 150)
	assert.Len(t, toDomainVariants(remote), maxVariants)
}

func TestToDomainVariant(t *testing.T) {
	available := false

	tests := []struct {
		name  string
		input remoteVariant
		check func(t *testing.T, id, title string, price float64, compare *float64, available bool)
	}{
		{
			name:  "defaults",
			input: remoteVariant{},
			check: func(t *testing.T, id, title string, price float64, compare *float64, avail bool) {
				assert.Equal(t, "variant_4", id)
				assert.Equal(t, "Default", title)
				assert.Equal(t, 0.0, price)
				assert.Nil(t, compare)
				assert.True(t, avail)
			},
		},
		{
			name:  "negative prices clamp to zero",
			input: remoteVariant{ID: "x", Title: "Blue", Price: float(-3), CompareAtPrice: float(-1), Available: &available},
			check: func(t *testing.T, id, title string, price float64, compare *float64, avail bool) {
				assert.Equal(t, "x", id)
				assert.Equal(t, "Blue", title)
				assert.Equal(t, 0.0, price)
				if assert.NotNil(t, compare) {
					assert.Equal(t, 0.0, *compare)
				}
				assert.False(t, avail)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := toDomainVariant(tt.input, 4)
			tt.check(t, v.ID, v.Title, v.Price, v.CompareAtPrice, v.Available)
		})
	}
}
