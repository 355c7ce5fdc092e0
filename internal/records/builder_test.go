package records_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"productadder/internal/domain"
	"productadder/internal/records"
)

func TestSizesList(t *testing.T) {
	require.Nil(t, records.SizesList(""))
	require.Equal(t, []string{"S", "M", "L"}, records.SizesList("S,M,L"))
	require.Equal(t, []string{"S", " M", "L "}, records.SizesList("S, M,L "))
	require.Equal(t, []string{"XL"}, records.SizesList("XL"))
}

func TestBuildOptionalFieldsAbsent(t *testing.T) {
	f := domain.Form{Name: " Shirt ", Category: "Apparel", Price: "19.99", Sizes: "S,M"}
	p, err := records.Build("id-1", f, nil, []string{"u1", "u2"})
	require.NoError(t, err)

	require.Equal(t, domain.Product{
		ID:       "id-1",
		Name:     "Shirt",
		Category: "Apparel",
		Price:    float32(19.99),
		Sizes:    []string{"S", "M"},
		Images:   []string{"u1", "u2"},
	}, p)
	require.Nil(t, p.OfferPercentage)
	require.Nil(t, p.Description)
	require.Nil(t, p.Colors)
}

func TestBuildOptionalFieldsPresent(t *testing.T) {
	f := domain.Form{
		Name: "Shirt", Category: "Apparel", Price: "10",
		OfferPercentage: "12.5", Description: "cotton",
	}
	colors := []domain.Color{0xff00ff00, 0xff00ff00}
	p, err := records.Build("id-2", f, colors, []string{"u"})
	require.NoError(t, err)

	require.NotNil(t, p.OfferPercentage)
	require.Equal(t, float32(12.5), *p.OfferPercentage)
	require.Equal(t, "cotton", *p.Description)
	require.Equal(t, colors, p.Colors)
	require.Nil(t, p.Sizes)

	// the record does not alias caller slices
	colors[0] = 1
	require.Equal(t, domain.Color(0xff00ff00), p.Colors[0])
}

func TestBuildRejectsNonNumeric(t *testing.T) {
	_, err := records.Build("id", domain.Form{Name: "n", Category: "c", Price: "abc"}, nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidNumber)

	_, err = records.Build("id", domain.Form{Name: "n", Category: "c", Price: "1", OfferPercentage: "ten"}, nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidNumber)
}
