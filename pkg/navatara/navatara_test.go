package navatara

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

func TestCycleRepeatsEveryNine(t *testing.T) {
	c, err := NewCycle(0, 27)
	require.NoError(t, err)

	for _, n := range []int{0, 9, 18} {
		e, err := c.Classify(n)
		require.NoError(t, err)
		assert.Equal(t, 0, e.Tara.Group, "nakshatra %d", n)
		assert.Equal(t, "Janma", e.Tara.Name)
	}

	e, _ := c.Classify(2)
	assert.Equal(t, "Vipat", e.Tara.Name)
	assert.Equal(t, Unfavorable, e.Tara.Quality)

	e, _ = c.Classify(26)
	assert.Equal(t, "Parama Mitra", e.Tara.Name)
	assert.Equal(t, 3, e.Round)
	assert.Equal(t, 27, e.Position)
}

func TestCycleOffsetStart(t *testing.T) {
	c, err := NewCycle(10, 27)
	require.NoError(t, err)

	tests := []struct {
		n        int
		group    int
		position int
		round    int
	}{
		{10, 0, 1, 1},
		{11, 1, 2, 1},
		{19, 0, 10, 2},
		{0, 8, 18, 2},
		{9, 8, 27, 3},
	}
	for _, tt := range tests {
		e, err := c.Classify(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.group, e.Tara.Group, "nakshatra %d", tt.n)
		assert.Equal(t, tt.position, e.Position, "nakshatra %d", tt.n)
		assert.Equal(t, tt.round, e.Round, "nakshatra %d", tt.n)
	}
}

func TestCycleScheme28(t *testing.T) {
	c, err := NewCycle(0, 28)
	require.NoError(t, err)

	m := c.Mapping()
	require.Len(t, m, 28)

	last := m[27]
	assert.Equal(t, 27, last.Nakshatra)
	assert.Equal(t, 0, last.Tara.Group, "27 mod 9")
	assert.Equal(t, 4, last.Round)

	abhijit, err := c.ClassifyName(panchanga.Abhijit)
	require.NoError(t, err)
	assert.Equal(t, 21, abhijit.Nakshatra)
	assert.Equal(t, 3, abhijit.Tara.Group)
	assert.Empty(t, abhijit.Loka)
	assert.Empty(t, abhijit.GroupDeity)

	// Shravana shifts one place past Abhijit.
	shravana, err := c.ClassifyName("Shravana")
	require.NoError(t, err)
	assert.Equal(t, 22, shravana.Nakshatra)
	assert.Equal(t, 4, shravana.Tara.Group)
	assert.Equal(t, "Svarloka", shravana.Loka)
	assert.Equal(t, "Varuna", shravana.GroupDeity)
}

func TestMappingOrder(t *testing.T) {
	c, err := NewCycle(25, 27)
	require.NoError(t, err)

	m := c.Mapping()
	require.Len(t, m, 27)
	assert.Equal(t, 25, m[0].Nakshatra)
	assert.Equal(t, "Uttara Bhadrapada", m[0].Name)
	assert.Equal(t, 0, m[2].Nakshatra)
	for i, e := range m {
		assert.Equal(t, i+1, e.Position)
		assert.Equal(t, i%9, e.Tara.Group)
	}

	m[0].Name = "changed"
	again, _ := c.Classify(25)
	assert.Equal(t, "Uttara Bhadrapada", again.Name)
}

func TestMetadata(t *testing.T) {
	c, err := NewCycle(0, 27)
	require.NoError(t, err)

	tests := []struct {
		name, loka, deity, special string
	}{
		{"Ashwini", "Bhuloka", "Agni", "Mangala"},
		{"Magha", "Bhuvarloka", "Agni", "Mangala"},
		{"Rohini", "Bhuloka", "Varuna", "Mrityu"},
		{"Jyeshtha", "Bhuvarloka", "Ganesha", "Maitri"},
		{"Revati", "Svarloka", "Ganesha", "Maitri"},
	}
	for _, tt := range tests {
		e, err := c.ClassifyName(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.loka, e.Loka, tt.name)
		assert.Equal(t, tt.deity, e.GroupDeity, tt.name)
		assert.Equal(t, tt.special, e.SpecialTara, tt.name)
	}
}

func TestCycleErrors(t *testing.T) {
	var in *panchanga.InputError

	_, err := NewCycle(0, 30)
	require.True(t, errors.As(err, &in))
	assert.Equal(t, "scheme", in.Field)

	_, err = NewCycle(27, 27)
	require.True(t, errors.As(err, &in))
	assert.Equal(t, "start", in.Field)

	_, err = NewCycle(27, 28)
	assert.NoError(t, err)

	c, _ := NewCycle(0, 27)
	_, err = c.Classify(27)
	assert.Error(t, err)
	_, err = c.ClassifyName(panchanga.Abhijit)
	assert.Error(t, err)
}

func TestStartFromSample(t *testing.T) {
	n, err := StartFromSample(ephemeris.Sample{Longitude: 290}, 27)
	require.NoError(t, err)
	assert.Equal(t, 21, n)

	n, err = StartFromSample(ephemeris.Sample{Longitude: 275}, 28)
	require.NoError(t, err)
	assert.Equal(t, 21, n)

	n, err = StartFromSample(ephemeris.Sample{Longitude: 0}, 27)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = StartFromSample(ephemeris.Sample{}, 9)
	assert.Error(t, err)
}

func TestStartFromLongitude(t *testing.T) {
	n, err := StartFromLongitude(359.99, 27)
	require.NoError(t, err)
	assert.Equal(t, 26, n)

	n, err = StartFromLongitude(-1, 27)
	require.NoError(t, err)
	assert.Equal(t, 26, n)

	_, err = StartFromLongitude(math.NaN(), 27)
	var inputErr *panchanga.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "longitude", inputErr.Field)
}
