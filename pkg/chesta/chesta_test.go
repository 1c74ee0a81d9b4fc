package chesta

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(nil)
	require.NoError(t, err)
	return c
}

func TestClassify(t *testing.T) {
	c := newClassifier(t)

	tests := []struct {
		name     string
		body     ephemeris.Body
		velocity float64
		want     Name
		retro    bool
	}{
		{"stationary sun is vikala not sama", ephemeris.Sun, 0, Vikala, false},
		{"sun at mean motion", ephemeris.Sun, 1.0, Sama, false},
		{"moon at mean motion", ephemeris.Moon, 13.2, Sama, false},
		{"mars retrograde", ephemeris.Mars, -0.3, Vakra, true},
		{"slow retrograde is still vakra", ephemeris.Saturn, -0.0001, Vakra, true},
		{"fast jupiter", ephemeris.Jupiter, 0.2, Atichara, false},
		{"quick venus", ephemeris.Venus, 1.8, Chara, false},
		{"crawling mercury", ephemeris.Mercury, 0.1, Mandatara, false},
		{"slow saturn", ephemeris.Saturn, 0.01, Manda, false},
		{"near stationary sun", ephemeris.Sun, 0.02, Vikala, false},
		{"mean node", ephemeris.Rahu, -0.053, Vakra, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := c.Classify(tt.body, tt.velocity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Name)
			assert.Equal(t, tt.retro, s.Retrograde)
			assert.Equal(t, StrengthOf(tt.want), s.Strength)
			assert.Equal(t, tt.body, s.Body)
		})
	}
}

func TestClassifyRatio(t *testing.T) {
	c := newClassifier(t)
	s, err := c.Classify(ephemeris.Mars, -0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.Ratio, 1e-12)
	assert.InDelta(t, -0.25, s.Velocity, 1e-12)
}

func TestClassifyErrors(t *testing.T) {
	c := newClassifier(t)

	_, err := c.Classify(ephemeris.Body("pluto"), 1)
	var in *panchanga.InputError
	require.True(t, errors.As(err, &in))
	assert.Equal(t, "body", in.Field)

	_, err = c.Classify(ephemeris.Sun, math.NaN())
	require.True(t, errors.As(err, &in))
	assert.Equal(t, "velocity", in.Field)
}

func TestNewClassifierBaselines(t *testing.T) {
	c, err := NewClassifier(map[ephemeris.Body]float64{ephemeris.Sun: 2})
	require.NoError(t, err)

	b, ok := c.Baseline(ephemeris.Sun)
	require.True(t, ok)
	assert.Equal(t, 2.0, b)
	b, _ = c.Baseline(ephemeris.Moon)
	assert.Equal(t, 13.2, b)

	s, err := c.Classify(ephemeris.Sun, 1)
	require.NoError(t, err)
	assert.Equal(t, Manda, s.Name)

	_, err = NewClassifier(map[ephemeris.Body]float64{ephemeris.Sun: 0})
	assert.Error(t, err)
	_, err = NewClassifier(map[ephemeris.Body]float64{ephemeris.Body("vulcan"): 1})
	assert.Error(t, err)
}

var day0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// mercuryStation runs Mercury through a retrograde loop.
func mercuryStation() []Observation {
	v := []float64{1.0, 0.3, -0.1, -0.5, -0.4, 0.05, 0.2, 0.5, 1.2}
	obs := make([]Observation, len(v))
	for i, x := range v {
		obs[i] = Observation{At: day0.AddDate(0, 0, i), Velocity: x}
	}
	return obs
}

func TestClassifySeries(t *testing.T) {
	c := newClassifier(t)

	got, err := c.ClassifySeries(ephemeris.Mercury, mercuryStation())
	require.NoError(t, err)
	require.Len(t, got, 9)

	want := []Name{Sama, Manda, Kutilaka, Vakra, Vakra, Kutilaka, Anuvakra, Anuvakra, Sama}
	for i, w := range want {
		assert.Equal(t, w, got[i].Name, "day %d", i)
		assert.Equal(t, StrengthOf(w), got[i].Strength, "day %d", i)
		assert.Equal(t, got[i].Velocity < 0, got[i].Retrograde, "day %d", i)
		assert.Equal(t, day0.AddDate(0, 0, i), got[i].At)
	}
}

func TestClassifySeriesSortsInput(t *testing.T) {
	c := newClassifier(t)

	obs := mercuryStation()
	reversed := make([]Observation, len(obs))
	for i := range obs {
		reversed[len(obs)-1-i] = obs[i]
	}

	fwd, err := c.ClassifySeries(ephemeris.Mercury, obs)
	require.NoError(t, err)
	rev, err := c.ClassifySeries(ephemeris.Mercury, reversed)
	require.NoError(t, err)
	assert.Equal(t, fwd, rev)
	assert.Equal(t, 1.2, reversed[0].Velocity)
}

func TestClassifySeriesError(t *testing.T) {
	c := newClassifier(t)
	_, err := c.ClassifySeries(ephemeris.Body("pluto"), mercuryStation())
	assert.Error(t, err)

	got, err := c.ClassifySeries(ephemeris.Moon, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTransitions(t *testing.T) {
	c := newClassifier(t)
	states, err := c.ClassifySeries(ephemeris.Mercury, mercuryStation())
	require.NoError(t, err)

	shuffled := []DailyState{states[4], states[0], states[8], states[2], states[6], states[1], states[3], states[7], states[5]}
	first := shuffled[0]

	got := Transitions(shuffled)
	want := []struct {
		day      int
		from, to Name
	}{
		{1, Sama, Manda},
		{2, Manda, Kutilaka},
		{3, Kutilaka, Vakra},
		{5, Vakra, Kutilaka},
		{6, Kutilaka, Anuvakra},
		{8, Anuvakra, Sama},
	}
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, day0.AddDate(0, 0, w.day), got[i].At)
		assert.Equal(t, day0.AddDate(0, 0, w.day).Format("2006-01-02"), got[i].Date)
		assert.Equal(t, w.from, got[i].From)
		assert.Equal(t, w.to, got[i].To)
		assert.Equal(t, ephemeris.Mercury, got[i].Body)
	}
	assert.Equal(t, first, shuffled[0], "input must not be reordered")

	assert.Empty(t, Transitions(nil))
	assert.Empty(t, Transitions(states[:1]))
}

func TestSummarize(t *testing.T) {
	c := newClassifier(t)
	var states []State
	for _, in := range []struct {
		body ephemeris.Body
		v    float64
	}{
		{ephemeris.Sun, 1.0},
		{ephemeris.Mars, -0.3},
		{ephemeris.Saturn, 0.002},
		{ephemeris.Mercury, 0.5},
	} {
		s, err := c.Classify(in.body, in.v)
		require.NoError(t, err)
		states = append(states, s)
	}

	sum := Summarize(states)
	assert.InDelta(t, (30+60+7.5+15)/4.0, sum.Average, 1e-9)
	assert.Equal(t, Average, sum.Level)
	assert.Equal(t, []ephemeris.Body{ephemeris.Sun, ephemeris.Mars}, sum.Strong)
	assert.Equal(t, []ephemeris.Body{ephemeris.Saturn, ephemeris.Mercury}, sum.Weak)
	assert.Equal(t, []ephemeris.Body{ephemeris.Mars}, sum.Retrograde)
	assert.Equal(t, []ephemeris.Body{ephemeris.Mars}, sum.ByState[Vakra])
	assert.Equal(t, []ephemeris.Body{ephemeris.Saturn}, sum.ByState[Mandatara])
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	assert.Zero(t, sum.Average)
	assert.Equal(t, Weak, sum.Level)
	assert.Empty(t, sum.Strong)
	assert.NotNil(t, sum.ByState)
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, Excellent, LevelOf(60))
	assert.Equal(t, Excellent, LevelOf(45))
	assert.Equal(t, Good, LevelOf(30))
	assert.Equal(t, Average, LevelOf(15))
	assert.Equal(t, Weak, LevelOf(7.5))
}

type rateOracle struct {
	rate float64
	err  error
}

func (o rateOracle) Sample(t time.Time, body ephemeris.Body) (ephemeris.Sample, error) {
	if o.err != nil {
		return ephemeris.Sample{}, o.err
	}
	days := t.Sub(day0).Hours() / 24
	return ephemeris.Sample{Body: body, At: t, Velocity: o.rate - 0.1*days}, nil
}

func TestSample(t *testing.T) {
	obs, err := Sample(rateOracle{rate: 0.3}, ephemeris.Mars, day0, 24*time.Hour, 5)
	require.NoError(t, err)
	require.Len(t, obs, 5)
	assert.Equal(t, day0.Add(96*time.Hour), obs[4].At)
	assert.InDelta(t, -0.1, obs[4].Velocity, 1e-12)

	_, err = Sample(rateOracle{err: ephemeris.ErrOutOfRange}, ephemeris.Mars, day0, time.Hour, 2)
	assert.ErrorIs(t, err, ephemeris.ErrOutOfRange)
	var oracleErr *panchanga.OracleError
	require.ErrorAs(t, err, &oracleErr)
	assert.Equal(t, ephemeris.Mars, oracleErr.Body)
	assert.Equal(t, day0, oracleErr.At)

	_, err = Sample(rateOracle{}, ephemeris.Body("Pluto"), day0, time.Hour, 2)
	var inputErr *panchanga.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "body", inputErr.Field)

	_, err = Sample(rateOracle{}, ephemeris.Mars, day0, time.Hour, 0)
	assert.Error(t, err)
	_, err = Sample(rateOracle{}, ephemeris.Mars, day0, 0, 3)
	assert.Error(t, err)
}

func TestStrengthOf(t *testing.T) {
	assert.Equal(t, 60.0, StrengthOf(Vakra))
	assert.Equal(t, 7.5, StrengthOf(Mandatara))
	assert.Equal(t, 45.0, StrengthOf(Atichara))
	assert.Zero(t, StrengthOf(Name("udaya")))
}
