package ephemeris

import (
	"gonum.org/v1/gonum/diff/fd"

	"github.com/chrissnell/panchanga/pkg/angle"
)

// longitudeFunc returns a longitude in degrees for a Julian day.
type longitudeFunc func(jd float64) (float64, error)

// dailyMotion differentiates lon at jd with a central difference of the given
// step in days. Longitudes are unwrapped against the value at jd so that a
// crossing of 0° does not show up as a 360° jump.
func dailyMotion(lon longitudeFunc, jd, step float64) (float64, error) {
	origin, err := lon(jd)
	if err != nil {
		return 0, err
	}

	var evalErr error
	f := func(x float64) float64 {
		if evalErr != nil {
			return 0
		}
		l, err := lon(jd + x)
		if err != nil {
			evalErr = err
			return 0
		}
		return angle.SignedDiff(l, origin)
	}

	v := fd.Derivative(f, 0, &fd.Settings{
		Formula:     fd.Central,
		Step:        step,
		OriginKnown: true,
		OriginValue: 0,
	})
	if evalErr != nil {
		return 0, evalErr
	}
	return v, nil
}
