// Package mathutil provides the special functions behind the reconstruction
// kernel: the normalized cardinal sine and the Bessel/Kaiser helpers used to
// taper it.
package mathutil

import (
	"math"
)

// Sinc returns the normalized cardinal sine sin(πx)/(πx), with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1.0
	}
	arg := math.Pi * x
	return math.Sin(arg) / arg
}

// BesselI0 computes the modified Bessel function of the first kind, order zero: I₀(x).
//
// Polynomial approximation for |x| < 3.75, asymptotic expansion above that.
// Accuracy is around 1e-7 relative, which is well beyond what a kernel taper needs.
//
// Reference: Abramowitz & Stegun, "Handbook of Mathematical Functions", 9.8.1 and 9.8.2.
func BesselI0(x float64) float64 {
	ax := math.Abs(x)

	if ax < besselSmallArgThreshold {
		t := x / besselSmallArgThreshold
		t *= t
		return 1.0 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	t := besselSmallArgThreshold / ax
	result := besselI0AsympCoeff0 + t*(besselI0AsympCoeff1+t*(besselI0AsympCoeff2+
		t*(besselI0AsympCoeff3+t*(besselI0AsympCoeff4+t*(besselI0AsympCoeff5+
			t*(besselI0AsympCoeff6+t*(besselI0AsympCoeff7+t*besselI0AsympCoeff8)))))))

	return math.Exp(ax) * result / math.Sqrt(ax)
}

// KaiserBeta computes the Kaiser window β parameter from the desired
// sidelobe attenuation in decibels (Kaiser & Schafer):
//   - att > 50 dB: β = 0.1102 * (att - 8.7)
//   - 21 dB ≤ att ≤ 50 dB: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//   - otherwise β = 0 (rectangular)
func KaiserBeta(attenuation float64) float64 {
	if attenuation > kaiserAttHigh {
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	} else if attenuation >= kaiserAttMedium {
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	}
	return 0.0
}

// KaiserAttenuation estimates the sidelobe attenuation reached by a Kaiser
// taper with the given β. It inverts the high-attenuation branch of
// KaiserBeta and reports 0 for β close to zero.
func KaiserAttenuation(beta float64) float64 {
	if beta < kaiserBetaMinThreshold {
		return 0.0
	}
	return kaiserBetaHighOffset + beta/kaiserBetaHighCoeff1
}
