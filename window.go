package sharad

import "math"

// besselI0 evaluates the zeroth-order modified Bessel function of the first
// kind via its power series. No pack example ships a special-functions
// library covering I0 (gonum's included stats/distributions don't expose
// it directly), so it is hand-rolled here -- the series converges to
// float64 precision in well under 40 terms for the window lengths and beta
// values this pipeline uses.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	halfX := x / 2.0

	for k := 1; k < 40; k++ {
		term *= (halfX * halfX) / (float64(k) * float64(k))
		sum += term
		if term < sum*1e-16 {
			break
		}
	}

	return sum
}

// KaiserWindow returns a length-n Kaiser window with shape parameter beta,
// per spec.md Sec 4.8: w[k] = I0(beta*sqrt(1-((k-(n-1)/2)/((n-1)/2))^2)) / I0(beta).
func KaiserWindow(n int, beta float64) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}

	denom := besselI0(beta)
	half := float64(n-1) / 2.0

	for k := 0; k < n; k++ {
		ratio := (float64(k) - half) / half
		arg := beta * math.Sqrt(1-ratio*ratio)
		w[k] = besselI0(arg) / denom
	}

	return w
}

// ApplyWindow multiplies samples elementwise by a Kaiser window of the same
// length, returning a new slice. Windowing is opt-in (C8); callers gate its
// use behind a configuration flag, defaulting off, per spec.md Sec 9.
func ApplyWindow(samples []complex128, beta float64) []complex128 {
	w := KaiserWindow(len(samples), beta)
	out := make([]complex128, len(samples))
	for i, s := range samples {
		out[i] = s * complex(w[i], 0)
	}
	return out
}
