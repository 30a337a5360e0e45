package analysis

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X[k]| for bins 0..n/2 of a real signal of any
// length. An empty signal has an empty spectrum.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	coeff := fourier.NewFFT(len(data)).Coefficients(nil, data)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest bin above
// DC for a signal sampled every dt seconds. The mean of the samples is
// removed first.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, errors.New("analysis: dt must be positive")
	}
	if len(data) < 4 {
		return 0, nil
	}

	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	fft := fourier.NewFFT(len(centred))
	coeff := fft.Coefficients(nil, centred)

	best := 1
	for k := 2; k < len(coeff); k++ {
		if cmplx.Abs(coeff[k]) > cmplx.Abs(coeff[best]) {
			best = k
		}
	}
	return fft.Freq(best) / dt, nil
}
