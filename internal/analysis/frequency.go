package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Point is the response at one frequency in Hz. Phase is in degrees.
type Point struct {
	Freq  float64
	Gain  complex128
	DB    float64
	Phase float64
}

// LogFrequencies returns n frequencies spaced evenly in log between lo and hi.
func LogFrequencies(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.LogSpan(make([]float64, n), lo, hi)
}

// FrequencyResponse evaluates X(jω)/U(jω) for the given input and state.
//
// (jωI - A) x = b is solved as the real system
//
//	[ -A  -ωI ] [xr]   [b]
//	[ ωI  -A  ] [xi] = [0]
func (ss *StateSpace) FrequencyResponse(input, output int, freqs []float64) ([]Point, error) {
	n, _ := ss.A.Dims()
	if ss.B == nil {
		return nil, fmt.Errorf("model has no inputs")
	}
	if _, m := ss.B.Dims(); input < 0 || input >= m {
		return nil, fmt.Errorf("input index %d out of range", input)
	}
	if output < 0 || output >= n {
		return nil, fmt.Errorf("output index %d out of range", output)
	}

	rhs := mat.NewVecDense(2*n, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, ss.B.At(i, input))
	}

	out := make([]Point, 0, len(freqs))
	for _, f := range freqs {
		w := 2 * math.Pi * f
		m := mat.NewDense(2*n, 2*n, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				a := ss.A.At(i, j)
				m.Set(i, j, -a)
				m.Set(n+i, n+j, -a)
			}
			m.Set(i, n+i, -w)
			m.Set(n+i, i, w)
		}

		var x mat.VecDense
		if err := x.SolveVec(m, rhs); err != nil {
			return nil, fmt.Errorf("%.4g Hz: %w", f, err)
		}
		h := complex(x.AtVec(output), x.AtVec(n+output))
		out = append(out, Point{
			Freq:  f,
			Gain:  h,
			DB:    20 * math.Log10(cmplx.Abs(h)),
			Phase: cmplx.Phase(h) * 180 / math.Pi,
		})
	}
	return out, nil
}

// Magnitudes extracts the dB gains for plotting.
func Magnitudes(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.DB
	}
	return out
}
