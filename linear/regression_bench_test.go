package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData returns X uniform in [0,1) and y = 1 + Σ 0.5(j+1)·xⱼ plus small noise.
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64())
		}
	}

	trueWeights := make([]float64, cols)
	for j := 0; j < cols; j++ {
		trueWeights[j] = float64(j+1) * 0.5
	}

	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * trueWeights[j]
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y.Set(i, 0, sum)
	}

	return X, y
}

var benchSizes = []struct {
	name string
	rows int
	cols int
}{
	{"Small_100x4", 100, 4},
	{"Daily_2500x4", 2500, 4},
	{"Medium_10000x10", 10000, 10},
}

func BenchmarkLinearRegressionFit(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := createBenchmarkData(size.rows, size.cols)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				lr := NewLinearRegression(WithOLSLogger(quietLogger()))
				if err := lr.Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSDCARegressorFit(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := createBenchmarkData(size.rows, size.cols)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s := NewSDCARegressor(WithLogger(quietLogger()))
				if err := s.Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSDCARegressorPredict(b *testing.B) {
	X, y := createBenchmarkData(2500, 4)
	s := NewSDCARegressor(WithLogger(quietLogger()))
	if err := s.Fit(X, y); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Predict(X); err != nil {
			b.Fatal(err)
		}
	}
}
