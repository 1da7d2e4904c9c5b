package workload

import (
	"math"
	"math/rand"
	"testing"
)

func TestPoissonSampler_MeanIAT_MatchesInterval(t *testing.T) {
	// GIVEN a Poisson sampler with a 0.1 s mean gap (100000 ticks)
	rng := rand.New(rand.NewSource(42))
	sampler := NewArrivalSampler(ArrivalSpec{Process: ProcessPoisson}, 100000)

	// WHEN 10000 IATs are sampled
	n := 10000
	sum := int64(0)
	for i := 0; i < n; i++ {
		sum += sampler.SampleIAT(rng)
	}
	meanIAT := float64(sum) / float64(n)

	// THEN mean IAT ≈ 100000 ticks (within 5%)
	expected := 100000.0
	if math.Abs(meanIAT-expected)/expected > 0.05 {
		t.Errorf("mean IAT = %.0f ticks, want ≈ %.0f (within 5%%)", meanIAT, expected)
	}
}

func TestNewArrivalSampler_EmptyProcess_DefaultsToPoisson(t *testing.T) {
	sampler := NewArrivalSampler(ArrivalSpec{}, 2e6)
	if _, ok := sampler.(*PoissonSampler); !ok {
		t.Fatalf("expected *PoissonSampler, got %T", sampler)
	}
}

func TestGammaSampler_HighCV_ProducesBurstierArrivals(t *testing.T) {
	// GIVEN a Gamma sampler with CV=3.5 and a Poisson sampler with the same mean
	rng1 := rand.New(rand.NewSource(42))
	rng2 := rand.New(rand.NewSource(42))
	cv := 3.5
	gamma := NewArrivalSampler(ArrivalSpec{Process: ProcessGamma, CV: &cv}, 100000)
	poisson := NewArrivalSampler(ArrivalSpec{Process: ProcessPoisson}, 100000)

	// WHEN 10000 IATs sampled from each
	n := 10000
	gammaIATs := make([]float64, n)
	poissonIATs := make([]float64, n)
	for i := 0; i < n; i++ {
		gammaIATs[i] = float64(gamma.SampleIAT(rng1))
		poissonIATs[i] = float64(poisson.SampleIAT(rng2))
	}

	// THEN Gamma CV > 2.0 and Poisson CV ≈ 1.0
	gammaCV := coefficientOfVariation(gammaIATs)
	poissonCV := coefficientOfVariation(poissonIATs)
	if gammaCV < 2.0 {
		t.Errorf("gamma CV = %.2f, want > 2.0", gammaCV)
	}
	if poissonCV < 0.8 || poissonCV > 1.2 {
		t.Errorf("poisson CV = %.2f, want ≈ 1.0", poissonCV)
	}
}

func TestGammaSampler_MeanAndVariance_MatchTheoretical(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cv := 2.0
	sampler := NewArrivalSampler(ArrivalSpec{Process: ProcessGamma, CV: &cv}, 100000)

	n := 50000
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = float64(sampler.SampleIAT(rng))
	}
	// mean = 100000 ticks, variance = mean² * CV²
	mean, variance := meanAndVariance(vals)
	expectedMean := 100000.0
	expectedVar := expectedMean * expectedMean * cv * cv
	if math.Abs(mean-expectedMean)/expectedMean > 0.05 {
		t.Errorf("gamma mean = %.0f, want ≈ %.0f (within 5%%)", mean, expectedMean)
	}
	if math.Abs(variance-expectedVar)/expectedVar > 0.15 {
		t.Errorf("gamma variance = %.0f, want ≈ %.0f (within 15%%)", variance, expectedVar)
	}
}

func TestPoissonSampler_AllPositive(t *testing.T) {
	// A one-tick mean produces many sub-tick draws; all must floor to 1.
	rng := rand.New(rand.NewSource(42))
	sampler := NewArrivalSampler(ArrivalSpec{Process: ProcessPoisson}, 1)
	for i := 0; i < 10000; i++ {
		if iat := sampler.SampleIAT(rng); iat <= 0 {
			t.Fatalf("IAT must be positive, got %d at iteration %d", iat, i)
		}
	}
}

func TestIsValidProcess(t *testing.T) {
	for name, want := range map[string]bool{"": true, "poisson": true, "gamma": true, "weibull": false, "uniform": false} {
		if got := IsValidProcess(name); got != want {
			t.Errorf("IsValidProcess(%q) = %v, want %v", name, got, want)
		}
	}
}

// coefficientOfVariation computes std_dev / mean.
func coefficientOfVariation(vals []float64) float64 {
	mean, variance := meanAndVariance(vals)
	return math.Sqrt(variance) / mean
}

func meanAndVariance(vals []float64) (float64, float64) {
	n := float64(len(vals))
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / n
	sq := 0.0
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	return mean, sq / n
}
