package workload

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Arrival process names accepted in ArrivalSpec.Process.
const (
	ProcessPoisson = "poisson"
	ProcessGamma   = "gamma"
)

// validProcesses is the set of recognized arrival process names.
// The empty string defaults to Poisson.
var validProcesses = map[string]bool{"": true, ProcessPoisson: true, ProcessGamma: true}

// IsValidProcess reports whether name is a recognized arrival process.
func IsValidProcess(name string) bool {
	return validProcesses[name]
}

// ArrivalSpec configures the inter-arrival time process of a traffic source.
type ArrivalSpec struct {
	Process string   `yaml:"process,omitempty"`
	CV      *float64 `yaml:"cv,omitempty"` // coefficient of variation, gamma only
}

// ArrivalSampler generates inter-arrival times for one traffic source.
type ArrivalSampler interface {
	// SampleIAT returns the next inter-arrival time in ticks.
	// Always returns a positive value (>= 1).
	SampleIAT(rng *rand.Rand) int64
}

// PoissonSampler draws exponentially distributed gaps, so arrivals form a
// Poisson process with the configured mean interval.
type PoissonSampler struct {
	meanTicks float64
}

// NewPoissonSampler returns a sampler whose gaps average meanTicks.
func NewPoissonSampler(meanTicks float64) *PoissonSampler {
	return &PoissonSampler{meanTicks: meanTicks}
}

func (s *PoissonSampler) SampleIAT(rng *rand.Rand) int64 {
	iat := int64(rng.ExpFloat64() * s.meanTicks)
	if iat < 1 {
		return 1
	}
	return iat
}

// GammaSampler draws Gamma-distributed gaps with the configured mean.
// CV > 1 gives bursty arrivals, CV < 1 gives smoother than Poisson.
type GammaSampler struct {
	shape float64 // 1/CV²
	scale float64 // mean·CV²
}

func (s *GammaSampler) SampleIAT(rng *rand.Rand) int64 {
	iat := int64(gammaRand(rng, s.shape, s.scale))
	if iat < 1 {
		return 1
	}
	return iat
}

// gammaRand samples Gamma(shape, scale) with Marsaglia-Tsang. Shapes below
// one are boosted by one and corrected with U^(1/shape).
func gammaRand(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		u := rng.Float64()
		return gammaRand(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// NewArrivalSampler builds the sampler described by spec for a source whose
// gaps average meanTicks. Unknown processes fall back to Poisson; callers
// validate names with IsValidProcess first.
func NewArrivalSampler(spec ArrivalSpec, meanTicks float64) ArrivalSampler {
	if meanTicks < 1 {
		meanTicks = 1
	}
	switch spec.Process {
	case ProcessGamma:
		cv := 1.0
		if spec.CV != nil && *spec.CV > 0 {
			cv = *spec.CV
		}
		shape := 1.0 / (cv * cv)
		if shape < 0.01 {
			logrus.Warnf("gamma shape %.4f (CV=%.1f) is too small; falling back to poisson", shape, cv)
			return NewPoissonSampler(meanTicks)
		}
		return &GammaSampler{shape: shape, scale: meanTicks * cv * cv}
	default:
		return NewPoissonSampler(meanTicks)
	}
}
