package dataset

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// DefaultTestFraction is the share of rows held out for evaluation.
const DefaultTestFraction = 0.25

// Split is a partition of a table into disjoint train and test subsets.
type Split struct {
	Train []Observation
	Test  []Observation
}

// TrainTestSplit shuffles obs with a PCG source seeded by seed and holds out
// round(len(obs)*testFraction) rows for testing. Every row lands in exactly one
// subset. With two or more rows both subsets get at least one.
func TrainTestSplit(obs []Observation, testFraction float64, seed int64) (Split, error) {
	if !(testFraction > 0 && testFraction < 1) {
		return Split{}, errors.NewValidationError("test_fraction", "must be in (0, 1)", testFraction)
	}
	n := len(obs)
	if n == 0 {
		return Split{}, errors.NewEmptyDatasetError("dataset.TrainTestSplit", "input")
	}

	nTest := int(math.Round(float64(n) * testFraction))
	if n >= 2 {
		nTest = max(1, min(nTest, n-1))
	}

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	perm := r.Perm(n)

	split := Split{
		Train: make([]Observation, 0, n-nTest),
		Test:  make([]Observation, 0, nTest),
	}
	for i, idx := range perm {
		if i < nTest {
			split.Test = append(split.Test, obs[idx])
		} else {
			split.Train = append(split.Train, obs[idx])
		}
	}

	log.GetLogger().Info("Split dataset",
		log.ComponentKey, "dataset",
		log.RandomSeedKey, seed,
		log.TrainSizeKey, len(split.Train),
		log.TestSizeKey, len(split.Test),
	)
	return split, nil
}
