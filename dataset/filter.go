package dataset

import (
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// DropMissing returns the observations that have no NaN in any of cols.
// Rows are discarded whole; nothing is imputed. With no cols,
// DefaultMissingColumns is used.
func DropMissing(obs []Observation, cols ...Column) []Observation {
	if len(cols) == 0 {
		cols = DefaultMissingColumns
	}

	kept := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.HasMissing(cols...) {
			continue
		}
		kept = append(kept, o)
	}

	if dropped := len(obs) - len(kept); dropped > 0 {
		log.GetLogger().Info("Dropped rows with missing values",
			log.ComponentKey, "dataset",
			log.DroppedKey, dropped,
			log.SamplesKey, len(kept),
		)
	}
	return kept
}
