// Package pipeline turns price observations into a fitted regression model.
//
// A Pipeline is an ordered list of stages followed by a trainer:
//
//	SelectLabel(close) → Concatenate(open, high, low, volume) → NormalizeMinMax → cache → trainer
//
// Estimator stages learn from the rows produced by the stages before them and
// rewrite those rows in the same pass; the other stages are applied row by row. The fitted stages and regressor form a Model.
package pipeline

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/dataset"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// DefaultFeatures are the input columns of the price model.
var DefaultFeatures = []dataset.Column{dataset.ColOpen, dataset.ColHigh, dataset.ColLow, dataset.ColVolume}

// DefaultLabel is the column the model predicts.
const DefaultLabel = dataset.ColClose

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLabel sets the label column (default close).
func WithLabel(col dataset.Column) Option {
	return func(p *Pipeline) {
		p.label = col
	}
}

// WithFeatures sets the feature columns (default open, high, low, volume).
func WithFeatures(cols ...dataset.Column) Option {
	return func(p *Pipeline) {
		p.features = append([]dataset.Column(nil), cols...)
	}
}

// WithLogger sets the logger for fit and evaluation progress. The regressor
// built by each Fit logs through it too.
func WithLogger(l log.Logger) Option {
	return func(p *Pipeline) {
		p.base = l
	}
}

// Pipeline is an unfitted stage list plus trainer settings. Every Fit builds
// fresh stages and a fresh regressor, so a Model returned earlier is never
// touched by a later Fit.
type Pipeline struct {
	label    dataset.Column
	features []dataset.Column
	settings TrainerSettings
	base     log.Logger
	logger   log.Logger
}

// New creates a pipeline that trains the regressor described by settings on
// the default label and features.
func New(settings TrainerSettings, opts ...Option) *Pipeline {
	p := &Pipeline{
		label:    DefaultLabel,
		features: DefaultFeatures,
		settings: settings,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.base == nil {
		p.base = log.GetLogger()
	}
	p.logger = p.base.With(log.ComponentKey, "pipeline")
	return p
}

// Fit runs the stages over train, fits a new regressor and returns the model.
// Rows whose label is not finite are skipped by the trainer.
func (p *Pipeline) Fit(train []dataset.Observation) (*Model, error) {
	trainer, err := NewTrainer(p.settings, p.base)
	if err != nil {
		return nil, err
	}
	if len(p.features) == 0 {
		return nil, errors.NewValueError("pipeline.Fit", "no feature columns configured")
	}
	if len(train) == 0 {
		return nil, errors.NewEmptyDatasetError("pipeline.Fit", "train")
	}
	start := time.Now()

	norm := NormalizeMinMax()
	stages := []Stage{
		SelectLabel(p.label),
		Concatenate(p.features...),
		norm,
	}

	rows := make([]Row, len(train))
	for i, obs := range train {
		rows[i].Source = obs
	}
	for _, st := range stages {
		if est, ok := st.(Estimator); ok {
			if err := est.FitApply(rows); err != nil {
				return nil, errors.Wrapf(err, "fit stage %s", st.Name())
			}
			continue
		}
		for i := range rows {
			if err := st.Apply(&rows[i]); err != nil {
				return nil, errors.Wrapf(err, "apply stage %s", st.Name())
			}
		}
	}

	X, y, skipped := cache(rows)
	if skipped > 0 {
		p.logger.Warn("Skipping training rows with non-finite label",
			log.DroppedKey, skipped,
			log.StageKey, "train",
		)
	}
	if X == nil {
		labels := make([]float64, len(rows))
		for i, r := range rows {
			labels[i] = r.Label
		}
		return nil, errors.NewNumericalInstabilityError("pipeline.Fit", labels, 0)
	}

	name := trainerName(trainer)
	n, d := X.Dims()
	p.logger.Info("Training started",
		log.OperationKey, "fit",
		log.TrainerKey, name,
		log.SamplesKey, n,
		log.FeaturesKey, d,
	)
	if err := trainer.Fit(X, y); err != nil {
		return nil, errors.Wrapf(err, "train %s", name)
	}

	fields := []any{
		log.TrainerKey, name,
		log.SamplesKey, n,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if r2, err := trainer.Score(X, y); err != nil {
		p.logger.Debug("Training R² unavailable", err)
	} else {
		fields = append(fields, log.TrainR2Key, r2)
	}

	m := &Model{
		label:     p.label,
		features:  append([]dataset.Column(nil), p.features...),
		stages:    stages,
		norm:      norm,
		regressor: trainer,
		trainer:   name,
	}
	p.logger.Info("Pipeline fitted", fields...)
	return m, nil
}

// Fit is New(settings, opts...).Fit(train).
func Fit(train []dataset.Observation, settings TrainerSettings, opts ...Option) (*Model, error) {
	return New(settings, opts...).Fit(train)
}

// cache materialises the transformed rows with a finite label into a
// feature matrix and label column. X is nil when no row qualifies.
func cache(rows []Row) (X, y *mat.Dense, skipped int) {
	keep := make([]int, 0, len(rows))
	for i, r := range rows {
		if math.IsNaN(r.Label) || math.IsInf(r.Label, 0) {
			skipped++
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) == 0 {
		return nil, nil, skipped
	}

	d := len(rows[keep[0]].Features)
	X = mat.NewDense(len(keep), d, nil)
	y = mat.NewDense(len(keep), 1, nil)
	for i, idx := range keep {
		X.SetRow(i, rows[idx].Features)
		y.Set(i, 0, rows[idx].Label)
	}
	return X, y, skipped
}
