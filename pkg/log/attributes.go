// Standard attribute keys for forecast logging. Keys are hierarchical
// ("model.name", "data.samples") so log records can be filtered by prefix.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator, e.g. "SDCARegressor", "MinMaxScaler".
	ModelNameKey = "model.name"

	// OperationKey is the operation being run: "load", "fit", "predict", "evaluate".
	OperationKey = "ml.operation"

	// ComponentKey names the package doing the work: "dataset", "pipeline", "report".
	ComponentKey = "ml.component"

	// StageKey names a pipeline stage: "select_label", "concatenate", "normalize_minmax".
	StageKey = "ml.stage"

	// RunIDKey identifies one process run in the history database.
	RunIDKey = "run.id"
)

// Data shape.
const (
	// SamplesKey is the number of rows processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// DroppedKey is the number of rows removed by a filter.
	DroppedKey = "data.dropped"

	// TrainSizeKey and TestSizeKey are the subset sizes after splitting.
	TrainSizeKey = "data.train_size"
	TestSizeKey  = "data.test_size"

	// PathKey is a file path read or written.
	PathKey = "data.path"
)

// Performance and training progress.
const (
	DurationMsKey = "perf.duration_ms"

	IterationKey = "training.iteration"

	// DualityGapKey is the SDCA duality gap at the last epoch.
	DualityGapKey = "training.duality_gap"

	// ConvergedKey reports whether the solver met its tolerance.
	ConvergedKey = "training.converged"

	// ConditionKey is the condition number of the OLS Gram matrix.
	ConditionKey = "training.condition"

	// TrainR2Key is R² of the fitted regressor on its own training rows.
	TrainR2Key = "training.r2"
)

// Metrics.
const (
	MAEKey  = "metrics.mae"
	MSEKey  = "metrics.mse"
	RMSEKey = "metrics.rmse"
	R2Key   = "metrics.r2"
)

// Configuration.
const (
	RandomSeedKey = "config.random_seed"

	// TrainerKey is the configured trainer kind ("sdca" or "ols").
	TrainerKey = "config.trainer"

	RegularizationKey = "hyperparams.l2"
)

// Forecast samples.
const (
	SampleIndexKey = "forecast.sample"
	PredictedKey   = "forecast.predicted"
	ActualKey      = "forecast.actual"
)

// Error context.
const (
	ErrorTypeKey = "error.type"
)
