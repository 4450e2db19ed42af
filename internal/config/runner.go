package config

// DefaultApplicationName is sent to the backend when SHEETS_APP_NAME is unset
const DefaultApplicationName = "sheets_bridge"

// Runner sizing defaults
const (
	DefaultWorkers       = 4
	DefaultQueueCapacity = 64
	DefaultLoopCapacity  = 64
)

// RunnerConfig defines how operations are scheduled off the caller's context
type RunnerConfig struct {
	// Workers is the number of goroutines executing operation bodies
	Workers int
	// QueueCapacity bounds the submit buffer; submits past it are handed to a goroutine instead of blocking
	QueueCapacity int
}

// DefaultRunnerConfig provides sensible defaults
var DefaultRunnerConfig = RunnerConfig{
	Workers:       DefaultWorkers,
	QueueCapacity: DefaultQueueCapacity,
}

// Normalize fills zero or negative fields with defaults
func (c RunnerConfig) Normalize() RunnerConfig {
	if c.Workers < 1 {
		c.Workers = DefaultWorkers
	}
	if c.QueueCapacity < 1 {
		c.QueueCapacity = DefaultQueueCapacity
	}
	return c
}
