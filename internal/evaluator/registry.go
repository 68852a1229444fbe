package evaluator

import (
	"sort"
	"sync"

	"github.com/mindwell-ai/convo-eval/internal/models"
	"github.com/rs/zerolog"
)

// Factory constructs an evaluator instance. Construction failures (missing
// credentials, bad prompt template) propagate unchanged to the caller.
type Factory func(opts models.Options) (Evaluator, error)

// Registration ties a metric name to its factory and the metadata a metric
// picker needs.
type Registration struct {
	MetricName string
	New        Factory
	UILabel    string
	Category   string
	Metadata   map[string]any
}

// Registry is the process-wide mapping from metric name to evaluator. It is
// populated by explicit wiring before traffic starts and read-only after;
// the lock keeps late registration (config reload) safe regardless.
//
// Re-registering an existing name is last-write-wins and logged at warn
// level, so a deliberate override in wiring is deterministic and visible.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
	logger  *zerolog.Logger
}

func NewRegistry(logger *zerolog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]Registration),
		logger:  logger,
	}
}

// Register adds or replaces the registration for reg.MetricName.
func (r *Registry) Register(reg Registration) error {
	if reg.MetricName == "" {
		return &models.ConfigurationError{Msg: "registration has empty metric name"}
	}
	if reg.New == nil {
		return &models.ConfigurationError{Msg: "registration for " + reg.MetricName + " has nil factory"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[reg.MetricName]; exists {
		r.logger.Warn().
			Str("metric", reg.MetricName).
			Msg("metric already registered, replacing previous registration")
	}
	r.entries[reg.MetricName] = reg
	return nil
}

// Lookup returns the registration for a metric name.
func (r *Registry) Lookup(name string) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[name]
	if !ok {
		return Registration{}, &models.UnknownMetricError{Metric: name}
	}
	return reg, nil
}

// Create instantiates the evaluator registered under name. A factory that
// builds an instance declaring a different metric name is a wiring bug and
// fails as such.
func (r *Registry) Create(name string, opts models.Options) (Evaluator, error) {
	reg, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	ev, err := reg.New(opts)
	if err != nil {
		return nil, err
	}
	if ev.MetricName() != name {
		return nil, &models.ConfigurationError{
			Msg: "factory for " + name + " built an evaluator declaring metric " + ev.MetricName(),
		}
	}
	return ev, nil
}

// Has reports whether a metric name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// MetricNames enumerates every registered metric, sorted. Callers use it to
// validate requested metric lists before doing any expensive work.
func (r *Registry) MetricNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UILabels maps each registered metric to its human-readable label.
func (r *Registry) UILabels() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make(map[string]string, len(r.entries))
	for name, reg := range r.entries {
		labels[name] = reg.UILabel
	}
	return labels
}

// MetricsByCategory groups registered metric names by category tag, each
// group sorted.
func (r *Registry) MetricsByCategory() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byCategory := make(map[string][]string)
	for name, reg := range r.entries {
		byCategory[reg.Category] = append(byCategory[reg.Category], name)
	}
	for _, names := range byCategory {
		sort.Strings(names)
	}
	return byCategory
}

// Metadata returns a copy of the metadata blob for a registered metric.
func (r *Registry) Metadata(name string) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[name]
	if !ok {
		return nil, &models.UnknownMetricError{Metric: name}
	}
	meta := make(map[string]any, len(reg.Metadata))
	for k, v := range reg.Metadata {
		meta[k] = v
	}
	return meta, nil
}
