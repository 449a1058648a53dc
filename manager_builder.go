package imageflow

import (
	"log/slog"
)

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLogger sets a structured logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithStorage sets a storage backend for persisting generated images.
func WithStorage(storage Storage) ManagerOption {
	return func(m *Manager) {
		m.storage = storage
	}
}

// WithDefaultModel sets the default model used when config.Model is empty.
func WithDefaultModel(model Model) ManagerOption {
	return func(m *Manager) {
		m.defaultModel = model
	}
}

// WithProvider registers an additional provider's models.
func WithProvider(gen ImageGenerator) ManagerOption {
	return func(m *Manager) {
		m.AddProvider(gen)
	}
}

// NewManager creates a Manager with the given providers and options.
//
// Example:
//
//	gen, err := openai.NewWithAPIKey(apiKey)
//	if err != nil {
//	    return err
//	}
//	manager := imageflow.NewManager(gen)
//
// With options:
//
//	manager := imageflow.NewManager(gen,
//	    imageflow.WithLogger(slog.Default()),
//	    imageflow.WithDefaultModel(imageflow.ModelDallE3),
//	)
func NewManager(defaultProvider ImageGenerator, opts ...ManagerOption) *Manager {
	m := New()
	m.AddProvider(defaultProvider)

	for _, opt := range opts {
		opt(m)
	}

	return m
}
