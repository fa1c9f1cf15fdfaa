package domain

// Content is a site section payload. Its shape is opaque to the backend.
type Content map[string]any
