package explainer

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{}

func (tooBusyError) Error() string { return "too busy: describe queue is full" }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	_, ok := err.(tooBusyError)
	return ok
}

// modelNotLoadedError signals that no EBM model file was loaded, so the
// HTTP layer can return 503 Service Unavailable.
type modelNotLoadedError struct{}

func (modelNotLoadedError) Error() string { return "EBM model not loaded" }

// IsModelNotLoaded reports whether err indicates a missing model.
func IsModelNotLoaded(err error) bool {
	_, ok := err.(modelNotLoadedError)
	return ok
}
