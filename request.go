package aiprovider

// InvokeRequest contains the parameters for one generation turn.
// The document context travels separately from the user prompt so each
// provider can embed it in its own instruction format.
type InvokeRequest struct {
	// Prompt is the user's request.
	Prompt string

	// Context is the current note content the request refers to. May be empty.
	Context string
}
