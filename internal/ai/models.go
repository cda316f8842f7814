package ai

// FunctionCall is a model request to invoke one of the declared tools.
type FunctionCall struct {
	// Name is the declared function name, e.g. "check_restaurants".
	Name string

	// Args holds the raw arguments as decoded from the model's JSON.
	// Numbers arrive as float64.
	Args map[string]any
}

// Reply is one model response on a chat session. Exactly one of Text or
// FunctionCall is meaningful: when FunctionCall is non-nil the model is waiting
// for a function response and Text should be ignored.
type Reply struct {
	Text         string
	FunctionCall *FunctionCall
}

// HasFunctionCall reports whether the reply asks for a tool invocation.
func (r *Reply) HasFunctionCall() bool {
	return r != nil && r.FunctionCall != nil
}
