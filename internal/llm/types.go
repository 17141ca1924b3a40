package llm

// Message represents a single message in a chat conversation.
// This type is used by the generator, grader, and critic packages.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output. Zero means the
	// server default.
	Temperature float32

	// JSONObject asks the model to emit a JSON object response. Models that
	// ignore the hint may still wrap the object in prose; use ExtractJSON on
	// the reply in that case.
	JSONObject bool
}
