package types

// DescribeGraphRequest is the payload for POST /api/describe_graph.
type DescribeGraphRequest struct {
	// Index of the feature whose graph should be described. Required.
	// example: 3
	FeatureIndex *int `json:"feature_index" example:"3"`
	// Optional task description that replaces the default one in the prompt.
	// example: Focus on the regions with the highest dropout risk.
	CustomPrompt string `json:"custom_prompt,omitempty" example:"Focus on the regions with the highest dropout risk."`
	// Target language for the description. Defaults to the server-configured language.
	// example: Portuguese (Brazil)
	Language string `json:"language,omitempty" example:"Portuguese (Brazil)"`
	// Chat model id from the catalog. Defaults to the server default.
	// example: deepseek-chat
	Model string `json:"model,omitempty" example:"deepseek-chat"`
}

// DescribeGraphResponse is returned by POST /api/describe_graph.
type DescribeGraphResponse struct {
	// Always true on a 2xx response.
	Success bool `json:"success" example:"true"`
	// Natural-language description of the feature graph.
	Description string `json:"description"`
	// Name of the described feature.
	// example: var12
	FeatureName string `json:"feature_name" example:"var12"`
}

// DescribeModelRequest is the payload for POST /api/describe_model.
type DescribeModelRequest struct {
	// Optional task description that replaces the default one in the prompt.
	CustomPrompt string `json:"custom_prompt,omitempty"`
	// Target language for the description.
	// example: Portuguese (Brazil)
	Language string `json:"language,omitempty" example:"Portuguese (Brazil)"`
	// Chat model id from the catalog.
	// example: deepseek-chat
	Model string `json:"model,omitempty" example:"deepseek-chat"`
}

// DescribeModelResponse is returned by POST /api/describe_model.
type DescribeModelResponse struct {
	// Always true on a 2xx response.
	Success bool `json:"success" example:"true"`
	// Natural-language summary of the whole model.
	Description string `json:"description"`
}

// LLMModelsResponse wraps the catalog returned by GET /api/models.
type LLMModelsResponse struct {
	// Supported chat models with availability flags.
	Models []LLMModel `json:"models"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	// healthy when the EBM is loaded, degraded otherwise.
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// Whether the EBM model file was found and parsed.
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
	// Number of features in the loaded model (0 when not loaded).
	// example: 20
	FeaturesCount int `json:"features_count" example:"20"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
