package types

// ModelFile represents a discoverable EBM model file on disk.
type ModelFile struct {
	// Stable identifier: the filename without its .json extension.
	// example: ebm_desempenho
	ID string `json:"id" example:"ebm_desempenho"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/ebm_desempenho.json
	Path string `json:"path" example:"/home/user/models/ebm_desempenho.json"`
}

// Feature summarizes one term of the loaded EBM.
type Feature struct {
	// Zero-based index of the feature in the model.
	// example: 3
	Index int `json:"index" example:"3"`
	// Feature name as recorded at training time.
	// example: var12
	Name string `json:"name" example:"var12"`
	// Feature type: continuous or categorical.
	// example: continuous
	Type string `json:"type" example:"continuous"`
	// Mean absolute contribution of the term to the model output.
	// example: 0.42
	Importance float64 `json:"importance" example:"0.42"`
}

// LLMModel is one entry of the supported chat-model catalog.
type LLMModel struct {
	// Model identifier accepted by the describe endpoints.
	// example: deepseek-chat
	ID string `json:"id" example:"deepseek-chat"`
	// Backend provider: openai, anthropic or deepseek.
	// example: deepseek
	Provider string `json:"provider" example:"deepseek"`
	// Display name for UIs.
	// example: DeepSeek Chat
	DisplayName string `json:"display_name" example:"DeepSeek Chat"`
	// Rough latency class: fast or slow.
	// example: slow
	Speed string `json:"speed" example:"slow"`
	// Whether the provider API key is configured in the environment.
	// example: true
	Available bool `json:"available" example:"true"`
}
