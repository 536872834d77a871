package types

// Model is a captioning model listed in the catalog.
type Model struct {
	// Stable identifier for the model.
	// example: blip
	ID string `json:"id" yaml:"id" toml:"id" example:"blip"`
	// Human-friendly name.
	// example: BLIP
	Name string `json:"name" yaml:"name" toml:"name" example:"BLIP"`
	// Short description shown to users.
	// example: Salesforce BLIP base model (Recommended)
	Description string `json:"description" yaml:"description" toml:"description" example:"Salesforce BLIP base model (Recommended)"`
	// Inference backend serving the model (huggingface, ollama, gemini).
	// example: huggingface
	Backend string `json:"backend" yaml:"backend" toml:"backend" example:"huggingface"`
	// Backend-specific model reference (repository, tag or model name).
	// example: Salesforce/blip-image-captioning-base
	Repo string `json:"repo" yaml:"repo" toml:"repo" example:"Salesforce/blip-image-captioning-base"`
	// Approximate download size of the weights.
	// example: ~1.8GB
	DownloadSize string `json:"download_size,omitempty" yaml:"download_size" toml:"download_size" example:"~1.8GB"`
	// Where the backend keeps downloaded weights.
	// example: ~/.cache/huggingface/hub/
	CacheLocation string `json:"cache_location,omitempty" yaml:"cache_location" toml:"cache_location" example:"~/.cache/huggingface/hub/"`
	// Whether the model is the recommended choice.
	Recommended bool `json:"recommended,omitempty" yaml:"recommended" toml:"recommended"`
}
