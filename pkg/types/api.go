package types

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ModelStatusResponse is returned by GET /model-status/{model}.
type ModelStatusResponse struct {
	// Model identifier.
	// example: blip
	Model string `json:"model" example:"blip"`
	// One of not_loaded, loading, loaded, draining or "failed: <reason>".
	// example: loaded
	Status string `json:"status" example:"loaded"`
	// Approximate download size of the weights.
	// example: ~1.8GB
	DownloadSize string `json:"download_size" example:"~1.8GB"`
	// Where the backend keeps downloaded weights.
	// example: ~/.cache/huggingface/hub/
	CacheLocation string `json:"cache_location" example:"~/.cache/huggingface/hub/"`
	// Last load error when status is failed.
	Error string `json:"error,omitempty"`
}

// DescribeResponse is returned by POST /describe.
type DescribeResponse struct {
	// Generated caption.
	// example: a dog sitting on a couch
	AltText string `json:"alt_text" example:"a dog sitting on a couch"`
	// Model that produced the caption.
	// example: blip
	ModelUsed string `json:"model_used" example:"blip"`
	// True when the caption was served from the caption cache.
	Cached bool `json:"cached,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: Invalid model: foo. Available models: blip, vit_gpt2, git
	Error string `json:"error" example:"Invalid model: foo. Available models: blip, vit_gpt2, git"`
	// Same message under the key older clients read.
	Detail string `json:"detail" example:"Invalid model: foo. Available models: blip, vit_gpt2, git"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ModelState summarizes one catalog entry for /status.
type ModelState struct {
	// example: blip
	ModelID string `json:"model_id" example:"blip"`
	// example: loaded
	State string `json:"state" example:"loaded"`
	// Last load error, if the most recent load failed.
	Error string `json:"error,omitempty"`
	// Backend serving the model.
	// example: huggingface
	Backend string `json:"backend" example:"huggingface"`
	// Time the model finished loading (unix seconds, 0 if not loaded).
	LoadedAt int64 `json:"loaded_at_unix,omitempty" example:"1700000000"`
	// Last time the model served a caption (unix seconds).
	LastUsed int64 `json:"last_used_unix,omitempty" example:"1700000000"`
	// Requests waiting for the model.
	QueueLen int `json:"queue_len" example:"0"`
	// Captions currently in progress.
	Inflight int `json:"inflight" example:"1"`
	// Maximum queued requests before backpressure triggers.
	MaxQueueDepth int `json:"max_queue_depth,omitempty" example:"8"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Models []ModelState `json:"models"`
	// example: blip
	DefaultModel string `json:"default_model" example:"blip"`
	// Overall state: ready once any model is loaded, loading otherwise.
	// example: ready
	State string `json:"state" example:"ready"`
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Successful model loads since start.
	LoadsTotal uint64 `json:"loads_total" example:"3"`
	// Failed model loads since start.
	LoadFailuresTotal uint64 `json:"load_failures_total" example:"0"`
	// Captions produced since start.
	CaptionsTotal uint64 `json:"captions_total" example:"42"`
}

// LoadResponse is returned by POST /models/{model}/load.
type LoadResponse struct {
	// example: op-3
	OpID string `json:"op_id" example:"op-3"`
	// example: git
	Model string `json:"model" example:"git"`
}
