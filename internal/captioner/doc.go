// Package captioner owns the lazily populated registry of captioning models
// and the describe path that turns an uploaded image into alt text.
// It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - types.go: state types (State, Image, Instance) and the Captioner interface.
//   - errors.go: error types and helpers (IsInvalidModel, IsTooBusy, ...).
//   - ensure.go: GetOrLoad and the single-flight model load.
//   - admission.go: per-model queueing and caption admission.
//   - describe.go: Describe, the request entry point.
//   - image.go: upload decoding and normalisation.
//   - status_report.go: ModelStatus/Status reporting.
//   - ops.go: background loads and Unload.
//   - adapter_*.go: backends delegating inference to external services.
//   - backends.go: DefaultBackends, building the backends from config.
//
// Backends:
//
//   - huggingface: Hugging Face Inference API image-to-text models
//     (BLIP, ViT-GPT2, GIT in the default catalog).
//   - ollama: local vision models served by Ollama (e.g. llava).
//   - gemini: Google Gemini multimodal models through the genai SDK.
//
// External packages should use public methods only (New/NewWithConfig,
// ListModels, ModelStatus, Status, Describe, LoadAsync, Unload, Close).
package captioner
