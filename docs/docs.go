// Package docs holds the OpenAPI document for the altd HTTP API.
// It is kept in the layout swag init generates; regenerate with
// `swag init -g cmd/altd/docs.go -o docs` after changing annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "altd maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List available captioning models",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}
                }
            }
        },
        "/model-status/{model}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Load status of one model",
                "parameters": [
                    {"type": "string", "description": "Model id", "name": "model", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelStatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models/{model}/load": {
            "post": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Start loading a model in the background",
                "parameters": [
                    {"type": "string", "description": "Model id", "name": "model", "in": "path", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/types.LoadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models/{model}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Drain and unload a loaded model",
                "parameters": [
                    {"type": "string", "description": "Model id", "name": "model", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/describe": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["caption"],
                "summary": "Generate alt text for an uploaded image",
                "parameters": [
                    {"type": "file", "description": "Image to describe", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Model id (defaults to blip)", "name": "model", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DescribeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Registry status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["status"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/readyz": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["status"],
                "summary": "Readiness probe",
                "responses": {"200": {"description": "ready"}, "503": {"description": "loading"}}
            }
        }
    },
    "definitions": {
        "types.Model": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "blip"},
                "name": {"type": "string", "example": "BLIP"},
                "description": {"type": "string", "example": "Salesforce BLIP base model (Recommended)"},
                "backend": {"type": "string", "example": "huggingface"},
                "repo": {"type": "string", "example": "Salesforce/blip-image-captioning-base"},
                "download_size": {"type": "string", "example": "~1.8GB"},
                "cache_location": {"type": "string", "example": "~/.cache/huggingface/hub/"},
                "recommended": {"type": "boolean"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        },
        "types.ModelStatusResponse": {
            "type": "object",
            "properties": {
                "model": {"type": "string", "example": "blip"},
                "status": {"type": "string", "example": "loaded"},
                "download_size": {"type": "string", "example": "~1.8GB"},
                "cache_location": {"type": "string", "example": "~/.cache/huggingface/hub/"},
                "error": {"type": "string"}
            }
        },
        "types.DescribeResponse": {
            "type": "object",
            "properties": {
                "alt_text": {"type": "string", "example": "a dog sitting on a couch"},
                "model_used": {"type": "string", "example": "blip"},
                "cached": {"type": "boolean"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Invalid model: foo. Available models: blip, vit_gpt2, git"},
                "detail": {"type": "string", "example": "Invalid model: foo. Available models: blip, vit_gpt2, git"},
                "code": {"type": "integer", "example": 400}
            }
        },
        "types.LoadResponse": {
            "type": "object",
            "properties": {
                "op_id": {"type": "string", "example": "op-3"},
                "model": {"type": "string", "example": "git"}
            }
        },
        "types.ModelState": {
            "type": "object",
            "properties": {
                "model_id": {"type": "string", "example": "blip"},
                "state": {"type": "string", "example": "loaded"},
                "error": {"type": "string"},
                "backend": {"type": "string", "example": "huggingface"},
                "loaded_at_unix": {"type": "integer", "example": 1700000000},
                "last_used_unix": {"type": "integer", "example": 1700000000},
                "queue_len": {"type": "integer", "example": 0},
                "inflight": {"type": "integer", "example": 1},
                "max_queue_depth": {"type": "integer", "example": 8}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.ModelState"}},
                "default_model": {"type": "string", "example": "blip"},
                "state": {"type": "string", "example": "ready"},
                "uptime_seconds": {"type": "integer", "example": 3600},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "loads_total": {"type": "integer", "example": 3},
                "load_failures_total": {"type": "integer", "example": 0},
                "captions_total": {"type": "integer", "example": 42}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "altd API",
	Description:      "HTTP API that generates alt text for uploaded images.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
