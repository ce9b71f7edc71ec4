// Package docs holds the OpenAPI document for the HTTP API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/generate-music": {
            "post": {
                "description": "Runs brief, prompt and composition, stores the audio file and records the run",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["music"],
                "summary": "Generate music from a sensor snapshot",
                "parameters": [
                    {
                        "description": "Sensor snapshot plus optional music_length_ms and model_id",
                        "name": "snapshot",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.SensorSnapshot"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GenerationResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/sensor/generate-prompt": {
            "post": {
                "description": "Runs the brief and prompt steps only; nothing is composed or stored",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["music"],
                "summary": "Generate a music prompt from a sensor snapshot",
                "parameters": [
                    {
                        "description": "Sensor snapshot",
                        "name": "snapshot",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.SensorSnapshot"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PromptResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/music/compose": {
            "post": {
                "description": "Returns the composed audio as an mp3 attachment without storing it",
                "consumes": ["application/json"],
                "produces": ["audio/mpeg"],
                "tags": ["music"],
                "summary": "Compose music from a prompt",
                "parameters": [
                    {
                        "description": "Prompt and optional duration and model",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.ComposeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/music/history": {
            "get": {
                "description": "Most recent generation records first",
                "produces": ["application/json"],
                "tags": ["music"],
                "summary": "List generation history",
                "parameters": [
                    {"type": "string", "description": "Only records of this zone", "name": "zone", "in": "query"},
                    {"type": "integer", "description": "Maximum records (default 100, max 1000)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HistoryResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/resources.healthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.APIError": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "type": {"type": "string"},
                "error": {"type": "string"},
                "code": {"type": "integer"},
                "request_id": {"type": "string"},
                "details": {}
            }
        },
        "models.SensorSnapshot": {
            "type": "object",
            "required": ["timestamp", "zone"],
            "properties": {
                "timestamp": {"type": "string"},
                "zone": {"type": "string"},
                "temperature_c": {"type": "number"},
                "humidity_pct": {"type": "number"},
                "co2_ppm": {"type": "number"},
                "voc_index": {"type": "number"},
                "occupancy": {"type": "number"},
                "noise_dba": {"type": "number"},
                "productivity_score": {"type": "number"},
                "trend_10min_co2_ppm_delta": {"type": "number"},
                "trend_10min_noise_dba_delta": {"type": "number"},
                "trend_10min_productivity_delta": {"type": "number"}
            }
        },
        "models.MusicBrief": {
            "type": "object",
            "properties": {
                "mood": {"type": "string", "enum": ["calm", "focused", "energizing", "soothing", "alert", "uplifting", "neutral"]},
                "energy": {"type": "number"},
                "tension": {"type": "number"},
                "bpm": {"type": "array", "items": {"type": "number"}},
                "duration_sec": {"type": "number"},
                "loopable": {"type": "boolean"},
                "key_suggestion": {"type": "string"},
                "instrument_focus": {"type": "array", "items": {"type": "string"}},
                "texture_notes": {"type": "string"},
                "rationale": {"type": "string"}
            }
        },
        "models.ComposeRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {
                "prompt": {"type": "string"},
                "music_length_ms": {"type": "integer"},
                "model_id": {"type": "string"}
            }
        },
        "models.GenerationResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "sensorSnapshot": {"$ref": "#/definitions/models.SensorSnapshot"},
                "musicBrief": {"$ref": "#/definitions/models.MusicBrief"},
                "prompt": {"type": "string"},
                "audioPath": {"type": "string"},
                "filename": {"type": "string"},
                "music_length_ms": {"type": "integer"},
                "model_id": {"type": "string"},
                "generation_timestamp": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.PromptResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "sensorSnapshot": {"$ref": "#/definitions/models.SensorSnapshot"},
                "musicBrief": {"$ref": "#/definitions/models.MusicBrief"},
                "prompt": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.GenerationRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "timestamp": {"type": "string"},
                "zone": {"type": "string"},
                "music_brief": {"type": "string"},
                "music_prompt": {"type": "string"},
                "audio_path": {"type": "string"},
                "audio_filename": {"type": "string"},
                "music_length_ms": {"type": "integer"},
                "model_id": {"type": "string"},
                "generation_timestamp": {"type": "string"}
            }
        },
        "models.HistoryResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "records": {"type": "array", "items": {"$ref": "#/definitions/models.GenerationRecord"}},
                "count": {"type": "integer"}
            }
        },
        "resources.healthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "version": {"type": "string"},
                "records": {"type": "string", "enum": ["ok", "unconfigured", "error"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "SensorScore API",
	Description:      "Turns building sensor snapshots into ambient music.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
