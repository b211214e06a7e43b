// Package docs holds the OpenAPI description of the bot service HTTP API, in the layout
// `swag init -g cmd/bot-service/main.go -o internal/insight/docs` produces.
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
        "/insights": {
            "get": {
                "description": "List recorded chart insight runs, newest first",
                "produces": ["application/json"],
                "tags": ["insights"],
                "summary": "List recent insight requests",
                "parameters": [
                    {"type": "string", "description": "Ticker symbol", "name": "ticker", "in": "query"},
                    {"type": "integer", "description": "Chat ID", "name": "chat_id", "in": "query"},
                    {"type": "integer", "description": "Maximum rows (default 20, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.InsightHistoryResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "dto.InsightHistoryResponse": {
            "type": "object",
            "properties": {
                "chat_id": {"type": "integer"},
                "created_at": {"type": "string"},
                "duration_ms": {"type": "integer"},
                "error_kind": {"type": "string"},
                "id": {"type": "integer"},
                "model": {"type": "string"},
                "request_id": {"type": "string"},
                "requester_id": {"type": "string"},
                "source": {"type": "string"},
                "stage": {"type": "string"},
                "status": {"type": "string"},
                "summary": {"type": "string"},
                "ticker": {"type": "string"},
                "timeframe": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Chart Insight Bot API",
	Description:      "Telegram webhook and request history of the chart insight bot.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
