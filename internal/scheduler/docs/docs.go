// Package docs holds the OpenAPI description of the scheduling service, in the layout
// `swag init -g cmd/scheduling-service/main.go -o internal/scheduler/docs` produces.
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
        "/watchlists": {
            "get": {
                "produces": ["application/json"],
                "tags": ["watchlists"],
                "summary": "Get all watchlists",
                "parameters": [
                    {"type": "integer", "description": "Only watchlists of this chat", "name": "chat_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.WatchlistResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Schedule a recurring chart insight for a chat",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["watchlists"],
                "summary": "Create a new watchlist",
                "parameters": [
                    {"description": "Watchlist to create", "name": "watchlist", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateWatchlistRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.WatchlistResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/watchlists/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["watchlists"],
                "summary": "Get a watchlist by ID",
                "parameters": [
                    {"type": "integer", "description": "Watchlist ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WatchlistResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["watchlists"],
                "summary": "Update an existing watchlist",
                "parameters": [
                    {"type": "integer", "description": "Watchlist ID", "name": "id", "in": "path", "required": true},
                    {"description": "Watchlist changes", "name": "watchlist", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateWatchlistRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WatchlistResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["watchlists"],
                "summary": "Delete a watchlist",
                "parameters": [
                    {"type": "integer", "description": "Watchlist ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateWatchlistRequest": {
            "type": "object",
            "properties": {
                "chat_id": {"type": "integer", "example": 123456789},
                "cron_expression": {"type": "string", "example": "0 21 * * 1-5"},
                "is_active": {"type": "boolean"},
                "ticker": {"type": "string", "example": "AAPL"},
                "timeframe": {"type": "string", "example": "1D"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "dto.UpdateWatchlistRequest": {
            "type": "object",
            "properties": {
                "cron_expression": {"type": "string", "example": "0 9 * * 1"},
                "is_active": {"type": "boolean"},
                "timeframe": {"type": "string", "example": "1W"}
            }
        },
        "dto.WatchlistResponse": {
            "type": "object",
            "properties": {
                "chat_id": {"type": "integer"},
                "created_at": {"type": "string"},
                "cron_expression": {"type": "string"},
                "id": {"type": "integer"},
                "is_active": {"type": "boolean"},
                "last_execution_at": {"type": "string"},
                "next_execution_at": {"type": "string"},
                "ticker": {"type": "string"},
                "timeframe": {"type": "string"},
                "updated_at": {"type": "string"}
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
	Title:            "Chart Insight Scheduler API",
	Description:      "Manages watchlists that deliver scheduled chart insights to Telegram chats.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
