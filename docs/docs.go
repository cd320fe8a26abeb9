// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Show the status of server",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new account",
                "parameters": [{"in": "body", "name": "account", "required": true, "schema": {"$ref": "#/definitions/model.RegisterRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AuthResponse"}},
                    "400": {"description": "Validation failed or email already registered", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AuthResponse"}},
                    "401": {"description": "invalid credentials or account locked", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Rotate a refresh token",
                "parameters": [{"in": "body", "name": "token", "required": true, "schema": {"$ref": "#/definitions/model.RefreshRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["auth"],
                "summary": "Revoke a refresh token",
                "parameters": [{"in": "body", "name": "token", "required": true, "schema": {"$ref": "#/definitions/model.RefreshRequest"}}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/logout-all": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Revoke every refresh token of the caller",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current account",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AccountSummary"}}}
            }
        },
        "/api/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List active categories",
                "parameters": [{"type": "string", "description": "income or expense", "name": "type", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Category"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [{"in": "body", "name": "category", "required": true, "schema": {"$ref": "#/definitions/model.CreateCategoryRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Category"}}}
            }
        },
        "/api/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Transaction"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Record a transaction",
                "parameters": [{"in": "body", "name": "transaction", "required": true, "schema": {"$ref": "#/definitions/model.TransactionRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Transaction"}}}
            }
        },
        "/api/transactions/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Monthly summary",
                "parameters": [
                    {"type": "integer", "name": "month", "in": "query"},
                    {"type": "integer", "name": "year", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Summary"}}}
            }
        }
    },
    "definitions": {
        "common.AppError": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "message": {"type": "string"}}
        },
        "model.AccountSummary": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "email": {"type": "string"}}
        },
        "model.AuthResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"},
                "expiresAt": {"type": "string"},
                "account": {"$ref": "#/definitions/model.AccountSummary"}
            }
        },
        "model.RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password", "confirmPassword"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "maxLength": 255},
                "password": {"type": "string", "minLength": 6},
                "confirmPassword": {"type": "string"}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string", "minLength": 6}}
        },
        "model.RefreshRequest": {
            "type": "object",
            "required": ["refreshToken"],
            "properties": {"refreshToken": {"type": "string"}}
        },
        "model.Category": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["income", "expense"]},
                "color": {"type": "string"},
                "icon": {"type": "string"},
                "active": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        },
        "model.CreateCategoryRequest": {
            "type": "object",
            "required": ["name", "type"],
            "properties": {
                "name": {"type": "string", "maxLength": 50},
                "type": {"type": "string", "enum": ["income", "expense"]},
                "color": {"type": "string"},
                "icon": {"type": "string"}
            }
        },
        "model.Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "description": {"type": "string"},
                "amount": {"type": "string"},
                "type": {"type": "string", "enum": ["income", "expense"]},
                "date": {"type": "string"},
                "categoryId": {"type": "integer"},
                "categoryName": {"type": "string"},
                "notes": {"type": "string"},
                "recurring": {"type": "boolean"},
                "recurrence": {"type": "string", "enum": ["daily", "weekly", "monthly", "yearly"]}
            }
        },
        "model.TransactionRequest": {
            "type": "object",
            "required": ["description", "amount", "type", "date", "categoryId"],
            "properties": {
                "description": {"type": "string", "maxLength": 255},
                "amount": {"type": "string"},
                "type": {"type": "string", "enum": ["income", "expense"]},
                "date": {"type": "string"},
                "categoryId": {"type": "integer"},
                "notes": {"type": "string"},
                "recurring": {"type": "boolean"},
                "recurrence": {"type": "string", "enum": ["daily", "weekly", "monthly", "yearly"]}
            }
        },
        "model.Summary": {
            "type": "object",
            "properties": {
                "month": {"type": "integer"},
                "year": {"type": "integer"},
                "totalIncome": {"type": "string"},
                "totalExpense": {"type": "string"},
                "balance": {"type": "string"},
                "transactionCount": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Go-Finance API",
	Description:      "Personal finance tracker: accounts, categories, income and expense transactions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
