// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Issue a bearer token for an active account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "token and user"},
                    "401": {"description": "invalid credentials"}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["system"],
                "summary": "Readiness check including database connectivity",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "healthy"},
                    "503": {"description": "dependency unavailable"}
                }
            }
        },
        "/documents": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "List documents visible to the caller",
                "parameters": [
                    {"name": "workspace", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "produces": ["application/json"],
                "responses": {"200": {"description": "page of documents"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Upload a document as a draft",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true},
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "description", "in": "formData", "type": "string"},
                    {"name": "workspace", "in": "formData", "type": "string", "required": true},
                    {"name": "facets", "in": "formData", "type": "string", "description": "JSON object of facet key/value pairs"}
                ],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "created document"},
                    "400": {"description": "validation failed"},
                    "403": {"description": "permission denied"}
                }
            }
        },
        "/documents/archive": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Archive a batch of stored documents",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "per-item archive outcome"}}
            }
        },
        "/documents/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Fetch one document",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "document"},
                    "404": {"description": "not found"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Update title, description or facets",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "updated document"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Delete a document and its file",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "deleted"}}
            }
        },
        "/documents/{id}/download": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Obtain a presigned download URL",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "download_url"}}
            }
        },
        "/documents/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Change a document's lifecycle status",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "document with new status"},
                    "409": {"description": "concurrent modification"},
                    "422": {"description": "invalid transition"}
                }
            }
        },
        "/documents/{id}/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Read a document's audit trail",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "page of activity records"}}
            }
        },
        "/dashboard/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Aggregate counts by workspace, status and role",
                "produces": ["application/json"],
                "responses": {"200": {"description": "dashboard statistics"}}
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "List user accounts",
                "produces": ["application/json"],
                "responses": {"200": {"description": "page of users"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Create a user account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "created user"},
                    "409": {"description": "duplicate email"}
                }
            }
        },
        "/users/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Deactivate a user account",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "deactivated"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "LisaDocs API",
	Description:      "Multi-workspace document management backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
