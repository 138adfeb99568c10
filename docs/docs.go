// Package docs registers the Swagger 2.0 document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List documents",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.DocumentListResult"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Upload a PDF",
                "parameters": [
                    {"type": "string", "description": "Document title", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "Uploader", "name": "uploadedBy", "in": "formData"},
                    {"type": "file", "description": "PDF file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.uploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/documents/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get a document",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Document"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/shares": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shares"],
                "summary": "List shares",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ShareListResult"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shares"],
                "summary": "Create a share",
                "parameters": [
                    {"description": "Share request", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createShareRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.createShareResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/shares/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["access"],
                "summary": "Resolve a share entry",
                "parameters": [
                    {"type": "string", "description": "Share token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.EntryDecision"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/shares/{token}/verify": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["access"],
                "summary": "Verify a browse share",
                "parameters": [
                    {"type": "string", "description": "Share token", "name": "token", "in": "path", "required": true},
                    {"description": "Verification code and optional recipient details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.verifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/shares/{token}/meta": {
            "get": {
                "produces": ["application/json"],
                "tags": ["access"],
                "summary": "Share metadata",
                "parameters": [
                    {"type": "string", "description": "Share token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ShareMeta"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/shares/{token}/file": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["access"],
                "summary": "Download the shared PDF",
                "parameters": [
                    {"type": "string", "description": "Share token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "handler.uploadResponse": {
            "type": "object",
            "properties": {
                "documentId": {"type": "string"},
                "filename": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "handler.createShareRequest": {
            "type": "object",
            "properties": {
                "allowedPages": {"type": "integer"},
                "documentId": {"type": "string"},
                "mode": {"type": "string", "enum": ["preview", "browse"]},
                "recipientEmail": {"type": "string"},
                "recipientName": {"type": "string"},
                "watermarkText": {"type": "string"}
            }
        },
        "handler.createShareResponse": {
            "type": "object",
            "properties": {
                "mode": {"type": "string"},
                "token": {"type": "string"},
                "url": {"type": "string"},
                "verificationCode": {"type": "string"}
            }
        },
        "handler.verifyRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "model.Document": {
            "type": "object",
            "properties": {
                "contentType": {"type": "string"},
                "createdAt": {"type": "string"},
                "filename": {"type": "string"},
                "id": {"type": "string"},
                "size": {"type": "integer"},
                "storageKey": {"type": "string"},
                "title": {"type": "string"},
                "uploadedBy": {"type": "string"}
            }
        },
        "service.AdminShare": {
            "type": "object",
            "properties": {
                "allowedPages": {"type": "integer"},
                "createdAt": {"type": "string"},
                "documentId": {"type": "string"},
                "id": {"type": "string"},
                "mode": {"type": "string"},
                "recipientEmail": {"type": "string"},
                "recipientName": {"type": "string"},
                "token": {"type": "string"},
                "verificationCode": {"type": "string"},
                "verified": {"type": "boolean"},
                "watermarkText": {"type": "string"}
            }
        },
        "service.DocumentListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}},
                "total": {"type": "integer"}
            }
        },
        "service.ShareListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/service.AdminShare"}},
                "total": {"type": "integer"}
            }
        },
        "service.EntryDecision": {
            "type": "object",
            "properties": {
                "allowedPages": {"type": "integer"},
                "mode": {"type": "string"},
                "recipientEmail": {"type": "string"},
                "recipientName": {"type": "string"},
                "status": {"type": "string", "enum": ["preview", "verification_required", "browse"]},
                "title": {"type": "string"},
                "token": {"type": "string"},
                "watermark": {"type": "string"}
            }
        },
        "service.ShareMeta": {
            "type": "object",
            "properties": {
                "allowedPages": {"type": "integer"},
                "mode": {"type": "string"},
                "recipientName": {"type": "string"},
                "storageKey": {"type": "string"},
                "title": {"type": "string"},
                "watermarkText": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PDF Share API",
	Description:      "Upload PDFs and share them through preview or verified browse links.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
