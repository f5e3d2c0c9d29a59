package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Catalog API",
        "description": "Course catalog and curriculum service for careers, subjects, schedules and prerequisites.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Authentication and password flows"},
        {"name": "Admins", "description": "Administrator account management"},
        {"name": "Careers", "description": "Academic programs and coordinator assignments"},
        {"name": "Subjects", "description": "Subjects, featured ranking"},
        {"name": "Schedule", "description": "Weekly schedule slots"},
        {"name": "Prerequisites", "description": "Requirement edges between subjects"},
        {"name": "Curriculum", "description": "Curriculum document downloads"},
        {"name": "Chat", "description": "Catalog questions"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for new tokens",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/forgot-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Start the password reset flow",
                "description": "Always acknowledges with 202 regardless of whether the address exists.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ForgotPasswordRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/auth/reset-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Complete the password reset flow",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResetPasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "security": [{"BearerAuth": []}],
                "summary": "Revoke the caller's refresh token",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/password": {
            "put": {
                "tags": ["Auth"],
                "security": [{"BearerAuth": []}],
                "summary": "Change the caller's own password",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admins": {
            "get": {
                "tags": ["Admins"],
                "security": [{"BearerAuth": []}],
                "summary": "List administrators",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "state", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admins"],
                "security": [{"BearerAuth": []}],
                "summary": "Register an administrator (rector only)",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/admins/{id}": {
            "get": {
                "tags": ["Admins"],
                "security": [{"BearerAuth": []}],
                "summary": "Get administrator detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found or inactive"}}
            },
            "put": {
                "tags": ["Admins"],
                "security": [{"BearerAuth": []}],
                "summary": "Update an administrator",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Field not editable by caller"}}
            },
            "delete": {
                "tags": ["Admins"],
                "security": [{"BearerAuth": []}],
                "summary": "Soft-delete an administrator",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}
            }
        },
        "/admins/{id}/state": {
            "put": {
                "tags": ["Admins"],
                "security": [{"BearerAuth": []}],
                "summary": "Change an administrator's lifecycle state",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/careers": {
            "get": {
                "tags": ["Careers"],
                "security": [{"BearerAuth": []}],
                "summary": "List careers visible to the caller",
                "parameters": [
                    {"name": "state", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Careers"],
                "security": [{"BearerAuth": []}],
                "summary": "Create a career with its coordinator (rector only)",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad coordinator reference"}}
            }
        },
        "/careers/{id}": {
            "get": {
                "tags": ["Careers"],
                "security": [{"BearerAuth": []}],
                "summary": "Get career detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found or inactive"}}
            },
            "put": {
                "tags": ["Careers"],
                "security": [{"BearerAuth": []}],
                "summary": "Update career fields",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Careers"],
                "security": [{"BearerAuth": []}],
                "summary": "Soft-delete a career (rector only)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/careers/{id}/coordinator": {
            "put": {
                "tags": ["Careers"],
                "security": [{"BearerAuth": []}],
                "summary": "Replace the career's coordinator (rector only)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/careers/{id}/state": {
            "put": {
                "tags": ["Careers"],
                "security": [{"BearerAuth": []}],
                "summary": "Change a career's lifecycle state (rector only)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/careers/{id}/curriculum": {
            "get": {
                "tags": ["Curriculum"],
                "security": [{"BearerAuth": []}],
                "summary": "Download a career's curriculum",
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {"200": {"description": "Document attachment"}}
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "security": [{"BearerAuth": []}],
                "summary": "List subjects visible to the caller",
                "parameters": [
                    {"name": "careerId", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Subjects"],
                "security": [{"BearerAuth": []}],
                "summary": "Create a subject",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/subjects/featured": {
            "get": {
                "tags": ["Subjects"],
                "security": [{"BearerAuth": []}],
                "summary": "List the most-viewed subjects",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "security": [{"BearerAuth": []}],
                "summary": "Get subject detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found or inactive"}}
            },
            "put": {
                "tags": ["Subjects"],
                "security": [{"BearerAuth": []}],
                "summary": "Update a subject",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Subjects"],
                "security": [{"BearerAuth": []}],
                "summary": "Soft-delete a subject",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/subjects/{id}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "security": [{"BearerAuth": []}],
                "summary": "List a subject's schedule slots",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/subjects/{id}/prerequisites": {
            "get": {
                "tags": ["Prerequisites"],
                "security": [{"BearerAuth": []}],
                "summary": "List a subject's prerequisites",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/subjects/{id}/dependents": {
            "get": {
                "tags": ["Prerequisites"],
                "security": [{"BearerAuth": []}],
                "summary": "List subjects that require this one",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/schedule-slots": {
            "post": {
                "tags": ["Schedule"],
                "security": [{"BearerAuth": []}],
                "summary": "Create a schedule slot",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/schedule-slots/{id}": {
            "get": {
                "tags": ["Schedule"],
                "security": [{"BearerAuth": []}],
                "summary": "Get schedule slot detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Schedule"],
                "security": [{"BearerAuth": []}],
                "summary": "Update a schedule slot",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Schedule"],
                "security": [{"BearerAuth": []}],
                "summary": "Soft-delete a schedule slot",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/prerequisites": {
            "post": {
                "tags": ["Prerequisites"],
                "security": [{"BearerAuth": []}],
                "summary": "Create a prerequisite edge",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate or self-referential"}}
            }
        },
        "/prerequisites/{id}": {
            "delete": {
                "tags": ["Prerequisites"],
                "security": [{"BearerAuth": []}],
                "summary": "Soft-delete a prerequisite edge",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/chat/query": {
            "post": {
                "tags": ["Chat"],
                "security": [{"BearerAuth": []}],
                "summary": "Ask a question about the catalog",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Chat disabled"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RefreshTokenRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "ForgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "ResetPasswordRequest": {
            "type": "object",
            "required": ["token", "new_password"],
            "properties": {
                "token": {"type": "string"},
                "new_password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "reason": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
