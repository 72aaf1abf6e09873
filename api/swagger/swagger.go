package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Catequesis API",
        "description": "Parish catechesis enrollment and settlement service",
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
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Enrollments", "description": "Enrollment lifecycle and settlement"},
        {"name": "Batch", "description": "Bulk enrollment operations"},
        {"name": "Reports", "description": "Financial and academic reporting"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "security": [{"BearerAuth": []}],
                "summary": "Revoke refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "security": [{"BearerAuth": []}],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "List enrollments",
                "parameters": [
                    {"name": "catechumen_id", "in": "query", "type": "integer"},
                    {"name": "group_id", "in": "query", "type": "integer"},
                    {"name": "parish_id", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "date_from", "in": "query", "type": "string", "format": "date"},
                    {"name": "date_to", "in": "query", "type": "string", "format": "date"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "size", "in": "query", "type": "integer"},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "sort_dir", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "Create enrollment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Open enrollment exists or group full", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/overdue": {
            "get": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "List enrollments with overdue payments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "Get enrollment by id or code",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/history": {
            "get": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "Enrollment change history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/discount": {
            "put": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "Apply discount",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyDiscountRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/payments": {
            "post": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "Register payment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterPaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Amount exceeds pending balance", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/state": {
            "put": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "Change enrollment state",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeStateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/transfer": {
            "put": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "Transfer enrollment to another group",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransferGroupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Destination group full", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/graduate": {
            "post": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "Graduate enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/GraduateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Graduation requirements unmet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/academic/refresh": {
            "post": {
                "tags": ["Enrollments"],
                "security": [{"BearerAuth": []}],
                "summary": "Recompute academic requirement flags",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batch/enrollments": {
            "post": {
                "tags": ["Batch"],
                "security": [{"BearerAuth": []}],
                "summary": "Enroll many catechumens into the same group",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkEnrollRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batch/discounts": {
            "post": {
                "tags": ["Batch"],
                "security": [{"BearerAuth": []}],
                "summary": "Apply a discount to many enrollments",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkDiscountRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batch/graduations": {
            "post": {
                "tags": ["Batch"],
                "security": [{"BearerAuth": []}],
                "summary": "Graduate every eligible enrollment of a group",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkGraduateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/financial": {
            "get": {
                "tags": ["Reports"],
                "security": [{"BearerAuth": []}],
                "summary": "Financial settlement report",
                "parameters": [
                    {"name": "parish_id", "in": "query", "type": "integer"},
                    {"name": "date_from", "in": "query", "type": "string", "format": "date"},
                    {"name": "date_to", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/financial/export": {
            "get": {
                "tags": ["Reports"],
                "security": [{"BearerAuth": []}],
                "summary": "Export financial report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "parish_id", "in": "query", "type": "integer"},
                    {"name": "date_from", "in": "query", "type": "string", "format": "date"},
                    {"name": "date_to", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/reports/academic": {
            "get": {
                "tags": ["Reports"],
                "security": [{"BearerAuth": []}],
                "summary": "Academic eligibility report",
                "parameters": [
                    {"name": "group_id", "in": "query", "type": "integer"},
                    {"name": "parish_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/academic/export": {
            "get": {
                "tags": ["Reports"],
                "security": [{"BearerAuth": []}],
                "summary": "Export academic report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "group_id", "in": "query", "type": "integer"},
                    {"name": "parish_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/reports/system": {
            "get": {
                "tags": ["Reports"],
                "security": [{"BearerAuth": []}],
                "summary": "System metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateEnrollmentRequest": {
            "type": "object",
            "properties": {
                "catechumen_id": {"type": "integer"},
                "group_id": {"type": "integer"},
                "parish_id": {"type": "integer"},
                "base_fee": {"type": "number"},
                "materials_fee": {"type": "number"},
                "requires_payment": {"type": "boolean"},
                "payment_due_date": {"type": "string", "format": "date"},
                "formation_start": {"type": "string", "format": "date"},
                "actor": {"type": "string"}
            },
            "required": ["catechumen_id", "group_id", "parish_id", "actor"]
        },
        "ApplyDiscountRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["SIBLINGS", "EMPLOYEE", "ECONOMIC_HARDSHIP", "SCHOLARSHIP", "SPECIAL"]},
                "percentage": {"type": "number"},
                "reason": {"type": "string"},
                "authorizer": {"type": "string"}
            },
            "required": ["kind", "reason", "authorizer"]
        },
        "RegisterPaymentRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "method": {"type": "string", "enum": ["CASH", "TRANSFER", "CARD", "CHEQUE"]},
                "reference": {"type": "string"},
                "receipt": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "actor": {"type": "string"}
            },
            "required": ["amount", "method", "actor"]
        },
        "ChangeStateRequest": {
            "type": "object",
            "properties": {
                "new_state": {"type": "string"},
                "reason": {"type": "string"},
                "actor": {"type": "string"}
            },
            "required": ["new_state", "reason", "actor"]
        },
        "TransferGroupRequest": {
            "type": "object",
            "properties": {
                "new_group_id": {"type": "integer"},
                "reason": {"type": "string"},
                "actor": {"type": "string"}
            },
            "required": ["new_group_id", "reason", "actor"]
        },
        "GraduateRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "actor": {"type": "string"}
            }
        },
        "BulkEnrollRequest": {
            "type": "object",
            "properties": {
                "catechumen_ids": {"type": "array", "items": {"type": "integer"}},
                "group_id": {"type": "integer"},
                "parish_id": {"type": "integer"},
                "base_fee": {"type": "number"},
                "materials_fee": {"type": "number"},
                "requires_payment": {"type": "boolean"},
                "payment_due_date": {"type": "string", "format": "date"},
                "formation_start": {"type": "string", "format": "date"},
                "actor": {"type": "string"}
            },
            "required": ["catechumen_ids", "group_id", "parish_id", "actor"]
        },
        "BulkDiscountRequest": {
            "type": "object",
            "properties": {
                "enrollment_ids": {"type": "array", "items": {"type": "integer"}},
                "kind": {"type": "string"},
                "percentage": {"type": "number"},
                "reason": {"type": "string"},
                "authorizer": {"type": "string"}
            },
            "required": ["enrollment_ids", "kind", "reason", "authorizer"]
        },
        "BulkGraduateRequest": {
            "type": "object",
            "properties": {
                "group_id": {"type": "integer"},
                "date": {"type": "string", "format": "date"},
                "actor": {"type": "string"}
            },
            "required": ["group_id"]
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
                "details": {"type": "object"}
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
