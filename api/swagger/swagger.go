package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Recruiting Back Office API",
        "description": "Back-office API for candidate and job opening management",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Session management"},
        {"name": "Candidates", "description": "Candidate registry"},
        {"name": "Openings", "description": "Job opening registry"},
        {"name": "Links", "description": "Candidate selection processes"},
        {"name": "Qualification", "description": "Candidate evaluation and certificates"},
        {"name": "Fichas", "description": "PDF summary sheets"},
        {"name": "Backups", "description": "Drive backup and restore"},
        {"name": "Dashboard", "description": "Aggregated metrics"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and set the session cookie",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Clear the session cookie",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current session user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/candidates": {
            "get": {
                "tags": ["Candidates"],
                "summary": "List candidates",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "role_type", "in": "query", "type": "string"},
                    {"name": "city", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "qualified", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Candidates"],
                "summary": "Create candidate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Candidate"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/candidates/{id}": {
            "get": {
                "tags": ["Candidates"],
                "summary": "Get candidate",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Candidates"],
                "summary": "Update candidate",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Candidate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Candidates"],
                "summary": "Delete candidate",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "412": {"description": "Candidate has an active process"}
                }
            }
        },
        "/candidates/{id}/qualify": {
            "post": {
                "tags": ["Qualification"],
                "summary": "Record an evaluation, issuing a certificate above the threshold",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QualifyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already evaluated"}
                }
            }
        },
        "/candidates/{id}/qualification": {
            "get": {
                "tags": ["Qualification"],
                "summary": "Get a candidate's evaluation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not evaluated"}
                }
            }
        },
        "/candidates/{id}/ficha": {
            "get": {
                "tags": ["Fichas"],
                "summary": "Download the candidate summary PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/openings": {
            "get": {
                "tags": ["Openings"],
                "summary": "List openings",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "city", "in": "query", "type": "string"},
                    {"name": "urgent", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Openings"],
                "summary": "Create opening",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JobOpening"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/openings/{id}": {
            "get": {
                "tags": ["Openings"],
                "summary": "Get opening",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Openings"],
                "summary": "Update opening",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JobOpening"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Openings"],
                "summary": "Delete opening",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "412": {"description": "Opening has active processes"}
                }
            }
        },
        "/openings/{id}/status": {
            "patch": {
                "tags": ["Openings"],
                "summary": "Change the opening status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateOpeningStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/openings/{id}/notes": {
            "get": {
                "tags": ["Openings"],
                "summary": "List opening notes",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Openings"],
                "summary": "Add an opening note",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddNoteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/openings/{id}/ficha": {
            "get": {
                "tags": ["Fichas"],
                "summary": "Download the opening summary PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/links": {
            "get": {
                "tags": ["Links"],
                "summary": "List selection processes",
                "parameters": [
                    {"name": "candidate_id", "in": "query", "type": "string"},
                    {"name": "opening_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Links"],
                "summary": "Open a selection process for a candidate on an opening",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLinkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Candidate already linked to this opening"},
                    "412": {"description": "Opening full or candidate busy"}
                }
            }
        },
        "/links/{id}": {
            "get": {
                "tags": ["Links"],
                "summary": "Get a selection process",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Links"],
                "summary": "Update a selection process",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Process already finalized"}
                }
            },
            "delete": {
                "tags": ["Links"],
                "summary": "Delete a selection process",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/links/{id}/finalize": {
            "post": {
                "tags": ["Links"],
                "summary": "Close a selection process with an outcome",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FinalizeLinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Process already finalized"}
                }
            }
        },
        "/links/expire": {
            "post": {
                "tags": ["Links"],
                "summary": "Expire processes older than the 90 day window",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/backups": {
            "get": {
                "tags": ["Backups"],
                "summary": "List stored backups",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Backups"],
                "summary": "Create a backup on Drive",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/CreateBackupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Backup storage unavailable"}
                }
            }
        },
        "/backups/{id}/restore": {
            "post": {
                "tags": ["Backups"],
                "summary": "Restore tables from a stored backup",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/RestoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Aggregated dashboard metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Candidate": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "full_name": {"type": "string"},
                "national_id": {"type": "string"},
                "id_document": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "whatsapp": {"type": "string"},
                "address": {"type": "string"},
                "street_number": {"type": "string"},
                "address_extra": {"type": "string"},
                "district": {"type": "string"},
                "city": {"type": "string"},
                "role_type": {"type": "string"},
                "status": {"type": "string", "enum": ["available", "in_process", "hired", "inactive"]},
                "qualified": {"type": "boolean"},
                "ficha_generated": {"type": "boolean"},
                "profile": {"type": "object"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "JobOpening": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "city": {"type": "string"},
                "role_type": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "filled", "paused", "cancelled"]},
                "status_detailed": {"type": "string", "enum": ["active", "in_progress", "filled", "paused", "cancelled"]},
                "client_name": {"type": "string"},
                "client_email": {"type": "string"},
                "client_phone": {"type": "string"},
                "urgent": {"type": "boolean"},
                "filled_at": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "LinkDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "candidate_id": {"type": "string"},
                "opening_id": {"type": "string"},
                "process_status": {"type": "string"},
                "sent_at": {"type": "string"},
                "interview_at": {"type": "string"},
                "finalized_at": {"type": "string"},
                "observations": {"type": "string"},
                "candidate_name": {"type": "string"},
                "candidate_role_type": {"type": "string"},
                "opening_title": {"type": "string"},
                "opening_status": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "QualifyRequest": {
            "type": "object",
            "properties": {
                "score": {"type": "number", "minimum": 0, "maximum": 10},
                "notes": {"type": "string"},
                "evaluated_by": {"type": "string"}
            },
            "required": ["score", "evaluated_by"]
        },
        "CreateLinkRequest": {
            "type": "object",
            "properties": {
                "candidate_id": {"type": "string"},
                "opening_id": {"type": "string"},
                "initial_status": {"type": "string"},
                "observation": {"type": "string"},
                "interview_at": {"type": "string"}
            },
            "required": ["candidate_id", "opening_id"]
        },
        "UpdateLinkRequest": {
            "type": "object",
            "properties": {
                "new_candidate_id": {"type": "string"},
                "new_status": {"type": "string"},
                "observation": {"type": "string"},
                "interview_at": {"type": "string"},
                "reset_deadline": {"type": "boolean"}
            }
        },
        "FinalizeLinkRequest": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string", "enum": ["hired", "rejected", "cancelled", "withdrew", "other"]},
                "reason": {"type": "string"}
            },
            "required": ["outcome"]
        },
        "UpdateOpeningStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["active", "in_progress", "filled", "paused", "cancelled"]}
            },
            "required": ["status"]
        },
        "AddNoteRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "category": {"type": "string", "enum": ["general", "candidate_sent", "status_change"]}
            },
            "required": ["text"]
        },
        "CreateBackupRequest": {
            "type": "object",
            "properties": {
                "compress": {"type": "boolean"}
            }
        },
        "RestoreRequest": {
            "type": "object",
            "properties": {
                "tables": {"type": "array", "items": {"type": "string"}}
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
                "status": {"type": "integer"}
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
