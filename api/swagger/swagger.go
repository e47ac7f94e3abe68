package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Hangil Timetable API",
        "description": "Deterministic weekly timetable assignment for the academy's MWF and TT day-groups",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Generation, validation and stored versions"},
        {"name": "Roster", "description": "Teacher pools, constraints and homeroom pins"},
        {"name": "Exports", "description": "Archived exports and signed download links"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate a weekly timetable proposal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/generate/roster": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate a proposal from the stored roster",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OptionsInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/validate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Validate an edited timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List stored timetable versions",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Save a proposal as a timetable version",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/latest": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the latest published timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}": {
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a draft timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/timetables/{id}/publish": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Publish a draft timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/timetables/{id}/slots": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get slots for a stored timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/export.csv": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Export a stored timetable as CSV",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/timetables/{id}/export.pdf": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Export a stored timetable as PDF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/timetables/{id}/archive": {
            "post": {
                "tags": ["Exports"],
                "summary": "Schedule background archiving of a timetable's exports",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/timetables/{id}/links": {
            "get": {
                "tags": ["Exports"],
                "summary": "List signed download links for archived exports",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an archived export by signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Export file"}
                }
            }
        },
        "/roster/teachers": {
            "get": {
                "tags": ["Roster"],
                "summary": "List pool members in scan order",
                "parameters": [
                    {"name": "pool", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Roster"],
                "summary": "Create or replace a pool member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/teachers/{name}": {
            "delete": {
                "tags": ["Roster"],
                "summary": "Remove a pool member",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/roster/constraints": {
            "get": {
                "tags": ["Roster"],
                "summary": "List stored availability constraints",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Roster"],
                "summary": "Store availability rules for a teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertConstraintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/constraints/{name}": {
            "delete": {
                "tags": ["Roster"],
                "summary": "Remove a teacher's availability record",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/roster/fixed-homerooms": {
            "get": {
                "tags": ["Roster"],
                "summary": "List homeroom pins",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Roster"],
                "summary": "Fix a teacher to a class's homeroom duty",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PinHomeroomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/fixed-homerooms/{classId}": {
            "delete": {
                "tags": ["Roster"],
                "summary": "Remove a class's homeroom pin",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "TeacherInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["H", "K", "F"]}
            },
            "required": ["name", "role"]
        },
        "ConstraintInput": {
            "type": "object",
            "properties": {
                "teacherName": {"type": "string"},
                "homeroomDisabled": {"type": "boolean"},
                "maxHomerooms": {"type": "integer"},
                "unavailable": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["teacherName"]
        },
        "OptionsInput": {
            "type": "object",
            "properties": {
                "includeHInK": {"type": "boolean"},
                "preferOtherHForK": {"type": "boolean"},
                "disallowOwnHAsK": {"type": "boolean"},
                "rotateForeign": {"type": "boolean"},
                "threeDayClassCounts": {"type": "array", "items": {"type": "integer"}},
                "twoDayClassCounts": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "homeroomPool": {"type": "array", "items": {"$ref": "#/definitions/TeacherInput"}},
                "foreignPool": {"type": "array", "items": {"$ref": "#/definitions/TeacherInput"}},
                "constraints": {"type": "array", "items": {"$ref": "#/definitions/ConstraintInput"}},
                "fixedHomerooms": {"type": "object"},
                "options": {"$ref": "#/definitions/OptionsInput"}
            },
            "required": ["homeroomPool"]
        },
        "SaveTimetableRequest": {
            "type": "object",
            "properties": {
                "proposalId": {"type": "string"},
                "label": {"type": "string"},
                "publish": {"type": "boolean"}
            },
            "required": ["proposalId", "label"]
        },
        "UpsertTeacherRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["H", "K", "F"]},
                "pool": {"type": "string", "enum": ["homeroom", "foreign"]},
                "position": {"type": "integer"},
                "active": {"type": "boolean"}
            },
            "required": ["name", "role", "pool"]
        },
        "UpsertConstraintRequest": {
            "type": "object",
            "properties": {
                "teacherName": {"type": "string"},
                "homeroomDisabled": {"type": "boolean"},
                "maxHomerooms": {"type": "integer"},
                "unavailable": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["teacherName"]
        },
        "PinHomeroomRequest": {
            "type": "object",
            "properties": {
                "classId": {"type": "string"},
                "teacherName": {"type": "string"}
            },
            "required": ["classId", "teacherName"]
        },
        "ExportLink": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "token": {"type": "string"},
                "expiresAt": {"type": "string"}
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
