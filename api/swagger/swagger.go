package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Precheck API",
        "description": "Pre-flight feasibility analysis for class timetabling",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Feasibility", "description": "Timetable feasibility analysis"},
        {"name": "Exports", "description": "Report export jobs and downloads"}
    ],
    "paths": {
        "/timetable/feasibility": {
            "post": {
                "tags": ["Feasibility"],
                "summary": "Analyze timetable feasibility",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnalyzeTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/feasibility/runs": {
            "get": {
                "tags": ["Feasibility"],
                "summary": "List recent feasibility runs",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/feasibility/runs/{id}": {
            "get": {
                "tags": ["Feasibility"],
                "summary": "Fetch a stored feasibility report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/timetable/export": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a feasibility report export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/export/jobs/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/timetable/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a rendered export",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Forbidden"}
                }
            }
        }
    },
    "definitions": {
        "AnalyzeTimetableRequest": {
            "type": "object",
            "properties": {
                "faculties": {"type": "array", "items": {"type": "object"}},
                "subjects": {"type": "array", "items": {"type": "object"}},
                "classes": {"type": "array", "items": {"type": "object"}},
                "combos": {"type": "array", "items": {"type": "object"}},
                "fixedSlots": {"type": "array", "items": {"type": "object"}},
                "constraintConfig": {"type": "object"}
            }
        },
        "ExportReportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "runId": {"type": "string"},
                "request": {"$ref": "#/definitions/AnalyzeTimetableRequest"}
            },
            "required": ["format"]
        },
        "FeasibilityReport": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "summary": {"type": "object"},
                "warnings": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ReportWarning"}
                }
            }
        },
        "ReportWarning": {
            "type": "object",
            "properties": {
                "severity": {"type": "string", "enum": ["error", "warning"]},
                "type": {"type": "string"},
                "message": {"type": "string"}
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
