package api

import (
	"net/http"

	"openkeep/logger"

	"github.com/swaggo/swag"
)

// @title OpenKeep API
// @version v1.0.0
// @description REST API for notes, checklists and labels.

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8778
// @BasePath /api
// @schemes http

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "{\"ok\": true}", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}}
                }
            }
        },
        "/version": {
            "get": {
                "description": "Retrieves the version the server binary was built with.",
                "produces": ["application/json"],
                "tags": ["Version"],
                "summary": "Get application version",
                "responses": {
                    "200": {"description": "{\"version\": \"1.0.0\"}", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/notes": {
            "get": {
                "description": "Archived and trashed select exact partitions; both default to false.",
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "List notes",
                "parameters": [
                    {"type": "boolean", "description": "Archived view", "name": "archived", "in": "query"},
                    {"type": "boolean", "description": "Trash view", "name": "trashed", "in": "query"},
                    {"type": "string", "description": "Only notes carrying this label", "name": "labelId", "in": "query"},
                    {"type": "string", "description": "Substring match on title or content", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Note"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Create a note",
                "parameters": [
                    {"description": "Note to create", "name": "note", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateNoteInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Note"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Sets position = index for every listed note, all or nothing.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Reorder notes",
                "parameters": [
                    {"description": "Ordered note ids", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ReorderNotesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/notes/trash": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Empty the trash",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.EmptyTrashResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/notes/{noteID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Get a note",
                "parameters": [{"type": "string", "description": "Note ID", "name": "noteID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Note"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "patch": {
                "description": "Only fields present in the body change. checklistItems and labelIds replace the stored sets.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Update a note",
                "parameters": [
                    {"type": "string", "description": "Note ID", "name": "noteID", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "note", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateNoteInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Note"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Delete a note",
                "parameters": [{"type": "string", "description": "Note ID", "name": "noteID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/labels": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Labels"],
                "summary": "List labels",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Label"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Labels"],
                "summary": "Create a label",
                "parameters": [
                    {"description": "Label name", "name": "label", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LabelPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Label"}},
                    "400": {"description": "Empty name", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/labels/{labelID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Labels"],
                "summary": "Get a label",
                "parameters": [{"type": "string", "description": "Label ID", "name": "labelID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Label"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Labels"],
                "summary": "Rename a label",
                "parameters": [
                    {"type": "string", "description": "Label ID", "name": "labelID", "in": "path", "required": true},
                    {"description": "New name", "name": "label", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LabelPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Label"}},
                    "400": {"description": "Empty name", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Labels"],
                "summary": "Delete a label",
                "parameters": [{"type": "string", "description": "Label ID", "name": "labelID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ChecklistItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "readOnly": true},
                "isChecked": {"type": "boolean"},
                "noteId": {"type": "string"},
                "position": {"type": "integer"},
                "text": {"type": "string"}
            }
        },
        "models.ChecklistItemInput": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "isChecked": {"type": "boolean"},
                "text": {"type": "string"}
            }
        },
        "models.CreateNoteInput": {
            "type": "object",
            "properties": {
                "checklistItems": {"type": "array", "items": {"$ref": "#/definitions/models.ChecklistItemInput"}},
                "color": {"type": "string"},
                "content": {"type": "string"},
                "isPinned": {"type": "boolean"},
                "labelIds": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"},
                "type": {"type": "string", "enum": ["note", "checklist"]}
            }
        },
        "models.EmptyTrashResponse": {
            "type": "object",
            "properties": {
                "deleted": {"type": "integer", "example": 3},
                "success": {"type": "boolean", "example": true}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Note not found"}
            }
        },
        "models.Label": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string", "readOnly": true},
                "id": {"type": "string", "readOnly": true},
                "name": {"type": "string"}
            }
        },
        "models.LabelPayload": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            }
        },
        "models.Note": {
            "type": "object",
            "properties": {
                "checklistItems": {"type": "array", "items": {"$ref": "#/definitions/models.ChecklistItem"}},
                "color": {"type": "string"},
                "content": {"type": "string"},
                "createdAt": {"type": "string", "readOnly": true},
                "id": {"type": "string", "readOnly": true},
                "isArchived": {"type": "boolean"},
                "isPinned": {"type": "boolean"},
                "isTrashed": {"type": "boolean"},
                "labels": {"type": "array", "items": {"$ref": "#/definitions/models.NoteLabel"}},
                "position": {"type": "integer"},
                "title": {"type": "string"},
                "trashedAt": {"type": "string", "format": "date-time"},
                "type": {"type": "string", "enum": ["note", "checklist"]},
                "updatedAt": {"type": "string", "readOnly": true}
            }
        },
        "models.NoteLabel": {
            "type": "object",
            "properties": {
                "label": {"$ref": "#/definitions/models.Label"},
                "labelId": {"type": "string"},
                "noteId": {"type": "string"}
            }
        },
        "models.ReorderNotesRequest": {
            "type": "object",
            "properties": {
                "noteIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true}
            }
        },
        "models.UpdateNoteInput": {
            "type": "object",
            "properties": {
                "checklistItems": {"type": "array", "items": {"$ref": "#/definitions/models.ChecklistItemInput"}},
                "color": {"type": "string"},
                "content": {"type": "string"},
                "isArchived": {"type": "boolean"},
                "isPinned": {"type": "boolean"},
                "isTrashed": {"type": "boolean"},
                "labelIds": {"type": "array", "items": {"type": "string"}},
                "position": {"type": "integer"},
                "title": {"type": "string"},
                "type": {"type": "string", "enum": ["note", "checklist"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "v1.0.0",
	Host:             "localhost:8778",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "OpenKeep API",
	Description:      "REST API for notes, checklists and labels.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

func swaggerDocHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		logger.Error("swaggerDocHandler: Error reading swagger doc: %v", err)
		http.Error(w, "swagger doc unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
