package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Projects API",
        "description": "Users, projects, deliverables and file storage for university project collaboration",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Users", "description": "Platform members and profiles"},
        {"name": "Projects", "description": "Teacher-published projects"},
        {"name": "Deliverables", "description": "Submission artifacts attached to projects"},
        {"name": "Files", "description": "Uploaded blobs"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/users": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a user",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/UserCreated"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "parameters": [
                    {"in": "query", "name": "role", "type": "string", "enum": ["student", "teacher"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/User"}}}
                }
            }
        },
        "/api/users/{uid}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get a user by identity uid",
                "parameters": [
                    {"in": "path", "name": "uid", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/profile": {
            "put": {
                "tags": ["Users"],
                "summary": "Update the academic profile of a user",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProfileUpdated"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/projects": {
            "post": {
                "tags": ["Projects"],
                "summary": "Create a project, optionally with an attached file",
                "consumes": ["application/json", "multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateProjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ProjectCreated"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}},
                    "403": {"description": "Caller is not a teacher", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "get": {
                "tags": ["Projects"],
                "summary": "List projects",
                "parameters": [
                    {"in": "query", "name": "teacher_uid", "type": "string"},
                    {"in": "query", "name": "teacherUid", "type": "string"},
                    {"in": "query", "name": "school", "type": "string"},
                    {"in": "query", "name": "filiere", "type": "string"},
                    {"in": "query", "name": "matiere", "type": "string"},
                    {"in": "query", "name": "year", "type": "string"},
                    {"in": "query", "name": "startDate", "type": "string", "format": "date"},
                    {"in": "query", "name": "endDate", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Project"}}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/projects/export": {
            "get": {
                "tags": ["Projects"],
                "summary": "Export the filtered project listing",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/projects/teacher/{teacher_uid}": {
            "get": {
                "tags": ["Projects"],
                "summary": "List the projects of one teacher",
                "parameters": [
                    {"in": "path", "name": "teacher_uid", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Project"}}}
                }
            }
        },
        "/api/projects/{id}/status": {
            "put": {
                "tags": ["Projects"],
                "summary": "Update a project status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateProjectStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProjectCreated"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/deliverables": {
            "post": {
                "tags": ["Deliverables"],
                "summary": "Create a deliverable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateDeliverableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/DeliverableCreated"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/deliverables/{id}": {
            "delete": {
                "tags": ["Deliverables"],
                "summary": "Delete a deliverable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/deliverables/{project_id}": {
            "get": {
                "tags": ["Deliverables"],
                "summary": "List the deliverables of a project",
                "parameters": [
                    {"in": "path", "name": "project_id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Deliverable"}}}
                }
            }
        },
        "/api/files": {
            "post": {
                "tags": ["Files"],
                "summary": "Upload a file",
                "consumes": ["multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "formData", "name": "file", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/FileCreated"}},
                    "400": {"description": "Missing or oversized file", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/files/{id}": {
            "get": {
                "tags": ["Files"],
                "summary": "Download a file by id",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "400": {"description": "Malformed id", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/files/{filename}": {
            "get": {
                "tags": ["Files"],
                "summary": "Download the latest file with the given name",
                "parameters": [
                    {"in": "path", "name": "filename", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "CreateUserRequest": {
            "type": "object",
            "required": ["uid", "email", "role", "password"],
            "properties": {
                "uid": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "teacher"]},
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "UpdateProfileRequest": {
            "type": "object",
            "required": ["uid", "school", "filiere", "year", "matiere"],
            "properties": {
                "uid": {"type": "string"},
                "school": {"type": "string"},
                "filiere": {"type": "string"},
                "year": {"type": "string"},
                "matiere": {"type": "string"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "uid": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "name": {"type": "string"},
                "school": {"type": "string"},
                "filiere": {"type": "string"},
                "year": {"type": "string"},
                "matiere": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "Profile": {
            "type": "object",
            "properties": {
                "school": {"type": "string"},
                "filiere": {"type": "string"},
                "year": {"type": "string"},
                "matiere": {"type": "string"}
            }
        },
        "CreateProjectRequest": {
            "type": "object",
            "required": ["title", "teacher_uid"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "school": {"type": "string"},
                "filiere": {"type": "string"},
                "matiere": {"type": "string"},
                "deadline": {"type": "string", "format": "date"},
                "status": {"type": "string"},
                "year": {"type": "string"},
                "teacher_uid": {"type": "string"},
                "file_id": {"type": "string", "format": "uuid"}
            }
        },
        "UpdateProjectStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string"}}
        },
        "Project": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "school": {"type": "string"},
                "filiere": {"type": "string"},
                "matiere": {"type": "string"},
                "deadline": {"type": "string", "format": "date"},
                "status": {"type": "string"},
                "year": {"type": "string"},
                "teacher_uid": {"type": "string"},
                "file_id": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "CreateDeliverableRequest": {
            "type": "object",
            "required": ["project_id", "title", "deadline"],
            "properties": {
                "project_id": {"type": "string", "format": "uuid"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "file_id": {"type": "string", "format": "uuid"},
                "deadline": {"type": "string", "format": "date"}
            }
        },
        "Deliverable": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "project_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "file_id": {"type": "string"},
                "deadline": {"type": "string", "format": "date"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "File": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "filename": {"type": "string"},
                "content_type": {"type": "string"},
                "size": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "Message": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "UserCreated": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "userId": {"type": "string"}
            }
        },
        "ProfileUpdated": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "profile": {"$ref": "#/definitions/Profile"}
            }
        },
        "ProjectCreated": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "project": {"$ref": "#/definitions/Project"}
            }
        },
        "DeliverableCreated": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "deliverable": {"$ref": "#/definitions/Deliverable"}
            }
        },
        "FileCreated": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "file": {"$ref": "#/definitions/File"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
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
