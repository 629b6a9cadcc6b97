// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/admin/companies": {
            "post": {
                "description": "Create a company, or update the name and EDINET code of the one with the same securities code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Register a company",
                "parameters": [
                    {"description": "Company", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterCompanyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Company"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/admin/companies/import": {
            "post": {
                "description": "Upsert companies from a CSV with code and name columns and an optional edinet_code column, as the raw body or as multipart field \"file\"",
                "consumes": ["text/csv", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Import a company list",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.ImportCompaniesResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/admin/companies/{code}": {
            "delete": {
                "description": "Remove a company together with its stored financial statements",
                "tags": ["admin"],
                "summary": "Delete a company",
                "parameters": [
                    {"type": "string", "description": "Securities code (4 characters)", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/companies/{code}/fetch-financial-data": {
            "post": {
                "description": "Scan EDINET for the company's annual reports, extract one record per fiscal year and store them",
                "produces": ["application/json"],
                "tags": ["financial"],
                "summary": "Fetch financial data from EDINET",
                "parameters": [
                    {"type": "string", "description": "Securities code (4 characters)", "name": "code", "in": "path", "required": true},
                    {"type": "integer", "description": "Years to cover (1-10, default 5)", "name": "years", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FetchFinancialDataResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/companies/{code}/financial-statements": {
            "get": {
                "description": "Return stored full-year records with CAGR and year-over-year growth",
                "produces": ["application/json"],
                "tags": ["financial"],
                "summary": "Get stored financial statements",
                "parameters": [
                    {"type": "string", "description": "Securities code (4 characters)", "name": "code", "in": "path", "required": true},
                    {"type": "integer", "description": "Years to return (1-10, default 5)", "name": "years", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FinancialStatementsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/documents/extract": {
            "post": {
                "description": "Accepts an XBRL instance or an EDINET XBRL zip, as the raw body or as multipart field \"file\"",
                "consumes": ["application/xml", "application/zip", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Extract facts from an XBRL document",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ExtractResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.Company": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "code": {"type": "string"},
                "name": {"type": "string"},
                "edinet_code": {"type": "string"}
            }
        },
        "models.RegisterCompanyRequest": {
            "type": "object",
            "required": ["code", "name"],
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "edinet_code": {"type": "string"}
            }
        },
        "services.ImportCompaniesResult": {
            "type": "object",
            "properties": {
                "companies_inserted": {"type": "integer"},
                "companies_updated": {"type": "integer"},
                "companies_skipped": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.Warning": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.FinancialSummary": {
            "type": "object",
            "properties": {
                "company_id": {"type": "integer"},
                "code": {"type": "string"},
                "records": {"type": "array", "items": {"type": "object"}},
                "revenue_cagr": {"type": "number"},
                "net_income_cagr": {"type": "number"},
                "revenue_growth": {"type": "number"},
                "profit_growth": {"type": "number"}
            }
        },
        "models.FetchFinancialDataResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "company_name": {"type": "string"},
                "years_covered": {"type": "integer"},
                "stored": {"type": "integer"},
                "summary": {"$ref": "#/definitions/models.FinancialSummary"},
                "text": {"type": "string"},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/models.Warning"}}
            }
        },
        "models.FinancialStatementsResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "company_name": {"type": "string"},
                "years_covered": {"type": "integer"},
                "count": {"type": "integer"},
                "summary": {"$ref": "#/definitions/models.FinancialSummary"}
            }
        },
        "models.ExtractResponse": {
            "type": "object",
            "properties": {
                "facts": {"type": "object"}
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
	Title:            "EDINET Financial Data API",
	Description:      "Retrieves annual reports from EDINET and extracts multi-year financial statements from their XBRL.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
