// Package docs registers the OpenAPI description served at /swagger.
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
        "/flights/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Search flights",
                "parameters": [
                    {"type": "string", "description": "case-insensitive substring", "name": "departure_city", "in": "query"},
                    {"type": "string", "description": "case-insensitive substring", "name": "arrival_city", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Flight"}}}
                }
            }
        },
        "/flights/calculate-price/{flight_id}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Quote the current price of a flight",
                "parameters": [
                    {"type": "string", "description": "flight id", "name": "flight_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pricing.Quote"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/book/{flight_id}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Book one seat, paying from the user's wallet",
                "parameters": [
                    {"type": "string", "description": "flight id", "name": "flight_id", "in": "path", "required": true},
                    {"type": "string", "description": "wallet owner, defaults to the configured user", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "address the ticket is mailed to", "name": "X-User-Email", "in": "header"},
                    {"description": "passenger and quoted price", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.bookRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.bookResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/bookings/{pnr}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Get a booking by PNR",
                "parameters": [
                    {"type": "string", "description": "booking reference", "name": "pnr", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.bookingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/ticket/{pnr}/pdf": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["bookings"],
                "summary": "Download the PDF ticket of a booking",
                "parameters": [
                    {"type": "string", "description": "booking reference", "name": "pnr", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/user/wallet": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Wallet balance of the acting user",
                "parameters": [
                    {"type": "string", "description": "wallet owner, defaults to the configured user", "name": "X-User-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.walletResponse"}}
                }
            }
        },
        "/seed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Replace the flight catalogue with the sample flights",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.seedResponse"}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Replace the flight catalogue with the sample flights",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.seedResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "api.bookRequest": {
            "type": "object",
            "required": ["finalPrice", "passengerName"],
            "properties": {
                "email": {"type": "string"},
                "finalPrice": {"type": "integer"},
                "passengerName": {"type": "string"}
            }
        },
        "api.bookResponse": {
            "type": "object",
            "properties": {
                "newBalance": {"type": "integer"},
                "pnr": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "api.bookingResponse": {
            "type": "object",
            "properties": {
                "booking_date": {"type": "string"},
                "final_price": {"type": "integer"},
                "flight_id": {"type": "string"},
                "passenger_name": {"type": "string"},
                "pnr": {"type": "string"},
                "status": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "api.seedResponse": {
            "type": "object",
            "properties": {
                "flights": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "api.walletResponse": {
            "type": "object",
            "properties": {
                "balance": {"type": "integer"}
            }
        },
        "domain.Flight": {
            "type": "object",
            "properties": {
                "airline": {"type": "string"},
                "arrival_city": {"type": "string"},
                "available_seats": {"type": "integer"},
                "base_price": {"type": "integer"},
                "booking_count": {"type": "integer"},
                "current_price": {"type": "integer"},
                "departure_city": {"type": "string"},
                "flight_id": {"type": "string"},
                "last_booking_time": {"type": "string"}
            }
        },
        "pricing.Quote": {
            "type": "object",
            "properties": {
                "finalPrice": {"type": "integer"},
                "isSurged": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Flight Booking API",
	Description:      "Flight search, surge pricing and wallet-paid bookings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
