// Package docs holds the Swagger document for the local API.
// Regenerate with: swag init -g cmd/syncd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
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
                "description": "Reports whether the daemon is up, whether the first sale load is still running, and the device registration state.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.HealthResponse"
                        }
                    }
                }
            }
        },
        "/sales/active": {
            "get": {
                "description": "Sales whose end date is in the future, newest first, with discount and time remaining.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sales"
                ],
                "summary": "List active sales",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Only sales for preferred cuts",
                        "name": "preferred",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.SalesResponse"
                        }
                    }
                }
            }
        },
        "/sales/expired": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sales"
                ],
                "summary": "List expired sales",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.SalesResponse"
                        }
                    }
                }
            }
        },
        "/markets": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "markets"
                ],
                "summary": "List pop-up markets",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.MarketsResponse"
                        }
                    }
                }
            }
        },
        "/events": {
            "get": {
                "description": "Upcoming events sorted soonest first, or past events sorted most recent first.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "List events",
                "parameters": [
                    {
                        "type": "string",
                        "description": "upcoming or past",
                        "name": "when",
                        "in": "query",
                        "enum": [
                            "upcoming",
                            "past"
                        ],
                        "default": "upcoming"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.EventsResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    }
                }
            }
        },
        "/announcements": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "announcements"
                ],
                "summary": "List announcements",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.AnnouncementsResponse"
                        }
                    }
                }
            }
        },
        "/catalog": {
            "get": {
                "description": "Catalog items grouped from the dashboard rows. Served from cache when fresh, otherwise from the last good copy when the dashboard fails.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "catalog"
                ],
                "summary": "Get catalog",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.CatalogResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    }
                }
            }
        },
        "/refresh": {
            "post": {
                "description": "Runs one refresh cycle and returns which resources were updated. Send X-Request-ID to make retries idempotent.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sync"
                ],
                "summary": "Refresh storefront data",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Idempotency key",
                        "name": "X-Request-ID",
                        "in": "header"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RefreshResponse"
                        }
                    }
                }
            }
        },
        "/lifecycle/{trigger}": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sync"
                ],
                "summary": "Queue a lifecycle trigger",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Lifecycle trigger",
                        "name": "trigger",
                        "in": "path",
                        "required": true,
                        "enum": [
                            "launch",
                            "foreground",
                            "background",
                            "permission"
                        ]
                    },
                    {
                        "type": "string",
                        "description": "Idempotency key",
                        "name": "X-Request-ID",
                        "in": "header"
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/handlers.LifecycleResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    }
                }
            }
        },
        "/inbox": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inbox"
                ],
                "summary": "List inbox",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.InboxResponse"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "inbox"
                ],
                "summary": "Clear the inbox",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/inbox/home": {
            "get": {
                "description": "Inbox items not dismissed from the home screen, newest first.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inbox"
                ],
                "summary": "Home screen notifications",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.HomeNotificationsResponse"
                        }
                    }
                }
            }
        },
        "/inbox/read-all": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inbox"
                ],
                "summary": "Mark all inbox items read",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.MarkAllReadResponse"
                        }
                    }
                }
            }
        },
        "/inbox/{id}/read": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inbox"
                ],
                "summary": "Mark an inbox item read",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inbox item ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    }
                }
            }
        },
        "/inbox/{id}/dismiss": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inbox"
                ],
                "summary": "Dismiss an inbox item from the home screen",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inbox item ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/inbox/{id}": {
            "delete": {
                "tags": [
                    "inbox"
                ],
                "summary": "Remove an inbox item",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inbox item ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    }
                }
            }
        },
        "/device/push-token": {
            "post": {
                "description": "Stores the token and registers the device with it, retrying up to three times.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "device"
                ],
                "summary": "Set the push token",
                "parameters": [
                    {
                        "description": "Push token",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.PushTokenRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RegistrationResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    }
                }
            }
        },
        "/device": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "device"
                ],
                "summary": "Device registration status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/device.Status"
                        }
                    }
                }
            }
        },
        "/preferences": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "preferences"
                ],
                "summary": "Get notification preferences",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.NotificationPreferences"
                        }
                    }
                }
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "preferences"
                ],
                "summary": "Update notification preferences",
                "parameters": [
                    {
                        "description": "Preferences",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.NotificationPreferences"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.NotificationPreferences"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    }
                }
            }
        },
        "/favorites": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "List favorite sales",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.FavoritesResponse"
                        }
                    }
                }
            }
        },
        "/favorites/{id}": {
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "Add a favorite sale",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Sale ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.FavoritesResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "Remove a favorite sale",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Sale ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.FavoritesResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/errors.StandardError"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "errors.StandardError": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "details": {
                    "type": "string"
                }
            }
        },
        "device.Status": {
            "type": "object",
            "properties": {
                "state": {
                    "type": "string"
                },
                "deviceId": {
                    "type": "string"
                },
                "hasPushToken": {
                    "type": "boolean"
                },
                "lastResult": {
                    "$ref": "#/definitions/device.StatusEntry"
                }
            }
        },
        "device.StatusEntry": {
            "type": "object",
            "properties": {
                "identity": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                },
                "attempts": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                },
                "at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.Announcement": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "isActive": {
                    "type": "boolean"
                }
            }
        },
        "models.PopUpMarket": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "latitude": {
                    "type": "number"
                },
                "longitude": {
                    "type": "number"
                },
                "startsAt": {
                    "type": "string"
                },
                "endsAt": {
                    "type": "string"
                },
                "isActive": {
                    "type": "boolean"
                }
            }
        },
        "models.Event": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "date": {
                    "type": "string",
                    "format": "date-time"
                },
                "endDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "location": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "icon": {
                    "type": "string"
                },
                "latitude": {
                    "type": "number"
                },
                "longitude": {
                    "type": "number"
                }
            }
        },
        "models.CatalogVariation": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "priceCents": {
                    "type": "integer"
                },
                "quantity": {
                    "type": "number"
                }
            }
        },
        "models.InboxItem": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "body": {
                    "type": "string"
                },
                "receivedAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "isRead": {
                    "type": "boolean"
                }
            }
        },
        "models.NotificationPreferences": {
            "type": "object",
            "properties": {
                "flashSalesEnabled": {
                    "type": "boolean"
                },
                "priceDropsEnabled": {
                    "type": "boolean"
                },
                "newArrivalsEnabled": {
                    "type": "boolean"
                },
                "weeklyDealsEnabled": {
                    "type": "boolean"
                },
                "preferredCuts": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "enum": [
                            "Ribeye",
                            "NY Strip",
                            "Filet Mignon",
                            "Sirloin",
                            "Ground Beef",
                            "Brisket",
                            "Chuck Roast",
                            "T-Bone",
                            "Bundle",
                            "Custom Box"
                        ]
                    }
                }
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "service": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                },
                "isLoading": {
                    "type": "boolean"
                },
                "updatedAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "device": {
                    "type": "string"
                }
            }
        },
        "handlers.SaleResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "cutType": {
                    "type": "string"
                },
                "originalPrice": {
                    "type": "number"
                },
                "salePrice": {
                    "type": "number"
                },
                "weightLbs": {
                    "type": "number"
                },
                "startsAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "expiresAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "imageSystemName": {
                    "type": "string"
                },
                "isActive": {
                    "type": "boolean"
                },
                "discountPercent": {
                    "type": "integer"
                },
                "pricePerLb": {
                    "type": "number"
                },
                "timeRemaining": {
                    "type": "string"
                },
                "isFavorite": {
                    "type": "boolean"
                }
            }
        },
        "handlers.SalesResponse": {
            "type": "object",
            "properties": {
                "sales": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/handlers.SaleResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "isLoading": {
                    "type": "boolean"
                }
            }
        },
        "handlers.MarketsResponse": {
            "type": "object",
            "properties": {
                "markets": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.PopUpMarket"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "handlers.EventsResponse": {
            "type": "object",
            "properties": {
                "events": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Event"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "when": {
                    "type": "string"
                }
            }
        },
        "handlers.AnnouncementsResponse": {
            "type": "object",
            "properties": {
                "announcements": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Announcement"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "handlers.CatalogItemResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "variations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.CatalogVariation"
                    }
                },
                "isSoldOut": {
                    "type": "boolean"
                },
                "isLowStock": {
                    "type": "boolean"
                },
                "lowestPriceCents": {
                    "type": "integer"
                }
            }
        },
        "handlers.CatalogResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/handlers.CatalogItemResponse"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "handlers.RefreshResponse": {
            "type": "object",
            "properties": {
                "combined": {
                    "type": "boolean"
                },
                "updated": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "errors": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "newInboxItems": {
                    "type": "integer"
                }
            }
        },
        "handlers.LifecycleResponse": {
            "type": "object",
            "properties": {
                "trigger": {
                    "type": "string"
                },
                "queued": {
                    "type": "boolean"
                }
            }
        },
        "handlers.InboxResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.InboxItem"
                    }
                },
                "unreadCount": {
                    "type": "integer"
                }
            }
        },
        "handlers.HomeNotificationsResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.InboxItem"
                    }
                }
            }
        },
        "handlers.MarkAllReadResponse": {
            "type": "object",
            "properties": {
                "marked": {
                    "type": "integer"
                },
                "unreadCount": {
                    "type": "integer"
                }
            }
        },
        "handlers.PushTokenRequest": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string"
                }
            },
            "required": [
                "token"
            ]
        },
        "handlers.RegistrationResponse": {
            "type": "object",
            "properties": {
                "identity": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                },
                "skipped": {
                    "type": "boolean"
                },
                "attempts": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                },
                "device": {
                    "$ref": "#/definitions/device.Status"
                }
            }
        },
        "handlers.FavoritesResponse": {
            "type": "object",
            "properties": {
                "favorites": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8085",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Storefront Sync API",
	Description:      "Local API of the storefront sync daemon: sales, markets, events, announcements, catalog, inbox, device registration and preferences.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
