package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const ClientIDHeader = "X-Client-ID"

// EnsureClientID stores the caller's client ID in c.Locals("clientID").
// The ID comes from the X-Client-ID header or the clientId query parameter;
// callers that have neither are given a fresh one in the response header.
func EnsureClientID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("clientID") != nil {
			return c.Next()
		}

		clientID := c.Get(ClientIDHeader)
		if clientID == "" {
			clientID = c.Query("clientId")
		}
		if clientID == "" {
			clientID = uuid.New().String()
			c.Set(ClientIDHeader, clientID)
		}

		c.Locals("clientID", clientID)
		return c.Next()
	}
}
