package middleware

import "github.com/gofiber/fiber/v2"

// CacheControl sets Cache-Control on successful responses that did not set one.
// Stored attachments never change their bytes, only their metadata.
func CacheControl(value string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() == fiber.StatusOK && len(c.Response().Header.Peek(fiber.HeaderCacheControl)) == 0 {
			c.Set(fiber.HeaderCacheControl, value)
		}
		return nil
	}
}
