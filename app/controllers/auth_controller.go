package controllers

import (
	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/gofiber/fiber/v2"
)

// userID reads the caller's id from the token the jwt middleware verified.
func userID(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	id, ok := claims["user_id"].(string)
	return id, ok && id != ""
}

func Cur(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.SendString(user_id)
}
