package serverutils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const ReviewerIdKey = "reviewer_id"

// ParseReviewerToken validates an HS256 token and returns its user_id claim.
func ParseReviewerToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}

	reviewerId, ok := claims["user_id"].(string)
	if !ok || reviewerId == "" {
		return "", fmt.Errorf("token missing user_id")
	}
	return reviewerId, nil
}

func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		reviewerId, err := ParseReviewerToken(authHeader[7:], secret)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals(ReviewerIdKey, reviewerId)
		return ctx.Next()
	}
}

// ReviewerId reads the id JwtMiddleware stored on the request.
func ReviewerId(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(ReviewerIdKey).(string)
	return id
}
