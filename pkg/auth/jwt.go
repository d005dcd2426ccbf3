package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Frida7771/GomokuAI/internal/config"
)

// GameClaims authorizes the holder to play one game session.
type GameClaims struct {
	GameID    string `json:"game_id"`
	HumanSide string `json:"human_side"`
	jwt.RegisteredClaims
}

// GenerateGameToken signs a token for gameID valid for the configured TTL.
func GenerateGameToken(gameID, humanSide string) (string, error) {
	cfg := config.Get()

	tokenID, err := newTokenID()
	if err != nil {
		return "", fmt.Errorf("token id: %w", err)
	}

	now := time.Now()
	claims := &GameClaims{
		GameID:    gameID,
		HumanSide: humanSide,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.GameTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ValidateGameToken checks signature and expiry and returns the claims.
func ValidateGameToken(tokenString string) (*GameClaims, error) {
	secret := config.Get().JWTSecret

	token, err := jwt.ParseWithClaims(tokenString, &GameClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*GameClaims); ok && token.Valid && claims.GameID != "" {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
