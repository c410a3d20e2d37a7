package service

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

var (
	publicKey     *rsa.PublicKey
	publicKeyOnce sync.Once
	publicKeyErr  error
)

var ErrTokenExpired = errors.New("access token expired")

func loadPublicKey() (*rsa.PublicKey, error) {
	publicKeyOnce.Do(func() {
		data, err := os.ReadFile("/keys/cert.pem.pub")
		if err != nil {
			publicKeyErr = fmt.Errorf("read public key: %w", err)
			return
		}
		publicKey, publicKeyErr = jwt.ParseRSAPublicKeyFromPEM(data)
	})

	return publicKey, publicKeyErr
}

func parseToken(tokenStr string) (jwt.MapClaims, error) {
	key, err := loadPublicKey()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrTokenExpired
	}

	return token.Claims.(jwt.MapClaims), nil
}
