// Package jwt verifica (y, para pruebas y herramientas, firma) los tokens de operador.
// Los tokens los emite el proveedor de identidad; este servicio no tiene login.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims son los claims estándar más el rol y la bodega base del operador.
// El ID de usuario viaja en Subject.
type Claims struct {
	jwt.RegisteredClaims
	Role        string `json:"role"`                   // "admin" | "bodeguero" | ...
	WarehouseID string `json:"warehouse_id,omitempty"` // bodega por defecto del operador
}

// Identity es lo que el middleware deja disponible a los handlers.
type Identity struct {
	UserID      string
	Role        string
	WarehouseID string
}

var (
	ErrEmptySecret    = errors.New("jwt: secret vacío")
	ErrMissingSubject = errors.New("jwt: token sin subject")
)

// Generate firma un token HS256 para la identidad dada.
func Generate(secret, issuer string, id Identity, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if id.UserID == "" {
		return "", ErrMissingSubject
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:        id.Role,
		WarehouseID: id.WarehouseID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, expiración y (si issuer no es vacío) el emisor.
func Parse(secret, issuer, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, ErrEmptySecret
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("jwt: claims inválidos")
	}
	if claims.Subject == "" {
		return Identity{}, ErrMissingSubject
	}
	return Identity{UserID: claims.Subject, Role: claims.Role, WarehouseID: claims.WarehouseID}, nil
}
