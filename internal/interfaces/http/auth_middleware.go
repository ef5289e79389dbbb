package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/pkg/jwt"
)

// Locals keys para UserID, Role y WarehouseID en Fiber.
const (
	LocalUserID      = "user_id"
	LocalRole        = "role"
	LocalWarehouseID = "warehouse_id"
)

// Roles reconocidos por las rutas protegidas.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
)

// AuthMiddleware valida el Bearer Token JWT y deja UserID, Role y WarehouseID en c.Locals.
// El token se emite fuera de este servicio; aquí solo se verifica. issuer vacío = no se valida el emisor.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, issuer, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalRole, id.Role)
		c.Locals(LocalWarehouseID, id.WarehouseID)
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados. Debe ir DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE → el token no trae rol.
//   - 403 FORBIDDEN    → rol no autorizado para la ruta.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if strings.EqualFold(r, role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// GetUserID devuelve el UserID del contexto; es también el operador de escaneo.
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetWarehouseID devuelve la bodega base del operador; vacío si el token no la trae.
func GetWarehouseID(c *fiber.Ctx) string {
	return localString(c, LocalWarehouseID)
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
