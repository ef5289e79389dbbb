package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/warehouse-ops/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateInvalidText         = "22P02"
	sqlStateSerialization       = "40001"
	sqlStateDeadlock            = "40P01"
)

// translate envuelve err con la operación y, si es un error de PostgreSQL conocido,
// con el error de dominio que le corresponde.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case sqlStateUniqueViolation:
		return fmt.Errorf("%s: %w (%s)", op, domain.ErrDuplicate, pgErr.ConstraintName)
	case sqlStateForeignKeyViolation:
		return fmt.Errorf("%s: %w (%s)", op, domain.ErrNotFound, pgErr.ConstraintName)
	case sqlStateInvalidText:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrNotFound, pgErr.Message)
	case sqlStateCheckViolation:
		return fmt.Errorf("%s: %w (%s)", op, domain.ErrInvalidInput, pgErr.ConstraintName)
	case sqlStateSerialization, sqlStateDeadlock:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrConflict, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// validID indica si todos los ids tienen forma de UUID. Un id mal formado no existe en
// ninguna tabla, así que las lecturas lo tratan como fila ausente sin consultar.
func validID(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}
