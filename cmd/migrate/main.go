// migrate aplica las migraciones embebidas sobre la base configurada y termina.
package main

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ops/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-ops/pkg/config"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name + "-migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.RunMigrations(ctx, pool)
	if err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	if len(applied) == 0 {
		log.Info().Msg("esquema al día, sin migraciones pendientes")
		return
	}
	log.Info().Strs("versions", applied).Msg("migraciones aplicadas")
}
