package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations aplica as migrações pendentes. Pode ser chamado a cada inicialização.
func RunMigrations(conn *Connection) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("erro ao abrir migrações embutidas: %w", err)
	}

	driver, err := migratepg.WithInstance(conn.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("erro ao criar driver de migração: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("erro ao criar instância de migração: %w", err)
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logrus.Info("Nenhuma migração pendente")
		return nil
	}
	if err != nil {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}

	version, _, _ := m.Version()
	logrus.WithField("version", version).Info("Migrações aplicadas com sucesso")
	return nil
}
