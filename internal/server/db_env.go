package server

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/ports"
	"github.com/jacksonlee411/employee-grid/modules/employee/infrastructure/persistence"
)

const (
	sourceMemory   = "memory"
	sourcePostgres = "postgres"
)

func dbDSNFromEnv() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getenvDefault("DB_HOST", "127.0.0.1")
	port := getenvDefault("DB_PORT", "5432")
	user := getenvDefault("DB_USER", "app")
	pass := getenvDefault("DB_PASSWORD", "app")
	name := getenvDefault("DB_NAME", "employee_grid")
	sslmode := getenvDefault("DB_SSLMODE", "disable")

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, pass),
		Host:   host + ":" + port,
		Path:   "/" + name,
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// employeeSourceFromEnv picks the row source named by EMPLOYEE_SOURCE. The
// memory source is seeded in process; the postgres source expects a schema
// prepared by dbtool.
func employeeSourceFromEnv(ctx context.Context, grid GridConfig) (ports.EmployeeSource, error) {
	switch kind := getenvDefault("EMPLOYEE_SOURCE", sourceMemory); kind {
	case sourceMemory:
		return persistence.NewEmployeeMemoryStore(persistence.SeedEmployees(grid.SeedEmployees)), nil
	case sourcePostgres:
		pool, err := pgxpool.New(ctx, dbDSNFromEnv())
		if err != nil {
			return nil, err
		}
		return persistence.NewEmployeePGStore(pool), nil
	default:
		return nil, fmt.Errorf("server: unknown EMPLOYEE_SOURCE %q", kind)
	}
}
