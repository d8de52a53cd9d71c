package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jacksonlee411/employee-grid/modules/employee/domain/types"
	"github.com/jacksonlee411/employee-grid/modules/employee/infrastructure/persistence"
)

const usage = "usage: dbtool <init-schema|seed|history> [--url postgres://...] [--count N] [--limit N]"

type options struct {
	url   string
	count int
	limit int
}

func main() {
	if len(os.Args) < 2 {
		fatalf(usage)
	}

	opts, err := parseOptions(os.Args[1], os.Args[2:], os.Stderr)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, opts.url)
	if err != nil {
		fatal(err)
	}
	defer conn.Close(context.Background())

	if err := run(ctx, os.Args[1], opts, persistence.NewEmployeePGStore(conn), os.Stdout); err != nil {
		fatal(err)
	}
}

func parseOptions(cmd string, args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.url, "url", os.Getenv("DATABASE_URL"), "postgres connection string")
	fs.IntVar(&opts.count, "count", persistence.DefaultSeedEmployees, "employees to seed")
	fs.IntVar(&opts.limit, "limit", 10, "change sets to list")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.url == "" {
		return options{}, errors.New("missing --url (or DATABASE_URL)")
	}
	if opts.count < 0 {
		return options{}, errors.New("--count must not be negative")
	}
	return opts, nil
}

type employeeDB interface {
	EnsureSchema(ctx context.Context) error
	Seed(ctx context.Context, rows []types.Employee) (int, error)
	ListChangeSets(ctx context.Context, limit int) ([]types.ChangeSet, error)
}

func run(ctx context.Context, cmd string, opts options, db employeeDB, out io.Writer) error {
	switch cmd {
	case "init-schema":
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "[dbtool] schema ready")
	case "seed":
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		n, err := db.Seed(ctx, persistence.SeedEmployees(opts.count))
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "[dbtool] seeded %d of %d employees\n", n, opts.count)
	case "history":
		sets, err := db.ListChangeSets(ctx, opts.limit)
		if err != nil {
			return err
		}
		for _, cs := range sets {
			_, _ = fmt.Fprintf(out, "%s %s added=%d edited=%d deleted=%d\n",
				cs.ID, cs.CreatedAt.UTC().Format(time.RFC3339), len(cs.Added), len(cs.Edited), len(cs.Deleted))
		}
	default:
		return fmt.Errorf("unknown subcommand: %s", cmd)
	}
	return nil
}

func fatal(err error) {
	if err == nil {
		os.Exit(1)
	}
	fatalf("%v", err)
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
