package importdoc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the server answers with when authentication needed a
// password that was not supplied.
const (
	sqlstateInvalidPassword          = "28P01"
	sqlstateInvalidAuthorizationSpec = "28000"
)

type dialFunc func(ctx context.Context, connConfig *pgx.ConnConfig) (*pgx.Conn, error)

// session carries the password cache shared by all connection attempts of
// one run.
type session struct {
	password     string
	havePassword bool
}

// connect establishes the connection, prompting for a password at most once
// when the server rejects an attempt that carried no password. A password
// resolved from the environment or a password file counts as carried; its
// rejection is terminal. -W prompts up front, -w never prompts.
func (imp *Importer) connect(ctx context.Context) (*pgx.Conn, error) {
	if imp.cfg.Prompt == PromptAlways && !imp.session.havePassword {
		if err := imp.askPassword(); err != nil {
			return nil, err
		}
	}

	for {
		connConfig, err := imp.connConfig()
		if err != nil {
			return nil, err
		}

		conn, err := imp.dial(ctx, connConfig)
		if err == nil {
			return conn, nil
		}

		needsPassword := connectionNeedsPassword(err) && connConfig.Password == ""
		if needsPassword && !imp.session.havePassword && imp.cfg.Prompt != PromptNever {
			if err := imp.askPassword(); err != nil {
				return nil, err
			}
			continue
		}

		return nil, fmt.Errorf("connection to database %q failed: %w", imp.cfg.Database, err)
	}
}

func (imp *Importer) connConfig() (*pgx.ConnConfig, error) {
	connConfig, err := pgx.ParseConfig(imp.conninfo())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection parameters: %w", err)
	}
	if imp.session.havePassword {
		connConfig.Password = imp.session.password
	}
	return connConfig, nil
}

// conninfo builds a keyword/value connection string from the options that
// were actually provided. Options left out keep the client library's
// environment variable and default handling (PGHOST, PGPORT, PGUSER,
// PGPASSWORD, ~/.pgpass, PGSERVICE).
func (imp *Importer) conninfo() string {
	parts := []string{
		"dbname=" + quoteConnValue(imp.cfg.Database),
		"fallback_application_name=" + quoteConnValue(imp.cfg.ProgName),
	}
	if imp.cfg.Host != "" {
		parts = append(parts, "host="+quoteConnValue(imp.cfg.Host))
	}
	if imp.cfg.Port != 0 {
		parts = append(parts, fmt.Sprintf("port=%d", imp.cfg.Port))
	}
	if imp.cfg.User != "" {
		parts = append(parts, "user="+quoteConnValue(imp.cfg.User))
	}
	return strings.Join(parts, " ")
}

// quoteConnValue quotes a conninfo value, escaping backslashes and single
// quotes.
func quoteConnValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func connectionNeedsPassword(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlstateInvalidPassword || pgErr.Code == sqlstateInvalidAuthorizationSpec
}

func (imp *Importer) askPassword() error {
	password, err := imp.prompt.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	imp.session.password = password
	imp.session.havePassword = true
	return nil
}
