package importdoc

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5"
)

// Run executes one import: connect, optionally set the client encoding,
// buffer the document, execute the command and report the result.
func Run(ctx context.Context, cfg *Config) error {
	return New(cfg).Run(ctx)
}

// Importer owns a single run. The prompter, dial function and standard
// streams are fields so tests can substitute them.
type Importer struct {
	cfg     *Config
	session session
	prompt  passwordPrompter
	dial    dialFunc
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func New(cfg *Config) *Importer {
	return &Importer{
		cfg:    cfg,
		prompt: terminalPrompter{},
		dial:   pgx.ConnectConfig,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func (imp *Importer) Run(ctx context.Context) error {
	conn, err := imp.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if imp.cfg.Verbose {
		fmt.Fprintf(imp.stdout, "Connected to database %q\n", imp.cfg.Database)
		fmt.Fprintf(imp.stdout, "Import %s document\n", imp.cfg.Type)
	}

	if imp.cfg.Encoding != "" {
		if err := imp.setClientEncoding(ctx, conn); err != nil {
			return err
		}
	}

	doc, err := imp.readDocument()
	if err != nil {
		return err
	}

	if imp.cfg.Verbose {
		fmt.Fprintf(imp.stdout, "Buffered data of size: %d\n", len(doc))
	}

	return imp.executeCommand(ctx, conn, doc)
}
