package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okbob/pgimportdoc/internal/importdoc"
)

const version = "1.0.0"

var errVersionRequested = errors.New("version requested")

func main() {
	progname := filepath.Base(os.Args[0])

	cfg, err := parseArgs(progname, os.Args[1:])
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			usage(os.Stdout, progname)
			return
		case errors.Is(err, errVersionRequested):
			fmt.Printf("pgimportdoc %s\n", version)
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", progname, err)
		fmt.Fprintf(os.Stderr, "Try \"%s --help\" for more information.\n", progname)
		os.Exit(1)
	}

	warnIgnoredEncoding(os.Stderr, cfg)

	if err := importdoc.Run(context.Background(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", progname, err)
		os.Exit(1)
	}
}

func parseArgs(progname string, args []string) (*importdoc.Config, error) {
	cfg := &importdoc.Config{ProgName: progname}

	fs := flag.NewFlagSet(progname, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		port         string
		docType      string
		filename     string
		noPassword   bool
		forcePrompt  bool
		showHelp     bool
		showVersion  bool
		showVersion2 bool
	)

	fs.StringVar(&cfg.Host, "h", "", "database server host or socket directory")
	fs.StringVar(&port, "p", "", "database server port")
	fs.StringVar(&cfg.User, "U", "", "database user name")
	fs.BoolVar(&noPassword, "w", false, "never prompt for password")
	fs.BoolVar(&forcePrompt, "W", false, "force password prompt")
	fs.StringVar(&cfg.Command, "c", "", "INSERT or UPDATE command with one parameter")
	fs.StringVar(&filename, "f", "", "file with the imported document, default is stdin")
	fs.StringVar(&docType, "t", "TEXT", "type of document [ XML | TEXT | BYTEA ]")
	fs.StringVar(&cfg.Encoding, "E", "", "encoding of imported TEXT document")
	fs.BoolVar(&cfg.Verbose, "v", false, "write a lot of progress messages")
	fs.BoolVar(&showHelp, "?", false, "show this help, then exit")
	fs.BoolVar(&showVersion, "V", false, "output version information, then exit")
	fs.BoolVar(&showVersion2, "version", false, "output version information, then exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if showHelp {
		return nil, flag.ErrHelp
	}
	if showVersion || showVersion2 {
		return nil, errVersionRequested
	}

	// -p with an empty value is provided, not defaulted
	portGiven := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "p" {
			portGiven = true
		}
	})
	if portGiven {
		p, err := strconv.ParseUint(port, 10, 16)
		if err != nil || p < 1 {
			return nil, fmt.Errorf("invalid port number: %s", port)
		}
		cfg.Port = uint16(p)
	}

	t, err := importdoc.ParseDocumentType(docType)
	if err != nil {
		return nil, err
	}
	cfg.Type = t

	// "-" on -f keeps the stdin default
	if filename != "" && filename != "-" {
		cfg.Filename = filename
	}

	switch {
	case forcePrompt:
		cfg.Prompt = importdoc.PromptAlways
	case noPassword:
		cfg.Prompt = importdoc.PromptNever
	}

	if cfg.Command == "" {
		return nil, errors.New("missing required argument: -c COMMAND")
	}
	if fs.NArg() != 1 {
		return nil, errors.New("missing required argument: database name")
	}
	cfg.Database = fs.Arg(0)

	return cfg, nil
}

// warnIgnoredEncoding reports a non-fatal warning when -E is combined with a
// document type that never applies a client encoding.
func warnIgnoredEncoding(w io.Writer, cfg *importdoc.Config) {
	if cfg.Encoding == "" || cfg.Type == importdoc.DocumentText {
		return
	}
	fmt.Fprintf(w, "%s: warning: encoding is used only for type TEXT\n", cfg.ProgName)
}

func usage(w io.Writer, progname string) {
	fmt.Fprintf(w, `%s imports XML, TEXT or BYTEA documents to PostgreSQL.

Usage:
  %s [OPTION]... DBNAME

Options:
  -V, --version    output version information, then exit
  -?, --help       show this help, then exit
  -c COMMAND       INSERT or UPDATE command with one parameter ($1)
  -E ENCODING      encoding of imported TEXT document
  -f FILE          file with the imported document, default is stdin
                   ("-" also means stdin)
  -t TYPE          type of document [ XML | TEXT | BYTEA ], default is TEXT
  -v               write a lot of progress messages

Connection options:
  -h HOSTNAME      database server host or socket directory
  -p PORT          database server port
  -U USERNAME      database user name
  -w               never prompt for password
  -W               force password prompt

Report bugs to <https://github.com/okbob/pgimportdoc/issues>.
`, progname, progname)
}
