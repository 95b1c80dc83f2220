package importdoc

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

func setEncodingStatement(encoding string) string {
	return "SET client_encoding TO " + encoding
}

// setClientEncoding switches the session encoding before any document data
// is sent. Only meaningful for TEXT documents, which travel in text format.
func (imp *Importer) setClientEncoding(ctx context.Context, conn *pgx.Conn) error {
	stmt := setEncodingStatement(imp.cfg.Encoding)
	if imp.cfg.Verbose {
		fmt.Fprintf(imp.stdout, "execute command: %s\n", stmt)
	}

	tag, err := conn.Exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("failed to set client encoding to %s: %w", imp.cfg.Encoding, err)
	}

	if imp.cfg.Verbose {
		fmt.Fprintf(imp.stdout, "Set encoding result status: %s\n", tag)
	}
	return nil
}

// documentBinding maps a document type to the parameter OIDs and formats of
// the one bound parameter. XML and BYTEA go over the wire in binary format
// tagged with their catalog type; TEXT is sent untyped in text format and
// the server infers the type and applies client encoding conversion.
func documentBinding(t DocumentType) (paramOIDs []uint32, paramFormats []int16) {
	switch t {
	case DocumentXML:
		return []uint32{pgtype.XMLOID}, []int16{pgtype.BinaryFormatCode}
	case DocumentBytea:
		return []uint32{pgtype.ByteaOID}, []int16{pgtype.BinaryFormatCode}
	default:
		return nil, nil
	}
}

// executeCommand runs the user command with the document as its single
// bound parameter and reports the outcome.
func (imp *Importer) executeCommand(ctx context.Context, conn *pgx.Conn, doc []byte) error {
	paramOIDs, paramFormats := documentBinding(imp.cfg.Type)

	// A nil parameter value is bound as SQL NULL; an empty document stays an
	// empty value.
	if doc == nil {
		doc = []byte{}
	}

	result := conn.PgConn().ExecParams(ctx, imp.cfg.Command, [][]byte{doc}, paramOIDs, paramFormats, nil).Read()
	if result.Err != nil {
		return fmt.Errorf("failed to execute command: %w", result.Err)
	}

	if imp.cfg.Verbose {
		fmt.Fprintf(imp.stdout, "Result status: %s\n", result.CommandTag)
	}

	imp.reportResult(result)
	return nil
}

// reportResult prints the first column of the first row unless the cell is
// SQL null or the statement returned no result set. Extra rows or columns
// only warn.
func (imp *Importer) reportResult(result *pgconn.Result) {
	if len(result.FieldDescriptions) == 0 {
		return
	}
	if len(result.Rows) > 1 || len(result.FieldDescriptions) > 1 {
		fmt.Fprintf(imp.stderr, "%s: warning: only first column of first row is displayed\n", imp.cfg.ProgName)
	}
	if len(result.Rows) > 0 && result.Rows[0][0] != nil {
		fmt.Fprintln(imp.stdout, string(result.Rows[0][0]))
	}
}
