package importdoc

import (
	"bytes"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEncodingStatement(t *testing.T) {
	assert.Equal(t, "SET client_encoding TO latin2", setEncodingStatement("latin2"))
}

func TestDocumentBinding(t *testing.T) {
	oids, formats := documentBinding(DocumentXML)
	require.Equal(t, []uint32{pgtype.XMLOID}, oids)
	require.Equal(t, []int16{pgtype.BinaryFormatCode}, formats)

	oids, formats = documentBinding(DocumentBytea)
	require.Equal(t, []uint32{pgtype.ByteaOID}, oids)
	require.Equal(t, []int16{pgtype.BinaryFormatCode}, formats)

	oids, formats = documentBinding(DocumentText)
	assert.Nil(t, oids)
	assert.Nil(t, formats)
}

func reportingImporter() (*Importer, *bytes.Buffer, *bytes.Buffer) {
	imp := New(&Config{ProgName: "pgimportdoc"})
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	imp.stdout = stdout
	imp.stderr = stderr
	return imp, stdout, stderr
}

func textColumns(names ...string) []pgconn.FieldDescription {
	fields := make([]pgconn.FieldDescription, 0, len(names))
	for _, name := range names {
		fields = append(fields, pgconn.FieldDescription{Name: name, DataTypeOID: pgtype.TextOID})
	}
	return fields
}

func TestReportResultSingleCell(t *testing.T) {
	imp, stdout, stderr := reportingImporter()

	imp.reportResult(&pgconn.Result{
		FieldDescriptions: textColumns("id"),
		Rows:              [][][]byte{{[]byte("42")}},
	})

	assert.Equal(t, "42\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestReportResultNoResultSet(t *testing.T) {
	imp, stdout, stderr := reportingImporter()

	// INSERT without RETURNING: no field descriptions, no rows
	imp.reportResult(&pgconn.Result{CommandTag: pgconn.NewCommandTag("INSERT 0 1")})

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestReportResultEmptyResultSet(t *testing.T) {
	imp, stdout, stderr := reportingImporter()

	imp.reportResult(&pgconn.Result{FieldDescriptions: textColumns("id")})

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestReportResultNullCell(t *testing.T) {
	imp, stdout, stderr := reportingImporter()

	imp.reportResult(&pgconn.Result{
		FieldDescriptions: textColumns("id"),
		Rows:              [][][]byte{{nil}},
	})

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestReportResultExtraRowsWarn(t *testing.T) {
	imp, stdout, stderr := reportingImporter()

	imp.reportResult(&pgconn.Result{
		FieldDescriptions: textColumns("id"),
		Rows:              [][][]byte{{[]byte("first")}, {[]byte("second")}},
	})

	assert.Equal(t, "first\n", stdout.String())
	assert.Contains(t, stderr.String(), "warning: only first column of first row is displayed")
}

func TestReportResultExtraColumnsWarn(t *testing.T) {
	imp, stdout, stderr := reportingImporter()

	imp.reportResult(&pgconn.Result{
		FieldDescriptions: textColumns("id", "name"),
		Rows:              [][][]byte{{[]byte("7"), []byte("ignored")}},
	})

	assert.Equal(t, "7\n", stdout.String())
	assert.Contains(t, stderr.String(), "warning: only first column of first row is displayed")
}

func TestReportResultEmptyStringCell(t *testing.T) {
	imp, stdout, stderr := reportingImporter()

	// an empty value is not null and still prints a newline
	imp.reportResult(&pgconn.Result{
		FieldDescriptions: textColumns("id"),
		Rows:              [][][]byte{{{}}},
	})

	assert.Equal(t, "\n", stdout.String())
	assert.Empty(t, stderr.String())
}
