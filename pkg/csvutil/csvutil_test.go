package csvutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type sampleRow struct {
	Name   string
	Amount int64
	Note   *string
}

func parseSample(r *Row) (sampleRow, error) {
	return sampleRow{
		Name:   r.String("name"),
		Amount: r.Int64("amount"),
		Note:   r.OptString("note"),
	}, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecode_FlexibleQuotedTrimmed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.csv", strings.Join([]string{
		"name , amount,note",
		` alice , 10 ,"hello, world"`,
		"bob,20",
		`"  carol  ",30,x,extra`,
		"",
	}, "\n"))

	rows, err := Decode(path, parseSample)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "alice", rows[0].Name)
	assert.Equal(t, int64(10), rows[0].Amount)
	require.NotNil(t, rows[0].Note)
	assert.Equal(t, "hello, world", *rows[0].Note)

	assert.Equal(t, "bob", rows[1].Name)
	assert.Nil(t, rows[1].Note)

	assert.Equal(t, "carol", rows[2].Name)
	assert.Equal(t, int64(30), rows[2].Amount)
}

func TestDecode_WhitespaceAfterClosingQuote(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.csv", strings.Join([]string{
		"name,amount,note",
		`"Fund7" , 10 , "Grow" `,
		"\"a \"\"b\"\"\" \t,2,\"x\"\t",
		"\"multi",
		"line\"  ,3,\"keep \"\" inner\"",
		"",
	}, "\n"))

	rows, err := Decode(path, parseSample)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Fund7", rows[0].Name)
	assert.Equal(t, int64(10), rows[0].Amount)
	require.NotNil(t, rows[0].Note)
	assert.Equal(t, "Grow", *rows[0].Note)

	assert.Equal(t, `a "b"`, rows[1].Name)
	require.NotNil(t, rows[1].Note)
	assert.Equal(t, "x", *rows[1].Note)

	assert.Equal(t, "multi\nline", rows[2].Name)
	require.NotNil(t, rows[2].Note)
	assert.Equal(t, `keep " inner`, *rows[2].Note)
}

func TestDecode_TextAfterClosingQuoteStillFails(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.csv", "name,amount\n\"Fund7\" x,1\n")

	_, err := Decode(path, parseSample)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Line)
}

func TestDecode_ColumnOrderIsFree(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.csv", "amount,name\n7,zed\n")

	rows, err := Decode(path, parseSample)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, sampleRow{Name: "zed", Amount: 7}, rows[0])
}

func TestDecode_StripsBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.csv", "\xEF\xBB\xBFname,amount\nx,1\n")

	rows, err := Decode(path, parseSample)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "x", rows[0].Name)
}

func TestDecode_ConversionErrorNamesFileAndLine(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.csv", "name,amount\nok,1\nbroken,abc\nlater,3\n")

	_, err := Decode(path, parseSample)
	require.Error(t, err)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, path, de.Path)
	assert.Equal(t, 3, de.Line)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), "amount")
}

func TestDecode_MalformedQuotingAbortsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "quotes.csv", "name,amount\n\"open,1\n")

	rows, err := Decode(path, parseSample)
	require.Error(t, err)
	assert.Nil(t, rows)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, path, de.Path)
}

func TestDecode_ParseCallbackError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cb.csv", "name,amount\nx,1\n")

	_, err := Decode(path, func(r *Row) (sampleRow, error) {
		return sampleRow{}, errors.New("rejected")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
	assert.Contains(t, err.Error(), "line 2")
}

func TestDecode_MissingHeaderAndFile(t *testing.T) {
	dir := t.TempDir()

	_, err := Decode(writeFile(t, dir, "empty.csv", ""), parseSample)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header")

	_, err = Decode(filepath.Join(dir, "absent.csv"), parseSample)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecode_DuplicateHeader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dup.csv", "name,name\nx,y\n")

	_, err := Decode(path, parseSample)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate header column")
}

func TestDecode_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"name", "amount", "note"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{" dave ", 5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"erin", 6, "n"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := Decode(path, parseSample)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "dave", rows[0].Name)
	assert.Equal(t, int64(5), rows[0].Amount)
	assert.Nil(t, rows[0].Note)
	require.NotNil(t, rows[1].Note)
	assert.Equal(t, "n", *rows[1].Note)
}

func TestIsTabular(t *testing.T) {
	assert.True(t, IsTabular("votes.csv"))
	assert.True(t, IsTabular("/tmp/VOTES.CSV"))
	assert.True(t, IsTabular("book.xlsx"))
	assert.False(t, IsTabular("notes.txt"))
	assert.False(t, IsTabular("csv"))
}
