package papers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Afrawles/papertools/internal/tabular"
)

const sampleText = "1. Self-healing hydrogels for soft robotics\n" +
	"Smith, J.; Hoare, T. Adv. Mater. 2019, 31, 1900001.\n" +
	"\n" +
	"2. Injectable, degradable nanocomposites\n" +
	"Doe, K.; Hoare, T. ACS Nano 2020, 14, 100-110.\n" +
	"\n" +
	"3. Trailing record\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "ResearchPapers.txt", sampleText)
	out := filepath.Join(dir, "researchPapers.csv")

	summary, err := Run(Config{Input: in, Output: out, Format: tabular.Options{CRLF: true}})
	require.NoError(t, err)
	assert.Equal(t, 7, summary.Lines)
	assert.Equal(t, 1, summary.Dropped)
	assert.Len(t, summary.Records, 2)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"Self-healing hydrogels for soft robotics,\"Smith, J.; Hoare, T. Adv. Mater. 2019, 31, 1900001.\"\r\n"+
			"\"Injectable, degradable nanocomposites\",\"Doe, K.; Hoare, T. ACS Nano 2020, 14, 100-110.\"\r\n",
		string(data))
}

func TestRun_WithNumber(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", sampleText)
	out := filepath.Join(dir, "out.csv")

	_, err := Run(Config{Input: in, Output: out, WithNumber: true})
	require.NoError(t, err)

	header, rows, err := tabular.LoadRows(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "Self-healing hydrogels for soft robotics", "Smith, J.; Hoare, T. Adv. Mater. 2019, 31, 1900001."}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0][0])
}

func TestRun_MalformedTitleLeavesOutputUntouched(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", strings.Replace(sampleText, "2. Injectable", "Injectable", 1))
	out := writeFile(t, dir, "out.csv", "previous run\n")

	_, err := Run(Config{Input: in, Output: out})
	require.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "line 4")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous run\n", string(data))
}

func TestRun_CRLFInput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "\ufeff1. Title\r\nCitation\r\n\r\n")
	out := filepath.Join(dir, "out.csv")

	summary, err := Run(Config{Input: in, Output: out})
	require.NoError(t, err)
	require.Len(t, summary.Records, 1)
	assert.Equal(t, "Title", summary.Records[0].Title)
	assert.Equal(t, "Citation", summary.Records[0].Citation)
}

func TestRun_CarriageReturnInput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "1. T\rC\r\r2. U\rD\r\r")
	out := filepath.Join(dir, "out.csv")

	summary, err := Run(Config{Input: in, Output: out, Format: tabular.Options{CRLF: true}})
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Lines)
	assert.Equal(t, 0, summary.Dropped)
	require.Len(t, summary.Records, 2)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "T,C\r\nU,D\r\n", string(data))
}

func TestRun_NFC(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "1. Cafe\u0301\nGe\u0301rard\n\n")

	tests := []struct {
		name string
		nfc  bool
		want string
	}{
		{name: "byte faithful by default", nfc: false, want: "Cafe\u0301,Ge\u0301rard\n"},
		{name: "normalized on request", nfc: true, want: "Caf\u00e9,G\u00e9rard\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.csv")
			_, err := Run(Config{Input: in, Output: out, NFC: tt.nfc})
			require.NoError(t, err)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestRun_InputErrors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	_, err := Run(Config{Input: filepath.Join(dir, "missing.txt"), Output: out})
	assert.ErrorIs(t, err, tabular.ErrNotFound)

	in := writeFile(t, dir, "bad.txt", "1. Caf\xe9\nCitation\n\n")
	_, err = Run(Config{Input: in, Output: out})
	assert.ErrorIs(t, err, tabular.ErrDecoding)
}

func TestRun_Xlsx(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", sampleText)
	out := filepath.Join(dir, "papers.xlsx")

	_, err := Run(Config{Input: in, Output: out, Format: tabular.Options{Sheet: "Papers"}})
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Papers")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Injectable, degradable nanocomposites", rows[1][0])
}
