package training

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, data string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestPrepare(t *testing.T) {
	input := strings.Join([]string{
		`{"analysis":" Topics: optics ","reference_sheet":" SHEET ","event":"Optics","division":"C","source":"2024 invitational"}`,
		``,
		`{"analysis":"only analysis"}`,
		`{"analysis":"","reference_sheet":"orphan"}`,
		`{"analysis":"Topics: <circuits> & more","reference_sheet":"S2"}`,
	}, "\n")

	var out bytes.Buffer
	n, err := Prepare(strings.NewReader(input), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := decodeLines(t, out.String())
	require.Len(t, rows, 2)

	text := rows[0]["text"].(string)
	assert.True(t, strings.HasPrefix(text, "### Instruction\nCreate a highly compressed Science Olympiad reference sheet"))
	assert.True(t, strings.HasSuffix(text, "Analysis to transform:\nTopics: optics\n\n### Response\nSHEET"))

	meta := rows[0]["meta"].(map[string]any)
	assert.Equal(t, "Optics", meta["event"])
	assert.Equal(t, "C", meta["division"])
	assert.Equal(t, "2024 invitational", meta["source"])
	assert.EqualValues(t, 1, meta["line_no"])

	meta = rows[1]["meta"].(map[string]any)
	assert.EqualValues(t, 5, meta["line_no"], "line numbers count blank lines")
	assert.Nil(t, meta["event"])
	assert.Contains(t, meta, "event")

	assert.Contains(t, out.String(), "<circuits> & more", "HTML characters are not escaped")
}

func TestPrepareInvalidJSON(t *testing.T) {
	input := "{\"analysis\":\"a\",\"reference_sheet\":\"b\"}\n\n{not json}\n"

	var out bytes.Buffer
	_, err := Prepare(strings.NewReader(input), &out)
	require.ErrorIs(t, err, ErrInvalidLine)
	assert.ErrorContains(t, err, "line 3")
}

func TestPrepareFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.jsonl")
	out := filepath.Join(dir, "train.jsonl")
	require.NoError(t, os.WriteFile(in, []byte(`{"analysis":"a","reference_sheet":"b"}`), 0o644))

	n, err := PrepareFile(in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := ValidateTrainingFile(out)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestValidateTrainingFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	_, err := ValidateTrainingFile(write("missing.jsonl", "{\"text\":\"ok\"}\n{\"text\":\"  \"}\n"))
	require.ErrorIs(t, err, ErrMissingText)
	assert.ErrorContains(t, err, "line 2")

	_, err = ValidateTrainingFile(write("bad.jsonl", "nope\n"))
	assert.ErrorIs(t, err, ErrInvalidLine)

	_, err = ValidateTrainingFile(write("empty.jsonl", "\n\n"))
	assert.ErrorIs(t, err, ErrNoExamples)

	_, err = ValidateTrainingFile(filepath.Join(dir, "absent.jsonl"))
	assert.Error(t, err)
}

func TestForEachLineHandlesLongLines(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	var got []int
	err := forEachLine(strings.NewReader(long+"\n\nlast"), func(lineNo int, line string) error {
		got = append(got, lineNo)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, got)
}
