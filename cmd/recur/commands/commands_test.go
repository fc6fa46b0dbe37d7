package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const biweekly = `{"intervalUnit":"week","intervalLength":2,"daysOfWeek":[1,3,5]}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestNextCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{"weekly days", biweekly, []string{"next", "--from", "2024-01-10"}, "2024-01-12\n"},
		{"next cycle", biweekly, []string{"next", "--from", "2024-01-12"}, "2024-01-22\n"},
		{"month end", `{"intervalUnit":"month","dayOfMonth":31}`, []string{"next", "--from", "2023-01-31"}, "2023-02-28\n"},
		{"ended", `{"intervalUnit":"day","maxCount":0}`, []string{"next", "--from", "2024-01-10"}, "none\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreviewCommand(t *testing.T) {
	got, err := run(t, `{"intervalUnit":"week","intervalLength":2,"daysOfWeek":[1,3,5],"maxCount":5}`,
		"preview", "--from", "2024-01-08", "-n", "10")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10\n2024-01-12\n2024-01-22\n2024-01-24\n2024-01-26\n", got)

	_, err = run(t, biweekly, "preview", "-n", "0")
	assert.Error(t, err)
}

func TestDescribeCommand(t *testing.T) {
	got, err := run(t, biweekly, "describe")
	require.NoError(t, err)
	assert.Equal(t, "Every 2 weeks on Monday, Wednesday, Friday\n", got)

	rent := `{"intervalUnit":"month","dayOfMonth":31,"endDate":"2024-12-31","onWeekend":"previous-weekday"}`
	got, err = run(t, rent, "describe", "--verbose", "--layout", "2006-01-02")
	require.NoError(t, err)
	assert.Equal(t, "Monthly on the 31st, until 2024-12-31, weekends move to the previous weekday\n", got)
}

func TestValidateCommand(t *testing.T) {
	got, err := run(t, biweekly, "validate")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", got)

	_, err = run(t, `{"intervalUnit":"month","dayOfMonth":40}`, "validate")
	assert.ErrorIs(t, err, recurrence.ErrInvalidField)
	assert.ErrorContains(t, err, "dayOfMonth")
}

func TestRRuleCommand(t *testing.T) {
	got, err := run(t, biweekly, "rrule")
	require.NoError(t, err)
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2;WKST=SU;BYDAY=MO,WE,FR\n", got)

	got, err = run(t, biweekly, "rrule", "--dtstart", "2024-01-08")
	require.NoError(t, err)
	assert.Contains(t, got, "DTSTART")
	assert.Contains(t, got, "RRULE:FREQ=WEEKLY;INTERVAL=2;WKST=SU;BYDAY=MO,WE,FR")

	_, err = run(t, `{"intervalUnit":"fortnight"}`, "rrule")
	assert.ErrorIs(t, err, recurrence.ErrUnsupportedRule)
}

func TestCompleteCommand(t *testing.T) {
	fromCompletion := `{"intervalUnit":"day","intervalLength":3,"baseOnCompletion":true}`
	got, err := run(t, fromCompletion, "complete", "--due", "2024-01-08", "--at", "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-13\n", got)

	got, err = run(t, `{"intervalUnit":"day","intervalLength":3}`, "complete", "--due", "2024-01-08", "--at", "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-11\n", got)

	got, err = run(t, `{"intervalUnit":"day","maxCount":0}`, "complete", "--due", "2024-01-08", "--at", "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, "closed\n", got)
}

func TestICSCommand(t *testing.T) {
	got, err := run(t, biweekly, "ics", "--title", "Gym", "--from", "2024-01-08")
	require.NoError(t, err)

	got = strings.ReplaceAll(got, "\r\n ", "")
	assert.Contains(t, got, "BEGIN:VTODO\r\n")
	assert.Contains(t, got, "SUMMARY:Gym\r\n")
	assert.Contains(t, got, "DUE;VALUE=DATE:20240110\r\n")
	assert.Contains(t, got, "RRULE:FREQ=WEEKLY;INTERVAL=2;WKST=SU;BYDAY=MO,WE,FR\r\n")

	got, err = run(t, biweekly, "ics", "--title", "Gym", "--from", "2024-01-08", "--xml")
	require.NoError(t, err)
	assert.Contains(t, got, "<icalendar")
	assert.Contains(t, got, "<vtodo>")
	assert.Contains(t, got, "<date>2024-01-10</date>")
}

func TestDescriptorFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rent.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"intervalUnit":"month","dayOfMonth":31}`), 0o644))

	got, err := run(t, "", "next", "--json", path, "--from", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29\n", got)

	_, err = run(t, "", "next", "--json", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestYAMLDescriptor(t *testing.T) {
	rent := "intervalUnit: month\ndayOfMonth: 31\nonWeekend: previous-weekday\n"

	path := filepath.Join(t.TempDir(), "rent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rent), 0o644))

	// 2024-03-31 is a Sunday
	got, err := run(t, "", "next", "--json", path, "--from", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-29\n", got)

	got, err = run(t, rent, "describe", "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "Monthly on the 31st\n", got)

	_, err = run(t, "intervalUnit: [oops", "describe", "--format", "yaml")
	assert.Error(t, err)
}

func TestInputErrors(t *testing.T) {
	_, err := run(t, `{"intervalLength":2}`, "next")
	assert.ErrorIs(t, err, recurrence.ErrMissingIntervalUnit)

	_, err = run(t, `not json`, "describe")
	assert.Error(t, err)

	_, err = run(t, biweekly, "next", "--from", "01/10/2024")
	assert.ErrorContains(t, err, "invalid date")
}
