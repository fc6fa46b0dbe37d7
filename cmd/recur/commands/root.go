package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// dateLayout is how dates are read from flags and printed
const dateLayout = "2006-01-02"

type rootOptions struct {
	jsonPath string
	format   string
	debug    bool
	logger   *slog.Logger
}

// NewRootCmd builds the recur command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "recur",
		Short: "recur - compute due dates of repeating tasks",
		Long: `recur - compute due dates of repeating tasks.

Every command reads a recurrence descriptor as JSON, from the file named by
--json or from standard input. YAML with the same field names is accepted
for .yaml and .yml files or with --format yaml.

Available commands:
  next      - Print the next occurrence after a date
  preview   - Print several upcoming occurrences
  describe  - Print the recurrence in plain English
  validate  - Check every field of the descriptor
  rrule     - Print the equivalent RFC 5545 RRULE
  complete  - Complete a task due on a date and print its new due date
  ics       - Print a calendar holding one repeating task

Examples:
  echo '{"intervalUnit":"week","daysOfWeek":[1,3]}' | recur next --from 2024-01-10
  recur preview --json rent.json -n 12
  recur describe --json rent.json --verbose`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if opts.debug {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.jsonPath, "json", "-", "Descriptor JSON file, - for standard input")
	root.PersistentFlags().StringVar(&opts.format, "format", "", "Descriptor encoding, json or yaml (default from the file extension, else json)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log engine activity to standard error")

	root.AddCommand(newNextCmd(opts))
	root.AddCommand(newPreviewCmd(opts))
	root.AddCommand(newDescribeCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newRRuleCmd(opts))
	root.AddCommand(newCompleteCmd(opts))
	root.AddCommand(newICSCmd(opts))

	return root
}

// descriptor reads and decodes the descriptor named by --json
func (o *rootOptions) descriptor(cmd *cobra.Command) (recurrence.Descriptor, error) {
	var (
		data []byte
		err  error
	)
	if o.jsonPath == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(o.jsonPath)
	}
	if err != nil {
		return recurrence.Descriptor{}, fmt.Errorf("failed to read descriptor: %w", err)
	}

	if o.inputFormat() == "yaml" {
		if data, err = yamlToJSON(data); err != nil {
			return recurrence.Descriptor{}, fmt.Errorf("failed to decode descriptor: %w", err)
		}
	}

	d, err := recurrence.FromJSON(data)
	if err != nil {
		return recurrence.Descriptor{}, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	o.logger.Debug("descriptor loaded", "source", o.jsonPath, "recurrence", d.String())
	return d, nil
}

func (o *rootOptions) inputFormat() string {
	if o.format != "" {
		return strings.ToLower(o.format)
	}
	switch strings.ToLower(filepath.Ext(o.jsonPath)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// yamlToJSON re-encodes a YAML mapping so the JSON decoder's field checks apply
func yamlToJSON(data []byte) ([]byte, error) {
	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return json.Marshal(fields)
}

func (o *rootOptions) engine() *recurrence.Engine {
	config := recurrence.DisabledCacheConfig
	config.Logger = o.logger
	return recurrence.NewEngineWithConfig(config)
}

// parseDate reads a flag value as a local date; empty means today
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return recurrence.StartOfDay(time.Now()), nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return t, nil
}
