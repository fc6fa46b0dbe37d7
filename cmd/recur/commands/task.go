package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/cyp0633/librecur/calendar"
	"github.com/cyp0633/librecur/recurrence"
	"github.com/cyp0633/librecur/task"
	"github.com/cyp0633/librecur/task/memory"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// session holds a single repeating task in a throwaway store
type session struct {
	store   *memory.Store
	service *task.Service
	engine  *recurrence.Engine
	task    *task.Task
}

func (o *rootOptions) newSession(ctx context.Context, title string, d recurrence.Descriptor, due mo.Option[time.Time]) (*session, error) {
	engine := o.engine()
	store := memory.New(memory.WithLogger(o.logger))
	service := task.NewService(store, task.WithEngine(engine), task.WithLogger(o.logger))

	t := task.New(title)
	t.Due = due
	t.Recurrence = mo.Some(d)
	if err := service.Add(ctx, &t); err != nil {
		engine.Close()
		return nil, err
	}

	return &session{store: store, service: service, engine: engine, task: &t}, nil
}

func (s *session) Close() {
	s.engine.Close()
}

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	var due, at string

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Complete a task due on a date and print its new due date",
		Long: `Complete a repeating task due on --due at --at (both default today) and print
the due date it rolls forward to, or "closed" when the series has ended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.descriptor(cmd)
			if err != nil {
				return err
			}
			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}
			completedAt, err := parseDate(at)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := opts.newSession(ctx, "task", d, mo.Some(dueDate))
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.service.Complete(ctx, s.task.ID, completedAt)
			if err != nil {
				return err
			}
			if t.Completed {
				fmt.Fprintln(cmd.OutOrStdout(), "closed")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Due.MustGet().Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "Current due date (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&at, "at", "", "Completion date (YYYY-MM-DD), default today")
	return cmd
}

func newICSCmd(opts *rootOptions) *cobra.Command {
	var (
		title string
		from  string
		xml   bool
	)

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Print a calendar holding one repeating task",
		Long: `Print a VCALENDAR with a single VTODO whose due date is the first occurrence
after --from. With --xml the calendar is written as xCal (RFC 6321).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.descriptor(cmd)
			if err != nil {
				return err
			}
			ref, err := parseDate(from)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			engine := opts.engine()
			due := engine.Next(d, ref)
			engine.Close()

			s, err := opts.newSession(ctx, title, d, due)
			if err != nil {
				return err
			}
			defer s.Close()

			stored, err := s.store.List(ctx, &task.ListOptions{IncludeCompleted: true})
			if err != nil {
				return err
			}
			tasks := make([]task.Task, 0, len(stored))
			for _, t := range stored {
				tasks = append(tasks, *t)
			}

			build := calendar.BuildICS
			if xml {
				build = calendar.BuildXCal
			}
			data, err := build(tasks, time.Now())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "Repeating task", "Task summary")
	cmd.Flags().StringVar(&from, "from", "", "Reference date for the first due date (YYYY-MM-DD), default today")
	cmd.Flags().BoolVar(&xml, "xml", false, "Write xCal instead of iCalendar text")
	return cmd
}
