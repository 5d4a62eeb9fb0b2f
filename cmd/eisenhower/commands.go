package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/benjamonnguyen/eisenhower"
)

type appGetter func() *app

// useSession switches to the session with the given name or id for the rest
// of the command.
func useSession(a *app, nameOrID string) error {
	if nameOrID == "" {
		return nil
	}
	s, err := a.sessions.SessionByName(nameOrID)
	if errors.Is(err, eisenhower.ErrSessionNotFound) {
		s, err = a.sessions.SessionByID(nameOrID)
	}
	if err != nil {
		return err
	}
	_, err = a.sessions.SwitchSession(s.ID)
	return err
}

func addCmd(getApp appGetter) *cobra.Command {
	var (
		session, description, due string
		quadrant                  int
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to a session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := useSession(a, session); err != nil {
				return err
			}
			p, ok := eisenhower.PriorityFromQuadrant(quadrant)
			if !ok {
				return fmt.Errorf("quadrant must be 1-4: %w", eisenhower.ErrInvalidPriority)
			}
			data := eisenhower.NewTask{
				Title:       strings.Join(args, " "),
				Description: description,
				Priority:    p,
			}
			if due != "" {
				d, err := time.ParseInLocation(a.conf.DateFormat, due, time.Local)
				if err != nil {
					return fmt.Errorf("due date must look like %s: %w", a.conf.DateFormat, err)
				}
				data.DueDate = &d
			}

			t, err := a.tasks.AddTask(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s\n", t.Title, p.Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "", "session name or id (default first session)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date in the configured date format")
	cmd.Flags().IntVarP(&quadrant, "quadrant", "q", 2, "1 urgent+important, 2 important, 3 urgent, 4 neither")
	return cmd
}

func doneCmd(getApp appGetter) *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "done <task id>",
		Short: "Toggle completion of a task in a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := useSession(a, session); err != nil {
				return err
			}
			t, err := a.tasks.TaskByID(args[0])
			if err != nil {
				return err
			}
			t, err = a.tasks.ToggleCompletion(t.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatTask(1, t, a.conf.DateFormat))
			return nil
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "", "session name or id (default first session)")
	return cmd
}

type taskView struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Priority    string     `json:"priority" yaml:"priority"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
}

func toTaskViews(tasks []eisenhower.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			DueDate:     t.DueDate,
			Priority:    string(t.Priority),
			CreatedAt:   t.CreatedAt,
		})
	}
	return views
}

func listCmd(getApp appGetter) *cobra.Command {
	var session, format string
	var quadrant int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := useSession(a, session); err != nil {
				return err
			}
			priorities := eisenhower.Priorities()
			if quadrant != 0 {
				p, ok := eisenhower.PriorityFromQuadrant(quadrant)
				if !ok {
					return fmt.Errorf("quadrant must be 1-4: %w", eisenhower.ErrInvalidPriority)
				}
				priorities = []eisenhower.Priority{p}
			}

			var tasks []eisenhower.Task
			for _, p := range priorities {
				tasks = append(tasks, a.tasks.TasksByPriority(p)...)
			}
			return writeTasks(cmd.OutOrStdout(), format, tasks, a.conf.DateFormat)
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "", "session name or id (default first session)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().IntVarP(&quadrant, "quadrant", "q", 0, "only list one quadrant (1-4)")
	return cmd
}

func writeTasks(w io.Writer, format string, tasks []eisenhower.Task, dateFormat string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toTaskViews(tasks))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toTaskViews(tasks)); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		var last eisenhower.Priority
		for i, t := range tasks {
			if t.Priority != last {
				fmt.Fprintln(w, colorize(colorCyan, t.Priority.Label()))
				last = t.Priority
			}
			fmt.Fprintf(w, "  %s\n", formatTask(i+1, t, dateFormat))
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

func sessionsCmd(getApp appGetter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			counts := a.tasks.CountBySession()
			for _, s := range a.sessions.ListSessions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %3d tasks  created %s\n", s.Name, counts[s.ID], humanize.Time(s.CreatedAt))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			name, err := eisenhower.ValidateSessionName(a.sessions.ListSessions(), strings.Join(args, " "), "")
			if err != nil {
				return err
			}
			s, err := a.sessions.CreateSession(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created session %q\n", s.Name)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name> <new name>",
		Short: "Rename a session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			s, err := a.sessions.SessionByName(args[0])
			if err != nil {
				return err
			}
			name, err := eisenhower.ValidateSessionName(a.sessions.ListSessions(), strings.Join(args[1:], " "), s.ID)
			if err != nil {
				return err
			}
			_, err = a.sessions.RenameSession(s.ID, name)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a session; its tasks are kept but hidden",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			s, err := a.sessions.SessionByName(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.sessions.DeleteSession(s.ID)
		},
	})
	return cmd
}

func notesCmd(getApp appGetter) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			notes := a.notes.ListNotes()
			if tag != "" {
				notes = a.notes.NotesByTag(tag)
			}
			for _, n := range notes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  [%s]\n", colorize(colorYellow, n.Title), humanize.Time(n.UpdatedAt), strings.Join(n.Tags, ", "))
				if n.Content != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", n.Content)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only list notes with this tag")

	var content string
	var tags []string
	addNote := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := getApp().notes.AddNote(eisenhower.NewNote{
				Title:   strings.Join(args, " "),
				Content: content,
				Tags:    tags,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note %s\n", n.ID)
			return nil
		},
	}
	addNote.Flags().StringVarP(&content, "content", "c", "", "note body")
	addNote.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tags")
	cmd.AddCommand(addNote)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := getApp().notes.NoteByID(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, colorize(colorYellow, n.Title))
			fmt.Fprintf(w, "created %s, updated %s\n", humanize.Time(n.CreatedAt), humanize.Time(n.UpdatedAt))
			if len(n.Tags) > 0 {
				fmt.Fprintf(w, "tags: %s\n", strings.Join(n.Tags, ", "))
			}
			if n.Content != "" {
				fmt.Fprintf(w, "\n%s\n", n.Content)
			}
			return nil
		},
	})

	var editTitle, editContent string
	var editTags []string
	editNote := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes := getApp().notes
			n, err := notes.NoteByID(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				n.Title = editTitle
			}
			if flags.Changed("content") {
				n.Content = editContent
			}
			if flags.Changed("tag") {
				n.Tags = editTags
			}
			if _, err := notes.UpdateNote(n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %s\n", n.ID)
			return nil
		},
	}
	editNote.Flags().StringVar(&editTitle, "title", "", "new title")
	editNote.Flags().StringVarP(&editContent, "content", "c", "", "new body")
	editNote.Flags().StringSliceVarP(&editTags, "tag", "t", nil, "replace tags")
	cmd.AddCommand(editNote)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getApp().notes.DeleteNote(args[0])
		},
	})
	return cmd
}

func themeCmd(getApp appGetter) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if len(args) == 1 {
				switch args[0] {
				case "toggle":
					a.theme.Toggle()
				case "light", "dark":
					a.theme.Set(eisenhower.Theme(args[0]))
				default:
					return fmt.Errorf("unknown theme %q", args[0])
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.theme.Theme())
			return nil
		},
	}
}

func importCmd(getApp appGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON export of the browser app's localStorage",
		Long: `Import a JSON object of localStorage keys to their string values, e.g. the output of
JSON.stringify(localStorage) in the browser console. The sessions, tasks, notes and
theme entries replace the stored ones; other keys are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck

			summary, err := eisenhower.ImportLocalStorage(cmd.Context(), a.repo, f)
			if err != nil {
				return err
			}
			a.l.Info("imported", "summary", summary)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sessions, %d tasks, %d notes\n", summary.Sessions, summary.Tasks, summary.Notes)
			if len(summary.Skipped) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped keys: %s\n", strings.Join(summary.Skipped, ", "))
			}
			if len(summary.Cleared) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared keys: %s\n", strings.Join(summary.Cleared, ", "))
			}
			return nil
		},
	}
}

func exportCmd(getApp appGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export stored data in the browser app's localStorage shape",
		Long: `Write every stored entry as a JSON object of keys to string values, the format
read by import. Writes to stdout when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if len(args) == 0 {
				_, err := eisenhower.ExportLocalStorage(cmd.Context(), a.repo, cmd.OutOrStdout())
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			n, err := eisenhower.ExportLocalStorage(cmd.Context(), a.repo, f)
			if err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.l.Info("exported", "entries", n, "file", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", n, args[0])
			return nil
		},
	}
}
