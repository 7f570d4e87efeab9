package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/editor"
	"github.com/goliatone/go-formbind/pkg/errormap"
	"github.com/goliatone/go-formbind/pkg/prompt"
)

type recordFlags struct {
	uri         string
	id          string
	resourceURI string
	renames     map[string]string
}

func (r *recordFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&r.uri, "uri", "", "collection URI, relative to the base URL")
	flags.StringVar(&r.id, "id", "", "record id (omit to create a new record)")
	flags.StringVar(&r.resourceURI, "resource-uri", "", "explicit record resource URI")
	flags.StringToStringVar(&r.renames, "rename-error", nil, "map server error ids onto field paths (id=path)")
	_ = cmd.MarkFlagRequired("uri")
}

func (a *app) session(cmd *cobra.Command, f *form, r recordFlags) (*editor.Session, error) {
	ctx := cmd.Context()
	mods := make(map[string]errormap.Modifier, len(r.renames))
	for id, path := range r.renames {
		mods[id] = errormap.Modifier{Rename: path}
	}
	opts := []editor.Option{
		editor.WithBinder(f.binder),
		editor.WithValidationModifiers(mods),
		editor.WithLogger(logging.Component(a.logger, "editor")),
	}
	if r.id != "" {
		opts = append(opts, editor.WithRecord(editor.Record{ID: r.id, ResourceURI: r.resourceURI}))
	}
	return editor.New(a.newClient(ctx), r.uri, f.tpl, f.fields, opts...)
}

func newLoadCmd(a *app) *cobra.Command {
	var (
		ff formFlags
		rf recordFlags
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Fetch a record and report how it maps onto the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rf.id == "" {
				return fmt.Errorf("--id is required")
			}
			f, err := ff.build(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.session(cmd, f, rf)
			if err != nil {
				return err
			}
			report, err := s.Load(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), reportOutput(report))
		},
	}
	ff.register(cmd)
	rf.register(cmd)
	return cmd
}

func newSaveCmd(a *app) *cobra.Command {
	var (
		ff formFlags
		vf valueFlags
		rf recordFlags
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a record: POST for new records, PUT for existing ones",
		Long: `Save a record built from the Reference Template. Existing records (--id)
are loaded first so unset fields keep their server values; --data, --values
and --set are applied on top. Server validation errors are mapped onto the
form's fields and printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.build(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.session(cmd, f, rf)
			if err != nil {
				return err
			}
			if _, err := s.Load(cmd.Context()); err != nil {
				return err
			}
			if err := vf.apply(cmd, f); err != nil {
				return err
			}
			return a.save(cmd, s)
		},
	}
	ff.register(cmd)
	vf.register(cmd)
	rf.register(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		ff formFlags
		rf recordFlags
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Interactively edit a record in the terminal and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.build(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.session(cmd, f, rf)
			if err != nil {
				return err
			}
			if _, err := s.Load(cmd.Context()); err != nil {
				return err
			}
			filler := prompt.New(nil, prompt.WithLogger(logging.Component(a.logger, "prompt")))
			if err := filler.Fill(cmd.Context(), f.fields); err != nil {
				if errors.Is(err, prompt.ErrAborted) {
					s.Cancel()
					fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
					return nil
				}
				return err
			}
			return a.save(cmd, s)
		},
	}
	ff.register(cmd)
	rf.register(cmd)
	return cmd
}

func (a *app) save(cmd *cobra.Command, s *editor.Session) error {
	event, err := s.Save(cmd.Context())
	if err != nil {
		var ae *editor.ActionError
		if errors.As(err, &ae) {
			printActionError(cmd.ErrOrStderr(), ae)
		}
		return err
	}
	a.logger.Info().Str("method", event.Method).Str("url", event.URL).Str("id", event.Record.ID).Msg("saved")
	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"id":     event.Record.ID,
		"method": event.Method,
		"url":    event.URL,
		"data":   event.Data,
	})
}

func printActionError(w io.Writer, ae *editor.ActionError) {
	if ae.Result.Global != nil {
		fmt.Fprintf(w, "%s: %s\n", ae.Result.Global.Title, ae.Result.Global.Message)
		return
	}
	paths := make([]string, 0, len(ae.Fields)+len(ae.Result.Fields))
	messages := make(map[string]string)
	for path, err := range ae.Fields {
		paths = append(paths, path)
		messages[path] = err.Error()
	}
	for path, msgs := range ae.Result.Fields {
		if len(msgs) == 0 {
			continue
		}
		paths = append(paths, path)
		messages[path] = msgs[0]
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(w, "  %s: %s\n", path, messages[path])
	}
	for _, msg := range ae.Result.Form {
		fmt.Fprintf(w, "  %s\n", msg)
	}
}
