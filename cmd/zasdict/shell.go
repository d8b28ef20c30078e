package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/zasdict/internal/application/handlers"
	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/services"
	"github.com/ersonp/zasdict/internal/infrastructure/document/jsonfile"
)

const shellHelp = `Type a keyword to search. Commands:
  :mode <partial|prefix|suffix|exact>   set the match mode
  :scope <headword|fulltext>            set the search scope
  :show <id>                            show an entry
  :relations <id>                       list the relations of an entry
  :delete <id>                          delete an entry
  :save                                 save the dictionary
  :reload                               reload the dictionary from disk
  :quit                                 leave (:quit! discards unsaved changes)`

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive search",
		Long: `Every line is searched as you enter it; results arrive asynchronously and
only the answer to the latest line is shown. The dictionary is reloaded when
another program changes the document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), os.Stdin, os.Stdout)
		},
	}
}

type shell struct {
	deps   *internalDeps
	query  entities.Query
	out    io.Writer
	reload chan struct{}
}

func runShell(ctx context.Context, in io.Reader, out io.Writer) error {
	return withInternalDeps(ctx, func(ctx context.Context, d *internalDeps) error {
		s, err := newShell(d, out)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "zasdict shell: %d entries. Type :help for commands.\n", d.Session.Snapshot().Len())

		watchCtx, stopWatch := context.WithCancel(ctx)
		g, gctx := errgroup.WithContext(watchCtx)
		g.Go(func() error {
			return jsonfile.NewWatcher(d.store, 0, d.Logger).Run(gctx, s.notifyReload)
		})
		g.Go(func() error {
			defer stopWatch()
			return s.loop(gctx, readLines(gctx, in))
		})
		return g.Wait()
	})
}

func newShell(d *internalDeps, out io.Writer) (*shell, error) {
	mode, err := entities.ParseSearchMode(d.Config.Search.Mode)
	if err != nil {
		return nil, err
	}
	scope, err := entities.ParseSearchScope(d.Config.Search.Scope)
	if err != nil {
		return nil, err
	}
	return &shell{
		deps:   d,
		query:  entities.Query{Mode: mode, Scope: scope},
		out:    out,
		reload: make(chan struct{}, 1),
	}, nil
}

// readLines forwards input lines until EOF or ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func (s *shell) notifyReload() {
	select {
	case s.reload <- struct{}{}:
	default:
	}
}

// errQuit ends the loop without an error.
var errQuit = errors.New("quit")

func (s *shell) loop(ctx context.Context, lines <-chan string) error {
	results := s.deps.Session.Results()
	for {
		select {
		case <-ctx.Done():
			// Interrupted; keep pending changes as end of input would.
			return s.finish(context.WithoutCancel(ctx))
		case line, ok := <-lines:
			if !ok {
				return s.finish(ctx)
			}
			err := s.handleLine(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		case r, ok := <-results:
			if !ok {
				return nil
			}
			s.printResult(r)
		case <-s.reload:
			s.reloadDocument(ctx)
		}
	}
}

// finish saves pending changes when input ends.
func (s *shell) finish(ctx context.Context) error {
	if !s.deps.dictionary.Dirty() {
		return nil
	}
	if err := s.deps.dictionary.Save(ctx); err != nil {
		return fmt.Errorf("saving unsaved changes: %w", err)
	}
	fmt.Fprintf(s.out, "Saved %s\n", s.deps.store.Location())
	return nil
}

func (s *shell) handleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, ":") {
		q := s.query
		q.Keyword = line
		s.deps.Session.Submit(q)
		return nil
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "help", "h":
		fmt.Fprintln(s.out, shellHelp)
	case "mode":
		mode, err := entities.ParseSearchMode(arg)
		if err != nil {
			return err
		}
		s.query.Mode = mode
		fmt.Fprintf(s.out, "mode: %s\n", mode)
	case "scope":
		scope, err := entities.ParseSearchScope(arg)
		if err != nil {
			return err
		}
		s.query.Scope = scope
		fmt.Fprintf(s.out, "scope: %s\n", scope)
	case "show":
		return s.withID(arg, func(id entities.EntryID) error {
			detail, err := s.deps.EntryHandler.HandleShow(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(s.out, detail.Detail)
			return nil
		})
	case "relations":
		return s.withID(arg, func(id entities.EntryID) error {
			infos, err := s.deps.EntryHandler.HandleRelations(ctx, id)
			if err != nil {
				return err
			}
			tbl := newTable(s.out, "Kind", "Target", "Headword")
			for _, info := range infos {
				tbl.AddRow(info.Kind, info.TargetID, info.Form())
			}
			tbl.Print()
			return nil
		})
	case "delete":
		return s.withID(arg, func(id entities.EntryID) error {
			m, err := s.deps.EntryHandler.HandleDelete(ctx, id)
			if m != nil {
				fmt.Fprintf(s.out, "Deleted %s (%d)\n", m.Entry.Ref.Form, id)
			}
			return err
		})
	case "save":
		if err := s.deps.dictionary.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Saved %s\n", s.deps.store.Location())
	case "reload":
		s.reloadDocument(ctx)
	case "quit", "q", "exit":
		if s.deps.dictionary.Dirty() {
			fmt.Fprintln(s.out, "Unsaved changes. Use :save, or :quit! to discard them.")
			return nil
		}
		return errQuit
	case "quit!", "q!":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try :help)", cmd)
	}
	return nil
}

func (s *shell) withID(arg string, fn func(entities.EntryID) error) error {
	id, err := entities.ParseEntryID(arg)
	if err != nil {
		return err
	}
	return fn(id)
}

func (s *shell) printResult(r services.Result) {
	if r.Err != nil {
		fmt.Fprintf(s.out, "error: %v\n", r.Err)
		return
	}
	if len(r.Entries) == 0 {
		fmt.Fprintf(s.out, "%q: no entries\n", r.Query.Keyword)
		return
	}

	labels := handlers.DisplayLabels(r.Entries)
	tbl := newTable(s.out, "ID", "Headword", "Translations")
	for i, e := range r.Entries {
		tbl.AddRow(e.Ref.ID, labels[i], summary(e))
	}
	tbl.Print()
}

// reloadDocument replaces the dictionary with the document on disk unless
// there are unsaved changes.
func (s *shell) reloadDocument(ctx context.Context) {
	if s.deps.dictionary.Dirty() {
		fmt.Fprintln(s.out, "Document changed on disk; not reloading over unsaved changes.")
		return
	}
	snap, err := s.deps.dictionary.Load(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: reloading dictionary: %v\n", err)
		return
	}
	s.deps.Session.Install(snap)
	fmt.Fprintf(s.out, "Reloaded %d entries.\n", snap.Len())
}
