package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"paperpulse/internal/apiclient"
	"paperpulse/internal/entity"
	"paperpulse/internal/form"
	"paperpulse/internal/render"
	"paperpulse/internal/resource"
)

const (
	exitOK    = 0
	exitAPI   = 1
	exitUsage = 2
)

const usage = `Usage:
  paperctl authors list
  paperctl authors get ID
  paperctl authors create -name NAME -email EMAIL [-bio BIO]
  paperctl papers list
  paperctl papers get ID
  paperctl papers create -title TITLE -doi DOI -author-id ID [-abstract TEXT]
  paperctl refresh authors|papers
  paperctl stats
  paperctl shell
`

var errUsage = errors.New("usage")

type app struct {
	catalog  *resource.Catalog
	gatherer prometheus.Gatherer
	out      io.Writer
	errOut   io.Writer
	log      *zap.Logger
}

// run executes one command and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	err := a.dispatch(ctx, args)
	if err == nil {
		return exitOK
	}

	var formErr *form.FormValidationError
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprint(a.errOut, usage)
		return exitUsage
	case errors.As(err, &formErr):
		fmt.Fprintln(a.errOut, "Please fix the following fields:")
		_ = render.FormErrors(a.errOut, formErr)
		return exitUsage
	case errors.Is(err, resource.ErrDisabled):
		fmt.Fprintln(a.errOut, "error: id must be a positive integer")
		return exitUsage
	}

	a.log.Debug("command failed", zap.Strings("args", args), zap.Error(err))
	fmt.Fprintf(a.errOut, "error: %s\n", apiclient.ErrorMessage(err))
	return exitAPI
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "authors":
		return a.authors(ctx, args[1:])
	case "papers":
		return a.papers(ctx, args[1:])
	case "refresh":
		return a.refresh(ctx, args[1:])
	case "stats":
		return a.stats()
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	}
	return errUsage
}

func (a *app) authors(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		list, err := a.catalog.Authors.ListAll(ctx)
		if err != nil {
			return err
		}
		return render.Authors(a.out, list)
	case "get":
		if len(args) != 2 {
			return errUsage
		}
		au, err := a.catalog.Authors.GetByParam(ctx, args[1])
		if err != nil {
			return err
		}
		return render.Author(a.out, au)
	case "create":
		values, err := parseFlags("authors create", args[1:], "name", "email", "bio")
		if err != nil {
			return err
		}
		in, err := form.ParseAuthor(values)
		if err != nil {
			return err
		}
		created, err := a.catalog.Authors.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created author #%d.\n", created.ID)
		return render.Author(a.out, created)
	}
	return errUsage
}

func (a *app) papers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		return a.listPapers(ctx)
	case "get":
		if len(args) != 2 {
			return errUsage
		}
		p, err := a.catalog.Papers.GetByParam(ctx, args[1])
		if err != nil {
			return err
		}
		name := ""
		if au, err := a.catalog.Authors.GetByID(ctx, p.AuthorID); err == nil {
			name = au.Name
		} else {
			a.log.Debug("author lookup failed", zap.Int("author_id", p.AuthorID), zap.Error(err))
		}
		return render.Paper(a.out, p, name)
	case "create":
		values, err := parseFlags("papers create", args[1:], "title", "doi", "author-id", "abstract")
		if err != nil {
			return err
		}
		values["author_id"] = values["author-id"]
		delete(values, "author-id")
		in, err := form.ParsePaper(values)
		if err != nil {
			return err
		}
		created, err := a.catalog.Papers.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved paper #%d.\n", created.ID)
		return render.Paper(a.out, created, "")
	}
	return errUsage
}

// listPapers loads papers and authors together; a failed author load only
// costs the names column.
func (a *app) listPapers(ctx context.Context) error {
	var (
		papers  []entity.Paper
		authors []entity.Author
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		papers, err = a.catalog.Papers.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		list, err := a.catalog.Authors.ListAll(gctx)
		if err != nil {
			a.log.Debug("author list failed", zap.Error(err))
			return nil
		}
		authors = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return render.Papers(a.out, papers, render.AuthorNames(authors))
}

func (a *app) refresh(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	switch args[0] {
	case "authors":
		list, err := a.catalog.Authors.Refetch(ctx)
		if err != nil {
			return err
		}
		return render.Authors(a.out, list)
	case "papers":
		if _, err := a.catalog.Papers.Refetch(ctx); err != nil {
			return err
		}
		return a.listPapers(ctx)
	}
	return errUsage
}

// stats prints the cache counters collected so far.
func (a *app) stats() error {
	families, err := a.gatherer.Gather()
	if err != nil {
		return err
	}
	var rows [][]string
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "paperpulse_cache_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)
			rows = append(rows, []string{
				strings.TrimPrefix(mf.GetName(), "paperpulse_cache_"),
				strings.Join(labels, ","),
				fmt.Sprintf("%g", m.GetCounter().GetValue()),
			})
		}
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(a.out, "No cache activity yet.")
		return err
	}
	return render.Table(a.out, []string{"METRIC", "LABELS", "VALUE"}, rows)
}

// shell runs commands read from in, one per line, sharing one cache.
func (a *app) shell(ctx context.Context, in io.Reader) int {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(a.out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "exit", "quit":
			return exitOK
		default:
			args, err := splitArgs(line)
			if err != nil {
				fmt.Fprintf(a.errOut, "error: %v\n", err)
			} else {
				a.run(ctx, args)
			}
		}
		if ctx.Err() != nil {
			return exitOK
		}
		fmt.Fprint(a.out, "> ")
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(a.errOut, "error: %v\n", err)
		return exitAPI
	}
	return exitOK
}

func parseFlags(name string, args []string, names ...string) (form.Values, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	ptrs := make(map[string]*string, len(names))
	for _, n := range names {
		ptrs[n] = fs.String(n, "", "")
	}
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return nil, errUsage
	}
	values := make(form.Values, len(names))
	for n, p := range ptrs {
		values[n] = *p
	}
	return values, nil
}

// splitArgs splits a shell line on spaces, keeping double-quoted runs
// together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case r == ' ' && !quoted:
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
