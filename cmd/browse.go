package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"job-portal/internal/config"
	"job-portal/internal/export"
	"job-portal/internal/format"
	"job-portal/internal/model"
	"job-portal/internal/paging"
	"job-portal/internal/query"
	"job-portal/internal/session"

	"github.com/spf13/cobra"
)

const browseHelp = `commands:
  search <text>            set the search text (empty clears)
  location|category <v>    exact match, "all" clears
  type <v>                 toggle an employment type
  remote on|off
  salary <min> <max>
  openings <n>
  within <days>            0 clears
  sort <option>            newest, oldest, salary_high, salary_low, most_openings
  remove <key> [value]     remove one active filter
  reset                    reset filters, keep search
  clear                    clear all filters
  next | prev | more       paging; more loads another page in infinite mode
  infinite on|off
  show | facets | query
  export <csv|pdf|html> [dir]
  quit`

func newBrowseCmd(cfg func() config.AppConfig, build depsBuilder) *cobra.Command {
	var offline bool
	var initial string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively filter and page through the job collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			deps, cleanup, err := build(c, offline)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			sess := session.New(deps.source, initial, session.Options{
				PageSize:  c.Paging.PageSize,
				Debounce:  c.Search.DebounceDuration(),
				Navigator: query.NavigatorFunc(func(q string) { fmt.Fprintf(out, "-> ?%s\n", q) }),
			})
			defer sess.Close()

			return runBrowse(cmd.Context(), sess, cmd.InOrStdin(), out)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "browse the stored snapshot")
	cmd.Flags().StringVarP(&initial, "query", "q", "", "initial filter query string")
	return cmd
}

// runBrowse 逐行读取命令并输出结果，直到 quit 或输入结束。
func runBrowse(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	render(ctx, sess, out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := dispatch(ctx, sess, cmd, arg, out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func dispatch(ctx context.Context, sess *session.Session, cmd, arg string, out io.Writer) error {
	st := sess.State()
	switch cmd {
	case "help":
		fmt.Fprintln(out, browseHelp)
		return nil
	case "search":
		sess.Type(arg)
		sess.FlushSearch()
	case "location":
		sess.Update(query.Patch{Location: &arg})
	case "category":
		sess.Update(query.Patch{Category: &arg})
	case "type":
		types := slicesToggle(st.Filters.EmploymentTypes, arg)
		sess.Update(query.Patch{EmploymentTypes: types})
	case "remote":
		on := arg == "on" || arg == "true"
		sess.Update(query.Patch{IsRemote: &on})
	case "salary":
		fields := strings.Fields(arg)
		if len(fields) != 2 {
			return fmt.Errorf("usage: salary <min> <max>")
		}
		lo, err1 := strconv.ParseFloat(fields[0], 64)
		hi, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil || lo < 0 || hi < lo {
			return fmt.Errorf("invalid salary range %q", arg)
		}
		sess.Update(query.Patch{SalaryRange: &model.SalaryRange{Min: lo, Max: hi}})
	case "openings":
		n, _ := strconv.Atoi(arg)
		sess.Update(query.Patch{MinOpenings: &n})
	case "within":
		n, _ := strconv.Atoi(arg)
		sess.Update(query.Patch{CreatedWithin: &n})
	case "sort":
		opt := model.SortOption(arg)
		if !opt.Valid() {
			return fmt.Errorf("unknown sort option %q", arg)
		}
		sess.Update(query.Patch{Sort: &opt})
	case "remove":
		key, value, _ := strings.Cut(arg, " ")
		sess.RemoveFilter(model.FilterKey(key), strings.TrimSpace(value))
	case "reset":
		sess.ResetFilters()
	case "clear":
		sess.ClearAll()
	case "next":
		if !sess.NextPage(ctx) {
			fmt.Fprintln(out, "no next page")
		}
	case "prev":
		if !sess.PrevPage() {
			fmt.Fprintln(out, "already on the first page")
		}
	case "more":
		if !sess.LoadMore(ctx) {
			fmt.Fprintln(out, "no more jobs to load")
		}
	case "infinite":
		sess.SetInfinite(arg == "on" || arg == "true")
	case "show":
	case "facets":
		v := sess.View(ctx)
		fmt.Fprintf(out, "categories: %s\n", strings.Join(v.Facets.Categories, ", "))
		fmt.Fprintf(out, "locations: %s\n", strings.Join(v.Facets.Locations, ", "))
		fmt.Fprintf(out, "types: %s\n", strings.Join(v.Facets.EmploymentTypes, ", "))
		return nil
	case "query":
		fmt.Fprintf(out, "?%s\n", sess.Query())
		return nil
	case "export":
		fields := strings.Fields(arg)
		if len(fields) == 0 {
			return fmt.Errorf("usage: export <csv|pdf|html> [dir]")
		}
		f, err := export.ParseFormat(fields[0])
		if err != nil {
			return err
		}
		dir := "."
		if len(fields) > 1 {
			dir = fields[1]
		}
		path, err := writeReport(sess.Report(ctx), f, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	render(ctx, sess, out)
	return nil
}

func render(ctx context.Context, sess *session.Session, out io.Writer) {
	v := sess.View(ctx)
	if v.Loading {
		fmt.Fprintln(out, "loading jobs...")
	}
	if len(v.Chips) > 0 {
		labels := make([]string, 0, len(v.Chips))
		for _, c := range v.Chips {
			labels = append(labels, "["+c.Label+"]")
		}
		fmt.Fprintf(out, "filters: %s\n", strings.Join(labels, " "))
	}
	if v.Total == 0 {
		fmt.Fprintln(out, "No jobs found")
		return
	}

	first := 1
	if v.Mode == paging.ModePaged {
		first = (v.Page-1)*v.PageSize + 1
	}
	fmt.Fprintf(out, "showing %d-%d of %d (%s, %s, page %d/%d)\n",
		first, first+len(v.Jobs)-1, v.Total, v.Mode, v.State.Sort.Label(), v.Page, v.TotalPages)
	for _, job := range v.Jobs {
		fmt.Fprintf(out, "  %-40.40s %-20.20s %-16.16s %s  %s  %s\n",
			job.Title, job.Company, job.Location,
			format.SalaryRange(job.SalaryFrom, job.SalaryTo), job.EmploymentType, shortDate(job.CreatedAt))
	}
}

func shortDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return format.Date(t)
}

func slicesToggle(items []string, v string) []string {
	out := make([]string, 0, len(items)+1)
	found := false
	for _, it := range items {
		if it == v {
			found = true
			continue
		}
		out = append(out, it)
	}
	if !found && v != "" {
		out = append(out, v)
	}
	return out
}
