package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/searchstate"
)

const dateLayout = "2006-01-02"

// filterFlags are the list-page controls shared by tickets and projects.
type filterFlags struct {
	url    string
	name   string
	status string
	page   int
	size   int
	reset  bool
}

func (f *filterFlags) register(cmd *cobra.Command, page string) {
	cmd.Flags().StringVar(&f.url, "url", "/"+page, "Current list URL; filters not given here are kept")
	cmd.Flags().StringVar(&f.name, "name", "", "Name contains")
	cmd.Flags().StringVar(&f.status, "status", "", "active, inactive or any")
	cmd.Flags().IntVar(&f.page, "page", 0, "Zero-based page")
	cmd.Flags().IntVar(&f.size, "size", 10, "Page size")
	cmd.Flags().BoolVar(&f.reset, "reset", false, "Drop every filter before applying flags")
}

func parseStatus(s string) (*bool, error) {
	switch s {
	case "", "any":
		return nil, nil
	case "active", "true":
		v := true
		return &v, nil
	case "inactive", "false":
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("invalid status %q", s)
}

// parseDate reads a YYYY-MM-DD flag value; empty clears the bound.
func parseDate(flag, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q", flag, raw)
	}
	return d, nil
}

// apply runs the controller for the flags the user actually set.
func apply[F any](f *filterFlags, mutate func(*F) error) (*searchstate.URLLocation, F, error) {
	var zero F
	loc, err := searchstate.ParseLocation(f.url)
	if err != nil {
		return nil, zero, err
	}
	ctrl := searchstate.New[F](loc)
	if f.reset {
		if _, err := ctrl.Reset(); err != nil {
			return nil, zero, err
		}
	}

	var mutateErr error
	filter, err := ctrl.Write(func(v *F) { mutateErr = mutate(v) })
	if err != nil {
		return nil, zero, err
	}
	if mutateErr != nil {
		return nil, zero, mutateErr
	}
	return loc, filter, nil
}

func newTicketsCmd(a *app) *cobra.Command {
	ticketsCmd := &cobra.Command{
		Use:   "tickets",
		Short: "Search and manage tickets",
	}

	var (
		flags      filterFlags
		projectIDs []int64
		assignees  []string
		from, to   string
	)
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search tickets, printing the updated list URL",
		Long: `Search tickets. --url carries the filters of the current list page;
the flags given here change them and the new URL is printed first.
Changing any filter other than --page returns to the first page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			loc, filter, err := apply(&flags, func(tf *models.TicketFilter) error {
				if changed("name") {
					tf.Name = flags.name
				}
				if changed("status") {
					s, err := parseStatus(flags.status)
					if err != nil {
						return err
					}
					tf.Status = s
				}
				if changed("project") {
					tf.ProjectIDs = projectIDs
				}
				if changed("assignee") {
					tf.Assignees = assignees
				}
				if changed("from") {
					d, err := parseDate("from", from)
					if err != nil {
						return err
					}
					tf.CreatedFrom = d
				}
				if changed("to") {
					d, err := parseDate("to", to)
					if err != nil {
						return err
					}
					tf.CreatedTo = d
				}
				if changed("size") {
					tf.Size = flags.size
				}
				if changed("page") {
					tf.Page = flags.page
				}
				return nil
			})
			if err != nil {
				return err
			}

			ctx, cancel := a.ctx(cmd)
			defer cancel()
			page, err := a.client.SearchTickets(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to search tickets: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, loc.String())
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tPROJECT\tNAME\tASSIGNEE\tSTATUS\tCREATED")
			for _, t := range page.Content {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", t.ID, t.ProjectID, t.Name, t.Assignee, statusText(t.Active), t.CreatedAt.Format(dateLayout))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			return printPageFooter(out, page.Number, page.TotalPages, page.TotalElements)
		},
	}
	flags.register(searchCmd, "tickets")
	searchCmd.Flags().Int64SliceVar(&projectIDs, "project", nil, "Project ids (repeatable)")
	searchCmd.Flags().StringSliceVar(&assignees, "assignee", nil, "Assignees (repeatable)")
	searchCmd.Flags().StringVar(&from, "from", "", "Created on or after (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&to, "to", "", "Created on or before (YYYY-MM-DD)")

	ticketsCmd.AddCommand(searchCmd)
	ticketsCmd.AddCommand(newTicketAddCmd(a))
	ticketsCmd.AddCommand(newTicketRmCmd(a))
	return ticketsCmd
}

func newProjectsCmd(a *app) *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "Search and manage projects",
	}

	var (
		flags    filterFlags
		managers []string
	)
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search projects, printing the updated list URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			loc, filter, err := apply(&flags, func(pf *models.ProjectFilter) error {
				if changed("name") {
					pf.Name = flags.name
				}
				if changed("status") {
					s, err := parseStatus(flags.status)
					if err != nil {
						return err
					}
					pf.Status = s
				}
				if changed("manager") {
					pf.Managers = managers
				}
				if changed("size") {
					pf.Size = flags.size
				}
				if changed("page") {
					pf.Page = flags.page
				}
				return nil
			})
			if err != nil {
				return err
			}

			ctx, cancel := a.ctx(cmd)
			defer cancel()
			page, err := a.client.SearchProjects(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to search projects: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, loc.String())
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tNAME\tMANAGER\tSTATUS")
			for _, p := range page.Content {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Manager, statusText(p.Active))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			return printPageFooter(out, page.Number, page.TotalPages, page.TotalElements)
		},
	}
	flags.register(searchCmd, "projects")
	searchCmd.Flags().StringSliceVar(&managers, "manager", nil, "Managers (repeatable)")

	projectsCmd.AddCommand(searchCmd)
	projectsCmd.AddCommand(newProjectAddCmd(a))
	projectsCmd.AddCommand(newProjectStatusCmd(a))
	return projectsCmd
}

func statusText(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func printPageFooter(out io.Writer, number, pages int, total int64) error {
	_, err := fmt.Fprintf(out, "page %d of %d, %s total\n", number+1, max(pages, 1), strconv.FormatInt(total, 10))
	return err
}
