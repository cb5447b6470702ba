package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/orgdesk/internal/client"
	"github.com/stwalsh4118/orgdesk/internal/config"
	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/models"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.ClientConfig
	client *client.Client
	log    *logger.Logger

	baseURL string
	token   string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "adminctl",
		Short: "Command-line admin for the orgdesk back office",
		Long: `adminctl manages the address hierarchy, searches tickets and projects,
registers customers and remembers per-page tabs.

Connection settings come from ADMIN_API_URL, ADMIN_API_TOKEN and a .env file;
flags override them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.baseURL, "api", "", "API base URL (default: ADMIN_API_URL)")
	rootCmd.PersistentFlags().StringVar(&a.token, "token", "", "Bearer token (default: ADMIN_API_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Request timeout (default: ADMIN_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log API calls to stderr")

	rootCmd.AddCommand(newGeoCmd(a))
	rootCmd.AddCommand(newTicketsCmd(a))
	rootCmd.AddCommand(newProjectsCmd(a))
	rootCmd.AddCommand(newCustomersCmd(a))
	rootCmd.AddCommand(newSeedCmd(a))
	rootCmd.AddCommand(newTabCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.token != "" {
		cfg.Token = a.token
	}
	if a.timeout > 0 {
		cfg.Timeout = a.timeout
	}

	env := "production"
	if a.verbose {
		env = "development"
	}
	a.log = logger.NewWithWriter(env, cmd.ErrOrStderr())
	a.cfg = cfg

	c, err := client.FromConfig(cfg, a.log.Named("client"))
	if err != nil {
		return err
	}
	a.client = c
	return nil
}

// ctx is cancelled on interrupt. Each request is bounded by the client timeout.
func (a *app) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printNodes(out io.Writer, nodes []models.GeoNode) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tPARENT\tDISTRICT")
	for _, n := range nodes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", n.ID, n.Name, optID(n.ParentID), optID(n.DistrictID))
	}
	return tw.Flush()
}

func optID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
