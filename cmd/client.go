package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/approval"
	"github.com/frahmantamala/sakti/internal/changerequest"
	"github.com/frahmantamala/sakti/internal/client"
	"github.com/frahmantamala/sakti/internal/navigation"
	"github.com/frahmantamala/sakti/internal/session"
	"github.com/frahmantamala/sakti/pkg/logger"
)

var (
	serverURL string

	loginUsername string
	loginPassword string

	listSearch string
	listStatus string
	listType   string
	listExpr   string

	weekStart    string
	rejectReason string
	markRead     string
)

// loadClientConfig reads the client section only. A missing config file is
// fine since every client setting has a default.
func loadClientConfig(path string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.ApplyDefaults()
	if serverURL != "" {
		cfg.Client.BaseURL = serverURL
	}
	if cfg.Client.SessionFile == "" {
		cfg.Client.SessionFile = session.DefaultSessionFile()
	}
	return &cfg, nil
}

func newClient() (*client.Client, error) {
	cfg, err := loadClientConfig(configDir)
	if err != nil {
		return nil, err
	}
	store := session.NewStore(session.NewFileStorage(cfg.Client.SessionFile))
	return client.New(cfg.Client.BaseURL, cfg.Client.Timeout, store, logger.Discard()), nil
}

func clientCommands() []*cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if loginUsername == "" {
				if loginUsername, err = pterm.DefaultInteractiveTextInput.Show("Username"); err != nil {
					return err
				}
			}
			if loginPassword == "" {
				if loginPassword, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password"); err != nil {
					return err
				}
			}

			sess, err := c.Login(cmd.Context(), loginUsername, loginPassword)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			pterm.Success.Printf("Logged in as %s (%s)\n", sess.User.DisplayName(), sess.User.Role.Label())
			return nil
		},
	}
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password, prompted when empty")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and clear the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			pterm.Success.Println("Logged out")
			return nil
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			u, err := c.Profile(cmd.Context())
			if err != nil {
				return err
			}
			pterm.DefaultSection.Println(u.DisplayName())
			pterm.Info.Printf("Role: %s\n", u.Role.Label())
			pterm.Info.Printf("Instansi: %s\n", u.Instansi)
			return nil
		},
	}

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the navigation menu of the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			u := c.Store().GetUser()
			if u == nil {
				return client.ErrNotLoggedIn
			}

			var items []pterm.BulletListItem
			for _, e := range navigation.MenuItemsByRole(u.Role) {
				if !e.IsGroup() {
					items = append(items, pterm.BulletListItem{Level: 0, Text: e.Name + "  " + e.Path})
					continue
				}
				items = append(items, pterm.BulletListItem{Level: 0, Text: e.Name})
				for _, l := range e.SubItems {
					items = append(items, pterm.BulletListItem{Level: 1, Text: l.Name + "  " + l.Path})
				}
			}
			return pterm.DefaultBulletList.WithItems(items).Render()
		},
	}

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the summary cards and the weekly trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			summary, err := c.DashboardSummary(cmd.Context())
			if err != nil {
				return err
			}
			cards := pterm.TableData{{"CARD", "VALUE"}}
			for _, card := range summary.Cards() {
				cards = append(cards, []string{card.Title, strconv.Itoa(card.Value)})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(cards).Render(); err != nil {
				return err
			}

			trend, err := c.WeeklyTrend(cmd.Context(), weekStart)
			if err != nil {
				return err
			}
			pterm.DefaultSection.Printf("Week of %s\n", trend.WeekStart)
			rows := pterm.TableData{{"DAY", "DATE", "SUBMITTED", "APPROVED", "IMPLEMENTED"}}
			for _, p := range trend.Points {
				rows = append(rows, []string{p.Day, p.Date, strconv.Itoa(p.Submitted), strconv.Itoa(p.Approved), strconv.Itoa(p.Implemented)})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
	dashboardCmd.Flags().StringVar(&weekStart, "week-start", "", "any date of the week to show (YYYY-MM-DD)")

	return []*cobra.Command{
		loginCmd,
		logoutCmd,
		whoamiCmd,
		menuCmd,
		dashboardCmd,
		changeRequestsCommand(),
		approvalsCommand(),
		notificationsCommand(),
	}
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&listSearch, "search", "", "free text search")
	cmd.Flags().StringVar(&listStatus, "status", "", "status filter")
	cmd.Flags().StringVar(&listType, "type", "", "type filter")
	cmd.Flags().StringVar(&listExpr, "expr", "", `filter expression, e.g. 'dinas == "Network"'`)
}

func changeRequestsCommand() *cobra.Command {
	listCmd := &cobra.Command{
		Use:     "change-requests [id]",
		Aliases: []string{"cr"},
		Short:   "List change requests or show one",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				d, err := c.ChangeRequest(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printChangeRequest(d)
				return nil
			}

			items, err := c.ChangeRequests(cmd.Context(), changerequest.ListQuery{
				Search: listSearch, Status: listStatus, Type: listType, Expr: listExpr,
			})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				pterm.Info.Println("No data found")
				return nil
			}
			rows := pterm.TableData{{"CR ID", "TITLE", "DINAS", "STATUS", "TYPE", "RISK"}}
			for _, cr := range items {
				risk := "-"
				if cr.RiskScore != nil {
					risk = strconv.Itoa(*cr.RiskScore)
				}
				rows = append(rows, []string{cr.ID, cr.Title, cr.Dinas, string(cr.Status), string(cr.Type), risk})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
	addListFlags(listCmd)
	return listCmd
}

func printChangeRequest(d *changerequest.Detail) {
	pterm.DefaultSection.Printf("%s %s\n", d.ID, d.Title)
	pterm.Info.Printf("Dinas: %s  Catalog: %s / %s  BMD: %s\n", d.Dinas, d.Catalog, d.SubCatalog, d.BMDID)
	pterm.Info.Printf("Status: %s  Type: %s\n", d.Status, d.Type)
	if d.Inspection != nil {
		pterm.Info.Printf("Inspection %s: risk %d (%s)\n", d.Inspection.InspectionID, d.Inspection.RiskScore, d.Inspection.RiskLevel())
	}
	if s := d.ImplementationSchedule; s != nil {
		pterm.Info.Printf("Scheduled %s %s by %s\n", s.ScheduledDate.Format("2006-01-02"), s.ScheduledTime, s.Implementer)
	}
	for _, e := range d.StatusTracking {
		pterm.Printf("  %s  %-12s %s\n", e.Date.Format("2006-01-02"), e.Status, e.By)
	}
}

func approvalsCommand() *cobra.Command {
	approvalsCmd := &cobra.Command{
		Use:   "approvals",
		Short: "List approvals",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			items, err := c.Approvals(cmd.Context(), approval.ListQuery{
				Search: listSearch, Status: listStatus, Type: listType, Expr: listExpr,
			})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				pterm.Info.Println("No data found")
				return nil
			}
			rows := pterm.TableData{{"ID", "CR ID", "TITLE", "STATUS", "TYPE", "REQUESTED BY"}}
			for _, a := range items {
				rows = append(rows, []string{strconv.FormatInt(a.ID, 10), a.CRID, a.Title, string(a.Status), string(a.Type), a.RequestedBy})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
	addListFlags(approvalsCmd)

	approveCmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending approval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid approval id %q", args[0])
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			a, err := c.Approve(cmd.Context(), id)
			if err != nil {
				return err
			}
			pterm.Success.Printf("%s %s\n", a.CRID, a.Status)
			return nil
		},
	}

	rejectCmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending approval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid approval id %q", args[0])
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			a, err := c.Reject(cmd.Context(), id, rejectReason)
			if err != nil {
				return err
			}
			pterm.Success.Printf("%s %s: %s\n", a.CRID, a.Status, a.Reason)
			return nil
		},
	}
	rejectCmd.Flags().StringVar(&rejectReason, "reason", "", "reason shown to the requester")

	approvalsCmd.AddCommand(approveCmd, rejectCmd)
	return approvalsCmd
}

func notificationsCommand() *cobra.Command {
	notificationsCmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if markRead != "" {
				if err := c.MarkNotificationRead(cmd.Context(), markRead); err != nil {
					return err
				}
			}

			items, err := c.Notifications(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				pterm.Info.Println("Tidak ada notifikasi")
				return nil
			}
			rows := pterm.TableData{{"ID", "", "MESSAGE", "LINK"}}
			for _, n := range items {
				state := "*"
				if n.Read {
					state = ""
				}
				rows = append(rows, []string{n.ID, state, n.Message, n.Link})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
	notificationsCmd.Flags().StringVar(&markRead, "read", "", "mark the notification with this id read first")
	return notificationsCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", os.Getenv("SAKTI_SERVER"), "API base URL for client commands")
}
