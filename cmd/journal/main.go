package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/GregorioSC/Journaling-Companion/internal/analytics"
	"github.com/GregorioSC/Journaling-Companion/internal/api"
	"github.com/GregorioSC/Journaling-Companion/internal/config"
	"github.com/GregorioSC/Journaling-Companion/internal/logging"
	"github.com/GregorioSC/Journaling-Companion/internal/notify"
	"github.com/GregorioSC/Journaling-Companion/internal/session"
	"github.com/GregorioSC/Journaling-Companion/internal/store"
	"github.com/GregorioSC/Journaling-Companion/internal/tui"
)

const version = "1.0.0"

type deps struct {
	cfg      config.Config
	log      *zap.Logger
	client   *api.Client
	sessions *session.Manager
	disk     *store.Disk
}

// wire builds everything a command needs from config down to the API client.
func wire(configPath string) (*deps, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	log := logging.New(cfg.LogFile)
	disk := store.NewDisk(cfg.StateDir())
	client := api.NewClient(cfg.APIBase, disk, log)
	sessions := session.NewManager(client, disk, log)

	cleanup := func() { _ = log.Sync() }
	return &deps{cfg: cfg, log: log, client: client, sessions: sessions, disk: disk}, cleanup, nil
}

func runTUI(configPath string) error {
	d, cleanup, err := wire(configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	notifier := notify.NewService(d.log)
	defer notifier.Close()

	app := &tui.App{
		Client:    d.client,
		Session:   d.sessions,
		Drafts:    d.disk,
		Analytics: analytics.NewAggregator(d.client, d.log),
		Notifier:  notifier,
		Log:       d.log,
	}

	p := tea.NewProgram(tui.New(app, d.cfg.Theme), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func promptEmail(args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	fmt.Print("Email: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func main() {
	var configPath string

	root := &cobra.Command{
		Use:     "journal",
		Short:   "Journaling companion with AI insights",
		Long:    "An interactive journaling companion.\n\nRun without arguments for the full TUI, or use the subcommands for quick scripted access.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to config file")

	loginCmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and store the session token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cleanup, err := wire(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			email, err := promptEmail(args)
			if err != nil {
				return err
			}
			if email == "" {
				return fmt.Errorf("email is required")
			}
			password, err := promptPassword()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := d.client.Login(ctx, email, password); err != nil {
				return err
			}
			user, err := d.client.Me(ctx)
			if err != nil {
				return err
			}
			color.Green("Signed in as %s <%s>", user.Username, user.Email)
			return nil
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cleanup, err := wire(configPath)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := d.disk.ClearToken(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}

	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "List your journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cleanup, err := wire(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			entries, err := d.client.ListEntries(ctx)
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.MaxColWidth = 60
			tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Date"), bold.Sprint("Title"))
			for _, e := range entries {
				date := e.CreatedAt
				if t, ok := analytics.ParseTime(e.CreatedAt, time.Local); ok {
					date = t.Format("2006-01-02")
				}
				tbl.AddRow(e.ID, date, e.Title)
			}
			_, _ = fmt.Fprintln(color.Output, tbl)
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("journal v%s\n", version)
		},
	}

	root.AddCommand(loginCmd, logoutCmd, entriesCmd, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
