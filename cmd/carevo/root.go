package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/csheth/carevo/internal/api"
	"github.com/csheth/carevo/internal/config"
	"github.com/csheth/carevo/internal/logging"
	"github.com/csheth/carevo/internal/tui"
)

// annotationTerminal marks commands that own the terminal, so logs go to a file.
const annotationTerminal = "carevo/terminal"

type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	logger  *zap.Logger
}

// flagKeys maps viper keys to the flags that override them.
var flagKeys = map[string]string{
	"api.base_url":     "api",
	"api.user_id":      "user",
	"api.timeout":      "timeout",
	"log.level":        "log-level",
	"log.format":       "log-format",
	"log.file":         "log-file",
	"ui.page":          "page",
	"server.addr":      "addr",
	"server.backend":   "backend",
	"server.data_path": "data",
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carevo",
		Short: "Browse shared study notes and lectures from the terminal.",
		Long: heredoc.Doc(`
			carevo opens a dashboard with two pages. The notes page lists trending, recent
			and recommended notes plus everything you starred; the lectures page shows live,
			upcoming and recorded lectures.

			Likes, stars, search and uploads go through the notes API. Run "carevo serve"
			to host one locally.
		`),
		Example: heredoc.Doc(`
			carevo
			carevo --page lectures
			carevo --api http://notes.example.edu:5000 --user s1234
			carevo --offline --no-alt-screen
		`),
		Annotations:  map[string]string{annotationTerminal: "true"},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runDashboard,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/carevo/config.yaml)")
	flags.String("api", "", "notes API base URL")
	flags.String("user", "", "user id sent with likes")
	flags.Duration("timeout", 0, "timeout for each API request")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: json or console")
	flags.String("log-file", "", "write logs to this file")

	cmd.Flags().String("page", "", "page to open first: notes or lectures")
	cmd.Flags().Bool("no-alt-screen", false, "disable the alternate screen buffer")
	cmd.Flags().Bool("offline", false, "do not contact the notes API")

	cmd.AddCommand(newServeCmd(a), newFindCmd(a))
	return cmd
}

// setup resolves configuration for cmd and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.v = config.New(a.cfgFile)
	flags := cmd.Flags()
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := a.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	if err := config.Read(a.v); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if noAlt, err := flags.GetBool("no-alt-screen"); err == nil && noAlt {
		cfg.UI.AltScreen = false
	}
	a.cfg = cfg

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if logCfg.File == "" && cmd.Annotations[annotationTerminal] == "true" {
		logCfg.File = logging.DefaultFile()
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

func (a *app) client() *api.Client {
	return api.New(api.Options{
		BaseURL: a.cfg.API.BaseURL,
		UserID:  a.cfg.API.UserID,
		Timeout: a.cfg.API.Timeout,
		Logger:  a.logger,
	})
}

func (a *app) offline(cmd *cobra.Command) bool {
	offline, err := cmd.Flags().GetBool("offline")
	return err == nil && offline
}

func (a *app) runDashboard(cmd *cobra.Command, args []string) error {
	tcfg := tui.Config{
		Logger:     a.logger,
		StartPage:  a.cfg.UI.Page,
		JobTimeout: a.cfg.API.Timeout,
	}
	if !a.offline(cmd) {
		tcfg.Client = a.client()
	}

	opts := []tea.ProgramOption{}
	if a.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tcfg), opts...)

	a.logger.Info("dashboard starting",
		zap.String("page", a.cfg.UI.Page),
		zap.String("api", a.cfg.API.BaseURL),
		zap.Bool("offline", tcfg.Client == nil))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
