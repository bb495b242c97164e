package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"policyqa/internal/config"
	"policyqa/internal/database"
	"policyqa/internal/models"
	"policyqa/internal/render"
)

func main() {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if database.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	app := NewApp(cfg)

	root := &cobra.Command{
		Use:   "policyqa",
		Short: "Terminal client for a policy question-answering service",
		Long: `policyqa talks to a running answering service over HTTP and keeps your
conversations in a local database. Run it without arguments to start an
interactive chat, or use the subcommands for one-shot questions and
history management.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.startup(cmd.Context())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.shutdown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd.Context(), app)
		},
	}

	root.PersistentFlags().StringVar(&app.cfg.ServiceURL, "service", cfg.ServiceURL, "base URL of the answering service")
	root.PersistentFlags().StringVar(&app.cfg.DBPath, "db", cfg.DBPath, "path to the conversation database")

	root.AddCommand(
		newChatCmd(app),
		newAskCmd(app),
		newHistoryCmd(app),
		newSettingsCmd(app),
		newStatsCmd(app),
	)

	return root
}

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd.Context(), app)
		},
	}
}

func newAskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			reply := app.Session.Ask(cmd.Context(), question)
			if reply == nil {
				return fmt.Errorf("nothing to ask")
			}
			printMessage(cmd.OutOrStdout(), render.Message(*reply))
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved conversations, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			convs := recentFirst(app.History.ListAll())
			if len(convs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved conversations.")
				return nil
			}
			for i, conv := range convs {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d. %-40s %3d messages  %s  %s\n",
					i+1, conv.Title, len(conv.Messages),
					conv.UpdatedAt.Local().Format("2006-01-02 15:04"), conv.ID)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <number|id>",
		Short: "Delete a saved conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			convs := recentFirst(app.History.ListAll())
			conv, ok := pickConversation(convs, args[0])
			if !ok {
				return fmt.Errorf("no conversation matches %q", args[0])
			}
			app.Session.DeleteConversation(conv.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", conv.Title)
			return nil
		},
	})

	return cmd
}

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change client settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "theme:   %s\n", app.Settings.Theme())
			fmt.Fprintf(cmd.OutOrStdout(), "sidebar: %s\n", app.Settings.Sidebar())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or set the color theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), app.Settings.Theme())
				return nil
			}
			if err := app.Settings.SetTheme(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sidebar [expanded|collapsed]",
		Short: "Show or set the sidebar state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), app.Settings.Sidebar())
				return nil
			}
			if err := app.Settings.SetSidebar(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sidebar set to %s.\n", args[0])
			return nil
		},
	})

	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics from the answering service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := app.Client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "documents:       %d\n", stats.Documents)
			fmt.Fprintf(out, "chunks:          %d\n", stats.Chunks)
			fmt.Fprintf(out, "embedding model: %s\n", stats.EmbeddingModel)
			fmt.Fprintf(out, "llm backend:     %s\n", stats.LLMBackend)
			fmt.Fprintf(out, "index loaded:    %t\n", stats.IndexLoaded)
			if len(stats.DocNames) > 0 {
				names := append([]string(nil), stats.DocNames...)
				sort.Strings(names)
				fmt.Fprintf(out, "names:           %s\n", strings.Join(names, ", "))
			}
			return nil
		},
	}
}

// recentFirst returns the saved conversations ordered newest save first,
// which is the reverse of their storage order.
func recentFirst(convs []models.Conversation) []models.Conversation {
	out := make([]models.Conversation, len(convs))
	for i, conv := range convs {
		out[len(convs)-1-i] = conv
	}
	return out
}

// pickConversation resolves a user-supplied reference against a listed
// ordering: a small integer selects by position, anything else matches an ID.
func pickConversation(convs []models.Conversation, ref string) (models.Conversation, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(convs) {
			return models.Conversation{}, false
		}
		return convs[n-1], true
	}
	for _, conv := range convs {
		if conv.ID == ref {
			return conv, true
		}
	}
	return models.Conversation{}, false
}
