package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blogfront/app/models"
	"blogfront/app/services"
	"blogfront/app/theme"
	"blogfront/app/tui"
	"blogfront/app/upstream"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the blogfront command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "blogfront",
		Short:         "Browse and write posts against a JSON posts API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ./config.yaml)")

	rootCmd.AddCommand(
		newServeCommand(&configPath),
		newTUICommand(&configPath),
		newPostsCommand(&configPath),
		newVersionCommand(),
	)
	return rootCmd
}

func newServeCommand(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(*configPath, "")
			if err != nil {
				return err
			}
			defer rt.close()
			if addr != "" {
				rt.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return RunAppServer(ctx, rt.cfg, rt.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func newTUICommand(configPath *string) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The screen belongs to the TUI, so logs always go to a file.
			rt, err := loadRuntime(*configPath, logFile)
			if err != nil {
				return err
			}
			defer rt.close()

			api := upstream.NewClient(rt.cfg.Upstream.BaseURL, rt.cfg.Upstream.Timeout)
			model := tui.New(cmd.Context(), tui.Options{
				Service:    services.NewPostService(api, rt.logger, nil),
				List:       rt.cfg.Feed.ListOptions(),
				BrandTitle: rt.cfg.Brand.Title,
				Theme:      theme.Default(),
			})
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "blogfront.log", "file receiving log output while the TUI runs")
	return cmd
}

func newPostsCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Read and write posts from the command line",
	}
	cmd.AddCommand(
		newPostsListCommand(configPath),
		newPostsCreateCommand(configPath),
	)
	return cmd
}

func newPostsListCommand(configPath *string) *cobra.Command {
	var page int
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(*configPath, "")
			if err != nil {
				return err
			}
			defer rt.close()

			api := upstream.NewClient(rt.cfg.Upstream.BaseURL, rt.cfg.Upstream.Timeout)
			svc := services.NewPostService(api, rt.logger, nil)
			list := services.NewPostList(rt.cfg.Feed.ListOptions())
			list.Pagination.CurrentPage = max(page, 1)
			list.SetQuery(query)
			if err := svc.Refresh(cmd.Context(), list); err != nil {
				return err
			}
			if last := list.Pagination.TotalPages; list.Pagination.CurrentPage > last {
				return fmt.Errorf("page %d is past the last page (%d)", list.Pagination.CurrentPage, last)
			}

			out := cmd.OutOrStdout()
			posts := list.Visible()
			if len(posts) == 0 {
				printf(out, "No posts found.\n")
			}
			for _, p := range posts {
				printf(out, "#%d %s\n    by %d\n    %s\n\n", p.ID, p.Title, p.AuthorID, p.Body)
			}
			printf(out, "Page %d of %d\n", list.Pagination.CurrentPage, list.Pagination.TotalPages)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only show posts whose title contains this text")
	return cmd
}

func newPostsCreateCommand(configPath *string) *cobra.Command {
	var draft models.Draft

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(*configPath, "")
			if err != nil {
				return err
			}
			defer rt.close()

			api := upstream.NewClient(rt.cfg.Upstream.BaseURL, rt.cfg.Upstream.Timeout)
			svc := services.NewPostService(api, rt.logger, nil)
			creator := &services.PostCreator{Draft: draft}
			created, err := creator.Submit(cmd.Context(), svc, nil)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s %s\nCreated post #%d: %s\n",
				creator.Notice.Title, creator.Notice.Description, created.ID, created.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "post title")
	cmd.Flags().StringVar(&draft.Body, "body", "", "post body")
	cmd.Flags().StringVar(&draft.AuthorID, "author", "", "numeric author id")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			printf(cmd.OutOrStdout(), "blogfront version %s\n", Version)
		},
	}
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		printf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}
