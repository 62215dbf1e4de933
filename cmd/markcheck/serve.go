package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"markcheck/internal/server"
	"markcheck/internal/session"
	"markcheck/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Serve the editor API over HTTP and websocket",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("log-level", "info", "log level (debug|info|warn|error)")
	serveCmd.Flags().String("log-format", "json", "log format (json|text)")
	serveCmd.Flags().Int("history", session.DefaultHistory, "undo snapshots kept per live session")
	serveCmd.Flags().Int64("max-body", server.DefaultMaxBody, "maximum request body in bytes")
	serveCmd.Flags().StringSlice("allow-origin", nil, "extra origins allowed to open the live channel")
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errUnknownValue("log-level", s)
	}
	return level, nil
}

func newLogger(format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}
	return nil, errUnknownValue("log-format", format)
}

// originChecker accepts same-origin requests and the listed origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := set[origin]; ok {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("failed to get addr flag: %w", err)
	}
	levelFlag, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return fmt.Errorf("failed to get log-format flag: %w", err)
	}
	history, err := cmd.Flags().GetInt("history")
	if err != nil {
		return fmt.Errorf("failed to get history flag: %w", err)
	}
	maxBody, err := cmd.Flags().GetInt64("max-body")
	if err != nil {
		return fmt.Errorf("failed to get max-body flag: %w", err)
	}
	origins, err := cmd.Flags().GetStringSlice("allow-origin")
	if err != nil {
		return fmt.Errorf("failed to get allow-origin flag: %w", err)
	}

	level, err := parseLogLevel(levelFlag)
	if err != nil {
		return err
	}
	logger, err := newLogger(logFormat, level)
	if err != nil {
		return err
	}

	loaded, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if loaded.Path != "" {
		logger.Info("config loaded", "path", loaded.Path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Engine:       loaded.Config.EngineOptions(),
		Logger:       logger,
		HistoryLimit: history,
		MaxBody:      maxBody,
		CheckOrigin:  originChecker(origins),
	})
	logger.Info("markcheck", "version", version.Version)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
