package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/blushlabs/resilience/internal/core/config"
)

var (
	historyKind  string
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the error history",
	Run:   runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "filter by error kind")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "clear the error history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	url := fmt.Sprintf("http://localhost:%d/errors", cfg.Server.Port)

	if historyClear {
		req, err := http.NewRequest(http.MethodDelete, url, nil)
		if err != nil {
			slog.Error("Failed to build request", "error", err)
			os.Exit(1)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			slog.Error("Failed to reach diagnostics server", "error", err)
			os.Exit(1)
		}
		_ = resp.Body.Close()
		fmt.Println("history cleared")
		return
	}

	if historyKind != "" {
		url += "?kind=" + historyKind
	}
	resp, err := http.Get(url)
	if err != nil {
		slog.Error("Failed to reach diagnostics server", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	_, _ = io.Copy(os.Stdout, resp.Body)
	fmt.Println()
}
