package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/blushlabs/resilience/internal/core/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current status of the resilience core",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusResponse mirrors recovery.Status with string-typed fields so the
// CLI does not need the core's enums to decode it.
type statusResponse struct {
	HistorySize  int `json:"history_size"`
	Capacity     int `json:"capacity"`
	RecentErrors []struct {
		Timestamp time.Time `json:"timestamp"`
		Operation string    `json:"operation"`
		Path      string    `json:"path"`
		Kind      string    `json:"kind"`
		Code      string    `json:"code"`
	} `json:"recent_errors"`
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/status", cfg.Server.Port))
	if err != nil {
		slog.Error("Failed to reach diagnostics server", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		slog.Error("Failed to decode status", "error", err)
		os.Exit(1)
	}

	fmt.Printf("history: %d/%d entries\n\n", status.HistorySize, status.Capacity)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "TIME\tOPERATION\tPATH\tKIND\tCODE")
	for _, e := range status.RecentErrors {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format(time.RFC3339), e.Operation, e.Path, e.Kind, e.Code)
	}
	_ = w.Flush()
}
