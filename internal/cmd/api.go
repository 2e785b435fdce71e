package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"llamactl/internal/capture"
	"llamactl/internal/httpapi"
	"llamactl/pkg/types"
)

var (
	apiAddr        string
	apiCORSOrigins string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the read-only discovery API over HTTP",
	Long: `Serve tracked server state, captured run info and run history as JSON.

Endpoints: /models, /servers, /servers/{model}, /runinfo/{model},
/history, /healthz and Prometheus /metrics.`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&apiAddr, "addr", envStr("LLAMACTL_ADDR", ":8090"), "HTTP listen address")
	apiCmd.Flags().StringVar(&apiCORSOrigins, "cors-origins", "", "comma-separated allowed CORS origins (empty disables CORS)")
	rootCmd.AddCommand(apiCmd)
}

// apiService adapts the wired app to the httpapi.Service interface.
type apiService struct {
	a     *app
	infos *capture.InfoStore
}

func (s *apiService) ListModels() []types.Model          { return s.a.models }
func (s *apiService) StateDocument() types.StateDocument { return s.a.mgr.Document() }

func (s *apiService) RunInfo(model string) (types.CapturedRunInfo, error) {
	return s.infos.Load(model)
}

func (s *apiService) History(n int) ([]types.HistoryRecord, error) {
	return s.a.hist.Recent(n)
}

func runAPI(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	httpapi.SetLogger(a.log)
	if origins := splitCSV(apiCORSOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins, []string{"GET", "OPTIONS"}, []string{"Accept", "Content-Type"})
	}

	svc := &apiService{a: a, infos: capture.NewInfoStore(a.cfg.StateDir)}
	srv := &http.Server{Addr: apiAddr, Handler: httpapi.NewMux(svc)}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", apiAddr).Msg("discovery API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

// splitCSV splits a comma-separated flag value, trimming blanks.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
