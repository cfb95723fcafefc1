package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/daemon"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

var (
	flagDaemonAddr     string
	flagDaemonInterval time.Duration
	flagDaemonPIDFile  string
	flagDaemonEvents   int
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Poll the input table and serve KPI status over HTTP/SSE",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running daemon",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8787", "HTTP listen address")
	pf.DurationVar(&flagDaemonInterval, "interval", 15*time.Second, "Polling interval")
	pf.StringVar(&flagDaemonPIDFile, "pid-file", filepath.Join(config.Dir(), "pvmdashd.pid"), "PID file path")
	pf.IntVar(&flagDaemonEvents, "events-buffer", 200, "Max in-memory events retained")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	path, err := dataPath()
	if err != nil {
		return err
	}

	pid := daemon.PIDFile(flagDaemonPIDFile)
	if err := pid.Claim(); err != nil {
		return err
	}
	defer pid.Release()

	dash, err := pipeline.NewDashboard(newCache(path, nil), appCfg)
	if err != nil {
		return err
	}
	svc := daemon.New(dash, daemon.Config{
		DataPath:     path,
		Selection:    flagSelection(),
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEvents,
	})

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Serving http://%s (polling %s every %s)\n",
			flagDaemonAddr, filepath.Base(path), flagDaemonInterval)
		fmt.Fprintf(os.Stderr, "  Stop with: pvmdash daemon stop --pid-file %s\n", flagDaemonPIDFile)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	pid, err := daemon.PIDFile(flagDaemonPIDFile).Read()
	switch {
	case err != nil:
		fmt.Println(cli.RenderNote("Daemon not running"))
		return nil
	case !daemon.Alive(pid):
		fmt.Println(cli.RenderWarning(fmt.Sprintf("Stale pid file: pid %d is gone", pid)))
		return nil
	}

	st, err := fetchDaemonStatus(flagDaemonAddr)
	if err != nil {
		return fmt.Errorf("daemon pid %d: %w", pid, err)
	}

	lastPoll := "pending"
	if !st.LastPollAt.IsZero() {
		lastPoll = st.LastPollAt.Local().Format(time.RFC3339)
	}
	t := cli.Table{
		Title:   "Daemon",
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"PID", fmt.Sprint(pid)},
			{"Address", "http://" + flagDaemonAddr},
			{"Selection", st.Selection.String()},
			{"Last poll", lastPoll},
			{"Polls", cli.FormatNumber(st.PollCount)},
			{"Rows", cli.FormatNumber(int64(st.Summary.Rows))},
			{"Profit", cli.FormatMoney(st.Summary.Profit)},
			{"Profit variance", cli.FormatSignedMoney(st.Summary.ProfitVariance)},
			{"PVM impact", cli.FormatSignedMoney(st.Summary.PVMImpact)},
			{"Subscribers", fmt.Sprint(st.SubscriberCount)},
		},
	}
	if st.LastError != "" {
		t.Rows = append(t.Rows, []string{"Last error", st.LastError})
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}

func fetchDaemonStatus(addr string) (daemon.Status, error) {
	var st daemon.Status

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		return st, fmt.Errorf("api unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("api returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed status: %w", err)
	}
	return st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pidFile := daemon.PIDFile(flagDaemonPIDFile)
	pid, err := pidFile.Read()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	for deadline := time.Now().Add(8 * time.Second); time.Now().Before(deadline); {
		if !daemon.Alive(pid) {
			pidFile.Release()
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}
