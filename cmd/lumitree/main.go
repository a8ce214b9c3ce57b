package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFormat  string

	// run
	targetFPS float64
	gamma     float64
	sinkKind  string
	server    string
	channel   int
	preset    string
	source    string
	replayID  string
	badData   bool
	graphPath string
	addrPath  string
	noSwap    bool
	record    bool
	maxFrames int
	seed      int64

	// bench
	benchFrames int
	benchPlot   bool

	// record
	recordSeconds float64
	recordNote    string
	plotSVG       string

	// snapshot
	snapshotAt   float64
	snapshotOut  string
	snapshotYaw  float64
	snapshotSize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lumitree",
		Short:         "biosignal-driven LED sculpture renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lumitree", "data directory for sessions and the run lock")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the animation loop",
		Args:  cobra.NoArgs,
		RunE:  runAnimation,
	}
	runCmd.Flags().Float64Var(&targetFPS, "fps", 0, "target frame rate")
	runCmd.Flags().Float64Var(&gamma, "gamma", 0, "gamma correction exponent")
	runCmd.Flags().StringVar(&sinkKind, "sink", "", "pixel sink (opc, preview, null)")
	runCmd.Flags().StringVar(&server, "server", "", "OPC server address")
	runCmd.Flags().IntVar(&channel, "channel", 0, "OPC channel")
	runCmd.Flags().StringVar(&preset, "preset", "", "built-in playlist set (show, test)")
	runCmd.Flags().StringVar(&source, "source", "", "biosignal source (fake, replay, none)")
	runCmd.Flags().StringVar(&replayID, "replay", "", "session id or samples.csv path to replay")
	runCmd.Flags().BoolVar(&badData, "bad-data", false, "fake headset drops off now and then")
	runCmd.Flags().StringVar(&graphPath, "graph", "", "topology graph json")
	runCmd.Flags().StringVar(&addrPath, "addresses", "", "address mapping json")
	runCmd.Flags().BoolVar(&noSwap, "no-swap", false, "disable headset-driven playlist swaps")
	runCmd.Flags().BoolVar(&record, "record", false, "record biosignal samples while running")
	runCmd.Flags().IntVar(&maxFrames, "frames", 0, "stop after this many frames (0 runs forever)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for effects (0 picks one)")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "describe the loaded structure",
		Args:  cobra.NoArgs,
		RunE:  inspectModel,
	}
	inspectCmd.Flags().StringVar(&graphPath, "graph", "", "topology graph json")
	inspectCmd.Flags().StringVar(&addrPath, "addresses", "", "address mapping json")

	benchCmd := &cobra.Command{
		Use:   "bench [playlist]",
		Short: "render every routine headless and report timings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchRoutines,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 300, "frames per routine")
	benchCmd.Flags().BoolVar(&benchPlot, "plot", false, "plot render times")
	benchCmd.Flags().StringVar(&preset, "preset", "", "built-in playlist set (show, test)")
	benchCmd.Flags().StringVar(&graphPath, "graph", "", "topology graph json")
	benchCmd.Flags().StringVar(&addrPath, "addresses", "", "address mapping json")

	playlistsCmd := &cobra.Command{
		Use:   "playlists",
		Short: "list playlists and layer types",
		Args:  cobra.NoArgs,
		RunE:  listPlaylists,
	}
	playlistsCmd.Flags().StringVar(&preset, "preset", "", "built-in playlist set (show, test)")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record biosignal samples to a session",
		Args:  cobra.NoArgs,
		RunE:  recordSession,
	}
	recordCmd.Flags().Float64Var(&recordSeconds, "seconds", 0, "stop after this many seconds (0 records until interrupted)")
	recordCmd.Flags().StringVar(&recordNote, "note", "", "note stored with the session")
	recordCmd.Flags().BoolVar(&badData, "bad-data", false, "fake headset drops off now and then")

	plotCmd := &cobra.Command{
		Use:   "plot [session_id]",
		Short: "plot a session's attention and meditation",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSession,
	}
	plotCmd.Flags().StringVar(&plotSVG, "svg", "", "write the plot to an svg file instead of the terminal")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [playlist]",
		Short: "render one frame of a playlist to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotPlaylist,
	}
	snapshotCmd.Flags().Float64Var(&snapshotAt, "at", 10, "seconds of simulated animation before the frame is taken")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshot.svg", "output file")
	snapshotCmd.Flags().Float64Var(&snapshotYaw, "yaw", 0, "camera rotation in degrees")
	snapshotCmd.Flags().IntVar(&snapshotSize, "size", 800, "image size in pixels")
	snapshotCmd.Flags().StringVar(&preset, "preset", "", "built-in playlist set (show, test)")
	snapshotCmd.Flags().StringVar(&graphPath, "graph", "", "topology graph json")
	snapshotCmd.Flags().StringVar(&addrPath, "addresses", "", "address mapping json")

	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "list recorded sessions",
		Args:  cobra.NoArgs,
		RunE:  listSessions,
	}
	sessionsCmd.AddCommand(&cobra.Command{
		Use:   "export [session_id]",
		Short: "export a session as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSession,
	}, plotCmd, &cobra.Command{
		Use:   "rm [session_id]",
		Short: "delete a session",
		Args:  cobra.ExactArgs(1),
		RunE:  removeSession,
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}, &cobra.Command{
		Use:   "check",
		Short: "validate the configuration",
		Args:  cobra.NoArgs,
		RunE:  checkConfig,
	})

	rootCmd.AddCommand(runCmd, inspectCmd, benchCmd, playlistsCmd, recordCmd, sessionsCmd, snapshotCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
