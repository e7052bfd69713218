package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/fitsview/internal/catalog"
	"github.com/ensigniasec/fitsview/internal/colormap"
	"github.com/ensigniasec/fitsview/internal/fitsfile"
	"github.com/ensigniasec/fitsview/internal/recent"
	"github.com/ensigniasec/fitsview/internal/storage"
	"github.com/ensigniasec/fitsview/internal/tui"
	"github.com/ensigniasec/fitsview/internal/validate"
	"github.com/ensigniasec/fitsview/internal/viewer"
)

const usageLine = "fitsview <filename> [-d]"

var errUsage = errors.New("usage: " + usageLine)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile = storage.DefaultPath
	verbose    bool
	dumpHeader bool
	zoomWidth  float64
	bins       int
	cmapName   string
	logFile    string
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:   usageLine,
		Short: "An interactive terminal viewer for astronomical FITS images.",
		Long: `fitsview renders a 2-D FITS image in the terminal with a linked zoom window, ` +
			`row and column intensity profiles, a histogram and contrast sliders. ` +
			`Click the main image to move the zoom window, scroll to change its width.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		Run: runViewer,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", storage.DefaultPath, "Path of the preferences file")

	rootCmd.Flags().BoolVarP(&dumpHeader, "dump-header", "d", false, "Print the FITS header before starting the viewer")
	rootCmd.Flags().Float64Var(&zoomWidth, "zoom-width", storage.DefaultZoomWidth, "Side of the zoom window in pixels")
	rootCmd.Flags().IntVar(&bins, "bins", storage.DefaultBins, "Number of histogram bins")
	rootCmd.Flags().StringVar(&cmapName, "colormap", colormap.Default, "Colormap: one of viridis, magma, gray")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the viewer runs")

	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format instead of a table")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(recentCmd)
	recentCmd.AddCommand(recentResetCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logrus.Fatal(err)
	}
}

// runViewer validates and loads the file, then hands it to the TUI.
func runViewer(cmd *cobra.Command, args []string) {
	path := args[0]
	if err := fitsfile.Check(path); err != nil {
		logrus.Fatal(err)
	}

	st, err := storage.NewOrExistingStorage(configFile)
	if err != nil {
		logrus.Fatalf("Unable to open or create preferences: %v", err)
	}
	prefs := mergeFlags(cmd, st.Data)

	cmap, err := colormap.Lookup(prefs.Colormap)
	if err != nil {
		logrus.Fatal(err)
	}
	if err := validate.Var(prefs.ZoomWidth, "gte=2"); err != nil {
		logrus.Fatalf("Invalid --zoom-width %v: must be at least 2", prefs.ZoomWidth)
	}

	doc, err := fitsfile.Load(path)
	if err != nil {
		logrus.Fatal(err)
	}
	if dumpHeader {
		fitsfile.PrintHeader(os.Stdout, doc)
	}

	book := &recent.Book{Storage: st}
	if err := book.Add(path); err != nil {
		logrus.Warnf("Unable to record %s in recent files: %v", path, err)
	}

	log := logrus.WithFields(logrus.Fields{"session": uuid.NewString(), "file": doc.Title})
	session, err := viewer.NewSession(doc.Image, viewer.Options{ZoomWidth: prefs.ZoomWidth, Bins: prefs.Bins}, log)
	if err != nil {
		logrus.Fatal(err)
	}

	snapshotDir := prefs.SnapshotDir
	if snapshotDir == "" {
		snapshotDir = "."
	}
	if snapshotDir, err = storage.ExpandTilde(snapshotDir); err != nil {
		logrus.Fatal(err)
	}

	var logOut io.Writer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			logrus.Fatalf("Unable to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}

	cfg := tui.Config{
		Session:     session,
		Document:    doc,
		Colormap:    cmap,
		SnapshotDir: snapshotDir,
		Log:         log,
	}
	if err := tui.Run(cmd.Context(), cfg, logOut); err != nil && !errors.Is(err, context.Canceled) {
		logrus.Fatalf("Viewer failed: %v", err)
	}
}

// mergeFlags overlays explicitly set flags on the stored preferences.
func mergeFlags(cmd *cobra.Command, prefs storage.Preferences) storage.Preferences {
	flags := cmd.Flags()
	if flags.Changed("zoom-width") {
		prefs.ZoomWidth = zoomWidth
	}
	if flags.Changed("bins") {
		prefs.Bins = bins
	}
	if flags.Changed("colormap") {
		prefs.Colormap = cmapName
	}
	return prefs
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var scanCmd = &cobra.Command{
	Use:   "scan [DIR|FILE...]",
	Short: "Catalog the FITS files under one or more paths. [Defaults to the current directory]",
	Long:  "Walk the given directories and files, open every FITS file found and report its image shape and header metadata.",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput && !verbose {
			logrus.SetLevel(logrus.WarnLevel)
		}
		if len(args) == 0 {
			args = []string{"."}
		}

		c := catalog.NewCatalog(args).WithStreamingCallback(func(path string, _ *catalog.Entry, err error) {
			if err != nil {
				logrus.Debugf("%s: %v", path, err)
			}
		})
		result, err := c.Scan(cmd.Context())
		if err != nil {
			logrus.Fatal(err)
		}
		if err := catalog.PrintSummary(os.Stdout, catalog.GenerateSummary(*result), jsonOutput); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened files",
	Long:  "List the files most recently opened in the viewer, newest first.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := recent.NewBook(configFile)
		if err != nil {
			logrus.Fatal(err)
		}
		b.View(os.Stdout)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var recentResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the recently opened files list",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := recent.NewBook(configFile)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := b.Reset(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(os.Stdout, "Recent files cleared")
	},
}

func main() {
	Execute()
}
