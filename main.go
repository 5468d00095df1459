package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"metagallery/database"
	"metagallery/gallery"
	"metagallery/imageprocessor"
	"metagallery/logging"
	"metagallery/prompts"
	"metagallery/scanner"
	"metagallery/signalhandler"
	"metagallery/types"
	"metagallery/utils"
)

// runConfig holds everything one gallery run needs
type runConfig struct {
	ImageDir   string
	GalleryOut string
	PromptDir  string
	BaseDir    string
	Reader     string
	Catalog    string
	Debug      bool
	Overrides  types.OverrideConfig
}

var (
	flagImageDir  string
	flagGallery   string
	flagPromptDir string
	flagBaseDir   string
	flagReader    string
	flagCatalog   string
	flagDebug     bool
	flagLogFile   string
	overrideFlags utils.OverrideFlags
)

var errInvalidArgs = errors.New("invalid arguments")

var rootCmd = &cobra.Command{
	Use:   "metagallery --imgdir DIR [options]",
	Short: "Build an HTML gallery and a batch prompt file from generation metadata",
	Long: `metagallery reads the generation command embedded in the EXIF data of
each image in a directory and writes an HTML gallery of the images together
with a prompt file that regenerates them in one batch.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          doGallery,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagImageDir, "imgdir", "", "Directory containing the generated images (required)")
	f.StringVar(&overrideFlags.Size, "o-size", "", "Override the image size for all prompts, as WIDTHxHEIGHT")
	f.StringVar(&overrideFlags.Steps, "o-steps", "", "Override the number of steps for all prompts")
	f.StringVar(&overrideFlags.Scale, "o-scale", "", "Override the guidance scale for all prompts")
	f.StringVar(&overrideFlags.UseUpscale, "o-use-upscaler", "", "Override upscaling for all prompts (yes/no)")
	f.StringVar(&overrideFlags.UpscaleAmount, "o-upscaler-amount", "", "Override the upscale amount for all prompts")
	f.StringVar(&overrideFlags.UpscaleFaceEnh, "o-upscaler-face-enh", "", "Override face enhancement for all prompts (yes/no)")
	f.BoolVar(&overrideFlags.IgnoreInputImages, "ignore-input-images", false, "Comment out init image directives in the prompt file")
	f.StringVar(&flagGallery, "gallery", "gallery.html", "Path of the gallery HTML file")
	f.StringVar(&flagPromptDir, "prompt-dir", filepath.Join("prompts", "generated"), "Directory the prompt file is written to")
	f.StringVar(&flagBaseDir, "base-dir", "", "Directory init image paths resolve against (default: current directory)")
	f.StringVar(&flagReader, "reader", "native", "Metadata reader: native or exiftool")
	f.StringVar(&flagCatalog, "catalog", "", "Record decoded metadata in this SQLite database")
	f.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	f.StringVar(&flagLogFile, "logfile", "metagallery.log", "Debug log file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalidArgs) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func doGallery(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if flagImageDir == "" {
		fmt.Fprintln(out, "Error: Missing image directory (use --imgdir=DIR)")
		cmd.Usage()
		return errInvalidArgs
	}
	if err := validateImageDir(flagImageDir); err != nil {
		return err
	}

	overrides, warnings := utils.ParseOverrides(overrideFlags)
	for _, w := range warnings {
		fmt.Fprintf(out, "ERROR: %v\n", w)
	}

	if flagDebug {
		if err := logging.SetupLogger(flagLogFile); err != nil {
			fmt.Fprintf(out, "Warning: Failed to setup logging: %v\n", err)
		} else {
			fmt.Fprintf(out, "Debug mode enabled. Logging to: %s\n", flagLogFile)
			defer logging.CloseLogger()
		}
	}

	baseDir := flagBaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot determine working directory: %w", err)
		}
		baseDir = wd
	}

	cfg := runConfig{
		ImageDir:   flagImageDir,
		GalleryOut: flagGallery,
		PromptDir:  utils.ResolveDir(baseDir, flagPromptDir),
		BaseDir:    baseDir,
		Reader:     flagReader,
		Catalog:    flagCatalog,
		Debug:      flagDebug,
		Overrides:  overrides,
	}
	return run(cfg, out, time.Now())
}

// validateImageDir rejects a missing or non-directory image path
func validateImageDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image directory does not exist: %s", dir)
		}
		return fmt.Errorf("cannot access image directory: %s (%w)", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}
	return nil
}

// newSource returns the metadata reader selected by name and a function that
// releases it
func newSource(name string) (scanner.MetadataSource, func(), error) {
	switch name {
	case "", "native":
		return imageprocessor.NewNativeRegistry(), func() {}, nil
	case "exiftool":
		et, err := imageprocessor.NewExiftoolReader()
		if err != nil {
			return nil, nil, err
		}
		return imageprocessor.NewExiftoolRegistry(et), func() { et.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown reader %q (use native or exiftool)", name)
	}
}

func run(cfg runConfig, out io.Writer, start time.Time) error {
	source, release, err := newSource(cfg.Reader)
	if err != nil {
		return err
	}
	defer release()

	if err := os.MkdirAll(cfg.PromptDir, 0755); err != nil {
		return fmt.Errorf("cannot create prompt directory %s: %w", cfg.PromptDir, err)
	}
	promptPath := filepath.Join(cfg.PromptDir, scanner.OutputBasename(start))

	var db *sql.DB
	if cfg.Catalog != "" {
		db, err = database.InitDatabase(cfg.Catalog)
		if err != nil {
			return fmt.Errorf("error initializing catalog: %w", err)
		}
		defer db.Close()
	}

	signalhandler.SetupHandler(cfg.GalleryOut, promptPath)

	g, err := gallery.Create(cfg.GalleryOut, promptPath)
	if err != nil {
		return err
	}
	p, err := prompts.Create(promptPath, cfg.Overrides)
	if err != nil {
		g.Close(time.Since(start), time.Now())
		return err
	}

	sinks := []scanner.RecordSink{
		scanner.SinkFunc(func(img scanner.ImageRef, rec types.DecodedRecord) error {
			return g.Add(img.Dir, img.Name, rec, img.Seq)
		}),
		scanner.SinkFunc(func(img scanner.ImageRef, rec types.DecodedRecord) error {
			return p.Add(rec)
		}),
	}
	var catalog *scanner.CatalogSink
	if db != nil {
		catalog = scanner.NewCatalogSink(db, promptPath)
		sinks = append(sinks, catalog)
	}

	stats, scanErr := scanner.ScanDirectory(scanner.ScanOptions{
		FolderPath: cfg.ImageDir,
		WorkDir:    cfg.BaseDir,
		DebugMode:  cfg.Debug,
		Out:        out,
	}, source, sinks...)

	// Both files are finalized even when the scan stopped early
	gErr := g.Close(time.Since(start), time.Now())
	pErr := p.Close()
	if scanErr != nil {
		return scanErr
	}
	if gErr != nil {
		return gErr
	}
	if pErr != nil {
		return pErr
	}

	fmt.Fprintf(out, "Found %d images in %s\n", stats.Found, cfg.ImageDir)
	fmt.Fprintf(out, "Successfully read metadata from %d images.\n", stats.Decoded)
	if stats.Skipped() > 0 {
		logging.DebugLog("Skipped %d images (%d without metadata, %d unrecognized, %d unreadable)",
			stats.Skipped(), stats.NoMetadata, stats.Unrecognized, stats.Failed)
	}
	fmt.Fprintf(out, "Created gallery file as %s\n", cfg.GalleryOut)
	fmt.Fprintf(out, "Created prompt file as %s\n", promptPath)

	if catalog != nil {
		fmt.Fprintf(out, "Catalog updated: %d new, %d updated, %d failed\n",
			catalog.Added, catalog.Updated, catalog.Failed)
		catalogStats, err := database.GetCatalogStats(db)
		if err != nil {
			logging.LogWarning("Cannot read catalog stats: %v", err)
			return nil
		}
		fmt.Fprintf(out, "Catalog %s: %d records, %d distinct prompts, %d upscaled\n",
			cfg.Catalog, catalogStats.TotalRecords, catalogStats.DistinctPrompts, catalogStats.UpscaledRecords)
	}
	return nil
}
