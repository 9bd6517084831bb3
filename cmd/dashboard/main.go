// Command dashboard serves the polar plant EC study dashboard: a web
// UI plus JSON API over the four schools' environment and growth data.
package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/app"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/config"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/exporter"
	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts"
)

//go:embed web
var webFS embed.FS

var (
	flagConfig  string
	flagDataDir string
	flagPort    int
	flagOut     string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Polar plant EC study dashboard",
		Long:          "Serves environment and growth data from the four-school EC study as a web dashboard with JSON API, chart payloads and exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "override the data directory")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	serve.Flags().IntVarP(&flagPort, "port", "p", 0, "override the listen port")

	export := &cobra.Command{
		Use:   "export",
		Short: "Write the growth results workbook without starting the server",
		RunE:  runExport,
	}
	export.Flags().StringVarP(&flagOut, "out", "o", exporter.WorkbookFilename, "output path for the workbook")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(contracts.GetFullVersionString())
		},
	}

	root.AddCommand(serve, export, version)
	return root
}

func loadConfig() (*config.Config, error) {
	// Missing .env is fine, it only supplies optional overrides.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.Paths.DataDir = flagDataDir
	}
	if flagPort > 0 {
		cfg.Server.Port = flagPort
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	static, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("embedded web assets: %w", err)
	}

	application, err := app.New(cfg, app.WithStaticFS(static))
	if err != nil {
		return fmt.Errorf("assemble application: %w", err)
	}

	return application.Run(cmd.Context())
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("assemble application: %w", err)
	}
	defer application.Shutdown()

	dataset, err := application.DataService().Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	for _, p := range dataset.Problems {
		fmt.Fprintf(os.Stderr, "warning: %s %s: %s\n", p.Source, p.SiteID, p.Message)
	}

	if dir := filepath.Dir(flagOut); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(flagOut)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := exporter.NewWorkbookExporter(application.Logger())
	if err := w.WriteGrowthWorkbook(f, dataset); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	fmt.Printf("wrote %s (%d specimens, %d problems)\n",
		flagOut, dataset.TotalSpecimens(), len(dataset.Problems))
	return nil
}
