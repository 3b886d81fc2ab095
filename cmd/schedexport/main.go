package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"alcyxob/team-schedule/internal/calendar"
	"alcyxob/team-schedule/internal/config"
	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/export"
	"alcyxob/team-schedule/internal/service"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "schedexport",
		Usage: "Render a team schedule file to a printable calendar.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: ".", Usage: "Directory holding config.yaml."},
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			renderCommand(),
			feedCommand(),
		},
	}
}

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{Name: "sessions", Aliases: []string{"s"}, Required: true, Usage: "YAML or JSON session file."},
		&cli.StringFlag{Name: "start", Required: true, Usage: "First day, YYYY-MM-DD."},
		&cli.StringFlag{Name: "end", Required: true, Usage: "Last day, YYYY-MM-DD."},
		&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "Output directory."},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Write the sessions between --start and --end as a PDF calendar.",
		Flags: append([]cli.Flag{
			&cli.IntFlag{Name: "weeks-per-page", Usage: "Week rows per page. Defaults to export.weeks_per_page."},
			&cli.StringFlag{Name: "title", Usage: "Header title. Defaults to the file's title, then export.title."},
		}, rangeFlags()...),
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			slog.SetDefault(logger)

			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			driverConfig, err := cfg.DriverConfig()
			if err != nil {
				return err
			}
			start, end, err := parseRange(c)
			if err != nil {
				return err
			}
			file, err := loadSessionFile(c.Path("sessions"))
			if err != nil {
				return err
			}
			logger.Debug("Loaded session file.", "path", c.Path("sessions"), "sessions", len(file.Sessions))

			switch {
			case c.IsSet("title"):
				driverConfig.Title = c.String("title")
			case file.Title != "":
				driverConfig.Title = file.Title
			}
			driverConfig.Emitter = export.DirEmitter{Dir: c.Path("out")}

			driver, err := export.NewDriver(driverConfig)
			if err != nil {
				return err
			}
			artifact, err := driver.Export(c.Context, export.Request{
				Sessions:     file.Sessions,
				Start:        start,
				End:          end,
				WeeksPerPage: c.Int("weeks-per-page"),
			})
			if err != nil {
				return err
			}

			logger.Info("Schedule exported.", "file", artifact.Location, "pages", artifact.Pages, "bytes", artifact.Size)
			return nil
		},
	}
}

func feedCommand() *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Write the sessions between --start and --end as an iCalendar file.",
		Flags: rangeFlags(),
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))

			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			start, end, err := parseRange(c)
			if err != nil {
				return err
			}
			file, err := loadSessionFile(c.Path("sessions"))
			if err != nil {
				return err
			}

			name := file.Title
			if name == "" {
				name = cfg.Export.Title
			}
			in := make([]domain.Session, 0, len(file.Sessions))
			for _, s := range file.Sessions {
				if day := s.DayKey(); day >= calendar.FormatDate(start) && day <= calendar.FormatDate(end) {
					in = append(in, s)
				}
			}

			out := filepath.Join(c.Path("out"), export.FileName(cfg.Export.FilePrefix, start, end, "ics"))
			if err := os.MkdirAll(c.Path("out"), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(service.BuildFeed(name, in, export.TypeLabels{})), 0o644); err != nil {
				return err
			}
			logger.Info("Calendar feed written.", "file", out, "events", len(in))
			return nil
		},
	}
}

func parseRange(c *cli.Context) (start, end time.Time, err error) {
	if start, err = calendar.ParseDate(c.String("start")); err != nil {
		return
	}
	if end, err = calendar.ParseDate(c.String("end")); err != nil {
		return
	}
	if err = service.CheckRange(start, end); err != nil {
		return
	}
	return start, end, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
