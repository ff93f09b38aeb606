package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/empchart/internal"
	"github.com/starford/empchart/internal/models"
	"github.com/starford/empchart/internal/render"
	pkgconfig "github.com/starford/empchart/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// withRuntime wires a runtime that logs to stderr, so stdout stays clean for
// command output.
func withRuntime(cmd *cli.Command, fn func(rt *internal.Runtime) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := internal.NewRuntime(internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}

// withDataset is withRuntime plus a prepared dataset; a failed load is an
// error for command-line use.
func withDataset(ctx context.Context, cmd *cli.Command, fn func(rt *internal.Runtime) error) error {
	return withRuntime(cmd, func(rt *internal.Runtime) error {
		if out := rt.Coordinator.PrepareData(ctx); !out.Succeeded {
			return errors.New(out.Message)
		}
		return fn(rt)
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func columns(ctx context.Context, cmd *cli.Command) error {
	return withDataset(ctx, cmd, func(rt *internal.Runtime) error {
		for _, name := range rt.Coordinator.Dataset().Names() {
			fmt.Println(name)
		}
		return nil
	})
}

func chartData(ctx context.Context, cmd *cli.Command) error {
	cols := cmd.StringSlice("column")
	if len(cols) == 0 {
		return errors.New("at least one --column is required")
	}
	return withDataset(ctx, cmd, func(rt *internal.Runtime) error {
		return printJSON(rt.Coordinator.BuildChartData(cols...))
	})
}

func bookmarkShow(ctx context.Context, cmd *cli.Command) error {
	return withRuntime(cmd, func(rt *internal.Runtime) error {
		out := rt.Coordinator.LoadBookmark(ctx)
		if !out.Succeeded {
			return errors.New(out.Message)
		}
		return printJSON(out.Payload)
	})
}

func bookmarkSave(ctx context.Context, cmd *cli.Command) error {
	state := models.ViewState{
		XMin:       cmd.Float("xmin"),
		XMax:       cmd.Float("xmax"),
		YMin:       cmd.Float("ymin"),
		YMax:       cmd.Float("ymax"),
		Selections: cmd.StringSlice("select"),
	}
	return withRuntime(cmd, func(rt *internal.Runtime) error {
		out := rt.Coordinator.SaveBookmark(ctx, state)
		if !out.Succeeded {
			return errors.New(out.Message)
		}
		fmt.Println(out.Message)
		return nil
	})
}

func bookmarkClear(ctx context.Context, cmd *cli.Command) error {
	return withRuntime(cmd, func(rt *internal.Runtime) error {
		out := rt.Coordinator.ClearBookmark(ctx)
		if !out.Succeeded {
			return errors.New(out.Message)
		}
		fmt.Println(out.Message)
		return nil
	})
}

func export(ctx context.Context, cmd *cli.Command) error {
	cols := cmd.StringSlice("column")
	useBookmark := cmd.Bool("bookmark")
	if len(cols) == 0 && !useBookmark {
		return errors.New("at least one --column is required")
	}
	return withDataset(ctx, cmd, func(rt *internal.Runtime) error {
		var view *models.ViewState
		if useBookmark {
			out := rt.Coordinator.LoadBookmark(ctx)
			if !out.Succeeded {
				return errors.New(out.Message)
			}
			view = &out.Payload
			if len(cols) == 0 {
				cols = out.Payload.Selections
			}
		}
		if len(cols) == 0 {
			return errors.New("bookmark has no selections; pass --column")
		}

		f, err := os.Create(cmd.String("out"))
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := render.PNG(f, rt.Coordinator.BuildChartData(cols...), view, rt.RenderOptions()); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		rt.Logger.Info("chart exported", slog.String("path", cmd.String("out")))
		return nil
	})
}

func slots(ctx context.Context, cmd *cli.Command) error {
	return withRuntime(cmd, func(rt *internal.Runtime) error {
		items, err := rt.Slots.List()
		if err != nil {
			return err
		}
		for _, it := range items {
			fmt.Printf("%s\t%d\t%s\t%s\n", it.Name, it.Size, it.Checksum, it.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
		}
		return nil
	})
}

func columnFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "column",
		Aliases: []string{"col"},
		Usage:   "Dataset column to chart (repeatable)",
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "empchart",
		Usage:  "Employment dataset charts with a persistent view bookmark",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with live events",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: runMCP,
			},
			{
				Name:   "columns",
				Usage:  "Print the dataset column names",
				Action: columns,
			},
			{
				Name:   "chart",
				Usage:  "Print chart data for the given columns as JSON",
				Flags:  []cli.Flag{columnFlag()},
				Action: chartData,
			},
			{
				Name:  "bookmark",
				Usage: "Show, save or clear the chart view bookmark",
				Commands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the saved view",
						Action: bookmarkShow,
					},
					{
						Name:  "save",
						Usage: "Replace the saved view",
						Flags: []cli.Flag{
							&cli.FloatFlag{Name: "xmin", Usage: "Left bound (row position)"},
							&cli.FloatFlag{Name: "xmax", Usage: "Right bound (row position)"},
							&cli.FloatFlag{Name: "ymin", Usage: "Lower bound"},
							&cli.FloatFlag{Name: "ymax", Usage: "Upper bound"},
							&cli.StringSliceFlag{Name: "select", Usage: "Selected column (repeatable)"},
						},
						Action: bookmarkSave,
					},
					{
						Name:   "clear",
						Usage:  "Remove the saved view",
						Action: bookmarkClear,
					},
				},
			},
			{
				Name:  "export",
				Usage: "Render chart data as a PNG",
				Flags: []cli.Flag{
					columnFlag(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "chart.png", Usage: "Output file"},
					&cli.BoolFlag{Name: "bookmark", Usage: "Apply the saved view bounds and selections"},
				},
				Action: export,
			},
			{
				Name:   "slots",
				Usage:  "List app-data slots with checksums",
				Action: slots,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
