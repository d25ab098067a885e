package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/df07/go-raytransport/pkg/logging"
	"github.com/df07/go-raytransport/pkg/medium"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger := logging.NewLogger("raytransport")
		var constructionErr *medium.ConstructionError
		if errors.As(err, &constructionErr) {
			logger.Errorw("medium construction failed", "medium", constructionErr.Medium, "error", constructionErr.Err)
		} else {
			logger.Error(err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	probeFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "samples",
			Value: 10000,
			Usage: "number of samples to draw",
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "worker goroutines, 0 for one per CPU",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "base seed of the per-worker samplers",
		},
	}
	rayFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "scene",
			Aliases:  []string{"s"},
			Usage:    "scene description file",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "medium",
			Aliases:  []string{"m"},
			Usage:    "name of the medium in the scene",
			Required: true,
		},
		&cli.Float64SliceFlag{
			Name:  "origin",
			Value: cli.NewFloat64Slice(0, 0, 0),
			Usage: "ray origin as x,y,z",
		},
		&cli.Float64SliceFlag{
			Name:  "dir",
			Value: cli.NewFloat64Slice(0, 0, 1),
			Usage: "ray direction as x,y,z",
		},
		&cli.Float64Flag{
			Name:  "tmax",
			Value: 1,
			Usage: "end of the ray segment, 0 for unbounded",
		},
	}

	return &cli.App{
		Name:    "raytransport",
		Usage:   "inspect ray accelerators and participating media",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "grid",
				Usage: "density grid files",
				Subcommands: []*cli.Command{
					{
						Name:      "info",
						Usage:     "print the dimensions and statistics of a grid file",
						ArgsUsage: "grid.bin",
						Action:    gridInfo,
					},
					{
						Name:  "gen",
						Usage: "generate a synthetic density grid",
						Description: `Write a grid file in the binary layout read by gridDensityMedium:
three native-endian int32 dimensions followed by nx*ny*nz float32 densities.`,
						ArgsUsage: "out.bin",
						Flags: []cli.Flag{
							&cli.IntSliceFlag{
								Name:  "dims",
								Value: cli.NewIntSlice(32, 32, 32),
								Usage: "lattice dimensions as nx,ny,nz",
							},
							&cli.StringFlag{
								Name:  "shape",
								Value: "sphere",
								Usage: "one of: " + shapeNames(),
							},
							&cli.Float64Flag{
								Name:  "density",
								Value: 1,
								Usage: "peak density",
							},
							&cli.Int64Flag{
								Name:  "seed",
								Value: 1,
								Usage: "seed for the noise shape",
							},
						},
						Action: gridGen,
					},
				},
			},
			{
				Name:  "medium",
				Usage: "sample a medium from a scene",
				Subcommands: []*cli.Command{
					{
						Name:   "sample",
						Usage:  "sample free-flight distances along a ray",
						Flags:  append(append([]cli.Flag{}, rayFlags...), probeFlags...),
						Action: mediumSample,
					},
					{
						Name:   "tr",
						Usage:  "estimate transmittance along a ray segment",
						Flags:  append(append([]cli.Flag{}, rayFlags...), probeFlags...),
						Action: mediumTr,
					},
				},
			},
			{
				Name:  "accel",
				Usage: "ray accelerators",
				Subcommands: []*cli.Command{
					{
						Name:      "bench",
						Usage:     "build every accelerator over a scene and time random ray queries",
						ArgsUsage: "scene.json5",
						Flags:     probeFlags,
						Action:    accelBench,
					},
				},
			},
			{
				Name:  "scene",
				Usage: "scene description files",
				Subcommands: []*cli.Command{
					{
						Name:      "list",
						Usage:     "list the scenes in a directory",
						ArgsUsage: "dir",
						Action:    sceneList,
					},
					{
						Name:      "info",
						Usage:     "build a scene and print its geometry, accelerator and media",
						ArgsUsage: "scene.json5",
						Action:    sceneInfo,
					},
				},
			},
		},
	}
}

// requireArg returns the single positional argument or a usage error
func requireArg(c *cli.Context, what string) (string, error) {
	if c.NArg() != 1 {
		return "", errors.Errorf("expected exactly one %s argument, got %d", what, c.NArg())
	}
	return c.Args().First(), nil
}
