// Command tomasulo runs a program of add/sub/mul/div/lw/sw instructions
// through the dynamic scheduler, optionally printing the per-cycle trace,
// and reports the cycle count and the final non-zero register values.
// Memory contents are not printed.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v2"

	"github.com/andre-brandao/sim-tomasulo/config"
	"github.com/andre-brandao/sim-tomasulo/loader"
	"github.com/andre-brandao/sim-tomasulo/sched"
)

func main() {
	app := &cli.App{
		Name:    "tomasulo",
		Usage:   "run an instruction stream through the Tomasulo scheduler",
		Version: "v0.1.0",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "schedule and execute an instruction file",
				ArgsUsage: "<program.txt>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "path to a scheduler configuration JSON file",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "print the per-cycle trace",
					},
					&cli.BoolFlag{
						Name:  "dump-config",
						Usage: "print the resolved configuration and exit",
					},
				},
				Action: runAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tomasulo: %v\n", err)
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	cfg, err := resolveConfig(c.String("config"))
	if err != nil {
		return err
	}

	if c.Bool("dump-config") {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if c.NArg() < 1 {
		cli.ShowSubcommandHelp(c)
		return cli.Exit("missing <program.txt> argument", 1)
	}

	program, err := loader.Load(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	var trace *sched.TraceWriter
	if c.Bool("verbose") {
		trace = sched.NewTraceWriter(os.Stdout)
	}

	s := sched.New(program, cfg, trace)
	if err := s.Run(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("Completed in %d cycles\n", s.Cycle()-1)
	for _, reg := range s.Registers().All() {
		if reg.Value != 0 {
			fmt.Printf("  %-4s = %d\n", reg.Name, reg.Value)
		}
	}

	return nil
}

func resolveConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
