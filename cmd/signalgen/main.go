// Command signalgen 为 Actor 类型生成 HandleStop / HandleTerminate
//
// 通常配合 go:generate 使用：
//
//	//go:generate go run github.com/lwmacct/251215-go-pkg-signal/cmd/signalgen -type=Worker,Cache
//
// 不指定 -type 时处理带 //signal:handler 标记的类型。
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251215-go-pkg-signal/pkg/signal/signalgen"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "signalgen:", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "signalgen",
		Usage:     "generate actor signal handlers",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "comma separated type names; defaults to types marked " + signalgen.Annotation,
				Sources: cli.EnvVars("SIGNALGEN_TYPE"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   signalgen.DefaultOutput,
				Usage:   "output file name, relative to dir",
				Sources: cli.EnvVars("SIGNALGEN_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "receiver",
				Value:   string(signalgen.ReceiverPointer),
				Usage:   "receiver kind of generated methods: pointer or value",
				Sources: cli.EnvVars("SIGNALGEN_RECEIVER"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("SIGNALGEN_VERBOSE"),
			},
		},
		Action: run,
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	receiver, err := signalgen.ParseReceiver(cmd.String("receiver"))
	if err != nil {
		return err
	}

	dir := cmd.Args().First()
	if dir == "" {
		dir = "."
	}

	_, err = signalgen.Write(signalgen.Options{
		Dir:      dir,
		Types:    cmd.StringSlice("type"),
		Output:   cmd.String("output"),
		Receiver: receiver,
		Logger:   log,
	})
	return err
}
