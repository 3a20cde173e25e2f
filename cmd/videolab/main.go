// Package main provides the CLI entry point for videolab.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/user/videolab/pkg/adapters/ffmpeg"
	"github.com/user/videolab/pkg/adapters/filesink"
	"github.com/user/videolab/pkg/adapters/ggrenderer"
	"github.com/user/videolab/pkg/adapters/logger"
	"github.com/user/videolab/pkg/adapters/mp4container"
	"github.com/user/videolab/pkg/adapters/nullsink"
	"github.com/user/videolab/pkg/adapters/osfilesystem"
	"github.com/user/videolab/pkg/adapters/smartcontainer"
	"github.com/user/videolab/pkg/config"
	"github.com/user/videolab/pkg/pipeline"
	"github.com/user/videolab/pkg/ports"
	"github.com/user/videolab/pkg/session"
	"github.com/user/videolab/pkg/stages/transform"
)

var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "videolab",
		Usage:   l10n.T("Inspect videos, extract frames and audio"),
		Version: version,
		Description: l10n.T("videolab reads video properties, extracts a still frame at any time offset, " +
			"applies image transforms to it and extracts the audio track."),
		Flags: globalFlags(),
		Commands: []*cli.Command{
			probeCommand(),
			frameCommand(),
			imageCommand(),
			audioCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("Path to a YAML configuration file"),
			Category: l10n.T("Configuration"),
		},
		&cli.StringFlag{
			Name:     "ffmpeg",
			Usage:    l10n.T("Path to the ffmpeg executable"),
			Category: l10n.T("External tools"),
		},
		&cli.StringFlag{
			Name:     "ffprobe",
			Usage:    l10n.T("Path to the ffprobe executable"),
			Category: l10n.T("External tools"),
		},
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Enable debug output"),
			Category: l10n.T("Debug"),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Usage:    l10n.T("Directory for debug output"),
			Category: l10n.T("Debug"),
		},
	}
}

// runner holds everything a command needs, built from config and flags.
type runner struct {
	cfg      config.Config
	log      ports.Logger
	fs       ports.FileSystem
	renderer ports.Renderer
	session  *session.Session
}

func setup(c *cli.Context) (*runner, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.String("ffmpeg")
	}
	if c.IsSet("ffprobe") {
		cfg.FFprobePath = c.String("ffprobe")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(cfg.Level())
	}

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	tool := ffmpeg.New(cfg.FFmpegOptions(), fs, log)
	reader := smartcontainer.New(mp4container.New(), tool, log)

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	sess := session.New(session.Deps{
		Reader:     reader,
		Decoder:    tool,
		Prober:     tool,
		Transcoder: tool,
		Renderer:   renderer,
		Sink:       sink,
	}, cfg.ToSessionConfig(), log)

	return &runner{
		cfg:      cfg,
		log:      log,
		fs:       fs,
		renderer: renderer,
		session:  sess,
	}, nil
}

func videoArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("%s", l10n.T("A video file argument is required"))
	}
	return c.Args().First(), nil
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Print the properties of a video"),
		ArgsUsage: "VIDEO",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "plain",
				Usage: l10n.T("Print one property per line instead of YAML"),
			},
		},
		Action: func(c *cli.Context) error {
			path, err := videoArg(c)
			if err != nil {
				return err
			}
			rt, err := setup(c)
			if err != nil {
				return err
			}
			defer rt.session.Close()

			props, err := rt.session.Open(c.Context, path)
			if err != nil {
				return err
			}

			if c.Bool("plain") {
				for _, p := range props.Fields() {
					v := l10n.T("unknown")
					if p.Value != nil {
						v = fmt.Sprint(p.Value)
					}
					fmt.Fprintf(c.App.Writer, "%s: %s\n", l10n.T(p.Name), v)
				}
				return nil
			}

			out, err := yaml.Marshal(props)
			if err != nil {
				return fmt.Errorf("marshal properties: %w", err)
			}
			_, err = c.App.Writer.Write(out)
			return err
		},
	}
}

func frameCommand() *cli.Command {
	return &cli.Command{
		Name:      "frame",
		Usage:     l10n.T("Extract a still frame and apply transforms"),
		ArgsUsage: "VIDEO",
		Flags: append([]cli.Flag{
			&cli.Float64Flag{
				Name:    "at",
				Aliases: []string{"t"},
				Usage:   l10n.T("Time offset in seconds (clamped to the video)"),
			},
		}, transformFlags()...),
		Action: func(c *cli.Context) error {
			path, err := videoArg(c)
			if err != nil {
				return err
			}
			rt, err := setup(c)
			if err != nil {
				return err
			}
			defer rt.session.Close()

			ops, err := parseOperations(c.StringSlice("transform"), c.String("crop"), rt.cfg.ToSessionConfig().Transform)
			if err != nil {
				return err
			}

			if _, err := rt.session.Open(c.Context, path); err != nil {
				return err
			}
			res, err := rt.session.FrameAt(c.Context, c.Float64("at"))
			if err != nil {
				return err
			}
			applied, err := rt.session.Apply(c.Context, res.Frame, ops...)
			if err != nil {
				return err
			}

			return writeFrame(c, rt, applied.Frame)
		},
	}
}

func imageCommand() *cli.Command {
	return &cli.Command{
		Name:      "image",
		Usage:     l10n.T("Apply transforms to a still image"),
		ArgsUsage: "IMAGE",
		Flags:     transformFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("%s", l10n.T("An image file argument is required"))
			}
			path := c.Args().First()
			rt, err := setup(c)
			if err != nil {
				return err
			}

			ops, err := parseOperations(c.StringSlice("transform"), c.String("crop"), rt.cfg.ToSessionConfig().Transform)
			if err != nil {
				return err
			}

			data, err := rt.fs.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			img, err := rt.renderer.DecodeImage(data, ports.ImageFormatFromPath(path))
			if err != nil {
				return fmt.Errorf("decode image: %w", err)
			}

			applied, err := rt.session.Apply(c.Context, pipeline.FrameFromImage(img), ops...)
			if err != nil {
				return err
			}
			return writeFrame(c, rt, applied.Frame)
		},
	}
}

func transformFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "transform",
			Aliases: []string{"x"},
			Usage:   l10n.T("Transform to apply, repeatable (gray, rotate90, rotate180, rotate270, mirror, grid, grid=RxC, detect, detect=AREA)"),
		},
		&cli.StringFlag{
			Name:  "crop",
			Usage: l10n.T("Crop applied after the transforms (left, right, top, bottom, major, minor)"),
		},
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    l10n.T("Output image path (.png, .jpg, .bmp, .tiff)"),
			Required: true,
		},
		&cli.IntFlag{
			Name:  "quality",
			Usage: l10n.T("JPEG quality (1-100)"),
			Value: 90,
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: l10n.T("Scale the output to this width, keeping the aspect ratio (0 = original)"),
		},
	}
}

func parseOperations(transforms []string, crop string, opts transform.Options) ([]transform.Operation, error) {
	var ops []transform.Operation
	for _, s := range transforms {
		// Allow comma-separated lists in a single flag.
		for _, part := range strings.Split(s, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			op, err := transform.ParseOperation(part, opts)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	if crop != "" {
		op, err := transform.ParseOperation("crop="+crop, opts)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func writeFrame(c *cli.Context, rt *runner, f pipeline.Frame) error {
	if f.Empty() {
		return fmt.Errorf("%s", l10n.T("The resulting frame is empty"))
	}

	img := f.Image()
	if w := c.Int("width"); w > 0 && w != f.Width {
		h := max(1, int(math.Round(float64(f.Height)*float64(w)/float64(f.Width))))
		img = rt.renderer.ResizeImage(img, w, h)
	}

	out := c.String("output")
	format := ports.ImageFormatFromPath(out)
	data, err := rt.renderer.EncodeImage(img, format, c.Int("quality"))
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := rt.fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := rt.fs.WriteFile(out, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	rt.log.Info("Output saved to %s", out)
	return nil
}

func audioCommand() *cli.Command {
	return &cli.Command{
		Name:      "audio",
		Usage:     l10n.T("Extract the audio track"),
		ArgsUsage: "VIDEO",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   l10n.T("Audio format (mp3, wav, ogg, flac, m4a)"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   l10n.T("Output audio path (default: video name with the format extension)"),
			},
		},
		Action: func(c *cli.Context) error {
			path, err := videoArg(c)
			if err != nil {
				return err
			}
			rt, err := setup(c)
			if err != nil {
				return err
			}
			defer rt.session.Close()

			if _, err := rt.session.Open(c.Context, path); err != nil {
				return err
			}
			art, err := rt.session.ExtractAudio(c.Context, ports.ParseAudioFormat(c.String("format")))
			if err != nil {
				return err
			}

			switch art.Status {
			case pipeline.AudioNone:
				fmt.Fprintln(c.App.Writer, l10n.T("This video has no audio track."))
				return nil
			case pipeline.AudioFailed:
				return fmt.Errorf("%s: %s", l10n.T("Audio extraction failed"), l10n.T(art.Reason))
			}

			out := c.String("output")
			if out == "" {
				out = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + art.Format.Extension()
			}
			if err := rt.fs.WriteFile(out, art.Data); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			rt.log.Info("Output saved to %s", out)
			fmt.Fprintf(c.App.Writer, "%s (%s, %d bytes)\n", out, art.MIMEType, len(art.Data))
			return nil
		},
	}
}
