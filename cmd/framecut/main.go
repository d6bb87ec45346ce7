// Package main provides the CLI entry point for framecut.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/framecut/pkg/adapters/ffmpeg"
	"github.com/user/framecut/pkg/adapters/jsonstore"
	"github.com/user/framecut/pkg/adapters/logger"
	"github.com/user/framecut/pkg/adapters/osfilesystem"
	"github.com/user/framecut/pkg/adapters/smartprobe"
	"github.com/user/framecut/pkg/adapters/youtube"
	"github.com/user/framecut/pkg/config"
	"github.com/user/framecut/pkg/orchestrator"
	"github.com/user/framecut/pkg/pipeline"
	"github.com/user/framecut/pkg/ports"
	"github.com/user/framecut/pkg/stages/captions"
	"github.com/user/framecut/pkg/stages/crop"
	"github.com/user/framecut/pkg/stages/trim"
	"github.com/user/framecut/pkg/summarizer"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Globals

	Trim     TrimCmd     `cmd:"" help:"Extract a time range of a video into a new file."`
	Crop     CropCmd     `cmd:"" help:"Crop every frame of a video to a rectangle."`
	Batch    BatchCmd    `cmd:"" help:"Trim (and optionally crop) a series of clips."`
	Captions CaptionsCmd `cmd:"" help:"Collect YouTube captions into a JSON file."`
	Probe    ProbeCmd    `cmd:"" help:"Show the stream information of a video."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// Globals holds flags shared by every subcommand.
type Globals struct {
	Config   string `short:"C" help:"YAML configuration file."`
	LogLevel string `short:"l" help:"Log level (debug, info, warn, error, quiet)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// EncodeFlags are the encoder options of the video commands.
type EncodeFlags struct {
	FourCC  string `short:"f" help:"Four-character codec identifier (mp4v, avc1, h264, XVID, MJPG, hvc1)."`
	Quality *int   `short:"q" help:"Codec quality (CRF or qscale, codec dependent)."`
}

// TrimCmd defines the trim subcommand.
type TrimCmd struct {
	Input    string  `arg:"" help:"Input video file."`
	Output   string  `short:"o" required:"" help:"Output video file."`
	Start    float64 `short:"s" default:"0" help:"Start time in seconds."`
	Duration float64 `short:"d" required:"" help:"Duration in seconds."`

	EncodeFlags
}

// CropCmd defines the crop subcommand.
type CropCmd struct {
	Input        string `arg:"" help:"Input video file."`
	Output       string `short:"o" required:"" help:"Output video file."`
	Region       string `short:"r" required:"" help:"Crop rectangle as x,y,width,height."`
	OutputWidth  int    `help:"Rescale the cropped region to this width."`
	OutputHeight int    `help:"Rescale the cropped region to this height."`

	EncodeFlags
}

// BatchCmd defines the batch subcommand. Without --input the jobs come
// from the configuration file.
type BatchCmd struct {
	Input    string  `short:"i" help:"Input video file for a stepped series of clips."`
	OutDir   string  `help:"Directory for the clips (default: next to the input)."`
	Start    float64 `short:"s" default:"0" help:"Start time of the first clip in seconds."`
	Step     float64 `default:"1" help:"Seconds between clip starts."`
	Duration float64 `short:"d" default:"10" help:"Clip duration in seconds."`
	Count    int     `short:"n" default:"1" help:"Number of clips."`

	Region       string `short:"r" help:"Crop each clip to x,y,width,height."`
	OutputWidth  int    `help:"Rescale cropped clips to this width."`
	OutputHeight int    `help:"Rescale cropped clips to this height."`
	Discard      bool   `help:"Remove each trimmed clip after it has been cropped."`

	Summary string `help:"Write a Markdown summary of the run to this file."`

	EncodeFlags
}

// CaptionsCmd defines the captions subcommand.
type CaptionsCmd struct {
	URLs      []string `arg:"" optional:"" help:"Video or playlist URLs (default: urls from the configuration)."`
	Output    string   `short:"o" help:"Output JSON file."`
	Languages []string `short:"L" sep:"," help:"Caption languages in preference order; prefix a. for auto-generated."`
	APIKey    string   `help:"YouTube Data API key (default: YOUTUBE_API_KEY)."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	Inputs []string `arg:"" help:"Video files."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("framecut"),
		kong.Description(l10n.T("Frame-accurate video trimming and YouTube caption collection.")),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// session holds the configuration and logger of a command run.
type session struct {
	cfg config.Config
	log ports.Logger
}

func (g *Globals) setup() (*session, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return &session{cfg: cfg, log: logger.New(cfg.Level(), g.Quiet)}, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func (e *session) signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			e.log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// videoStages wires the ffmpeg-backed adapters into the trim and crop stages.
func (e *session) videoStages(flags EncodeFlags) (*trim.Stage, *crop.Stage, ports.FileSystem) {
	fourcc, quality := e.encodeSettings(flags)

	fs := osfilesystem.New()
	locator := e.cfg.Locator()
	prober := smartprobe.New(locator, e.log)
	opener := ffmpeg.NewSourceOpener(locator, prober)
	sinks := ffmpeg.NewSinkFactory(locator, quality)

	return trim.NewStage(opener, sinks, fs, e.log, fourcc),
		crop.NewStage(opener, sinks, fs, e.log, fourcc),
		fs
}

// encodeSettings resolves the codec and quality, flags over configuration.
func (e *session) encodeSettings(flags EncodeFlags) (string, int) {
	fourcc := e.cfg.Video.FourCC
	if flags.FourCC != "" {
		fourcc = flags.FourCC
	}
	quality := e.cfg.Video.Quality
	if flags.Quality != nil {
		quality = *flags.Quality
	}
	return fourcc, quality
}

// Run executes the trim command.
func (cmd *TrimCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return err
	}
	trimStage, _, _ := e.videoStages(cmd.EncodeFlags)

	ctx, cancel := e.signalContext()
	defer cancel()

	result, err := trimStage.Execute(ctx, pipeline.TrimInput{
		InputPath:  cmd.Input,
		OutputPath: cmd.Output,
		Range:      pipeline.TimeRange{StartSeconds: cmd.Start, DurationSeconds: cmd.Duration},
	})
	if err != nil {
		return stageFailure("trim", err)
	}

	e.log.Info("Output saved to %s (%d frames)", cmd.Output, result.FramesWritten)
	return nil
}

// Run executes the crop command.
func (cmd *CropCmd) Run(g *Globals) error {
	region, err := parseRegion(cmd.Region)
	if err != nil {
		return err
	}
	e, err := g.setup()
	if err != nil {
		return err
	}
	_, cropStage, _ := e.videoStages(cmd.EncodeFlags)

	ctx, cancel := e.signalContext()
	defer cancel()

	result, err := cropStage.Execute(ctx, pipeline.CropInput{
		InputPath:    cmd.Input,
		OutputPath:   cmd.Output,
		Region:       region,
		OutputWidth:  cmd.OutputWidth,
		OutputHeight: cmd.OutputHeight,
	})
	if err != nil {
		return stageFailure("crop", err)
	}

	e.log.Info("Output saved to %s (%d frames)", cmd.Output, result.FramesWritten)
	return nil
}

// stageFailure reduces an error the stage has already logged to its kind,
// so the exit message does not repeat it.
func stageFailure(command string, err error) error {
	kind := pipeline.KindOf(err)
	if kind == 0 {
		return err
	}
	return fmt.Errorf(l10n.T("%s failed: %s"), command, kind)
}

// Run executes the batch command.
func (cmd *BatchCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return err
	}

	jobs, err := cmd.jobs(e.cfg)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return errors.New(l10n.T("no jobs: pass --input or list jobs in the configuration file"))
	}

	trimStage, cropStage, fs := e.videoStages(cmd.EncodeFlags)
	runner := orchestrator.New(trimStage, cropStage, fs, e.log)

	ctx, cancel := e.signalContext()
	defer cancel()

	report := runner.Run(ctx, jobs)
	if cmd.Summary != "" {
		fourcc, quality := e.encodeSettings(cmd.EncodeFlags)
		summary := summarizer.NewBuilder().
			WithSettings(summarizer.Settings{FourCC: fourcc, Quality: quality}).
			WithBatch(report).
			Build()
		if err := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs).Write(cmd.Summary, summary); err != nil {
			return err
		}
		e.log.Info("Summary saved to %s", cmd.Summary)
	}
	if report.Interrupted {
		return context.Canceled
	}
	if failed := len(jobs) - report.TrimSucceeded; failed > 0 {
		return fmt.Errorf(l10n.T("%d of %d clips failed"), failed, len(jobs))
	}
	return nil
}

func (cmd *BatchCmd) jobs(cfg config.Config) ([]pipeline.ClipJob, error) {
	if cmd.Input == "" {
		return cfg.ClipJobs(), nil
	}

	outDir := cmd.OutDir
	if outDir == "" {
		outDir = filepath.Dir(cmd.Input)
	}
	jobs := orchestrator.StepJobs(cmd.Input, outDir, cmd.Start, cmd.Step, cmd.Duration, cmd.Count)
	if cmd.Region != "" {
		region, err := parseRegion(cmd.Region)
		if err != nil {
			return nil, err
		}
		jobs = orchestrator.WithCrop(jobs, region, cmd.OutputWidth, cmd.OutputHeight, cmd.Discard)
	}
	return jobs, nil
}

// Run executes the captions command.
func (cmd *CaptionsCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return err
	}

	urls := cmd.URLs
	if len(urls) == 0 {
		urls = e.cfg.YouTube.URLs
	}
	if len(urls) == 0 {
		return errors.New(l10n.T("no URLs: pass them as arguments or list urls in the configuration file"))
	}
	langs := e.cfg.YouTube.Languages
	if len(cmd.Languages) > 0 {
		langs = cmd.Languages
	}
	output := e.cfg.YouTube.Output
	if cmd.Output != "" {
		output = cmd.Output
	}

	opts := e.cfg.YouTubeOptions(e.log)
	if cmd.APIKey != "" {
		opts.APIKey = cmd.APIKey
	}
	stage := captions.NewStage(
		youtube.NewCaptionClient(opts),
		youtube.NewPlaylistClient(opts),
		e.log,
	)

	ctx, cancel := e.signalContext()
	defer cancel()

	result, err := stage.Execute(ctx, pipeline.CollectInput{URLs: urls, Languages: langs})

	// Whatever was collected before an interruption is still saved.
	if len(result.Records) == 0 {
		e.log.Warn("Nothing to save")
	} else {
		if saveErr := jsonstore.Save(output, result.Records); saveErr != nil {
			return saveErr
		}
		e.log.Info("Saved %d caption records to %s", len(result.Records), output)
	}
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf(l10n.T("%d URLs could not be resolved"), result.Failed)
	}
	return nil
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return err
	}
	prober := smartprobe.New(e.cfg.Locator(), e.log)

	var failed int
	for _, path := range cmd.Inputs {
		info, backend, err := prober.ProbeWithBackend(path)
		if err != nil {
			e.log.Error("Could not probe %s: %v", path, err)
			failed++
			continue
		}
		frames := l10n.T("unknown")
		if info.FrameCountKnown {
			frames = strconv.Itoa(info.FrameCount)
		}
		fmt.Println(l10n.F("%s: %dx%d @ %.3f fps, %s frames (%s)",
			path, info.Width, info.Height, info.FrameRate, frames, backend))
	}
	if failed > 0 {
		return fmt.Errorf(l10n.T("%d of %d files could not be probed"), failed, len(cmd.Inputs))
	}
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run(g *Globals) error {
	fmt.Println(l10n.F("framecut version %s", version))
	return nil
}

// parseRegion parses "x,y,width,height".
func parseRegion(s string) (pipeline.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return pipeline.Rectangle{}, fmt.Errorf(l10n.T("region %q must be x,y,width,height"), s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return pipeline.Rectangle{}, fmt.Errorf(l10n.T("region %q must be x,y,width,height"), s)
		}
		v[i] = n
	}
	return pipeline.Rectangle{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}
