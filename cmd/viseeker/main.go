// Package main provides the CLI entry point for viseeker.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/awmthink/viseeker/pkg/adapters/arkvlm"
	"github.com/awmthink/viseeker/pkg/adapters/ffmpegenc"
	"github.com/awmthink/viseeker/pkg/adapters/ffprobe"
	"github.com/awmthink/viseeker/pkg/adapters/logger"
	"github.com/awmthink/viseeker/pkg/adapters/osfilesystem"
	"github.com/awmthink/viseeker/pkg/adapters/s3store"
	"github.com/awmthink/viseeker/pkg/compress"
	"github.com/awmthink/viseeker/pkg/config"
	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
	"github.com/awmthink/viseeker/pkg/tools/audio"
	"github.com/awmthink/viseeker/pkg/tools/convert"
	"github.com/awmthink/viseeker/pkg/tools/describe"
	"github.com/awmthink/viseeker/pkg/tools/keyframes"
	"github.com/awmthink/viseeker/pkg/tools/metadata"
	"github.com/awmthink/viseeker/pkg/tools/resize"
	"github.com/awmthink/viseeker/pkg/tools/split"
)

// Globals holds flags shared by every subcommand.
type Globals struct {
	Config   string `short:"C" help:"Path to a YAML config file." type:"path"`
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Globals

	Metadata    MetadataCmd    `cmd:"" help:"Probe a video and print its metadata."`
	Convert     ConvertCmd     `cmd:"" help:"Convert a video to a faststart MP4."`
	Resize      ResizeCmd      `cmd:"" help:"Resize a video to a target resolution."`
	RemoveAudio RemoveAudioCmd `cmd:"" name:"remove-audio" help:"Strip all audio streams without re-encoding."`
	Split       SplitCmd       `cmd:"" help:"Split a video into segments without re-encoding."`
	Keyframes   KeyframesCmd   `cmd:"" help:"Extract representative keyframes as images."`
	Compress    CompressCmd    `cmd:"" help:"Compress a video toward a byte-size budget."`
	Describe    DescribeCmd    `cmd:"" help:"Caption a video with a vision-language model."`
	Version     VersionCmd     `cmd:"" help:"Show version information."`
}

var version = "dev"

// errBudgetNotMet marks a finished compression search whose best-effort
// output still exceeds the budget. The artifact is written; only the
// exit code differs.
var errBudgetNotMet = errors.New("budget not met")

func main() {
	cli := CLI{}

	kctx := kong.Parse(&cli,
		kong.Name("viseeker"),
		kong.Description("Video toolkit: probe, convert, resize, split, extract keyframes, compress, and describe videos across local, HTTP, and S3 locations."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
	)

	err := kctx.Run()
	if errors.Is(err, errBudgetNotMet) {
		os.Exit(2)
	}
	kctx.FatalIfErrorf(err)
}

// app bundles the wired adapters every subcommand needs.
type app struct {
	cfg      config.Config
	log      ports.Logger
	fs       ports.FileSystem
	resolver *mediaio.Resolver
	prober   ports.Prober
	encoder  ports.Encoder
	store    ports.ObjectStore
	ctx      context.Context
	cancel   context.CancelFunc
}

// newApp loads configuration, wires the adapters, and installs signal
// handling. close must be called before the process exits.
func (g *Globals) newApp() (*app, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	var log ports.Logger
	if g.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(g.LogLevel))
	}

	store, err := s3store.New(s3store.Options{
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		UseHTTPS:        cfg.S3.UseHTTPS,
		VerifySSL:       cfg.S3.VerifySSL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("configure object storage: %w", err)
	}

	fs := osfilesystem.New()
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, shutting down...")
		cancel()
	}()

	return &app{
		cfg:      cfg,
		log:      log,
		fs:       fs,
		resolver: mediaio.NewResolver(fs, store),
		prober:   ffprobe.New(cfg.FFmpeg.FFprobePath),
		encoder:  ffmpegenc.New(cfg.FFmpeg.FFmpegPath, log),
		store:    store,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (a *app) close() {
	a.cancel()
}

// printJSON writes v as indented JSON to stdout. All logging goes to
// stderr, so stdout carries exactly one JSON document per invocation.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// MetadataCmd defines the metadata subcommand.
type MetadataCmd struct {
	Input    string `arg:"" help:"Video path/URL (e.g., ./a.mp4, https://..., s3://bucket/key)."`
	Download bool   `help:"Download remote inputs instead of probing them in place."`
}

// Run executes the metadata command.
func (cmd *MetadataCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in := metadata.Input{InputSpec: cmd.Input, Mode: mediaio.ModeURL}
	if cmd.Download {
		in.Mode = mediaio.ModeDownload
	}

	res, err := metadata.New(a.resolver, a.prober, a.log).Run(a.ctx, in)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// ConvertCmd defines the convert subcommand.
type ConvertCmd struct {
	Input  string `arg:"" help:"Video path/URL (e.g., ./a.mp4, https://..., s3://bucket/key)."`
	Output string `short:"o" required:"" help:"Output path or s3:// URL."`

	Codec     string `default:"auto" enum:"auto,libx265,libx264" help:"Video codec (auto prefers HEVC with H.264 fallback)."`
	CRF       int    `default:"28" help:"Constant rate factor (lower is better quality)."`
	Preset    string `default:"medium" help:"Encoder preset."`
	Bitrate   string `help:"Target video bitrate (e.g., 1500k); overrides CRF."`
	MaxHeight int    `help:"Downscale when the input is taller than this (0 = never)."`
	PixFmt    string `default:"yuv420p" help:"Pixel format."`

	AudioCodec      string `default:"aac" help:"Audio codec."`
	AudioBitrate    string `default:"128k" help:"Audio bitrate."`
	AudioSampleRate int    `help:"Audio sample rate in Hz (0 = keep)."`
	AudioChannels   int    `help:"Audio channel count (0 = keep)."`

	Timeout time.Duration `default:"1h" help:"Encoding timeout."`
}

// Run executes the convert command.
func (cmd *ConvertCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in := convert.DefaultInput()
	in.InputSpec = cmd.Input
	in.OutputSpec = cmd.Output
	in.VideoCodec = cmd.Codec
	in.CRF = cmd.CRF
	in.Preset = cmd.Preset
	in.Bitrate = cmd.Bitrate
	in.MaxHeight = cmd.MaxHeight
	in.PixFmt = cmd.PixFmt
	in.AudioCodec = cmd.AudioCodec
	in.AudioBitrate = cmd.AudioBitrate
	in.AudioSampleRate = cmd.AudioSampleRate
	in.AudioChannels = cmd.AudioChannels
	in.Timeout = cmd.Timeout

	res, err := convert.New(a.resolver, a.prober, a.encoder, a.fs, a.log).Run(a.ctx, in)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// ResizeCmd defines the resize subcommand.
type ResizeCmd struct {
	Input  string `arg:"" help:"Video path/URL (e.g., ./a.mp4, https://..., s3://bucket/key)."`
	Output string `short:"o" required:"" help:"Output path or s3:// URL."`

	Width  int `short:"W" help:"Target width in pixels (0 = derive from height)."`
	Height int `short:"H" help:"Target height in pixels (0 = derive from width)."`

	Policy   string `default:"stretch" enum:"stretch,contain,cover,pad" help:"Aspect policy when both dimensions are given."`
	PadColor string `default:"black" help:"Padding color for the contain/pad policies."`

	Codec   string        `default:"libx264" help:"Video codec."`
	CRF     int           `default:"23" help:"Constant rate factor."`
	Preset  string        `default:"medium" help:"Encoder preset."`
	Bitrate string        `help:"Target video bitrate (e.g., 1500k); overrides CRF."`
	Timeout time.Duration `default:"30m" help:"Encoding timeout."`
}

// Run executes the resize command.
func (cmd *ResizeCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in := resize.DefaultInput()
	in.InputSpec = cmd.Input
	in.OutputSpec = cmd.Output
	in.Width = cmd.Width
	in.Height = cmd.Height
	in.AspectPolicy = cmd.Policy
	in.PadColor = cmd.PadColor
	in.VideoCodec = cmd.Codec
	in.CRF = cmd.CRF
	in.Preset = cmd.Preset
	in.Bitrate = cmd.Bitrate
	in.Timeout = cmd.Timeout

	res, err := resize.New(a.resolver, a.prober, a.encoder, a.log).Run(a.ctx, in)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// RemoveAudioCmd defines the remove-audio subcommand.
type RemoveAudioCmd struct {
	Input   string        `arg:"" help:"Video path/URL (e.g., ./a.mp4, https://..., s3://bucket/key)."`
	Output  string        `short:"o" required:"" help:"Output path or s3:// URL."`
	Timeout time.Duration `default:"10m" help:"Remux timeout."`
}

// Run executes the remove-audio command.
func (cmd *RemoveAudioCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in := audio.DefaultInput()
	in.InputSpec = cmd.Input
	in.OutputSpec = cmd.Output
	in.Timeout = cmd.Timeout

	res, err := audio.New(a.resolver, a.prober, a.encoder, a.log).Run(a.ctx, in)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// SplitCmd defines the split subcommand.
type SplitCmd struct {
	Input string `arg:"" help:"Video path/URL (e.g., ./a.mp4, https://..., s3://bucket/key)."`

	Mode           string  `default:"iframe" enum:"iframe,fixed" help:"Split at I-frames or at a fixed interval."`
	OutputDir      string  `short:"o" help:"Directory that receives the segments."`
	S3Prefix       string  `help:"s3://bucket/prefix/ to upload segments under."`
	Manifest       string  `help:"Path or s3:// URL for the segment manifest JSON."`
	SegmentSeconds float64 `help:"Segment length in seconds (fixed mode)."`
	EveryN         int     `default:"1" help:"Split at every n-th I-frame (iframe mode)."`
	MaxSegments    int     `help:"Upper bound on segment count (iframe mode, 0 = unlimited)."`
	Prefix         string  `default:"segment_" help:"Segment filename prefix."`
	Ext            string  `help:"Segment file extension (default: input extension)."`

	Timeout time.Duration `default:"1h" help:"Segmentation timeout."`
}

// Run executes the split command.
func (cmd *SplitCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in := split.DefaultInput()
	in.InputSpec = cmd.Input
	in.Mode = cmd.Mode
	in.OutputDir = cmd.OutputDir
	in.S3Prefix = cmd.S3Prefix
	in.ManifestSpec = cmd.Manifest
	in.SegmentSeconds = cmd.SegmentSeconds
	in.EveryNIFrames = cmd.EveryN
	in.MaxSegments = cmd.MaxSegments
	in.Prefix = cmd.Prefix
	in.Ext = cmd.Ext
	in.Timeout = cmd.Timeout

	res, err := split.New(a.resolver, a.prober, a.encoder, a.store, a.fs, a.log).Run(a.ctx, in)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// KeyframesCmd defines the keyframes subcommand.
type KeyframesCmd struct {
	Input string `arg:"" help:"Video path/URL (e.g., ./a.mp4, https://..., s3://bucket/key)."`

	Method       string   `default:"iframe" enum:"iframe,difference,histogram" help:"Selection method."`
	Threshold    *float64 `help:"Score threshold override for the difference/histogram methods."`
	MaxKeyframes int      `default:"20" help:"Upper bound on selected keyframes."`
	MinInterval  float64  `default:"0.5" help:"Minimum seconds between selected keyframes."`
	SampleFPS    float64  `name:"sample-fps" default:"2" help:"Sampling rate of the scoring pass."`
	SampleHeight int      `default:"240" help:"Sampled frame height of the scoring pass (0 = source)."`

	OutputDir string `short:"o" help:"Directory that receives the keyframe images."`
	S3Prefix  string `help:"s3://bucket/prefix/ to upload keyframes under."`
	Manifest  string `help:"Path or s3:// URL for the keyframe manifest JSON."`
	Format    string `default:"jpg" enum:"jpg,jpeg,png" help:"Image format."`

	Timeout time.Duration `default:"10m" help:"Extraction timeout."`
}

// Run executes the keyframes command.
func (cmd *KeyframesCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in := keyframes.DefaultInput()
	in.InputSpec = cmd.Input
	in.Method = cmd.Method
	in.Threshold = cmd.Threshold
	in.MaxKeyframes = cmd.MaxKeyframes
	in.MinInterval = cmd.MinInterval
	in.SampleFPS = cmd.SampleFPS
	in.SampleHeight = cmd.SampleHeight
	in.OutputDir = cmd.OutputDir
	in.S3Prefix = cmd.S3Prefix
	in.ManifestSpec = cmd.Manifest
	in.ImageFormat = cmd.Format
	in.Timeout = cmd.Timeout

	res, err := keyframes.New(a.resolver, a.prober, a.encoder, a.store, a.fs, a.log).Run(a.ctx, in)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// CompressCmd defines the compress subcommand.
type CompressCmd struct {
	Input  string `arg:"" help:"Video path/URL (e.g., ./a.mp4, https://..., s3://bucket/key)."`
	Output string `short:"o" required:"" help:"Output path or s3:// URL."`

	TargetBytes int64   `help:"Byte-size budget for the output."`
	TargetMib   float64 `name:"target-mib" help:"Byte-size budget in MiB (mutually exclusive with --target-bytes)."`

	Codec        string  `default:"auto" enum:"auto,libx265,libx264" help:"Video codec (auto prefers HEVC with H.264 fallback)."`
	CRF          int     `default:"28" help:"Constant rate factor for the search stages."`
	Preset       string  `default:"medium" help:"Encoder preset."`
	PixFmt       string  `default:"yuv420p" help:"Pixel format."`
	AudioCodec   string  `default:"aac" help:"Audio codec."`
	AudioBitrate string  `default:"128k" help:"Audio bitrate."`
	MinFPS       float64 `name:"min-fps" default:"8" help:"Frame-rate floor for the search."`
	MinHeight    int     `default:"360" help:"Resolution floor for the search."`

	Timeout time.Duration `default:"30m" help:"Per-encode timeout."`
}

// Run executes the compress command. Exit code 2 reports a finished
// search whose output still misses the budget.
func (cmd *CompressCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	defer a.close()

	opts := compress.DefaultOptions()
	opts.TargetBytes = cmd.TargetBytes
	opts.TargetMiB = cmd.TargetMib
	opts.Codec = cmd.Codec
	opts.CRF = cmd.CRF
	opts.Preset = cmd.Preset
	opts.PixFmt = cmd.PixFmt
	opts.AudioCodec = cmd.AudioCodec
	opts.AudioBitrate = cmd.AudioBitrate
	opts.MinFPS = cmd.MinFPS
	opts.MinHeight = cmd.MinHeight
	opts.Timeout = cmd.Timeout

	searcher := compress.NewSearcher(a.encoder, a.fs, a.log)
	res, err := compress.NewTool(a.resolver, a.prober, searcher, a.fs, a.log).Run(a.ctx, cmd.Input, cmd.Output, opts)
	if err != nil {
		return err
	}
	if err := printJSON(res); err != nil {
		return err
	}
	if !res.Success {
		return errBudgetNotMet
	}
	return nil
}

// DescribeCmd defines the describe subcommand.
type DescribeCmd struct {
	Input string `arg:"" help:"Video path/URL (e.g., ./a.mp4, https://..., s3://bucket/key)."`

	Prompt    string        `help:"Prompt or question for the model (default: a captioning prompt)."`
	FPS       float64       `default:"1" help:"Frame sampling rate for short inputs."`
	MaxFrames int           `default:"128" help:"Upper bound on frames sent to the model."`
	Timeout   time.Duration `default:"10m" help:"Frame extraction timeout."`
}

// Run executes the describe command.
func (cmd *DescribeCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.VLM.APIKey == "" {
		return fmt.Errorf("describe requires a VLM API key (set VLM_API_KEY or the vlm.api_key config value)")
	}
	describer := arkvlm.New(arkvlm.Options{
		APIKey:  a.cfg.VLM.APIKey,
		BaseURL: a.cfg.VLM.BaseURL,
		Model:   a.cfg.VLM.Model,
	}, a.log)

	in := describe.DefaultInput()
	in.InputSpec = cmd.Input
	in.Prompt = cmd.Prompt
	in.FPS = cmd.FPS
	in.MaxFrames = cmd.MaxFrames
	in.Timeout = cmd.Timeout

	res, err := describe.New(a.resolver, a.prober, a.encoder, describer, a.fs, a.log).Run(a.ctx, in)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// VersionCmd shows version information.
type VersionCmd struct{}

// Run executes the version command.
func (cmd *VersionCmd) Run(g *Globals) error {
	fmt.Println(l10n.F("viseeker version %s", version))
	return nil
}
