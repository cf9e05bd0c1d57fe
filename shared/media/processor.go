// Package media renders ranked moments into 9:16 Shorts. It shells out to
// yt-dlp for downloads and ffmpeg for clipping and layout.
package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	targetWidth  = 1080
	targetHeight = 1920

	titleBoxY       = 48
	titleBoxHeight  = 160
	titleBoxPadding = 24

	defaultTitleFontSize    = 56
	defaultSubtitleFontSize = 34
)

// Options controls the rendered short's overlay layout.
type Options struct {
	Title            string
	Subtitle         string
	WatermarkPath    string
	TitleFontSize    int
	SubtitleFontSize int
}

// Processor downloads source videos and renders clips under a working
// directory. Every call is independent; intermediate files are removed by
// the returned cleanup function, the final short is kept for upload.
type Processor struct {
	workDir string
	ytDlp   string
	ffmpeg  string
}

func NewProcessor(dataDir string) (*Processor, error) {
	workDir := filepath.Join(dataDir, "media")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	return &Processor{
		workDir: workDir,
		ytDlp:   lookupBinary("yt-dlp"),
		ffmpeg:  lookupBinary("ffmpeg"),
	}, nil
}

func lookupBinary(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		// Defer the failure to first use so construction stays cheap.
		return name
	}
	return path
}

// ProcessToShort downloads the video, cuts the window, and renders the 9:16
// layout. It returns the path of the finished short and a cleanup function
// that removes the intermediate files.
func (p *Processor) ProcessToShort(ctx context.Context, videoID, videoURL string, startTime, duration float64, opts Options) (string, func(), error) {
	window := fmt.Sprintf("%d-%d", int(startTime), int(startTime+duration))
	downloadedPath := filepath.Join(p.workDir, fmt.Sprintf("%s_full.mp4", videoID))
	clippedPath := filepath.Join(p.workDir, fmt.Sprintf("%s_%s_clip.mp4", videoID, window))
	finalPath := filepath.Join(p.workDir, fmt.Sprintf("%s_%s_short.mp4", videoID, window))

	cleanup := func() {
		for _, path := range []string{downloadedPath, clippedPath} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Printf("Warning: failed to remove temp file %s: %v", path, err)
			}
		}
	}

	if err := p.download(ctx, videoURL, downloadedPath); err != nil {
		return "", cleanup, err
	}

	if err := p.clip(ctx, downloadedPath, clippedPath, startTime, duration); err != nil {
		return "", cleanup, err
	}

	if err := p.renderShort(ctx, clippedPath, finalPath, opts); err != nil {
		return "", cleanup, err
	}

	log.Printf("Rendered short %s (%ss window)", finalPath, window)
	return finalPath, cleanup, nil
}

func (p *Processor) download(ctx context.Context, videoURL, outputPath string) error {
	cmd := exec.CommandContext(ctx, p.ytDlp, downloadArgs(videoURL, outputPath)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("yt-dlp download failed: %w (%s)", err, lastLine(output))
	}
	return nil
}

func (p *Processor) clip(ctx context.Context, inputPath, outputPath string, startTime, duration float64) error {
	cmd := exec.CommandContext(ctx, p.ffmpeg, clipArgs(inputPath, outputPath, startTime, duration)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg clip failed: %w (%s)", err, lastLine(output))
	}
	return nil
}

func (p *Processor) renderShort(ctx context.Context, inputPath, outputPath string, opts Options) error {
	cmd := exec.CommandContext(ctx, p.ffmpeg, shortArgs(inputPath, outputPath, opts)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg render failed: %w (%s)", err, lastLine(output))
	}
	return nil
}

func downloadArgs(videoURL, outputPath string) []string {
	return []string{
		"-f", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		"-o", outputPath,
		videoURL,
	}
}

func clipArgs(inputPath, outputPath string, startTime, duration float64) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-ss", formatSeconds(startTime),
		"-t", formatSeconds(duration),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-avoid_negative_ts", "make_zero",
		outputPath,
	}
}

func shortArgs(inputPath, outputPath string, opts Options) []string {
	args := []string{"-y", "-i", inputPath}

	hasWatermark := opts.WatermarkPath != "" && fileExists(opts.WatermarkPath)
	if hasWatermark {
		args = append(args, "-i", opts.WatermarkPath)
	}

	filterComplex, finalLabel := shortFilterChain(opts, hasWatermark)
	args = append(args,
		"-filter_complex", filterComplex,
		"-map", fmt.Sprintf("[%s]", finalLabel),
		"-map", "0:a?",
		"-c:v", "libx264",
		"-crf", "18",
		"-preset", "veryfast",
		"-c:a", "aac",
		"-b:a", "128k",
		outputPath,
	)
	return args
}

// shortFilterChain builds the 9:16 layout: scale and pad to 1080x1920, a
// white title box near the top, optional subtitle and watermark overlays.
func shortFilterChain(opts Options, hasWatermark bool) (string, string) {
	titleFontSize := opts.TitleFontSize
	if titleFontSize == 0 {
		titleFontSize = defaultTitleFontSize
	}
	subtitleFontSize := opts.SubtitleFontSize
	if subtitleFontSize == 0 {
		subtitleFontSize = defaultSubtitleFontSize
	}

	titleBoxWidth := targetWidth - titleBoxPadding*2

	filters := []string{
		fmt.Sprintf("[0:v]scale='if(gt(a,9/16),%d,-2)':'if(gt(a,9/16),-2,%d)'[scaled]", targetWidth, targetHeight),
		fmt.Sprintf("[scaled]pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black[padded]", targetWidth, targetHeight),
		fmt.Sprintf("[padded]drawbox=x=%d:y=%d:w=%d:h=%d:color=white@1:t=fill[boxed]", titleBoxPadding, titleBoxY, titleBoxWidth, titleBoxHeight),
	}

	label := "boxed"
	if opts.Title != "" {
		filters = append(filters, fmt.Sprintf("[boxed]drawtext=text='%s':fontcolor=black:fontsize=%d:x=(w-text_w)/2:y=%d:box=0[titled]",
			escapeDrawtext(opts.Title), titleFontSize, titleBoxY+40))
		label = "titled"
	}

	if opts.Subtitle != "" {
		filters = append(filters, fmt.Sprintf("[%s]drawtext=text='%s':fontcolor=white:fontsize=%d:x=(w-text_w)/2:y=%d:box=1:boxcolor=black@0.5:boxborderw=8[subtitled]",
			label, escapeDrawtext(opts.Subtitle), subtitleFontSize, titleBoxY+titleBoxHeight+20))
		label = "subtitled"
	}

	if hasWatermark {
		filters = append(filters, fmt.Sprintf("[%s][1:v]overlay=W-w-24:H-h-24[watermarked]", label))
		label = "watermarked"
	}

	return strings.Join(filters, ";"), label
}

// escapeDrawtext escapes the characters ffmpeg's drawtext filter treats as
// syntax.
func escapeDrawtext(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
		`"`, `\"`,
		`[`, `\[`,
		`]`, `\]`,
	)
	return replacer.Replace(text)
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2f", seconds)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
