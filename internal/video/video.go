package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"

	"github.com/ivlev/dolly2video/internal/config"
	"github.com/ivlev/dolly2video/internal/system"
)

// VideoEncoder consumes frames in order until the channel is closed.
type VideoEncoder interface {
	Encode(ctx context.Context, frames <-chan *image.RGBA, videoPath string, params config.FrameParams) error
}

// FFmpegEncoder pipes raw RGBA frames into the system ffmpeg.
type FFmpegEncoder struct {
	Binary string
}

func (e *FFmpegEncoder) Encode(ctx context.Context, frames <-chan *image.RGBA, videoPath string, params config.FrameParams) error {
	bin := e.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin, buildFFmpegArgs(videoPath, params)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	written := 0
	for frame := range frames {
		err := writeRawRGBA(stdin, frame)
		system.PutImage(frame)
		if err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write frame %d: %w\nLog: %s", written, err, out.String())
		}
		written++
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, out.String())
	}
	return nil
}

func buildFFmpegArgs(videoPath string, params config.FrameParams) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", params.Encoder,
	}

	// Качество в зависимости от энкодера
	switch params.Encoder {
	case "h264_videotoolbox":
		args = append(args, "-b:v", fmt.Sprintf("%dk", params.Quality*100))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", params.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", params.Quality), "-preset", "medium")
	}

	return append(args, videoPath)
}

// writeRawRGBA writes the pixels of img row by row, so sub-images and
// padded strides are handled too.
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	if img.Stride == rowLen && b.Min == (image.Point{}) {
		_, err := w.Write(img.Pix[:rowLen*b.Dy()])
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		if _, err := w.Write(img.Pix[off : off+rowLen]); err != nil {
			return err
		}
	}
	return nil
}
