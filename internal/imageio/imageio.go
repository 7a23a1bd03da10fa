// Package imageio reads and writes images and converts them to and from
// [1, 3, H, W] pixel tensors.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Decoders registered with image.Decode.
	_ "golang.org/x/image/webp"

	"github.com/born-ml/cugan/internal/tensor"
)

// Errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrLossyFormat       = errors.New("lossless output requested for a lossy format")
)

// Format is an output encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// FormatFromPath picks an output format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Options controls encoding.
type Options struct {
	// Quality is the JPEG quality, 1-100; 0 means jpeg.DefaultQuality.
	Quality int
	// Lossless rejects lossy formats.
	Lossless bool
}

// Read decodes png, jpeg, bmp, tiff or webp from path.
func Read(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: empty image", path)
	}
	return img, nil
}

// Write encodes img to path in the format its extension names.
func Write(path string, img image.Image, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, img, format, opts); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes img in format.
func Encode(w io.Writer, img image.Image, format Format, opts Options) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		if opts.Lossless {
			return fmt.Errorf("%w: %s", ErrLossyFormat, format)
		}
		q := opts.Quality
		if q <= 0 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: min(q, 100)})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ToTensor converts img to a [1, 3, H, W] float32 tensor of RGB values in
// [0, 255]. Alpha is dropped.
func ToTensor(img image.Image) (*tensor.RawTensor, error) {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	t, err := tensor.Zeros(tensor.Shape{1, 3, h, w})
	if err != nil {
		return nil, err
	}
	data := t.AsFloat32()
	plane := h * w

	set := func(i int, r, g, bl uint8) {
		data[i] = float32(r)
		data[plane+i] = float32(g)
		data[2*plane+i] = float32(bl)
	}
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				set(y*w+x, row[4*x], row[4*x+1], row[4*x+2])
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				set(y*w+x, c.R, c.G, c.B)
			}
		}
	}
	return t, nil
}

// FromTensor converts a [1, 3, H, W] tensor of pixel values to an opaque
// image, rounding and clamping to [0, 255].
func FromTensor(t *tensor.RawTensor) (*image.NRGBA, error) {
	n, c, h, w, err := t.Shape().Dims4()
	if err != nil {
		return nil, err
	}
	if n != 1 || c != 3 {
		return nil, fmt.Errorf("%w: want [1, 3, H, W], got %v", tensor.ErrShapeMismatch, t.Shape())
	}
	if t.DType() != tensor.Float32 {
		return nil, fmt.Errorf("%w: %s", tensor.ErrDType, t.DType())
	}

	data := t.AsFloat32()
	plane := h * w
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			i := y*w + x
			row[4*x] = toByte(data[i])
			row[4*x+1] = toByte(data[plane+i])
			row[4*x+2] = toByte(data[2*plane+i])
			row[4*x+3] = 0xff
		}
	}
	return img, nil
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
