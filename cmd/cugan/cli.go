package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/cugan/internal/backend/cpu"
	"github.com/born-ml/cugan/internal/envconfig"
	"github.com/born-ml/cugan/internal/imageio"
	"github.com/born-ml/cugan/internal/logutil"
	"github.com/born-ml/cugan/internal/model"
	"github.com/born-ml/cugan/internal/upscale"
	"github.com/born-ml/cugan/internal/weights"
)

const version = "v0.1.0"

// defaultModel is resolved against the models directory.
const defaultModel = "pro-no-denoise-up2x.pth"

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI builds the command tree.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "cugan -i INPUT -o OUTPUT",
		Short:         "Real-CUGAN image super-resolution",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), envconfig.LogLevel()))
		},
		RunE: UpscaleHandler,
	}

	flags := rootCmd.Flags()
	flags.StringP("input", "i", "", "Input image path")
	flags.StringP("output", "o", "", "Output image path (png, jpg, bmp or tiff)")
	flags.StringP("model", "m", defaultModel, "Model file, resolved in the models directory unless it is a path")
	flags.IntP("scale", "s", 0, "Upscaling factor, 2 or 3 (default: detected from the model)")
	flags.Float32P("alpha", "a", envconfig.Alpha(), "Denoise/sharpen strength")
	flags.UintP("tile", "t", envconfig.TileSize(), "Tile size, smaller values reduce memory usage (0 disables tiling)")
	flags.Bool("no-cache", envconfig.NoCache(), "Disable the tile cache, which increases runtime but reduces memory usage")
	flags.BoolP("lossless", "l", false, "Output a lossless encoded image")
	flags.IntP("quality", "q", 95, "JPEG quality")
	flags.BoolP("cpu", "C", false, "Use the CPU for inference (the only backend)")
	flags.UintP("threads", "j", envconfig.NumThreads(), "Worker goroutines per operation (0 uses every CPU)")
	_ = rootCmd.MarkFlagRequired("input")
	_ = rootCmd.MarkFlagRequired("output")

	convertCmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert a checkpoint to safetensors",
		Args:  cobra.ExactArgs(2),
		RunE:  ConvertHandler,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect MODEL",
		Short: "List the tensors of a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE:  InspectHandler,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cugan version %s\n", version)
		},
	}

	envVars := envconfig.AsMap()
	appendEnvDocs(rootCmd, []envconfig.EnvVar{
		envVars["CUGAN_DEBUG"],
		envVars["CUGAN_MODELS"],
		envVars["CUGAN_TILE_SIZE"],
		envVars["CUGAN_NO_CACHE"],
		envVars["CUGAN_ALPHA"],
		envVars["CUGAN_NUM_THREADS"],
	})
	appendEnvDocs(inspectCmd, []envconfig.EnvVar{envVars["CUGAN_MODELS"]})

	rootCmd.AddCommand(convertCmd, inspectCmd, versionCmd)
	return rootCmd
}

// resolveModel joins bare file names with the models directory.
func resolveModel(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		return name
	}
	return filepath.Join(envconfig.Models(), name)
}

// UpscaleHandler reads, upscales and writes one image.
func UpscaleHandler(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	input, _ := flags.GetString("input")
	output, _ := flags.GetString("output")
	modelName, _ := flags.GetString("model")
	scale, _ := flags.GetInt("scale")
	alpha, _ := flags.GetFloat32("alpha")
	tileSize, _ := flags.GetUint("tile")
	noCache, _ := flags.GetBool("no-cache")
	lossless, _ := flags.GetBool("lossless")
	quality, _ := flags.GetInt("quality")
	threads, _ := flags.GetUint("threads")

	format, err := imageio.FormatFromPath(output)
	if err != nil {
		return err
	}
	if lossless && format == imageio.JPEG {
		return fmt.Errorf("%w: %s", imageio.ErrLossyFormat, output)
	}
	if noCache && tileSize == 0 {
		slog.Warn("cache only works with tile mode")
	}

	if a := float64(alpha); a <= 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return fmt.Errorf("%w: alpha must be positive and finite, got %v", upscale.ErrInvalidConfig, alpha)
	}
	cfg := upscale.Config{
		Scale:    scale,
		TileSize: int(tileSize),
		Cache:    !noCache,
		Alpha:    alpha,
		Model:    resolveModel(modelName),
	}

	img, err := imageio.Read(input)
	if err != nil {
		return err
	}
	b := img.Bounds()
	slog.Info("image read", "path", input, "width", b.Dx(), "height", b.Dy())

	up, err := upscale.New(cfg, upscale.WithBackend(cpu.New(cpu.WithWorkers(int(threads)))))
	if err != nil {
		return err
	}
	out, err := up.Image(img)
	if err != nil {
		return err
	}
	if err := imageio.Write(output, out, imageio.Options{Quality: quality, Lossless: lossless}); err != nil {
		return err
	}
	slog.Info("image saved", "path", output)
	return nil
}

// ConvertHandler rewrites a checkpoint as F32 safetensors.
func ConvertHandler(cmd *cobra.Command, args []string) error {
	in, out := resolveModel(args[0]), args[1]
	if weights.DetectFormat(out) != weights.FormatSafeTensors {
		return fmt.Errorf("%w: output must end in .safetensors", weights.ErrFormat)
	}

	m, err := weights.Open(in)
	if err != nil {
		return err
	}
	meta := map[string]string{"source": filepath.Base(in)}
	if scale, err := model.DetectScale(m); err == nil {
		meta["scale"] = strconv.Itoa(scale)
	}
	if err := weights.WriteSafeTensors(out, m, meta); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d tensors to %s\n", len(m), out)
	return nil
}

// InspectHandler prints a checkpoint's tensors.
func InspectHandler(cmd *cobra.Command, args []string) error {
	path := resolveModel(args[0])
	m, err := weights.Open(path)
	if err != nil {
		return err
	}

	var data [][]string
	total := 0
	for _, name := range m.Names() {
		t := m[name]
		total += t.NumElements()
		data = append(data, []string{name, fmt.Sprint(t.Shape()), strconv.Itoa(t.NumElements())})
	}

	w := cmd.OutOrStdout()
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"NAME", "SHAPE", "PARAMS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	scale, err := model.DetectScale(m)
	switch {
	case err == nil:
		fmt.Fprintf(w, "\n%s: %s, %d tensors, %d parameters, scale %dx\n", path, weights.DetectFormat(path), len(m), total, scale)
	case errors.Is(err, weights.ErrNotFound), errors.Is(err, model.ErrUnsupportedScale):
		fmt.Fprintf(w, "\n%s: %s, %d tensors, %d parameters, not a CUGAN checkpoint\n", path, weights.DetectFormat(path), len(m), total)
	default:
		return err
	}
	return nil
}
