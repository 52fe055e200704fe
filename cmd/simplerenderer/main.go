// simplerenderer - point cloud projection tool
// Loads colored point clouds and runs them through the world -> view ->
// projection pipeline, printing where each point lands in the viewport.
//
// Supported inputs:
//
//	.pts/.txt/.xyz  - whitespace separated x y z w r g b septets
//	.obj            - "v" lines, optionally with r g b
//	.stl            - triangle corners (ASCII or binary)
//	.glb/.gltf      - POSITION and COLOR_0 of every primitive
//	.pcd            - x y z fields
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/ansipixels/simplerenderer/pkg/models"
	"github.com/ansipixels/simplerenderer/pkg/render"
)

var (
	configPath string
	verbose    bool
	width      int
	height     int
	fov        float32
	frames     int
	fps        int
	impulse    float64
)

func main() {
	cmd := &cobra.Command{
		Use:   "simplerenderer",
		Short: "Project point clouds through a software 3D pipeline",
		Long: `simplerenderer - point cloud projection tool

Loads a point cloud (.pts, .obj, .stl, .glb, .pcd), places it in a scene
described by --config and reports where every point lands in the viewport.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLogLevel(log.Debug)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Scene configuration (YAML)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().IntVar(&width, "width", 0, "Viewport width (overrides config)")
	cmd.PersistentFlags().IntVar(&height, "height", 0, "Viewport height (overrides config)")
	cmd.PersistentFlags().Float32Var(&fov, "fov", 0, "Vertical field of view in degrees (overrides config)")

	infoCmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Display point cloud information",
		Long:  "Display format, vertex count and bounding box of a point cloud file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0])
		},
	}

	projectCmd := &cobra.Command{
		Use:   "project <file>",
		Short: "Print the viewport position of every visible point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sceneConfig(cmd)
			if err != nil {
				return err
			}
			return runProject(cmd.OutOrStdout(), args[0], cfg)
		},
	}

	orbitCmd := &cobra.Command{
		Use:   "orbit <file>",
		Short: "Spin the camera around the cloud and print per-frame screen bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sceneConfig(cmd)
			if err != nil {
				return err
			}
			return runOrbit(cmd.OutOrStdout(), args[0], cfg, frames, fps, impulse)
		},
	}
	orbitCmd.Flags().IntVar(&frames, "frames", 60, "Number of frames to simulate")
	orbitCmd.Flags().IntVar(&fps, "fps", 30, "Simulated frames per second")
	orbitCmd.Flags().Float64Var(&impulse, "impulse", 0.2, "Initial angular velocity (radians per frame)")

	cmd.AddCommand(infoCmd, projectCmd, orbitCmd)

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

// sceneConfig loads --config and applies flag overrides.
func sceneConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("fov") {
		cfg.Camera.FOV = fov
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid scene: %w", err)
	}
	return cfg, nil
}

func loadCloud(path string) (*models.PointCloud, models.Format, error) {
	cloud, format, err := models.Load(path)
	if err != nil {
		return nil, format, err
	}
	log.S(log.Info, "loaded point cloud",
		log.Str("file", filepath.Base(path)),
		log.Str("format", string(format)),
		log.Attr("vertices", cloud.VertexCount()))
	return cloud, format, nil
}

func runInfo(w io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	cloud, format, err := loadCloud(path)
	if err != nil {
		return err
	}

	cloud.CalculateBounds()
	size := cloud.Size()
	center := cloud.Center()

	// Format output
	fmt.Fprintf(w, "File:       %s\n", filepath.Base(path))
	fmt.Fprintf(w, "Format:     %s\n", strings.ToUpper(string(format)))
	fmt.Fprintf(w, "Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Name:       %s\n", cloud.Name)
	fmt.Fprintf(w, "Vertices:   %d\n", cloud.VertexCount())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", cloud.BoundsMin.X, cloud.BoundsMin.Y, cloud.BoundsMin.Z)
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", cloud.BoundsMax.X, cloud.BoundsMax.Y, cloud.BoundsMax.Z)
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)

	return nil
}

// prepare loads the cloud and fits it to the configured size.
func prepare(path string, cfg Config) (*models.PointCloud, error) {
	cloud, _, err := loadCloud(path)
	if err != nil {
		return nil, err
	}
	if cfg.Normalize > 0 {
		cloud.Normalize(cfg.Normalize)
	}
	return cloud, nil
}

func runProject(w io.Writer, path string, cfg Config) error {
	cloud, err := prepare(path, cfg)
	if err != nil {
		return err
	}

	pipeline := cfg.NewPipeline()
	frags := pipeline.Project(cloud)
	log.Debugf("%d of %d points visible", len(frags), cloud.VertexCount())

	fmt.Fprintf(w, "# %s %dx%d visible=%d total=%d\n",
		cloud.Name, cfg.Viewport.Width, cfg.Viewport.Height, len(frags), cloud.VertexCount())
	fmt.Fprintln(w, "# index x y col row depth r g b")
	for _, f := range frags {
		col, row := f.Pixel(cfg.Viewport.Width, cfg.Viewport.Height)
		fmt.Fprintf(w, "%d %.3f %.3f %d %d %.6f %s\n", f.Index, f.X, f.Y, col, row, f.Depth, f.Color)
	}
	return nil
}

func runOrbit(w io.Writer, path string, cfg Config, frames, fps int, impulse float64) error {
	if frames <= 0 || fps <= 0 {
		return fmt.Errorf("frames and fps must be positive, got %d and %d", frames, fps)
	}
	cloud, err := prepare(path, cfg)
	if err != nil {
		return err
	}

	pipeline := cfg.NewPipeline()
	cam := pipeline.Camera

	// Frame 0 is the configured view; the orbit keeps its height and
	// horizontal distance.
	orbit := render.NewOrbitFrom(fps, vec(cfg.Camera.Target, 1), vec(cfg.Camera.Eye, 1))
	orbit.Impulse(impulse)
	log.Debugf("orbit radius %.3f height %.3f start yaw %.4f", orbit.Radius, orbit.Height, orbit.Yaw)

	fmt.Fprintln(w, "# frame yaw visible minX minY maxX maxY")
	for frame := range frames {
		orbit.Apply(cam)
		pipeline.Update()

		frags := pipeline.Project(cloud)
		minX, minY, maxX, maxY, ok := render.Bounds(frags)
		if !ok {
			log.Warnf("frame %d: no visible points at distance %.3f", frame, cam.Distance())
		}
		fmt.Fprintf(w, "%d %.4f %d %.2f %.2f %.2f %.2f\n",
			frame, orbit.Yaw, len(frags), minX, minY, maxX, maxY)

		orbit.Update(true)
	}
	return nil
}
