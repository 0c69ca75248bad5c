package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/output"
	"github.com/mj1618/desktop-scenarios/internal/overlay"
	"github.com/mj1618/desktop-scenarios/internal/platform"
)

// PreviewResult is the output of `preview`.
type PreviewResult struct {
	OK     bool            `yaml:"ok"     json:"ok"`
	Action string          `yaml:"action" json:"action"`
	File   string          `yaml:"file"   json:"file"`
	Bounds platform.Bounds `yaml:"bounds" json:"bounds"`
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a highlight frame to a PNG file",
	Long: `Render the frame a "Highlight Rectangle" step would show, to check
coordinates, colors and messages without running a scenario.

Example:
  desktop-scenarios preview --bbox 100,200,300,80 --message "Click Send" --out frame.png`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().String("bbox", "", "Region as x,y,width,height (required)")
	previewCmd.Flags().String("message", "", "Label drawn under the frame")
	previewCmd.Flags().String("color", "green", "Frame color name or #rrggbb")
	previewCmd.Flags().Int("thickness", 3, "Frame thickness in pixels")
	previewCmd.Flags().String("out", "", "Output PNG path (required)")
	_ = previewCmd.MarkFlagRequired("bbox")
	_ = previewCmd.MarkFlagRequired("out")
}

func runPreview(cmd *cobra.Command, args []string) error {
	bboxStr, _ := cmd.Flags().GetString("bbox")
	message, _ := cmd.Flags().GetString("message")
	colorName, _ := cmd.Flags().GetString("color")
	thickness, _ := cmd.Flags().GetInt("thickness")
	out, _ := cmd.Flags().GetString("out")

	bbox, err := platform.ParseBBox(bboxStr)
	if err != nil {
		return err
	}
	if bbox.Empty() {
		return fmt.Errorf("bbox %q has zero size", bboxStr)
	}
	c, err := overlay.ParseColor(colorName)
	if err != nil {
		return err
	}
	if err := overlay.WritePNG(out, overlay.Render(*bbox, c, thickness, message)); err != nil {
		return err
	}
	return output.Print(PreviewResult{OK: true, Action: "preview", File: out, Bounds: *bbox})
}
