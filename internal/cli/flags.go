package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/pipeline"
)

// layoutFlags are the spacing and measuring flags shared by the layout,
// render and preview commands. They override the config file and the tree
// document.
type layoutFlags struct {
	padding  float64
	margin   float64
	border   float64
	ppu      float64
	measurer string
	fontSize float64
	noCache  bool
	refresh  bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.padding, "padding", 0, "space inside each box, in units")
	fs.Float64Var(&f.margin, "margin", 0, "space between boxes and rows, in units")
	fs.Float64Var(&f.border, "border", 0, "space around the canvas, in pixels")
	fs.Float64Var(&f.ppu, "ppu", 0, "pixels per unit")
	fs.StringVar(&f.measurer, "measurer", "", "text measurer: font, estimate")
	fs.Float64Var(&f.fontSize, "font-size", 0, "label font size in pixels")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even if cached")
	_ = cmd.RegisterFlagCompletionFunc("measurer", cobra.FixedCompletions([]string{"font", "estimate"}, cobra.ShellCompDirectiveNoFileComp))
}

// apply copies every flag the user set onto opts.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("padding") {
		opts.Config.Padding = f.padding
	}
	if fs.Changed("margin") {
		opts.Config.Margin = f.margin
	}
	if fs.Changed("border") {
		opts.Config.Border = f.border
	}
	if fs.Changed("ppu") {
		opts.Config.PixelsPerUnit = f.ppu
	}
	if fs.Changed("measurer") {
		opts.Measurer = f.measurer
	}
	if fs.Changed("font-size") {
		opts.FontSize = f.fontSize
	}
	opts.Refresh = f.refresh
}
