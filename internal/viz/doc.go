// Package viz renders trajectories for the terminal and for image files.
//
//   - [PhaseASCII]: framed character scatter of a two-channel projection
//   - [Canvas]: Braille-based pixel canvas for denser terminal plots
//   - [SeriesPlot]: one channel against step index via asciigraph
//   - [WritePNG]: overlaid projections rendered with gonum/plot
//
// Non-finite samples are skipped by every renderer; a trajectory that
// blows up still draws its finite prefix.
package viz
