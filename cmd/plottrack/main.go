// Command plottrack renders a top-down ground track plot (x vs y) for one
// or all archived tracks, reading from the sqlite track archive the
// tracker daemon writes when display.archivePath is configured.
package main

import (
	"flag"
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"cuastracker/internal/archive"
)

func main() {
	archivePath := flag.String("archive", "tracks.db", "path to the sqlite track archive")
	trackID := flag.Int("track", -1, "track id to plot, or -1 for every archived track")
	out := flag.String("out", "tracks.png", "output PNG path")
	flag.Parse()

	db, err := archive.Open(*archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "plottrack: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ids := []uint32{uint32(*trackID)}
	if *trackID < 0 {
		ids, err = db.TrackIDs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "plottrack: %v\n", err)
			os.Exit(1)
		}
	}

	p := plot.New()
	p.Title.Text = "Ground track"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	for _, id := range ids {
		path, err := db.LoadTrackPath(id)
		if err != nil || len(path) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(path))
		for i, sample := range path {
			pts[i].X = sample.X
			pts[i].Y = sample.Y
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			continue
		}
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("track %d", id), line)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *out); err != nil {
		fmt.Fprintf(os.Stderr, "plottrack: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("plottrack: wrote %s\n", *out)
}
