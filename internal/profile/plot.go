package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
)

const (
	plotWidth  = 800
	plotHeight = 600

	marginLeft   = 90.0
	marginRight  = 30.0
	marginTop    = 60.0
	marginBottom = 50.0

	ticks = 5
)

// Plot renders memory over time as a PNG at out. A profile without samples,
// e.g. of a command that exited before the first one, gives empty axes.
func Plot(p *Profile, out, title string) error {
	peak, hasSamples := p.Peak()

	dc := gg.NewContext(plotWidth, plotHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	x0, y0 := marginLeft, float64(plotHeight)-marginBottom
	x1, y1 := float64(plotWidth)-marginRight, marginTop

	maxT := p.Duration().Seconds()
	if maxT == 0 {
		maxT = 1
	}
	maxM := float64(peak.RSS) * 1.1
	if maxM == 0 {
		maxM = mib
	}
	// only called when hasSamples
	px := func(s Sample) (float64, float64) {
		t := s.At.Sub(p.Samples[0].At).Seconds()
		return x0 + t/maxT*(x1-x0), y0 - float64(s.RSS)/maxM*(y0-y1)
	}

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(title, plotWidth/2, marginTop/2, 0.5, 0.5)

	// axes and ticks
	dc.SetLineWidth(1)
	dc.DrawLine(x0, y0, x1, y0)
	dc.DrawLine(x0, y0, x0, y1)
	dc.Stroke()
	for i := 0; i <= ticks; i++ {
		f := float64(i) / ticks
		tx := x0 + f*(x1-x0)
		ty := y0 - f*(y0-y1)
		dc.DrawLine(tx, y0, tx, y0+4)
		dc.DrawLine(x0-4, ty, x0, ty)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.1fs", f*maxT), tx, y0+16, 0.5, 0.5)
		dc.DrawStringAnchored(humanize.IBytes(uint64(f*maxM)), x0-8, ty, 1, 0.5)
	}
	dc.DrawStringAnchored("time", (x0+x1)/2, float64(plotHeight)-12, 0.5, 0.5)
	dc.DrawStringAnchored("memory", 12, (y0+y1)/2, 0, 0.5)

	if !hasSamples {
		dc.DrawStringAnchored("no samples", (x0+x1)/2, (y0+y1)/2, 0.5, 0.5)
		return savePNG(dc, out)
	}

	// peak
	_, py := px(peak)
	dc.SetRGB(0.8, 0.2, 0.2)
	dc.SetDash(4, 4)
	dc.DrawLine(x0, py, x1, py)
	dc.Stroke()
	dc.SetDash()
	dc.DrawStringAnchored("peak "+humanize.IBytes(peak.RSS), x1, py-8, 1, 0.5)

	// samples
	dc.SetRGB(0.12, 0.47, 0.71)
	dc.SetLineWidth(2)
	if len(p.Samples) == 1 {
		x, y := px(p.Samples[0])
		dc.DrawCircle(x, y, 3)
		dc.Fill()
	} else {
		for i, s := range p.Samples {
			x, y := px(s)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	}

	return savePNG(dc, out)
}

func savePNG(dc *gg.Context, out string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", filepath.Dir(out), err)
	}
	if err := dc.SavePNG(out); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
