package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/charmbracelet/log"
)

// captureFrame rasterises the braille canvas, one cell per 8x16 pixels.
func (m *Model) captureFrame() {
	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH), color.Palette{color.Black, color.White})

	for y := 0; y < m.canvas.Height*4; y++ {
		for x := 0; x < m.canvas.Width*2; x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	delay := max(1, 100/m.opts.FPS)
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		m.status = "record failed: " + err.Error()
		return
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		m.status = "record failed: " + err.Error()
		return
	}
	m.status = "saved " + m.opts.GIFPath
	log.Info("saved recording", "path", m.opts.GIFPath, "frames", len(m.frames))
}
