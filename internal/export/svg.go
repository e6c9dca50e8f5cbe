package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Path is one body's recorded positions.
type Path struct {
	Name   string
	Color  string
	Points []dynamo.Vector2
}

var palette = []string{"#FFBF00", "#4D7CFF", "#C1440E", "#3DDC84", "#E040FB"}

// PathsFromFrames collects a path per body, in frame order.
func PathsFromFrames(frames []dynamo.Frame) []Path {
	if len(frames) == 0 {
		return nil
	}

	paths := make([]Path, len(frames[0].Bodies))
	for i, b := range frames[0].Bodies {
		color := b.Color
		if color == "" {
			color = palette[i%len(palette)]
		}
		paths[i] = Path{Name: b.Name, Color: color, Points: make([]dynamo.Vector2, 0, len(frames))}
	}

	for _, f := range frames {
		for i, b := range f.Bodies {
			if i < len(paths) {
				paths[i].Points = append(paths[i].Points, dynamo.Vector2{X: b.X, Y: b.Y})
			}
		}
	}
	return paths
}

// TrajectoryToSVG draws every path as a polyline with a dot at its final
// position. All paths share one equal-aspect scale so circular orbits stay
// circular; y grows upwards.
func TrajectoryToSVG(paths []Path, width, height int) string {
	first := true
	var minX, maxX, minY, maxY float64
	for _, p := range paths {
		for _, pt := range p.Points {
			if first {
				minX, maxX, minY, maxY = pt.X, pt.X, pt.Y, pt.Y
				first = false
				continue
			}
			minX, maxX = min(minX, pt.X), max(maxX, pt.X)
			minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
		}
	}
	if first {
		return ""
	}

	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	scale := float64(min(width, height)) / span

	project := func(pt dynamo.Vector2) (float64, float64) {
		x := float64(width)/2 + (pt.X-cx)*scale
		y := float64(height)/2 - (pt.Y-cy)*scale
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, p := range paths {
		if len(p.Points) == 0 {
			continue
		}

		if moved(p.Points) {
			sb.WriteString(fmt.Sprintf(`<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, p.Name, p.Color))
			for i, pt := range p.Points {
				x, y := project(pt)
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := project(p.Points[len(p.Points)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, x, y, p.Color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func moved(pts []dynamo.Vector2) bool {
	for _, pt := range pts[1:] {
		if pt != pts[0] {
			return true
		}
	}
	return false
}
