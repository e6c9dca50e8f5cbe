package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Frames []dynamo.Frame `json:"frames"`
}

// ExportJSON writes the metadata together with every recorded frame.
func ExportJSON(w io.Writer, meta RunMetadata, frames []dynamo.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: meta, Frames: frames})
}

// Frames rebuilds frames from a loaded trajectory. Velocity and mass come
// back, radius and colour do not.
func (t *Trajectory) Frames() []dynamo.Frame {
	bodies := t.Bodies()
	frames := make([]dynamo.Frame, len(t.Rows))
	for i, row := range t.Rows {
		f := dynamo.Frame{Tick: uint64(i), Time: t.Times[i], Bodies: make([]dynamo.BodyView, 0, len(bodies))}
		for j, name := range bodies {
			base := j * len(bodyFields)
			if base+len(bodyFields) > len(row) {
				break
			}
			f.Bodies = append(f.Bodies, dynamo.BodyView{
				Name: name,
				X:    row[base],
				Y:    row[base+1],
				VX:   row[base+2],
				VY:   row[base+3],
				Mass: row[base+4],
			})
		}
		frames[i] = f
	}
	return frames
}
