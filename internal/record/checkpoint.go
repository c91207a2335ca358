package record

import (
	"compress/zlib"
	"encoding/gob"
	"fmt"
	"io"
)

// CheckpointBody is the compact payload a Checkpointer writes per
// body per step; float32 precision is sufficient for replay/analysis
// and keeps checkpoints small (matches the teacher's render-body
// sizing rationale).
type CheckpointBody struct {
	X, Y, Z      float32
	Mass, Radius float32
}

// checkpointFrame is one gob-encoded record: a step number and its
// bodies, keyed by body index so replay can reconstruct identity.
type checkpointFrame struct {
	Step   uint32
	Bodies map[uint32]CheckpointBody
}

// Checkpointer writes one zlib-compressed gob record per recorded
// step directly to an underlying writer, streaming rather than
// buffering whole frames in memory before a periodic flush (the
// teacher's godOfBuckets dumps fixed-size buckets of frames instead;
// that bucket accounting existed to bound memory for a much larger
// demo workload and isn't needed here, see DESIGN.md).
type Checkpointer struct {
	w   io.WriteCloser
	zw  *zlib.Writer
	enc *gob.Encoder
}

// NewCheckpointer wraps w, compressing every record written through
// RecordStep with zlib at the given compression level (pass
// zlib.DefaultCompression for the teacher's default).
func NewCheckpointer(w io.WriteCloser, level int) (*Checkpointer, error) {
	zw, err := zlib.NewWriterLevel(w, level)
	if err != nil {
		return nil, fmt.Errorf("record: new zlib writer: %w", err)
	}
	return &Checkpointer{w: w, zw: zw, enc: gob.NewEncoder(zw)}, nil
}

// RecordStep gob-encodes one frame of bodies, keyed by index, and
// writes it through the compressor. Each call produces one complete
// gob value in the underlying stream.
func (c *Checkpointer) RecordStep(step int, snapshots []Snapshot) error {
	frame := checkpointFrame{
		Step:   uint32(step),
		Bodies: make(map[uint32]CheckpointBody, len(snapshots)),
	}
	for _, s := range snapshots {
		frame.Bodies[s.ID] = CheckpointBody{
			X: float32(s.X), Y: float32(s.Y), Z: float32(s.Z),
			Mass: float32(s.Mass), Radius: float32(s.Radius),
		}
	}
	if err := c.enc.Encode(frame); err != nil {
		return fmt.Errorf("record: encode checkpoint for step %d: %w", step, err)
	}
	return nil
}

// Close flushes the compressor and closes the underlying writer.
func (c *Checkpointer) Close() error {
	if err := c.zw.Close(); err != nil {
		c.w.Close()
		return fmt.Errorf("record: close zlib writer: %w", err)
	}
	return c.w.Close()
}

// ReadCheckpoints decodes every frame written by a Checkpointer from
// r, in order, calling fn for each. Decoding stops at the first error
// (including io.EOF, which ReadCheckpoints treats as a normal end of
// stream and does not return).
func ReadCheckpoints(r io.Reader, fn func(step int, bodies map[uint32]CheckpointBody) error) error {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return fmt.Errorf("record: new zlib reader: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	for {
		var frame checkpointFrame
		if err := dec.Decode(&frame); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("record: decode checkpoint: %w", err)
		}
		if err := fn(int(frame.Step), frame.Bodies); err != nil {
			return err
		}
	}
}
