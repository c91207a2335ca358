package record

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func TestCheckpointerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cp, err := NewCheckpointer(nopWriteCloser{&buf}, zlib.DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}

	steps := [][]Snapshot{
		{{ID: 0, X: 1, Y: 2, Z: 3, Mass: 10, Radius: 1}, {ID: 1, X: -1, Y: 0, Z: 5, Mass: 20, Radius: 2}},
		{{ID: 0, X: 1.5, Y: 2.5, Z: 3.5, Mass: 10, Radius: 1}},
	}
	for i, s := range steps {
		if err := cp.RecordStep(i, s); err != nil {
			t.Fatal(err)
		}
	}
	if err := cp.Close(); err != nil {
		t.Fatal(err)
	}

	var gotSteps []int
	var gotCounts []int
	err = ReadCheckpoints(bytes.NewReader(buf.Bytes()), func(step int, bodies map[uint32]CheckpointBody) error {
		gotSteps = append(gotSteps, step)
		gotCounts = append(gotCounts, len(bodies))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(gotSteps) != 2 || gotSteps[0] != 0 || gotSteps[1] != 1 {
		t.Fatalf("unexpected step sequence: %v", gotSteps)
	}
	if gotCounts[0] != 2 || gotCounts[1] != 1 {
		t.Fatalf("unexpected body counts: %v", gotCounts)
	}
}

func TestReadCheckpointsPropagatesCallbackError(t *testing.T) {
	var buf bytes.Buffer
	cp, err := NewCheckpointer(nopWriteCloser{&buf}, zlib.BestSpeed)
	if err != nil {
		t.Fatal(err)
	}
	if err := cp.RecordStep(0, []Snapshot{{ID: 0}}); err != nil {
		t.Fatal(err)
	}
	if err := cp.Close(); err != nil {
		t.Fatal(err)
	}

	sentinel := io.ErrUnexpectedEOF
	err = ReadCheckpoints(bytes.NewReader(buf.Bytes()), func(int, map[uint32]CheckpointBody) error {
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}
