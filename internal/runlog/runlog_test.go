package runlog

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"

	"github.com/klauspost/compress/zstd"
)

type entry struct {
	Kind string `json:"kind"`
	Row  int    `json:"row"`
}

func TestJournalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	j, err := Open(dir, "run")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	records := []entry{
		{Kind: "CELL", Row: 1},
		{Kind: "DUMP"},
		{Kind: "COMPLETE"},
	}
	for _, r := range records {
		if err := j.Write(r); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(j.Path())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	var got []entry
	for sc.Scan() {
		var e entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		got = append(got, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("read %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Fatalf("record %d: %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestWriteAfterCloseFails(t *testing.T) {
	j, err := Open(t.TempDir(), "run")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := j.Write(entry{Kind: "CELL"}); err == nil {
		t.Fatalf("expected write after close to fail")
	}
}
