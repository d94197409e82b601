package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestEvent(t *testing.T, eventType EventType, result Result) *Event {
	t.Helper()
	return NewEvent(eventType, result).
		WithObject(Object{Type: "response", Path: "/tmp/resp.der"}).
		WithContext(Context{ResponseStatus: "successful"})
}

func TestU_FileWriter_HashChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}

	if w.LastHash() != GenesisHash {
		t.Errorf("LastHash = %q, want genesis", w.LastHash())
	}

	e1 := newTestEvent(t, EventInspect, ResultSuccess)
	if err := w.Write(e1); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if e1.HashPrev != GenesisHash {
		t.Errorf("first event HashPrev = %q, want genesis", e1.HashPrev)
	}
	if !strings.HasPrefix(e1.Hash, HashPrefix) {
		t.Errorf("hash missing prefix: %q", e1.Hash)
	}

	e2 := newTestEvent(t, EventVerify, ResultFailure)
	if err := w.Write(e2); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if e2.HashPrev != e1.Hash {
		t.Errorf("chain broken: HashPrev = %q, want %q", e2.HashPrev, e1.Hash)
	}
	if w.LastHash() != e2.Hash {
		t.Errorf("LastHash = %q, want %q", w.LastHash(), e2.Hash)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	count, err := VerifyChain(path)
	if err != nil {
		t.Fatalf("VerifyChain failed: %v", err)
	}
	if count != 2 {
		t.Errorf("VerifyChain count = %d, want 2", count)
	}
}

func TestU_FileWriter_ReopenContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	w1, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	e1 := newTestEvent(t, EventInspect, ResultSuccess)
	if err := w1.Write(e1); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w1.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	w2, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter after reopen failed: %v", err)
	}
	defer w2.Close()

	if w2.LastHash() != e1.Hash {
		t.Errorf("reopened LastHash = %q, want %q", w2.LastHash(), e1.Hash)
	}

	e2 := newTestEvent(t, EventExport, ResultSuccess)
	if err := w2.Write(e2); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if e2.HashPrev != e1.Hash {
		t.Errorf("chain not continued across reopen: HashPrev = %q", e2.HashPrev)
	}

	count, err := VerifyChain(path)
	if err != nil {
		t.Fatalf("VerifyChain failed: %v", err)
	}
	if count != 2 {
		t.Errorf("VerifyChain count = %d, want 2", count)
	}
}

func TestU_VerifyChain_DetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := w.Write(newTestEvent(t, EventInspect, ResultSuccess)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	tampered := strings.Replace(string(data), "successful", "tampered!!!", 1)
	if tampered == string(data) {
		t.Fatal("tampering substitution did not apply")
	}
	if err := os.WriteFile(path, []byte(tampered), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := VerifyChain(path); err == nil {
		t.Error("VerifyChain accepted a tampered log")
	}
}

func TestU_VerifyChain_EmptyLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	count, err := VerifyChain(path)
	if err != nil {
		t.Fatalf("VerifyChain failed on empty log: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestU_NopWriter(t *testing.T) {
	var w NopWriter
	if err := w.Write(newTestEvent(t, EventInspect, ResultSuccess)); err != nil {
		t.Errorf("Write failed: %v", err)
	}
	if w.LastHash() != GenesisHash {
		t.Errorf("LastHash = %q, want genesis", w.LastHash())
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestU_Event_Validate(t *testing.T) {
	if err := newTestEvent(t, EventVerify, ResultSuccess).Validate(); err != nil {
		t.Errorf("valid event rejected: %v", err)
	}

	e := newTestEvent(t, EventVerify, ResultSuccess)
	e.EventType = ""
	if err := e.Validate(); err == nil {
		t.Error("missing event_type accepted")
	}

	e = newTestEvent(t, EventVerify, ResultSuccess)
	e.Result = ""
	if err := e.Validate(); err == nil {
		t.Error("missing result accepted")
	}

	e = newTestEvent(t, EventVerify, ResultSuccess)
	e.Actor.ID = ""
	if err := e.Validate(); err == nil {
		t.Error("missing actor id accepted")
	}
}
