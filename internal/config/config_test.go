package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	p := Default()

	if p.Mode != ModeFull {
		t.Errorf("default mode = %q, want %q", p.Mode, ModeFull)
	}
	if p.StrengthThreshold != DefaultStrengthThreshold {
		t.Errorf("default threshold = %v, want %v", p.StrengthThreshold, DefaultStrengthThreshold)
	}
	if p.Output != DefaultOutput {
		t.Errorf("default output = %q, want %q", p.Output, DefaultOutput)
	}
	if p.CheckpointInterval != DefaultCheckpointInterval {
		t.Errorf("default checkpoint interval = %d, want %d", p.CheckpointInterval, DefaultCheckpointInterval)
	}
	if len(p.Words) != 0 {
		t.Errorf("default profile should carry no seed words, got %v", p.Words)
	}
}

func TestLoadSaveRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")

	want := Default()
	want.Words = []string{"alpha", "bravo"}
	want.MobileNumbers = []string{"5551234567"}
	want.BirthDate = "01021990"
	want.YearRange = "1990-1995"
	want.Symbols = []string{"!", "@"}
	want.NumberPatterns = []string{"00"}
	want.UnderscoreSeparator = true
	want.Mode = ModeStrong
	want.StrengthThreshold = 72
	want.MaxOutput = 1000

	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeepsDefaultsForAbsentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sparse.yaml")
	if err := os.WriteFile(path, []byte("words:\n  - solo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Mode != ModeFull {
		t.Errorf("mode = %q, want default %q", p.Mode, ModeFull)
	}
	if p.Output != DefaultOutput {
		t.Errorf("output = %q, want default %q", p.Output, DefaultOutput)
	}
	if p.FlushInterval != DefaultFlushInterval {
		t.Errorf("flush interval = %d, want default %d", p.FlushInterval, DefaultFlushInterval)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing profile file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *SeedProfile {
		p := Default()
		p.Words = []string{"alpha"}
		return p
	}

	tests := []struct {
		name    string
		mutate  func(*SeedProfile)
		wantErr bool
	}{
		{"valid", func(p *SeedProfile) {}, false},
		{"no words", func(p *SeedProfile) { p.Words = nil }, true},
		{"bad mode", func(p *SeedProfile) { p.Mode = "loud" }, true},
		{"threshold below range", func(p *SeedProfile) { p.StrengthThreshold = -1 }, true},
		{"threshold above range", func(p *SeedProfile) { p.StrengthThreshold = 101 }, true},
		{"negative max output", func(p *SeedProfile) { p.MaxOutput = -1 }, true},
		{"zero checkpoint interval", func(p *SeedProfile) { p.CheckpointInterval = 0 }, true},
		{"zero flush interval", func(p *SeedProfile) { p.FlushInterval = 0 }, true},
		{"empty output", func(p *SeedProfile) { p.Output = "" }, true},
		// Malformed seed fragments are dropped by the expander, not
		// rejected here.
		{"garbage birth date", func(p *SeedProfile) { p.BirthDate = "banana" }, false},
		{"inverted year range", func(p *SeedProfile) { p.YearRange = "2020-1990" }, false},
		{"unknown pattern", func(p *SeedProfile) { p.NumberPatterns = []string{"0"} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestFingerprintStableUnderReordering(t *testing.T) {
	a := Default()
	a.Words = []string{"alpha", "bravo", "charlie"}
	a.Symbols = []string{"!", "@"}

	b := Default()
	b.Words = []string{"Charlie", "ALPHA", "bravo"} // case and order differ
	b.Symbols = []string{"@", "!"}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("fingerprint should be invariant to list order and word case")
	}
}

func TestFingerprintChangesPerField(t *testing.T) {
	base := func() *SeedProfile {
		p := Default()
		p.Words = []string{"alpha"}
		return p
	}
	ref := Fingerprint(base())

	mutations := []struct {
		name   string
		mutate func(*SeedProfile)
	}{
		{"words", func(p *SeedProfile) { p.Words = []string{"bravo"} }},
		{"mobiles", func(p *SeedProfile) { p.MobileNumbers = []string{"5551234"} }},
		{"birth date", func(p *SeedProfile) { p.BirthDate = "01021990" }},
		{"year range", func(p *SeedProfile) { p.YearRange = "1990-1991" }},
		{"symbols", func(p *SeedProfile) { p.Symbols = []string{"!"} }},
		{"patterns", func(p *SeedProfile) { p.NumberPatterns = []string{"00"} }},
		{"underscore", func(p *SeedProfile) { p.UnderscoreSeparator = true }},
		{"mode", func(p *SeedProfile) { p.Mode = ModeStrong }},
		{"threshold", func(p *SeedProfile) { p.StrengthThreshold = 80 }},
		{"max output", func(p *SeedProfile) { p.MaxOutput = 10 }},
	}
	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			p := base()
			m.mutate(p)
			if Fingerprint(p) == ref {
				t.Errorf("changing %s did not change the fingerprint", m.name)
			}
		})
	}
}

func TestFingerprintIgnoresPlumbing(t *testing.T) {
	a := Default()
	a.Words = []string{"alpha"}

	b := Default()
	b.Words = []string{"alpha"}
	b.Output = "elsewhere.txt"
	b.CheckpointPath = "elsewhere.json"
	b.CheckpointInterval = 1
	b.FlushInterval = 1

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("plumbing fields must not participate in the fingerprint")
	}
}
