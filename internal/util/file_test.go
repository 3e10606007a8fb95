package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClockOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/videos/match.mp4", "/videos/match_clock.mp4"},
		{"/videos/match.final.mkv", "/videos/match.final_clock.mkv"},
		{"relative/clip.MOV", "relative/clip_clock.MOV"},
		{"/videos/noext", "/videos/noext_clock.mp4"},
		{"clip.webm", "clip_clock.webm"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ClockOutputPath(tt.input); got != tt.want {
				t.Errorf("ClockOutputPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsClockOutput(t *testing.T) {
	if !IsClockOutput("/videos/match_clock.mp4") {
		t.Error("Expected _clock file to be recognised")
	}
	if IsClockOutput("/videos/clockwork.mp4") {
		t.Error("clockwork.mp4 is not an output")
	}
}

func TestIsVideoFile(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "a.MKV")
	text := filepath.Join(dir, "notes.txt")
	for _, p := range []string{video, text} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if !IsVideoFile(video) {
		t.Error("Expected upper-case extension to be accepted")
	}
	if IsVideoFile(text) {
		t.Error("Text file should not be a video")
	}
	if IsVideoFile(dir) {
		t.Error("Directory should not be a video")
	}
	if IsVideoFile(filepath.Join(dir, "missing.mp4")) {
		t.Error("Missing file should not be a video")
	}
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, make([]byte, 1500), 0644); err != nil {
		t.Fatal(err)
	}

	if GetFilename(path) != "clip.mp4" {
		t.Errorf("GetFilename = %q", GetFilename(path))
	}
	if GetFileStem(path) != "clip" {
		t.Errorf("GetFileStem = %q", GetFileStem(path))
	}
	size, err := GetFileSize(path)
	if err != nil || size != 1500 {
		t.Errorf("GetFileSize = %d, %v", size, err)
	}
	if !FileExists(path) || FileExists(dir) {
		t.Error("FileExists should only be true for files")
	}

	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists failed: %v", err)
	}
	if FileExists(path) {
		t.Error("File should be removed")
	}
	if err := RemoveIfExists(path); err != nil {
		t.Errorf("Removing a missing file should succeed, got %v", err)
	}
	if err := RemoveIfExists(""); err != nil {
		t.Errorf("Empty path should be ignored, got %v", err)
	}
}
