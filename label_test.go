package verishot

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestAddLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 320, 120))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode fixture image: %v", err)
	}

	labeled, err := AddLabel(buf.Bytes(), "/landing (desktop)")
	if err != nil {
		t.Fatalf("Failed to label image: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(labeled))
	if err != nil {
		t.Fatalf("Labeled output is not a valid PNG: %v", err)
	}

	if decoded.Bounds().Dx() != 320 {
		t.Errorf("Label must keep the image width, got %d", decoded.Bounds().Dx())
	}
	if decoded.Bounds().Dy() <= 120 {
		t.Errorf("Label must grow the image height, got %d", decoded.Bounds().Dy())
	}
}

func TestAddLabelRejectsGarbage(t *testing.T) {
	if _, err := AddLabel([]byte("not a png"), "caption"); err == nil {
		t.Error("Expected error for non-PNG input")
	}
}
