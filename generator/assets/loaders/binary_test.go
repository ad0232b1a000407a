package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/shadergen/generator/metadata"
)

func TestBytesToWords(t *testing.T) {
	b := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}
	words, err := BytesToWords(b)
	if err != nil {
		t.Fatalf("BytesToWords() error = %v", err)
	}
	if len(words) != 2 || words[0] != SPIRVMagic || words[1] != 0x00010000 {
		t.Errorf("BytesToWords() = %#x, want [%#x 0x10000]", words, SPIRVMagic)
	}
	if back := WordsToBytes(words); string(back) != string(b) {
		t.Errorf("WordsToBytes() = %v, want %v", back, b)
	}
}

func TestBytesToWords_Unaligned(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 7} {
		if _, err := BytesToWords(make([]byte, n)); err == nil {
			t.Errorf("BytesToWords(%d bytes) should fail", n)
		}
	}
	words, err := BytesToWords(nil)
	if err != nil || len(words) != 0 {
		t.Errorf("BytesToWords(nil) = %v, %v, want empty", words, err)
	}
}

func TestValidateSPIRV(t *testing.T) {
	valid := WordsToBytes([]uint32{SPIRVMagic, 0x00010000, 0})
	tests := []struct {
		name    string
		b       []byte
		wantErr bool
	}{
		{"valid", valid, false},
		{"empty", nil, true},
		{"short", valid[:3], true},
		{"unaligned", valid[:6], true},
		{"wrong magic", WordsToBytes([]uint32{0x03022307}), true},
		{"text", []byte("glslc: error"), true},
	}
	for _, tt := range tests {
		if err := ValidateSPIRV(tt.b); (err != nil) != tt.wantErr {
			t.Errorf("%s: ValidateSPIRV() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestBinaryLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.frag.spv")
	data := WordsToBytes([]uint32{SPIRVMagic, 1})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	loader := &BinaryLoader{}
	res, err := loader.Load(path, metadata.ResourceTypeBinary, "canvas.frag")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Name != "canvas.frag" || res.DataSize != 8 || string(res.Data.([]byte)) != string(data) {
		t.Errorf("Load() = %+v", res)
	}

	res, err = loader.Load(path, metadata.ResourceTypeBinary, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Name != "canvas.frag.spv" {
		t.Errorf("Name = %q, want the file base name", res.Name)
	}

	if err := loader.Unload(res); err != nil || res.Data != nil || res.DataSize != 0 {
		t.Errorf("Unload() left %+v, %v", res, err)
	}
}

func TestSourceLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.glsl")
	if err := os.WriteFile(path, []byte("#version 450\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := (&SourceLoader{}).Load(path, metadata.ResourceTypeText, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Data.(string) != "#version 450\n" || res.Name != "canvas.glsl" {
		t.Errorf("Load() = %+v", res)
	}

	if _, err := (&SourceLoader{}).Load(filepath.Join(t.TempDir(), "missing.glsl"), metadata.ResourceTypeText, nil); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}
