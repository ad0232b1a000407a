package loaders

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/shadergen/generator/metadata"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic uint32 = 0x07230203

type BinaryLoader struct{}

// Load reads a binary blob. params may carry the resource name as a string;
// otherwise the file base name is used.
func (bl *BinaryLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	name, ok := params.(string)
	if !ok || name == "" {
		name = filepath.Base(path)
	}

	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		DataSize: uint64(len(buf)),
		Data:     buf,
	}, nil
}

func (bl *BinaryLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

// BytesToWords repacks b into little-endian 32-bit words. A length that is not
// a multiple of 4 is rejected instead of reading past the end of b.
func BytesToWords(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("bytecode length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words, nil
}

// WordsToBytes is the inverse of BytesToWords.
func WordsToBytes(words []uint32) []byte {
	b := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// ValidateSPIRV checks that b is word aligned and opens with the SPIR-V magic number.
func ValidateSPIRV(b []byte) error {
	if len(b) < 4 {
		return fmt.Errorf("bytecode is %d bytes, too short for a SPIR-V module", len(b))
	}
	if len(b)%4 != 0 {
		return fmt.Errorf("bytecode length %d is not a multiple of 4", len(b))
	}
	if magic := binary.LittleEndian.Uint32(b); magic != SPIRVMagic {
		return fmt.Errorf("bytecode starts with 0x%08x, want SPIR-V magic 0x%08x", magic, SPIRVMagic)
	}
	return nil
}
