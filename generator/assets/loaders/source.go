package loaders

import (
	"os"
	"path/filepath"

	"github.com/spaghettifunk/shadergen/generator/metadata"
)

// SourceLoader reads annotated shader sources as text.
type SourceLoader struct{}

func (sl *SourceLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     string(data),
	}, nil
}

func (sl *SourceLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}
