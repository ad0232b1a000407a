package metadata

type ResourceType int

/** @brief Resource types the asset manager knows how to load. */
const (
	/** @brief Shader source text. */
	ResourceTypeText ResourceType = iota
	/** @brief Compiled bytecode or any other binary blob. */
	ResourceTypeBinary
	/** @brief Anything the asset manager does not track. */
	ResourceTypeNone
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeText:
		return "text"
	case ResourceTypeBinary:
		return "binary"
	}
	return "none"
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data: a string for text, a []byte for binaries. */
	Data interface{}
}
