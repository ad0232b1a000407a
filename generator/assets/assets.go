package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/shadergen/generator/assets/loaders"
	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/metadata"
)

// DefaultDebounce coalesces the burst of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	debounce time.Duration
	timers   map[string]*time.Timer

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan string
}

func NewAssetManager() *AssetManager {
	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		debounce: DefaultDebounce,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypeText, &loaders.SourceLoader{})
	am.registerLoader(metadata.ResourceTypeBinary, &loaders.BinaryLoader{})

	return am
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// LoadAsset loads path with the loader registered for resourceType and starts
// tracking it, so a running watcher reports changes to it.
func (am *AssetManager) LoadAsset(path string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	loader, loaderExists := am.loaders[resourceType]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}

	res, err := loader.Load(abs, resourceType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[abs] = AssetInfo{
		Path:       abs,
		Type:       resourceType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()

	return res, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource, resourceType metadata.ResourceType) error {
	loader, loaderExists := am.loaders[resourceType]
	if !loaderExists {
		return fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}
	return loader.Unload(asset)
}

// Watch starts watching the directories holding the given files and returns a
// channel that receives the absolute path of a file each time it is written or
// re-created. The files become tracked assets. Watching directories
// rather than files keeps working across editors that save by rename.
func (am *AssetManager) Watch(paths ...string) (<-chan string, error) {
	if am.isClosed {
		return nil, errors.New("asset manager already closed")
	}
	if am.fsnotify != nil {
		return nil, errors.New("asset manager is already watching")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, err
		}
		am.track(abs)
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, err
		}
	}

	am.fsnotify = w
	am.changes = make(chan string)
	go am.start()
	return am.changes, nil
}

// Close stops the watcher, if any. It is safe to call more than once. The
// change channel is left open; receivers should also watch their own
// cancellation.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	for _, t := range am.timers {
		t.Stop()
	}
	close(am.done)
	return nil
}

func (am *AssetManager) start() {
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("watcher: %s", e.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// Handle the creation or modification of a file. Only tracked files are
// reported, once per debounce window.
func (am *AssetManager) handleFileEvent(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	if am.isClosed {
		return
	}
	if _, tracked := am.assets[abs]; !tracked {
		return
	}
	if t, pending := am.timers[abs]; pending {
		t.Reset(am.debounce)
		return
	}
	am.timers[abs] = time.AfterFunc(am.debounce, func() {
		am.mutex.Lock()
		delete(am.timers, abs)
		am.mutex.Unlock()

		select {
		case am.changes <- abs:
		case <-am.done:
		}
	})
}

func (am *AssetManager) track(abs string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if _, ok := am.assets[abs]; ok {
		return
	}
	am.assets[abs] = AssetInfo{
		Path: abs,
		Type: determineAssetType(abs),
	}
}

// Tracked reports whether path is a known asset.
func (am *AssetManager) Tracked(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	_, ok := am.assets[abs]
	return ok
}

func determineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case ".glsl", ".shader", ".vert", ".frag":
		return metadata.ResourceTypeText
	case ".spv":
		return metadata.ResourceTypeBinary
	default:
		return metadata.ResourceTypeNone
	}
}
