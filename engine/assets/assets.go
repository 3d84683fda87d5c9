package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/bindless/engine/assets/loaders"
	"github.com/spaghettifunk/bindless/engine/core"
	"github.com/spaghettifunk/bindless/engine/renderer/metadata"
)

const (
	ShaderDir  = "shaders"
	TextureDir = "textures"

	// changeBuffer is how many change notifications may queue before
	// further ones are dropped.
	changeBuffer = 16
)

// TextureFrameExtensions are tried in order when looking up a frame.
var TextureFrameExtensions = []string{".dds", ".png", ".bmp", ".tiff", ".tif", ".webp"}

type AssetInfo struct {
	// Path is relative to the asset root, with forward slashes.
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes every file below the asset root and keeps the index
// current with fsnotify. Changed files are reported on Changes.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	started  bool
	changes  chan string

	ImageParams loaders.ImageResourceParams
}

func NewAssetManager(root string) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		root:     filepath.Clean(root),
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		changes:  make(chan string, changeBuffer),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize() error {
	if _, err := os.Stat(am.root); err != nil {
		return fmt.Errorf("asset root %s: %w", am.root, core.ErrAssetNotFound)
	}
	if err := am.addRecursive(am.root); err != nil {
		return err
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.registerLoader(metadata.ResourceTypeTexture, &loaders.TextureLoader{})
	am.registerLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})

	am.mutex.Lock()
	am.started = true
	am.mutex.Unlock()
	go am.start()

	core.LogInfo("indexed %d assets under %s", am.Count(), am.root)
	return nil
}

// Shutdown stops the watcher goroutine and closes Changes.
func (am *AssetManager) Shutdown() {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	if !started {
		am.fsnotify.Close()
		close(am.changes)
		return
	}
	close(am.done)
	<-am.stopped
}

// Changes delivers the relative path of every asset created or modified
// after Initialize.
func (am *AssetManager) Changes() <-chan string {
	return am.changes
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset watcher already closed")
	}
	return am.watchRecursive(name, false)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Count is the number of indexed assets.
func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// List returns the indexed paths of the given type, sorted.
func (am *AssetManager) List(resourceType metadata.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	var out []string
	for p, a := range am.assets {
		if a.Type == resourceType {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	a, ok := am.assets[path]
	return a, ok
}

// LoadAsset loads an indexed asset by its path relative to the root.
func (am *AssetManager) LoadAsset(path string, params interface{}) (*metadata.Resource, error) {
	am.mutex.Lock()
	asset, exists := am.assets[path]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[path] = asset
	}
	am.mutex.Unlock()
	if !exists {
		return nil, fmt.Errorf("%s: %w", path, core.ErrAssetNotFound)
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}

	return loader.Load(filepath.Join(am.root, filepath.FromSlash(path)), asset.Type, params)
}

// LoadShaderSources reads <name>_vertex.glsl and <name>_fragment.glsl.
func (am *AssetManager) LoadShaderSources(name string) (metadata.ShaderSources, error) {
	sources := metadata.ShaderSources{Name: name}
	vs, err := am.LoadAsset(ShaderPath(name, "vertex"), nil)
	if err != nil {
		return sources, err
	}
	fs, err := am.LoadAsset(ShaderPath(name, "fragment"), nil)
	if err != nil {
		return sources, err
	}
	sources.Vertex = vs.Data.(string)
	sources.Fragment = fs.Data.(string)
	return sources, nil
}

func ShaderPath(name, stage string) string {
	return fmt.Sprintf("%s/%s_%s.glsl", ShaderDir, name, stage)
}

// IsShaderOf reports whether path is one of the stages of program name.
func IsShaderOf(path, name string) bool {
	return path == ShaderPath(name, "vertex") || path == ShaderPath(name, "fragment")
}

// LoadTextureFrame loads textures/<prefix><index> with the first extension
// of TextureFrameExtensions that is present.
func (am *AssetManager) LoadTextureFrame(prefix string, index int) (*metadata.TextureImage, error) {
	base := fmt.Sprintf("%s/%s%d", TextureDir, prefix, index)
	for _, ext := range TextureFrameExtensions {
		if _, ok := am.Lookup(base + ext); !ok {
			continue
		}
		res, err := am.LoadAsset(base+ext, &am.ImageParams)
		if err != nil {
			return nil, err
		}
		return res.Data.(*metadata.TextureImage), nil
	}
	return nil, fmt.Errorf("%s.{%s}: %w", base, strings.Join(trimDots(TextureFrameExtensions), ","), core.ErrAssetNotFound)
}

func trimDots(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.TrimPrefix(e, ".")
	}
	return out
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	if loader, ok := am.loaders[asset.Type]; ok {
		return loader.Unload(asset)
	}
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if rel, ok := am.handleFileEvent(e.Name); ok {
					am.notify(rel)
				}
			}
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			am.fsnotify.Close()
			close(am.changes)
			return
		}
	}
}

// notify never blocks the watcher; a full queue drops the notification.
func (am *AssetManager) notify(path string) {
	select {
	case am.changes <- path:
	default:
		core.LogWarn("asset change queue full, dropping %s", path)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

func (am *AssetManager) relative(path string) (string, bool) {
	rel, err := filepath.Rel(am.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (string, bool) {
	rel, ok := am.relative(path)
	if !ok {
		return "", false
	}
	assetType := DetermineAssetType(rel)
	if assetType == metadata.ResourceTypeNone {
		return "", false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[rel] = AssetInfo{
		Path: rel,
		Type: assetType,
	}
	return rel, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	rel, ok := am.relative(path)
	if !ok {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, rel)
}

func DetermineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glsl", ".vert", ".frag":
		return metadata.ResourceTypeShader
	case ".dds":
		return metadata.ResourceTypeTexture
	case ".png", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	case ".toml", ".yaml", ".yml":
		return metadata.ResourceTypeConfig
	default:
		return metadata.ResourceTypeNone
	}
}
