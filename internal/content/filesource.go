package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	platformerrors "github.com/lumastack/lumastack.com/internal/platform/errors"
)

const watchDebounce = 300 * time.Millisecond

// FileSource serves content from a directory of JSON fixtures written by the
// seed tool. It backs local development and tests without the content API.
//
// Layout under the root directory, one subtree per locale:
//
//	<locale>/sitemap.json      []SitemapNode
//	<locale>/pages/<id>.json   Page
//	<locale>/items/<id>.json   Item
//	<locale>/lists/<ref>.json  List
type FileSource struct {
	dir string

	mu       sync.RWMutex
	sitemaps map[string][]SitemapNode
	pages    map[string]Page
	items    map[string]Item
	lists    map[string]List
}

var _ Source = (*FileSource)(nil)

// NewFileSource loads fixtures from dir. The directory must exist; empty
// locale subtrees are fine.
func NewFileSource(dir string) (*FileSource, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, platformerrors.New(platformerrors.CodeContentSourceUnconfigured, "fixture directory is required")
	}
	f := &FileSource{dir: dir}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads every fixture file and swaps in the new tables atomically.
func (f *FileSource) Reload() error {
	sitemaps := map[string][]SitemapNode{}
	pages := map[string]Page{}
	items := map[string]Item{}
	lists := map[string]List{}

	locales, err := os.ReadDir(f.dir)
	if err != nil {
		return fmt.Errorf("read fixture dir %s: %w", f.dir, err)
	}
	for _, entry := range locales {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		localeDir := filepath.Join(f.dir, locale)

		sitemapPath := filepath.Join(localeDir, "sitemap.json")
		if data, err := os.ReadFile(sitemapPath); err == nil {
			var nodes []SitemapNode
			if err := json.Unmarshal(data, &nodes); err != nil {
				return fmt.Errorf("decode %s: %w", sitemapPath, err)
			}
			sitemaps[locale] = nodes
		}

		if err := loadFixtureFiles(filepath.Join(localeDir, "pages"), func(id string, data []byte) error {
			var page Page
			if err := json.Unmarshal(data, &page); err != nil {
				return err
			}
			pages[locale+"/"+id] = page
			return nil
		}); err != nil {
			return err
		}
		if err := loadFixtureFiles(filepath.Join(localeDir, "items"), func(id string, data []byte) error {
			var item Item
			if err := json.Unmarshal(data, &item); err != nil {
				return err
			}
			items[locale+"/"+id] = item
			return nil
		}); err != nil {
			return err
		}
		if err := loadFixtureFiles(filepath.Join(localeDir, "lists"), func(ref string, data []byte) error {
			var list List
			if err := json.Unmarshal(data, &list); err != nil {
				return err
			}
			lists[locale+"/"+ref] = list
			return nil
		}); err != nil {
			return err
		}
	}

	f.mu.Lock()
	f.sitemaps = sitemaps
	f.pages = pages
	f.items = items
	f.lists = lists
	f.mu.Unlock()
	return nil
}

func loadFixtureFiles(dir string, apply func(name string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read fixture dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read fixture %s: %w", path, err)
		}
		if err := apply(strings.TrimSuffix(name, ".json"), data); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return nil
}

// Watch reloads fixtures when files under the directory change. Rapid saves
// collapse into one reload. It blocks until ctx is cancelled.
func (f *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fixture watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, f.dir); err != nil {
		return err
	}

	var pending <-chan time.Time
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New locale or kind directories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						log.Printf("watch new fixture dir %s: %v", event.Name, err)
					}
				}
			}
			timer.Reset(watchDebounce)
			pending = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("fixture watcher: %v", err)
		case <-pending:
			pending = nil
			if err := f.Reload(); err != nil {
				log.Printf("reload fixtures: %v", err)
				continue
			}
			log.Printf("content fixtures reloaded from %s", f.dir)
		}
	}
}

func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// GetSitemap returns the routing table for a locale.
func (f *FileSource) GetSitemap(ctx context.Context, locale string) ([]SitemapNode, error) {
	f.mu.RLock()
	nodes, ok := f.sitemaps[locale]
	f.mu.RUnlock()
	if !ok {
		return nil, platformerrors.WithMetadata(platformerrors.CodeContentNotFound, "no sitemap fixture", map[string]string{"locale": locale})
	}
	out := make([]SitemapNode, len(nodes))
	copy(out, nodes)
	return out, nil
}

// GetPage returns a page fixture by id.
func (f *FileSource) GetPage(ctx context.Context, locale, pageID string) (Page, error) {
	f.mu.RLock()
	page, ok := f.pages[locale+"/"+pageID]
	f.mu.RUnlock()
	if !ok {
		return Page{}, platformerrors.WithMetadata(platformerrors.CodeContentNotFound, "no page fixture", map[string]string{"locale": locale, "page": pageID})
	}
	return page, nil
}

// GetItem returns a content item fixture by id.
func (f *FileSource) GetItem(ctx context.Context, locale, itemID string) (Item, error) {
	f.mu.RLock()
	item, ok := f.items[locale+"/"+itemID]
	f.mu.RUnlock()
	if !ok {
		return Item{}, platformerrors.WithMetadata(platformerrors.CodeContentNotFound, "no item fixture", map[string]string{"locale": locale, "item": itemID})
	}
	return item, nil
}

// GetList returns one page of a list fixture, applying take and skip.
func (f *FileSource) GetList(ctx context.Context, locale, ref string, q Query) (List, error) {
	f.mu.RLock()
	list, ok := f.lists[locale+"/"+ref]
	f.mu.RUnlock()
	if !ok {
		return List{}, platformerrors.WithMetadata(platformerrors.CodeContentNotFound, "no list fixture", map[string]string{"locale": locale, "list": ref})
	}

	take := q.Take
	if take <= 0 {
		take = defaultListTake
	}
	if take > maxListTake {
		take = maxListTake
	}
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}

	total := len(list.Items)
	if skip > total {
		skip = total
	}
	end := skip + take
	if end > total {
		end = total
	}
	items := make([]Item, end-skip)
	copy(items, list.Items[skip:end])
	return List{Items: items, TotalCount: total}, nil
}
