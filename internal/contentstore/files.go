package contentstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ContentField receives the rendered markdown body of .md files.
const ContentField = "content"

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// LoadDir reads a content tree from disk into a Memory store.
// See LoadFS for the layout.
func LoadDir(dir string) (*Memory, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("contentstore: open %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("contentstore: %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads every collection directory at the root of fsys. Inside a
// collection, *.md files hold one record as YAML front matter plus a markdown
// body, and *.yaml files hold either one record or a list of records.
// Records without an "id" take the file name.
func LoadFS(fsys fs.FS) (*Memory, error) {
	store := NewMemory()
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("contentstore: read root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		records, err := loadCollection(fsys, entry.Name())
		if err != nil {
			return nil, err
		}
		store.Replace(entry.Name(), records)
	}
	return store, nil
}

func loadCollection(fsys fs.FS, collection string) ([]Record, error) {
	files, err := fs.ReadDir(fsys, collection)
	if err != nil {
		return nil, fmt.Errorf("contentstore: read %s: %w", collection, err)
	}
	var records []Record
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		ext := strings.ToLower(path.Ext(name))
		stem := strings.TrimSuffix(name, path.Ext(name))
		data, err := fs.ReadFile(fsys, path.Join(collection, name))
		if err != nil {
			return nil, fmt.Errorf("contentstore: read %s/%s: %w", collection, name, err)
		}

		var loaded []Record
		switch ext {
		case ".md", ".markdown":
			record, err := parseMarkdownRecord(data)
			if err != nil {
				return nil, fmt.Errorf("contentstore: %s/%s: %w", collection, name, err)
			}
			loaded = []Record{record}
		case ".yaml", ".yml":
			loaded, err = parseYAMLRecords(data)
			if err != nil {
				return nil, fmt.Errorf("contentstore: %s/%s: %w", collection, name, err)
			}
		default:
			continue
		}

		for i, record := range loaded {
			if record.String("id") == "" {
				if len(loaded) == 1 {
					record["id"] = stem
				} else {
					record["id"] = fmt.Sprintf("%s-%d", stem, i+1)
				}
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func parseMarkdownRecord(data []byte) (Record, error) {
	front, body := splitFrontMatter(string(data))
	record := Record{}
	if strings.TrimSpace(front) != "" {
		if err := yaml.Unmarshal([]byte(front), &record); err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
	}
	if _, ok := record[ContentField]; !ok && strings.TrimSpace(body) != "" {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(body), &buf); err != nil {
			return nil, fmt.Errorf("render markdown: %w", err)
		}
		record[ContentField] = buf.String()
	}
	return record, nil
}

func parseYAMLRecords(data []byte) ([]Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		record := Record{}
		if err := root.Decode(&record); err != nil {
			return nil, err
		}
		return []Record{record}, nil
	case yaml.SequenceNode:
		var records []Record
		if err := root.Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	}
	return nil, errors.New("expected a mapping or a list of mappings")
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}
