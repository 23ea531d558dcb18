package resource

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind tells which manifest block an entry came from.
type Kind int

const (
	// KindSprite entries come from SpriteInformation / sprites blocks.
	KindSprite Kind = iota
	// KindSound entries come from SoundInformation / sounds blocks.
	KindSound
)

func (k Kind) String() string {
	if k == KindSound {
		return "sound"
	}
	return "sprite"
}

// rawEntry is one manifest line before validation.
type rawEntry struct {
	Kind     Kind
	Category string
	Key      string
	Path     string
}

// xmlManifest mirrors the loader XML format:
//
//	<Resources base="media">
//	  <SpriteInformation type="BG">
//	    <Sprite name="Underpainting">bg/underpainting.png</Sprite>
//	  </SpriteInformation>
//	  <SoundInformation type="BGM">
//	    <Sound name="BGM">bgm/title.mp3</Sound>
//	  </SoundInformation>
//	</Resources>
type xmlManifest struct {
	XMLName  xml.Name
	BasePath string     `xml:"base,attr"`
	Sprites  []xmlGroup `xml:"SpriteInformation"`
	Sounds   []xmlGroup `xml:"SoundInformation"`
}

type xmlGroup struct {
	Type    string    `xml:"type,attr"`
	Sprites []xmlItem `xml:"Sprite"`
	Sounds  []xmlItem `xml:"Sound"`
}

type xmlItem struct {
	Name string `xml:"name,attr"`
	Path string `xml:",chardata"`
}

// yamlManifest mirrors the same structure in YAML:
//
//	version: "1.0"
//	base_path: media
//	sprites:
//	  - type: BG
//	    items:
//	      - name: Underpainting
//	        path: bg/underpainting.png
//	sounds:
//	  - type: BGM
//	    items:
//	      - name: BGM
//	        path: bgm/title.mp3
type yamlManifest struct {
	Version  string      `yaml:"version"`
	BasePath string      `yaml:"base_path"`
	Sprites  []yamlGroup `yaml:"sprites"`
	Sounds   []yamlGroup `yaml:"sounds"`
}

type yamlGroup struct {
	Type  string     `yaml:"type"`
	Items []yamlItem `yaml:"items"`
}

type yamlItem struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// parseManifest decodes a manifest document. The format is picked from the
// file extension of source: .xml, or .yaml/.yml.
func parseManifest(source string, data []byte) ([]rawEntry, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".xml":
		return parseXMLManifest(data)
	case ".yaml", ".yml":
		return parseYAMLManifest(data)
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s (supported: .xml, .yaml)", source)
	}
}

func parseXMLManifest(data []byte) ([]rawEntry, error) {
	var m xmlManifest
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse XML manifest: %w", err)
	}

	var out []rawEntry
	for _, g := range m.Sprites {
		for _, it := range g.Sprites {
			out = append(out, newRawEntry(KindSprite, g.Type, it.Name, it.Path, m.BasePath))
		}
	}
	for _, g := range m.Sounds {
		for _, it := range g.Sounds {
			out = append(out, newRawEntry(KindSound, g.Type, it.Name, it.Path, m.BasePath))
		}
	}
	return out, nil
}

func parseYAMLManifest(data []byte) ([]rawEntry, error) {
	var m yamlManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML manifest: %w", err)
	}

	var out []rawEntry
	for _, g := range m.Sprites {
		for _, it := range g.Items {
			out = append(out, newRawEntry(KindSprite, g.Type, it.Name, it.Path, m.BasePath))
		}
	}
	for _, g := range m.Sounds {
		for _, it := range g.Items {
			out = append(out, newRawEntry(KindSound, g.Type, it.Name, it.Path, m.BasePath))
		}
	}
	return out, nil
}

func newRawEntry(kind Kind, category, key, path, basePath string) rawEntry {
	path = strings.TrimSpace(path)
	if path != "" {
		path = buildFullPath(basePath, path)
	}
	return rawEntry{
		Kind:     kind,
		Category: strings.TrimSpace(category),
		Key:      strings.TrimSpace(key),
		Path:     path,
	}
}

// buildFullPath combines the manifest base path with an entry path.
func buildFullPath(basePath, relativePath string) string {
	if basePath == "" {
		return relativePath
	}
	if strings.HasPrefix(relativePath, "/") {
		return basePath + relativePath
	}
	return strings.TrimSuffix(basePath, "/") + "/" + relativePath
}
