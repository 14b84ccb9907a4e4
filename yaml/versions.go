package yaml

import (
	"github.com/fwojciec/docver"
	yamlv3 "gopkg.in/yaml.v3"
)

// ManifestName is the file name of a version manifest.
const ManifestName = "versions.yaml"

type manifest struct {
	Versions []manifestVersion `yaml:"versions"`
}

type manifestVersion struct {
	Head    string `yaml:"head"`
	Version string `yaml:"version"`
	Latest  bool   `yaml:"latest"`
}

// DecodeVersions decodes a version manifest:
//
//	versions:
//	  - head: main
//	    latest: true
//	  - head: v1
//	    version: v1.0.0
//
// Version defaults to Head. Order is preserved.
func DecodeVersions(data []byte) ([]docver.VersionHead, error) {
	var m manifest
	if err := yamlv3.Unmarshal(data, &m); err != nil {
		return nil, docver.Errorf(docver.EINVALID, "invalid version manifest: %v", err)
	}

	versions := make([]docver.VersionHead, 0, len(m.Versions))
	seen := make(map[string]bool, len(m.Versions))
	for i, v := range m.Versions {
		if v.Head == "" {
			return nil, docver.Errorf(docver.EINVALID, "version manifest entry %d: head required", i)
		}
		if seen[v.Head] {
			return nil, docver.Errorf(docver.EINVALID, "version manifest: duplicate head %q", v.Head)
		}
		seen[v.Head] = true

		version := v.Version
		if version == "" {
			version = v.Head
		}
		versions = append(versions, docver.VersionHead{Version: version, Head: v.Head, IsLatest: v.Latest})
	}
	return versions, nil
}
