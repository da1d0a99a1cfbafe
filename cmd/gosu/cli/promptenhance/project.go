package promptenhance

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// markerFiles identify the kind of project in a directory.
var markerFiles = []string{
	"package.json",
	"requirements.txt",
	"Gemfile",
	"Cargo.toml",
	"go.mod",
	"pom.xml",
	"build.gradle",
	"composer.json",
	"Makefile",
	"CMakeLists.txt",
	".gitignore",
}

// Project is what we know about the directory the prompt was typed in.
type Project struct {
	Name  string
	Files []string
	Dirs  []string
}

// HasDir reports whether the project has a top-level entry named name.
func (p Project) HasDir(name string) bool {
	return slices.Contains(p.Dirs, name)
}

// DetectProject inspects dir for marker files and the directories the
// keyword categories care about.
func DetectProject(dir string) (Project, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Project{}, fmt.Errorf("Invalid working directory: %s", dir) //nolint:staticcheck // user-facing message
	}

	project := Project{Name: filepath.Base(dir)}
	for _, name := range markerFiles {
		if exists(filepath.Join(dir, name)) {
			project.Files = append(project.Files, name)
		}
	}

	seen := make(map[string]bool)
	for _, c := range categories {
		for _, d := range c.dirs {
			if seen[d] {
				continue
			}
			seen[d] = true
			if exists(filepath.Join(dir, d)) {
				project.Dirs = append(project.Dirs, d)
			}
		}
	}
	return project, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
