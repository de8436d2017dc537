package release

import (
	"strings"
)

// DefaultArtifactName is the artifact published by the upstream project.
const DefaultArtifactName = "axiom"

// DefaultRepositoryBase is the group path of the artifact in the release repository.
const DefaultRepositoryBase = "https://repository.apache.org/content/repositories/releases/org/apache/ws/commons"

var (
	// DefaultClassifiers are the distribution archives attached to a release.
	//nolint:gochecknoglobals // Read-only defaults copied by config.Default.
	DefaultClassifiers = []string{"bin", "source-release"}
	// DefaultSuffixes are the archive and its signature and checksum side-files.
	//nolint:gochecknoglobals // Read-only defaults copied by config.Default.
	DefaultSuffixes = []string{"zip", "zip.asc", "zip.md5"}
)

// Artifact is one classifier/suffix combination of a release.
type Artifact struct {
	Classifier string
	Suffix     string
}

// Download is a planned artifact retrieval.
type Download struct {
	Artifact Artifact
	// FileName is the name of the file inside the version directory.
	FileName string
	// URL is where the file is retrieved from.
	URL string
}

// DirName returns the local directory of a release: dots become underscores.
func DirName(version string) string {
	return strings.ReplaceAll(version, ".", "_")
}

// Artifacts returns the cross product of classifiers and suffixes, classifier-major.
func Artifacts(classifiers, suffixes []string) []Artifact {
	artifacts := make([]Artifact, 0, len(classifiers)*len(suffixes))

	for _, classifier := range classifiers {
		for _, suffix := range suffixes {
			artifacts = append(artifacts, Artifact{Classifier: classifier, Suffix: suffix})
		}
	}

	return artifacts
}

// FileName returns <name>-<version>-<classifier>.<suffix>.
func FileName(name, version string, artifact Artifact) string {
	return name + "-" + version + "-" + artifact.Classifier + "." + artifact.Suffix
}

// URL returns <base>/<name>/<name>/<version>/<fileName>.
func URL(base, name, version, fileName string) string {
	return strings.TrimRight(base, "/") + "/" + name + "/" + name + "/" + version + "/" + fileName
}

// Plan lists every download of a release in a stable order.
func Plan(base, name, version string, classifiers, suffixes []string) []Download {
	artifacts := Artifacts(classifiers, suffixes)
	plan := make([]Download, 0, len(artifacts))

	for _, artifact := range artifacts {
		fileName := FileName(name, version, artifact)

		plan = append(plan, Download{
			Artifact: artifact,
			FileName: fileName,
			URL:      URL(base, name, version, fileName),
		})
	}

	return plan
}
