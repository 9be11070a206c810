package model

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// packageNamePattern matches installer names such as
	// windows10.0-kb5027215-x64_abcdef123456.msu
	packageNamePattern = regexp.MustCompile(`windows\d+\.\d+-kb\d+-x64_\w+\.(msu|cab)`)

	archTagPattern = regexp.MustCompile(`-x64_\w+`)
)

// PatchFile is the installer resolved from the download popup.
type PatchFile struct {
	SourceURL    string `json:"source_url"`
	OriginalName string `json:"original_name"` // matched part of the URL basename
	TargetName   string `json:"target_name"`   // OriginalName with the architecture tag replaced by the month suffix
}

// TargetPath joins dir and the target name.
func (f *PatchFile) TargetPath(dir string) string {
	return filepath.Join(dir, f.TargetName)
}

// URLBaseName returns the last path element of rawURL, ignoring query and fragment.
func URLBaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}

// MatchPackageName extracts the installer name from a file name. The second
// return value is false when the name does not follow the windows<ver>-kb<n>-x64_<token>
// convention.
func MatchPackageName(fileName string) (string, bool) {
	m := packageNamePattern.FindString(fileName)
	if m == "" {
		return "", false
	}
	return m, true
}

// RenameForMonth replaces the first -x64_<token> in name with -<suffix>. Names
// without an architecture tag are returned unchanged.
func RenameForMonth(name, suffix string) string {
	loc := archTagPattern.FindStringIndex(name)
	if loc == nil {
		return name
	}
	return name[:loc[0]] + "-" + suffix + name[loc[1]:]
}

// NewPatchFile resolves the installer behind sourceURL for the given query.
func NewPatchFile(sourceURL string, q *SearchQuery) (*PatchFile, error) {
	base := URLBaseName(sourceURL)
	original, ok := MatchPackageName(base)
	if !ok {
		return nil, goerr.New("file name does not match installer naming convention",
			goerr.V("file_name", base),
			goerr.V("url", sourceURL),
		)
	}

	return &PatchFile{
		SourceURL:    sourceURL,
		OriginalName: original,
		TargetName:   RenameForMonth(original, q.MonthSuffix()),
	}, nil
}
