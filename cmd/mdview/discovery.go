package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-mdview"
)

// isDir reports whether path is an existing directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// discoverAttachments finds all Markdown files under dir.
// Each attachment is named after its path relative to dir, without extension.
func discoverAttachments(dir string) ([]mdview.Attachment, error) {
	var attachments []mdview.Attachment
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !looksLikeMarkdown(path) {
			return nil
		}
		attachments = append(attachments, mdview.Attachment{
			Name: relativeName(dir, path),
			URL:  path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(attachments, func(i, j int) bool {
		return attachments[i].URL < attachments[j].URL
	})
	return attachments, nil
}

// relativeName names a discovered file after its path below baseDir.
//
// Examples:
//   - ("docs", "docs/guide.md") -> "guide"
//   - ("docs", "docs/api/auth.markdown") -> "api/auth"
func relativeName(baseDir, path string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
