package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// markupSeeds covers the shapes the checks care about.
var markupSeeds = []string{
	"",
	"<!DOCTYPE html>\n<html><head><title>t</title></head><body><h1>x</h1></body></html>",
	"<div><p>unclosed",
	"</span>",
	"<img src=a.png><br/><input>",
	"<script>if (a < b) { x = '</div>' }</script>",
	"<style>p > a { color: red }</style>",
	"<!-- <div> -->",
	"<a href='x' style=\"color:red\" onclick=go()>link</a>",
	"<h1>a</h1><h3>skipped</h3>",
	"<ul><li>a<li>b</ul>",
	"<",
	"<div",
	"<<>>",
	"\ufeff<p>bom</p>\r\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range markupSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds page sources from testdata/ when the directory exists.
func addTestdataSeeds(f *testing.F) {
	root := "testdata"
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".html", ".htm", ".md":
		default:
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return append([]byte(nil), src...)
}
