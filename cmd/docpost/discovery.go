package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	docpost "github.com/alnah/go-docpost"
	"github.com/alnah/go-docpost/internal/config"
	"github.com/alnah/go-docpost/internal/fileutil"
)

// Sentinel errors for page discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoPages            = errors.New("no HTML pages found")
	ErrInvalidExtension   = errors.New("file must have .html or .htm extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// discoverFiles finds the pages under inputPath and mirrors each one
// under outputDir. An empty outputDir processes pages in place.
// A directory walk skips outputDir when it is nested in inputPath, so
// a second run does not pick up its own output.
func discoverFiles(inputPath, outputDir string) ([]docpost.FileTask, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsHTML(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []docpost.FileTask{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	skipOutput := outputDir != "" &&
		!fileutil.IsWithin(outputDir, inputPath) &&
		fileutil.IsWithin(inputPath, outputDir)

	var tasks []docpost.FileTask
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if skipOutput && fileutil.IsWithin(outputDir, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.IsHTML(path) {
			return nil
		}
		tasks = append(tasks, docpost.FileTask{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath),
		})
		return nil
	})

	return tasks, err
}

// resolveOutputPath determines where a processed page is written.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return inputPath
	}

	// A single page may name its output file directly.
	if baseInputDir == "" && fileutil.IsHTML(outputDir) {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, relPath)
		}
	}

	return filepath.Join(outputDir, filepath.Base(inputPath))
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
