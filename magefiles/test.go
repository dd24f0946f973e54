//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const coverProfile = "coverage.out"

// Test groups test targets (all, unit, cover, smoke).
type Test mg.Namespace

// All runs every package's tests with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Unit runs the tests in short mode.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Cover runs the tests with a coverage profile and prints the per-function
// summary.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}

// Smoke builds the binary and drives it through a short session against
// throwaway config and data directories, with a SQLite remote.
func (Test) Smoke() error {
	mg.Deps(Build)

	tmp, err := os.MkdirTemp("", "habitlog-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	bin, err := filepath.Abs(filepath.Join(binaryDir, binaryName))
	if err != nil {
		return err
	}
	env := map[string]string{
		"HABITLOG_CONFIG_DIR":     filepath.Join(tmp, "config"),
		"HABITLOG_DATA_DIR":       filepath.Join(tmp, "data"),
		"HABITLOG_REMOTE_BACKEND": "sqlite",
		"HABITLOG_REMOTE_DSN":     filepath.Join(tmp, "remote.db"),
	}

	steps := [][]string{
		{"init"},
		{"habit", "add", "Stretch", "--category", "Fitness"},
		{"done", "Stretch", "--mode", "5"},
		{"problem", "add", "Two Sum", "--difficulty", "Easy"},
		{"problem", "done", "1"},
		{"note", "set", "smoke test"},
		{"status"},
		{"report", "--days", "7"},
	}
	for _, args := range steps {
		fmt.Printf("habitlog %s\n", strings.Join(args, " "))
		if err := sh.RunWithV(env, bin, args...); err != nil {
			return fmt.Errorf("habitlog %s: %w", strings.Join(args, " "), err)
		}
	}
	return nil
}
