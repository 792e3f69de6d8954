// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/spf13/cobra"

	classfile "github.com/Duckulus/bytecode-parser"
	internallog "github.com/Duckulus/bytecode-parser/internal/log"
	"github.com/Duckulus/bytecode-parser/render"
)

func newDumpCommand(verbose *bool) *cobra.Command {
	var (
		asJSON         bool
		recursive      bool
		maxPoolEntries uint32
		skipCode       bool
	)

	cmd := &cobra.Command{
		Use:   "dump <path>",
		Short: "Decode and pretty-print one classfile, or every classfile under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &classfile.Options{
				MaxConstantPoolEntries: maxPoolEntries,
				SkipCodeAttributes:     skipCode,
				Logger:                 loggerFor(*verbose),
			}

			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return dumpFile(path, opts, asJSON)
			}
			return dumpDirectory(path, opts, asJSON, recursive)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit decoded output as indented JSON")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "walk subdirectories when the path is a directory")
	cmd.Flags().Uint32Var(&maxPoolEntries, "max-pool-entries", 0, "maximum constant pool entries to accept (0 = default)")
	cmd.Flags().BoolVar(&skipCode, "skip-code", false, "skip decoding Code attribute bodies")

	return cmd
}

func loggerFor(verbose bool) internallog.Logger {
	level := internallog.LevelWarn
	if verbose {
		level = internallog.LevelDebug
	}
	return internallog.NewFilter(internallog.NewStdLogger(os.Stderr), internallog.FilterLevel(level))
}

func dumpFile(path string, opts *classfile.Options, asJSON bool) error {
	out, err := renderFile(path, opts, asJSON)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// renderFile decodes path and returns its rendered form without printing,
// so directory-mode workers can decode concurrently and only serialize on
// the final print.
func renderFile(path string, opts *classfile.Options, asJSON bool) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return "", err
	}
	defer data.Unmap()

	cf, err := classfile.ParseBytes(data, opts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if asJSON {
		return prettyJSON(cf), nil
	}
	return render.Class(cf), nil
}

func prettyJSON(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<json marshal error: %v>", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// dumpDirectory decodes every classfile under path, dispatching the work
// across a small worker pool since each file's decode is independent.
func dumpDirectory(path string, opts *classfile.Options, asJSON, recursive bool) error {
	paths, err := collectClassfiles(path, recursive)
	if err != nil {
		return err
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				out, err := renderFile(p, opts, asJSON)
				mu.Lock()
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
				} else {
					fmt.Println(out)
				}
				mu.Unlock()
			}
		}()
	}

	for _, p := range paths {
		jobs <- p
	}
	close(jobs)
	wg.Wait()
	return nil
}

func collectClassfiles(root string, recursive bool) ([]string, error) {
	var paths []string

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".class" {
				paths = append(paths, filepath.Join(root, e.Name()))
			}
		}
		return paths, nil
	}

	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(p) == ".class" {
			paths = append(paths, p)
		}
		return nil
	})
	return paths, err
}
