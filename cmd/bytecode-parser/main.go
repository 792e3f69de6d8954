// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// moduleVersion is the CLI's self-reported version.
const moduleVersion = "0.1.0"

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "bytecode-parser",
		Short: "A JVM classfile parser and pretty-printer",
		Long:  "bytecode-parser decodes the JVM classfile binary format and renders a source-level approximation of the decoded class.",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the module version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bytecode-parser version %s\n", moduleVersion)
		},
	}

	dumpCmd := newDumpCommand(&verbose)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.AddCommand(versionCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
