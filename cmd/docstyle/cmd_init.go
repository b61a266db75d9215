package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docstyle/internal/config"
)

// starterConfig is written by `docstyle init`. It mirrors the built-in
// defaults so editing it is discoverable.
const starterConfig = `# docstyle configuration
check:
  concurrency: 8
  fail_on: error        # error, warning, or info
  format: text          # text, json, or markdown
  use_baseline: true
  skip_tests: false
  exclude:
    - vendor
    - node_modules
    - target
    - build
    - dist

guide:
  header:
    required: false
    fields: []          # e.g. ["@file", "Copyright"]
  docs:
    require_exported: true
    third_person: true
    leading_name: true
    end_punctuation: true
  tags:
    languages: [java]
    require_param: true
    require_return: true
  separators:
    fill: "="
    width: 77
    min_run: 4
  limits:
    max_line_length: 100  # 0 disables the check
  rules: {}             # per-rule overrides, e.g. {doc/first-word: {severity: warning}}

logging:
  debug_mode: false
  level: info
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .docstyle.yaml to the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(workspace, config.ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := os.WriteFile(path, []byte(starterConfig), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
