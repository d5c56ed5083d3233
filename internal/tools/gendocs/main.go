// gendocs writes the markdown reference for the vidctl command tree
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra/doc"
	"github.com/ygelfand/vidctl/cmd"
)

func main() {
	outDir := filepath.Join("docs", "cli")
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	if err := os.RemoveAll(outDir); err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	root := cmd.GetRootCmd()
	root.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(root, outDir); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Generated CLI reference for %d commands in %s\n", len(root.Commands()), outDir)
}
