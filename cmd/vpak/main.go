// Command vpak builds and inspects vesper pack asset archives.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/vesper-engine/vesper/engine/filesystem"
)

func init() {
	u, err := user.Current()
	if err != nil {
		currentUserName = "unknown"
		return
	}
	currentUserName = u.Name
}

var (
	currentUserName string
	author          = flag.String("author", currentUserName, "Set the author of the pack")
	version         = flag.Int64("version", 1, "Pack version number to create it with")
	list            = flag.String("l", "", "List the entries of the given pack")
	compress        = flag.String("c", "", "Pack the given folder")
	dstFile         = flag.String("f", "out.vpak", "Destination file")
)

func main() {
	var opMade bool
	flag.Parse()

	if *list != "" && *compress != "" {
		panic(errors.New("only one operation at a time"))
	}

	if *list != "" {
		opMade = true
		if err := listEntries(); err != nil {
			panic(err)
		}
	}

	if *compress != "" {
		opMade = true
		if err := packFiles(); err != nil {
			panic(err)
		}
	}

	if !opMade {
		flag.PrintDefaults()
	}
}

func listEntries() error {
	f, err := os.Open(*list)
	if err != nil {
		return err
	}
	defer f.Close()

	archive, err := filesystem.OpenArchive(f)
	if err != nil {
		return err
	}
	for _, name := range archive.Entries() {
		fmt.Println(name)
	}
	return nil
}

func packFiles() error {
	if _, err := os.Stat(*dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	builder := filesystem.NewPackBuilder(*author, *version)
	root := filepath.Clean(*compress)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		// Entries are stored relative to the packed folder.
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return builder.Add(rel, data)
	})
	if err != nil {
		return err
	}

	dst, err := os.Create(*dstFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	written, err := builder.WriteTo(dst)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", *dstFile, written)
	return nil
}
