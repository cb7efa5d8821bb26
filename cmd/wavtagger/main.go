// This command line tool helps the user tag wav files by injecting metadata in
// the file in a safe way.
// All files are copied and stored in the wavtagger folder by the original files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	wav "github.com/cwbudde/wavmux"
)

var (
	flagFileToTag   = flag.String("file", "", "Path to the wave file to tag")
	flagDirToTag    = flag.String("dir", "", "Directory containing all the wav files to tag")
	flagTitleRegexp = flag.String("regexp", "", `submatch regexp to use to set the title dynamically by extracting it from the filename (ignoring the extension), example: 'my_files_\d\d_(.*)'`)
	//
	flagTitle     = flag.String("title", "", "File's title")
	flagArtist    = flag.String("artist", "", "File's artist")
	flagComments  = flag.String("comments", "", "File's comments")
	flagCopyright = flag.String("copyright", "", "File's copyright")
	flagGenre     = flag.String("genre", "", "File's genre")
)

func main() {
	flag.Parse()

	if *flagFileToTag == "" && *flagDirToTag == "" {
		fmt.Println("You need to pass -file or -dir to indicate what file or folder content to tag.")
		os.Exit(1)
	}

	if *flagFileToTag != "" {
		err := tagFile(*flagFileToTag)
		if err != nil {
			fmt.Printf("Something went wrong when tagging %s - error: %v\n", *flagFileToTag, err)
			os.Exit(1)
		}
	}

	if *flagDirToTag != "" {
		var filePath string

		fileInfos, _ := os.ReadDir(*flagDirToTag)
		for _, fi := range fileInfos {
			if strings.HasPrefix(
				strings.ToLower(filepath.Ext(fi.Name())),
				".wav") {
				filePath = filepath.Join(*flagDirToTag, fi.Name())

				err := tagFile(filePath)
				if err != nil {
					fmt.Printf("Something went wrong tagging %s - %v\n", filePath, err)
				}
			}
		}
	}
}

func tagFile(path string) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s - %w", path, err)
	}
	defer in.Close()

	outputDir := filepath.Join(filepath.Dir(path), "wavtagger")

	outPath := filepath.Join(outputDir, filepath.Base(path))
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("couldn't create %s %w", outPath, err)
	}

	defer func() {
		cerr := out.Close()
		if cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	// existing chunks are carried over, the flags only override the tags
	// they set.
	tag := func(m *wav.Muxer, r *wav.Reader) {
		md := r.Metadata()
		if md == nil {
			md = &wav.Metadata{}
		}

		applyTags(md, path)

		m.Metadata = md
		m.SetRawChunks(r.RawChunks())
	}

	if _, err := wav.Remux(out, in, tag); err != nil {
		return fmt.Errorf("failed to tag %s - %w", path, err)
	}

	fmt.Println("Tagged file available at", outPath)

	return nil
}

func applyTags(md *wav.Metadata, path string) {
	if *flagArtist != "" {
		md.Artist = *flagArtist
	}

	if *flagTitleRegexp != "" {
		filename := filepath.Base(path)
		filename = filename[:len(filename)-len(filepath.Ext(path))]
		re := regexp.MustCompile(*flagTitleRegexp)

		matches := re.FindStringSubmatch(filename)
		if len(matches) > 1 {
			md.Title = matches[1]
		} else {
			fmt.Printf("No matches for title regexp %s in %s\n", *flagTitleRegexp, filename)
		}
	}

	if *flagTitle != "" {
		md.Title = *flagTitle
	}

	if *flagComments != "" {
		md.Comments = *flagComments
	}

	if *flagCopyright != "" {
		md.Copyright = *flagCopyright
	}

	if *flagGenre != "" {
		md.Genre = *flagGenre
	}
}
