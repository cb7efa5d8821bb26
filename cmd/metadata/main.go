// This tool prints the stream layout and the metadata of the passed wav file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	wav "github.com/cwbudde/wavmux"
)

const missingPathMessage = "You must pass the path of the file to inspect"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	r := wav.NewReader(file)

	stream, err := r.ReadHeaders()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	start, end := r.Demuxer().DataRange()

	fmt.Fprintf(out, "Stream: %s\n", stream)
	fmt.Fprintf(out, "Format: %s\n", stream.Fmt)
	fmt.Fprintf(out, "Data: [%d, %d)\n", start, end)

	for _, chunk := range r.RawChunks() {
		fmt.Fprintf(out, "Chunk: %q, %d bytes\n", chunk.ID[:], chunk.Size)
	}

	md := r.Metadata()
	if md == nil {
		fmt.Fprintln(out, "No metadata present")
		return nil
	}

	fmt.Fprintf(out, "Artist: %s\n", md.Artist)
	fmt.Fprintf(out, "Title: %s\n", md.Title)
	fmt.Fprintf(out, "Comments: %s\n", md.Comments)
	fmt.Fprintf(out, "Copyright: %s\n", md.Copyright)
	fmt.Fprintf(out, "CreationDate: %s\n", md.CreationDate)
	fmt.Fprintf(out, "Engineer: %s\n", md.Engineer)
	fmt.Fprintf(out, "Technician: %s\n", md.Technician)
	fmt.Fprintf(out, "Genre: %s\n", md.Genre)
	fmt.Fprintf(out, "Keywords: %s\n", md.Keywords)
	fmt.Fprintf(out, "Medium: %s\n", md.Medium)
	fmt.Fprintf(out, "Product: %s\n", md.Product)
	fmt.Fprintf(out, "Subject: %s\n", md.Subject)
	fmt.Fprintf(out, "Software: %s\n", md.Software)
	fmt.Fprintf(out, "Source: %s\n", md.Source)
	fmt.Fprintf(out, "Location: %s\n", md.Location)
	fmt.Fprintf(out, "TrackNbr: %s\n", md.TrackNbr)

	if bext := md.BroadcastExtension; bext != nil {
		fmt.Fprintln(out, "Broadcast Extension:")
		fmt.Fprintf(out, "\tDescription: %s\n", bext.Description)
		fmt.Fprintf(out, "\tOriginator: %s\n", bext.Originator)
		fmt.Fprintf(out, "\tOriginationDate: %s %s\n", bext.OriginationDate, bext.OriginationTime)
		fmt.Fprintf(out, "\tTimeReference: %d\n", bext.TimeReference)
		fmt.Fprintf(out, "\tCodingHistory: %s\n", bext.CodingHistory)
	}

	return nil
}
