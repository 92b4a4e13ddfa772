// Command exifedit is a thin wrapper over the exifedit library: it wires a
// handful of subcommands onto the public CreateGraph/DumpIfd/FileEditor
// operations. It carries no decoding logic of its own.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/exifkit/exifedit"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: exifedit [flags] <command> <args>

commands:
  dump <kind> <file>          print one IFD (0th|1st|Exif|GPS|Interoperability) as JSON
  remove-exif <in> <out>      strip the Exif APP1 segment
  remove-xmp <in> <out>       strip the Adobe XMP APP1 segment

flags:
`)
	flag.PrintDefaults()
}

func kindFromName(name string) (exifedit.Kind, bool) {
	switch name {
	case "0th":
		return exifedit.ZEROTH, true
	case "1st":
		return exifedit.FIRST, true
	case "Exif":
		return exifedit.EXIF, true
	case "GPS":
		return exifedit.GPS, true
	case "Interoperability":
		return exifedit.INTEROP, true
	default:
		return 0, false
	}
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	cfg := exifedit.Config{}
	if *configPath != "" {
		var err error
		cfg, err = exifedit.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "exifedit:", err)
			os.Exit(1)
		}
	}
	if *verbose || cfg.Verbose {
		exifedit.SetVerbose(true)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "dump":
		if len(args) != 3 {
			usage()
			os.Exit(2)
		}
		runDump(args[1], args[2], cfg.Policy())
	case "remove-exif":
		if len(args) != 3 {
			usage()
			os.Exit(2)
		}
		runStatus(exifedit.RemoveExifSegment(args[1], args[2]))
	case "remove-xmp":
		if len(args) != 3 {
			usage()
			os.Exit(2)
		}
		runStatus(exifedit.RemoveAdobeMetadata(args[1], args[2]))
	default:
		usage()
		os.Exit(2)
	}
}

func runDump(kindName, path string, policy exifedit.UnknownTagPolicy) {
	kind, ok := kindFromName(kindName)
	if !ok {
		fmt.Fprintf(os.Stderr, "exifedit: unknown ifd kind %q\n", kindName)
		os.Exit(2)
	}
	graph, st := exifedit.CreateGraphWithPolicy(path, policy)
	if !st.Ok() {
		fmt.Fprintln(os.Stderr, "exifedit:", st.Error())
		os.Exit(1)
	}
	if graph == nil {
		fmt.Fprintln(os.Stderr, "exifedit: no Exif segment present")
		os.Exit(1)
	}
	out, st := exifedit.DumpIfd(graph, kind)
	if !st.Ok() {
		fmt.Fprintln(os.Stderr, "exifedit:", st.Error())
		os.Exit(1)
	}
	os.Stdout.Write(out)
	fmt.Println()
}

func runStatus(st exifedit.Status) {
	if !st.Ok() {
		fmt.Fprintln(os.Stderr, "exifedit:", st.Error())
		os.Exit(1)
	}
}
