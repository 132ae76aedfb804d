package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrsinham/caseforge/cmd/caseforge/wizard"
	"github.com/mrsinham/caseforge/internal/report"
	"github.com/mrsinham/caseforge/internal/store"
	"github.com/rs/zerolog"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Check for wizard subcommand (before flag.Parse)
	if len(os.Args) > 1 && os.Args[1] == "wizard" {
		dbPath := ""
		for i, arg := range os.Args[2:] {
			if arg == "--db" && i+3 <= len(os.Args)-1 {
				dbPath = os.Args[i+3]
			}
		}
		if err := wizard.Run(dbPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	dbPath := flag.String("db", "clinic.db", "Path to the clinic SQLite database")
	caseID := flag.Uint("case", 0, "Case ID to export (required)")
	patientID := flag.Uint("patient", 0, "Owning patient ID (required)")
	output := flag.String("output", "", "Output PDF path (default: synthesized name in --output-dir)")
	outputDir := flag.String("output-dir", ".", "Directory for the synthesized output name")
	stylePath := flag.String("style", "", "Load report style from YAML file")
	verbose := flag.Bool("verbose", false, "Log export progress")

	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	if *showVersion {
		fmt.Printf("caseforge %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *caseID == 0 {
		fmt.Fprintf(os.Stderr, "Error: --case is required\n")
		printUsage()
		os.Exit(1)
	}
	if *patientID == 0 {
		fmt.Fprintf(os.Stderr, "Error: --patient is required\n")
		printUsage()
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)
	if *verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	style := report.DefaultStyle()
	if *stylePath != "" {
		var err error
		style, err = report.LoadStyle(*stylePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	exporter := report.NewExporter(db, style, log)
	ref := report.CaseRef{CaseID: *caseID, PatientID: *patientID}

	outPath := *output
	if outPath == "" {
		name, err := exporter.DefaultFilename(ctx, ref)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		outPath = filepath.Join(*outputDir, name)
	}

	result, err := exporter.Export(ctx, ref, outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting case: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Export complete!")
	fmt.Printf("  Report: %s\n", result.Path)
	if result.Degraded > 0 {
		fmt.Printf("  Note: %d scan image(s) rendered as placeholders\n", result.Degraded)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  caseforge --case <ID> --patient <ID> [options]")
	fmt.Fprintln(os.Stderr, "  caseforge wizard [--db <PATH>]")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func printHelp() {
	fmt.Println("caseforge")
	fmt.Println("=========")
	fmt.Println()
	fmt.Println("Export a clinical case from the clinic database to a paginated PDF report.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  caseforge --case <ID> --patient <ID> [options]")
	fmt.Println("  caseforge wizard [--db <PATH>]")
	fmt.Println()
	fmt.Println("Required arguments:")
	fmt.Println("  --case <ID>        Case ID to export")
	fmt.Println("  --patient <ID>     Owning patient ID (the pairing is verified)")
	fmt.Println()
	fmt.Println("Optional arguments:")
	fmt.Println("  --db <PATH>        Clinic SQLite database (default: 'clinic.db')")
	fmt.Println("  --output <PATH>    Output PDF path; when omitted the name is")
	fmt.Println("                     synthesized as Case_{op}_{first}_{last}_{date}.pdf")
	fmt.Println("  --output-dir <DIR> Directory for the synthesized name (default: '.')")
	fmt.Println("  --style <PATH>     YAML style file (clinic name, colors, fonts,")
	fmt.Println("                     page break policy)")
	fmt.Println("  --verbose          Log export progress")
	fmt.Println("  --help             Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Export case 12 of patient 3 next to the database")
	fmt.Println("  caseforge --db clinic.db --case 12 --patient 3")
	fmt.Println()
	fmt.Println("  # Export to an explicit path with a custom clinic style")
	fmt.Println("  caseforge --case 12 --patient 3 --output /tmp/report.pdf --style clinic.yaml")
	fmt.Println()
	fmt.Println("  # Pick the case interactively")
	fmt.Println("  caseforge wizard --db clinic.db")
	fmt.Println()
	fmt.Println("Output:")
	fmt.Println("  A single A4 PDF containing patient and case information, complaint,")
	fmt.Println("  history, examination and diagnosis, and (when present) vital signs,")
	fmt.Println("  the treatment plan table, consent state and scan images. A scan")
	fmt.Println("  image whose file is missing or unreadable renders as a placeholder")
	fmt.Println("  block; the export still succeeds and reports the degraded count.")
}
