package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"bilan/internal/cli"
	"bilan/internal/core"
	"bilan/internal/export"
	"bilan/internal/loader"
)

const (
	summaryExportPath   = "summary.csv"
	breakdownExportPath = "category_breakdown.csv"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	csvPath := flag.String("csv", "", "path to accounts CSV")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	path := *csvPath
	if path == "" {
		files, err := listCSVFiles(".")
		if err != nil || len(files) == 0 {
			fmt.Println("No CSV files found in the current directory.")
			os.Exit(1)
		}
		path = chooseFile(reader, files)
	}

	fmt.Printf("\nSelected file: %s\n", path)

	doFilter := askYesNo(reader, "\nDo you want to exclude atypical periods (negative savings or deviation)? (y/n): ")
	showBreakdown := askYesNo(reader, "\nDo you want to see the category breakdown? (y/n): ")
	doExport := askYesNo(reader, "\nDo you want to export the filtered summary and category breakdown to CSV? (y/n): ")

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open %s: %v\n", path, err)
		os.Exit(1)
	}
	txns, err := loader.Load(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not parse CSV: %v\n", err)
		os.Exit(1)
	}

	policy, err := cfg.Policy()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid budget policy: %v\n", err)
		os.Exit(1)
	}
	rules := core.DefaultRules()

	grouper := core.NewSalaryCycleGrouper(txns, policy.SalaryCategory)
	summaries, err := core.ComputeMonthlySummary(txns, grouper, policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	presenter := export.NewStdoutPresenter(os.Stdout)
	presenter.PresentMonthlySummary(summaries)

	active := summaries
	if doFilter {
		filtered := core.FilterAtypicalPeriods(summaries)
		active = filtered.Filtered
		presenter.PresentFilteredSummary(filtered)
	}

	aggregates := core.ComputeAggregates(active)
	presenter.PresentAggregates(aggregates, policy.RefTheoreticalSalary)

	var breakdown []core.CategoryBreakdown
	if showBreakdown {
		breakdown, err = core.ComputeEnhancedBreakdown(txns, policy, rules)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Breakdown failed: %v\n", err)
			os.Exit(1)
		}
		presenter.PresentCategoryBreakdown(breakdown)
	}

	if doExport {
		exporter := export.NewCSVExporter()
		if err := exporter.ExportSummary(summaryExportPath, active); err != nil {
			fmt.Fprintf(os.Stderr, "Summary export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nSummary exported to %s\n", summaryExportPath)
		if breakdown != nil {
			if err := exporter.ExportBreakdown(breakdownExportPath, breakdown); err != nil {
				fmt.Fprintf(os.Stderr, "Breakdown export failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Breakdown exported to %s\n", breakdownExportPath)
		}
	}
}

// listCSVFiles returns the CSV files directly under dir, sorted by name.
func listCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func chooseFile(reader *bufio.Reader, files []string) string {
	fmt.Println("Available CSV files:")
	for i, f := range files {
		fmt.Printf("%d - %s\n", i+1, f)
	}
	for {
		fmt.Print("Enter the number of the file to use: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nNo selection made.")
			os.Exit(1)
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("Please enter a valid number.")
			continue
		}
		if choice < 1 || choice > len(files) {
			fmt.Println("Invalid number, please try again.")
			continue
		}
		return files[choice-1]
	}
}

func askYesNo(reader *bufio.Reader, prompt string) bool {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(line)) == "y"
}
