package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	json "github.com/json-iterator/go"
	"github.com/penfolio/penfolio-cli/pkg/config"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

// Out is where everything is written. Tests swap it for a buffer.
var Out io.Writer = color.Output

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "yaml":
		return FormatYAML
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	switch OutputFormat(format) {
	case FormatJSON, FormatYAML, FormatTable, FormatText:
		return true
	}
	return false
}

// Structured reports whether the active format is machine readable. Services
// skip decorative text when it is.
func Structured() bool {
	f := GetOutputFormat()
	return f == FormatJSON || f == FormatYAML
}

// Print outputs data in the configured format. Text and table formats
// render it as indented JSON under the title.
func Print(title string, data interface{}) error {
	switch GetOutputFormat() {
	case FormatJSON:
		return writeJSON(data)
	case FormatYAML:
		return writeYAML(data)
	default:
		if title != "" {
			fmt.Fprintf(Out, "%s:\n", title)
		}
		return writeJSON(data)
	}
}

// PrintList outputs rows. JSON and YAML encode items; table and text
// render rows under columns.
func PrintList(title string, items interface{}, columns []string, rows [][]string) error {
	switch GetOutputFormat() {
	case FormatJSON:
		return writeJSON(items)
	case FormatYAML:
		return writeYAML(items)
	case FormatTable:
		printTable(columns, rows)
		return nil
	default:
		if title != "" {
			color.New(color.Bold).Fprintln(Out, title)
		}
		printTable(columns, rows)
		return nil
	}
}

// PrintRecord outputs a single record in the configured format. Keys are
// printed in sorted order.
func PrintRecord(title string, record map[string]interface{}) error {
	switch GetOutputFormat() {
	case FormatJSON:
		return writeJSON(record)
	case FormatYAML:
		return writeYAML(record)
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if GetOutputFormat() == FormatTable {
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, fmt.Sprintf("%v", record[k])})
		}
		printTable([]string{"Field", "Value"}, rows)
		return nil
	}

	if title != "" {
		fmt.Fprintf(Out, "%s:\n", title)
	}
	bold := color.New(color.Bold)
	for _, k := range keys {
		bold.Fprint(Out, k+": ")
		fmt.Fprintf(Out, "%v\n", record[k])
	}
	return nil
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(Out, msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(Out, "Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(Out, msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(Out, "Warning: "+msg+"\n", args...)
}

// Println writes a plain line.
func Println(args ...interface{}) {
	fmt.Fprintln(Out, args...)
}

// Printf writes plain formatted text.
func Printf(format string, args ...interface{}) {
	fmt.Fprintf(Out, format, args...)
}

func writeJSON(data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(Out, string(b))
	return err
}

func writeYAML(data interface{}) error {
	enc := yaml.NewEncoder(Out)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}

// FormatAsJSON converts data to a compact JSON string
func FormatAsJSON(data interface{}) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
