package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stackbackhq/stackback/pkg/dialect"
	"github.com/stackbackhq/stackback/pkg/stack"
)

// InspectOptions holds options for the inspect command
type InspectOptions struct {
	Verbose bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <stackfile|->",
		Short: "Show how each stack line classifies",
		Long: `Show how each line of a stack trace classifies and parses.

Every line is labeled as a frame or a message, and frames show the
fields the parser pulled out (function, file, line, column). Use this
to understand why a stack normalizes the way it does, or why a line
you expected to be a frame is being treated as message text.

Example:
  stackback inspect error-stack.txt
  cat error-stack.txt | stackback inspect -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show alternative dialect matches")

	return cmd
}

func runInspect(source string, opts *InspectOptions) error {
	data, err := readInput(source)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	text := string(data)

	fmt.Println("=== Stack Inspection ===")
	fmt.Println()
	fmt.Printf("File: %s\n", source)
	fmt.Println()

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	frames := 0
	messages := 0
	blanks := 0

	for i, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			blanks++
			fmt.Printf("%3d  blank\n", i+1)
		case stack.IsFrameLine(line):
			frames++
			f, _ := stack.ParseFrameLine(line)
			fmt.Printf("%3d  frame    %s @ %s:%d:%d\n", i+1, f.Function, f.File, f.Line, f.Column)
		default:
			messages++
			fmt.Printf("%3d  message  %s\n", i+1, strings.TrimSpace(line))
		}
	}

	fmt.Println()
	fmt.Println("---")
	fmt.Printf("Summary: %d lines, %d frames, %d message, %d blank\n", len(lines), frames, messages, blanks)

	if frames == 0 {
		fmt.Println()
		fmt.Println("No frame lines recognized. Frames look like one of:")
		fmt.Println("  at fn (file:line:col)    Chrome, Edge, Node.js")
		fmt.Println("  fn@file:line:col         Firefox, Safari")
		return nil
	}

	// Dialect hint
	result := dialect.New().DetectFromStack(text)
	if result.HasMatch() {
		best := result.BestMatch()
		fmt.Println()
		fmt.Printf("Dialect: %s (%s), %.1f%% confidence\n",
			best.Format.Name, best.Format.Engine, best.Confidence*100)

		if opts.Verbose && len(result.Matches) > 1 {
			for _, m := range result.Matches[1:] {
				fmt.Printf("         %s (%s), %.1f%% confidence\n",
					m.Format.Name, m.Format.Engine, m.Confidence*100)
			}
		}
	}

	return nil
}
