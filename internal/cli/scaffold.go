package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/covpilot/covpilot/internal/javasrc"
	"github.com/covpilot/covpilot/internal/scaffold"
)

var (
	scaffoldProject string
	scaffoldClass   string
	scaffoldSpec    bool
	scaffoldLimit   int
	scaffoldOutput  string
	scaffoldWrite   bool
	scaffoldDiff    bool
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold <file>",
	Short: "Generate a JUnit 5 test skeleton for a Java source file",
	Long: `Parse a Java source file, pick a class, and emit a JUnit 5 test class
with one stubbed test method per accessible production method.

By default the skeleton is printed to stdout. Use --write to place it
under the configured test source root, or --diff to compare against an
existing test file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := projectConfig(scaffoldProject)
		if err != nil {
			return err
		}

		model, err := javasrc.NewExtractor().ExtractFile(args[0])
		if err != nil {
			return err
		}

		class := scaffoldClass
		if class == "" {
			class = model.PrimaryClass()
		}
		if class == "" {
			return fmt.Errorf("no class declarations in %s", args[0])
		}

		methods := model.MethodsOf(class)

		limit := scaffoldLimit
		if limit == 0 {
			limit = cfg.Scaffold.SpecMethodLimit
		}

		var tpl scaffold.Template
		if scaffoldSpec {
			tpl = scaffold.SpecificationTests(model.Package, class, methods, limit)
		} else {
			tpl = scaffold.Generate(model.Package, class, methods)
		}

		outputDir := scaffoldOutput
		if outputDir == "" {
			outputDir = cfg.Scaffold.OutputDir
		}
		target := testFilePath(scaffoldProject, outputDir, model.Package, tpl.FileName)

		if scaffoldDiff {
			existing, err := os.ReadFile(target)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to read %s: %w", target, err)
			}
			diff, err := renderDiff(string(existing), tpl.Source, target)
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Println(styles.Pass.Render("✓ up to date: " + target))
				return nil
			}
			fmt.Print(diff)
			return nil
		}

		if scaffoldWrite {
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf("refusing to overwrite %s: remove it first or use --diff", target)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create test directory: %w", err)
			}
			if err := os.WriteFile(target, []byte(tpl.Source), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			fmt.Println(styles.Pass.Render("✓ wrote " + target))
			return nil
		}

		fmt.Print(tpl.Source)
		return nil
	},
}

// testFilePath builds the destination path for a generated test file,
// mirroring the package structure under the test source root.
func testFilePath(projectDir, outputDir, pkg, fileName string) string {
	parts := []string{projectDir, outputDir}
	if pkg != "" {
		parts = append(parts, strings.Split(pkg, ".")...)
	}
	parts = append(parts, fileName)
	return filepath.Join(parts...)
}

// renderDiff produces a unified diff between the existing file content and
// the freshly generated source. Empty output means they are identical.
func renderDiff(existing, generated, path string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(existing),
		B:        difflib.SplitLines(generated),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to compute diff: %w", err)
	}
	return text, nil
}

func init() {
	rootCmd.AddCommand(scaffoldCmd)
	scaffoldCmd.Flags().StringVarP(&scaffoldProject, "project", "p", ".", "maven project root")
	scaffoldCmd.Flags().StringVar(&scaffoldClass, "class", "", "class to scaffold (default is the file's primary class)")
	scaffoldCmd.Flags().BoolVar(&scaffoldSpec, "spec", false, "emit given/when/then specification stubs instead of plain stubs")
	scaffoldCmd.Flags().IntVar(&scaffoldLimit, "limit", 0, "max methods in specification mode (default from config)")
	scaffoldCmd.Flags().StringVarP(&scaffoldOutput, "output", "o", "", "test source root (default from config)")
	scaffoldCmd.Flags().BoolVar(&scaffoldWrite, "write", false, "write the skeleton under the test source root")
	scaffoldCmd.Flags().BoolVar(&scaffoldDiff, "diff", false, "diff the skeleton against the existing test file")
}
