package mcp

// Implementation Plan:
// 1. analyze_java_code - structural model of one Java source file
// 2. generate_test_template - plain JUnit 5 skeleton for a class
// 3. generate_specification_tests - behavioral stubs that invoke the class
// 4. code_review - static review findings for one Java source file
// The generators never write to disk; they return the rendered source
// plus the conventional path so the client decides where it lands.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/covpilot/covpilot/internal/javasrc"
	mcputils "github.com/covpilot/covpilot/internal/mcp-utils"
	"github.com/covpilot/covpilot/internal/scaffold"
)

// AddAnalyzeJavaTool registers the analyze_java_code tool with an MCP server.
func AddAnalyzeJavaTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"analyze_java_code",
		mcp.WithDescription("Extract the structure of a Java source file: package, declared types, and every method and constructor with parameters, return type, visibility, and line number. Files with syntax errors are analyzed as far as the parse tree allows."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Java source file, absolute or relative to the project root")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, instrument(deps.Metrics, "analyze_java_code", createAnalyzeJavaHandler(deps)))
}

// createAnalyzeJavaHandler creates the handler function for analyze_java_code.
func createAnalyzeJavaHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		filePath, err := resolveFileArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		model, err := deps.Extractor.ExtractFile(filePath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to analyze %s: %v", filePath, err)), nil
		}

		response := &SourceAnalysis{
			FilePath:    filePath,
			MethodCount: len(model.Methods),
			SourceModel: *model,
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddTestTemplateTool registers the generate_test_template tool with an MCP server.
func AddTestTemplateTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"generate_test_template",
		mcp.WithDescription("Render a compilable JUnit 5 test skeleton for a Java class: one placeholder @Test stub per method, overloads disambiguated by ordinal suffix. Pass either file_path to analyze fresh, or the methods array from a prior analyze_java_code result to skip the re-parse. Nothing is written to disk; the response carries the source and a suggested path under the test source root."),
		mcp.WithString("file_path",
			mcp.Description("Java source file to analyze and generate the skeleton for")),
		mcp.WithString("class_name",
			mcp.Description("Class to target; defaults to the file's first declared type, or the class of the supplied methods")),
		mcp.WithString("package",
			mcp.Description("Java package of the class when methods are supplied directly")),
		mcp.WithArray("methods",
			mcp.Description("Method descriptors from a prior analyze_java_code call, to generate without re-reading the file")),
	)

	s.AddTool(tool, instrument(deps.Metrics, "generate_test_template", createTestTemplateHandler(deps)))
}

// templateArgs is the wire shape of generate_test_template. Agent clients
// sometimes stringify the methods array; the coercion layer unwinds that.
type templateArgs struct {
	FilePath  string                     `json:"file_path"`
	ClassName string                     `json:"class_name"`
	Package   string                     `json:"package"`
	Methods   []javasrc.MethodDescriptor `json:"methods"`
}

// createTestTemplateHandler creates the handler function for generate_test_template.
func createTestTemplateHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, err := toolArgs(request); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var args templateArgs
		if err := mcputils.CoerceBindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		// Methods handed back from an earlier analyze call skip the re-parse.
		if len(args.Methods) > 0 {
			class := args.ClassName
			if class == "" {
				class = args.Methods[0].Class
			}
			if class == "" {
				return mcp.NewToolResultError("class_name is required when the supplied methods carry no class"), nil
			}
			tmpl := scaffold.Generate(args.Package, class, args.Methods)
			return marshalTemplate(deps, args.Package, tmpl)
		}

		if args.FilePath == "" {
			return mcp.NewToolResultError("file_path is required when no methods are supplied"), nil
		}

		model, class, errResult := extractTargetClass(deps, request)
		if errResult != nil {
			return errResult, nil
		}

		tmpl := scaffold.Generate(model.Package, class, model.MethodsOf(class))
		return marshalTemplate(deps, model.Package, tmpl)
	}
}

// AddSpecificationTestsTool registers the generate_specification_tests tool with an MCP server.
func AddSpecificationTestsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"generate_specification_tests",
		mcp.WithDescription("Render JUnit 5 specification stubs that instantiate the class and invoke its public methods with zero values, so running them exercises real code paths. Constructors and private methods are skipped and overloads collapse to one stub per method name. Nothing is written to disk."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Java source file to generate specification stubs for")),
		mcp.WithString("class_name",
			mcp.Description("Class to target when the file declares several (default: the first declared type)")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of methods to stub, 1-25 (default: from config, 5)")),
	)

	s.AddTool(tool, instrument(deps.Metrics, "generate_specification_tests", createSpecificationTestsHandler(deps)))
}

// createSpecificationTestsHandler creates the handler function for generate_specification_tests.
func createSpecificationTestsHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := parseClampedInt(argsMap, "limit", deps.Config.Scaffold.SpecMethodLimit, 1, 25)

		model, class, errResult := extractTargetClass(deps, request)
		if errResult != nil {
			return errResult, nil
		}

		tmpl := scaffold.SpecificationTests(model.Package, class, model.MethodsOf(class), limit)
		return marshalTemplate(deps, model.Package, tmpl)
	}
}

// AddCodeReviewTool registers the code_review tool with an MCP server.
func AddCodeReviewTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"code_review",
		mcp.WithDescription("Run a static review over one Java source file and report findings grouped into security, quality, documentation, and maintainability categories. Each finding names the rule, the line, and a suggested fix."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Java source file to review")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, instrument(deps.Metrics, "code_review", createCodeReviewHandler(deps)))
}

// createCodeReviewHandler creates the handler function for code_review.
func createCodeReviewHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		filePath, err := resolveFileArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		source, err := os.ReadFile(filePath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", filePath, err)), nil
		}

		report := deps.Scanner.Scan(filePath, source)

		jsonData, err := json.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// extractTargetClass parses the shared file_path/class arguments of the
// two generator tools and returns the source model plus the class to
// target. A non-nil result is a ready-to-return tool error.
func extractTargetClass(deps *Deps, request mcp.CallToolRequest) (*javasrc.SourceModel, string, *mcp.CallToolResult) {
	argsMap, err := toolArgs(request)
	if err != nil {
		return nil, "", mcp.NewToolResultError(err.Error())
	}

	filePath, err := resolveFileArg(deps, argsMap)
	if err != nil {
		return nil, "", mcp.NewToolResultError(err.Error())
	}

	model, err := deps.Extractor.ExtractFile(filePath)
	if err != nil {
		return nil, "", mcp.NewToolResultError(fmt.Sprintf("failed to analyze %s: %v", filePath, err))
	}

	class, err := parseStringArg(argsMap, "class_name", false)
	if err != nil {
		return nil, "", mcp.NewToolResultError(err.Error())
	}
	if class == "" {
		class = model.PrimaryClass()
	}
	if class == "" {
		return nil, "", mcp.NewToolResultError(fmt.Sprintf("%s declares no types to generate tests for", filePath))
	}
	if !declaredIn(model, class) {
		return nil, "", mcp.NewToolResultError(fmt.Sprintf("class %s is not declared in %s (declared: %s)", class, filePath, strings.Join(model.Classes, ", ")))
	}

	return model, class, nil
}

// declaredIn reports whether the model declares the named type.
func declaredIn(model *javasrc.SourceModel, class string) bool {
	for _, c := range model.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// marshalTemplate wraps a rendered template in the common response shape.
func marshalTemplate(deps *Deps, pkg string, tmpl scaffold.Template) (*mcp.CallToolResult, error) {
	response := &RenderedTemplate{
		Package:       pkg,
		SuggestedPath: suggestedTestPath(deps.Config.Scaffold.OutputDir, pkg, tmpl.FileName),
		Template:      tmpl,
	}

	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// suggestedTestPath is the conventional project-relative location for a
// rendered test class: <output_dir>/<package as dirs>/<file>.
func suggestedTestPath(outputDir, pkg, fileName string) string {
	pkgPath := strings.ReplaceAll(pkg, ".", "/")
	return path.Join(outputDir, pkgPath, fileName)
}
