// Command generate-tools-doc extracts the tools an OpenAPI document would
// produce and writes a markdown reference, without starting a server. Useful
// for reviewing what a document exposes before wiring it to a client.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/rhobs/openapi-mcp/pkg/convert"
	"github.com/rhobs/openapi-mcp/pkg/openapi"
)

func main() {
	var specLocation = flag.String("spec", "", "OpenAPI document location: a file path or an http(s) URL")
	var output = flag.String("out", "TOOLS.md", "Output file, or - for stdout")
	flag.Parse()

	if *specLocation == "" {
		log.Fatal("No OpenAPI document given: set -spec")
	}

	doc, err := openapi.Load(context.Background(), *specLocation)
	if err != nil {
		log.Fatalf("Failed to load OpenAPI document: %v", err)
	}

	tools := convert.ExtractTools(doc, nil)
	markdown := generateMarkdown(tools, *specLocation)

	if *output == "-" {
		fmt.Print(markdown)
		return
	}
	if err := os.WriteFile(*output, []byte(markdown), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	fmt.Printf("Documented %d tools in %s\n", len(tools), *output)
}

type fieldInfo struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// formatTable generates a formatted markdown table with aligned columns
func formatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 || len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder

	sb.WriteString("|")
	for i, h := range headers {
		sb.WriteString(fmt.Sprintf(" %-*s |", widths[i], h))
	}
	sb.WriteString("\n")

	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(fmt.Sprintf(" :%s |", strings.Repeat("-", w-1)))
	}
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString("|")
		for i, cell := range row {
			if i < len(widths) {
				sb.WriteString(fmt.Sprintf(" %-*s |", widths[i], cell))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func extractParams(schema map[string]any) []fieldInfo {
	requiredSet := make(map[string]bool)
	if required, ok := schema["required"].([]string); ok {
		for _, r := range required {
			requiredSet[r] = true
		}
	}

	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return nil
	}

	var params []fieldInfo
	for name, prop := range properties {
		p := fieldInfo{
			Name:     name,
			Required: requiredSet[name],
		}
		if propMap, ok := prop.(map[string]any); ok {
			p.Type = typeLabel(propMap["type"])
			if d, ok := propMap["description"].(string); ok {
				p.Description = d
			}
		}
		params = append(params, p)
	}

	sort.Slice(params, func(i, j int) bool {
		if params[i].Required != params[j].Required {
			return params[i].Required
		}
		return params[i].Name < params[j].Name
	})

	return params
}

// typeLabel renders a schema type, which is a string or a union of strings.
func typeLabel(t any) string {
	switch v := t.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " | ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " | ")
	default:
		return ""
	}
}

func securityLabel(tool *convert.ToolDescriptor) string {
	if len(tool.SecurityRequirements) == 0 {
		return "None"
	}
	var schemes []string
	for _, requirement := range tool.SecurityRequirements {
		for name := range requirement {
			schemes = append(schemes, name)
		}
	}
	sort.Strings(schemes)
	return strings.Join(schemes, ", ")
}

func generateMarkdown(tools []convert.ToolDescriptor, source string) string {
	var sb strings.Builder

	sb.WriteString("<!-- This file is auto-generated. Do not edit manually. -->\n\n")
	sb.WriteString("# Available Tools\n\n")
	sb.WriteString(fmt.Sprintf("Tools extracted from `%s`:\n\n", source))

	for i := range tools {
		tool := &tools[i]
		sb.WriteString(fmt.Sprintf("## `%s`\n\n", tool.Name))
		sb.WriteString(fmt.Sprintf("`%s %s`\n\n", tool.Method, tool.PathTemplate))
		sb.WriteString(fmt.Sprintf("> %s\n\n", strings.TrimSpace(tool.Description)))

		params := extractParams(tool.InputSchema)
		if len(params) == 0 {
			sb.WriteString("**Parameters:** None\n\n")
		} else {
			sb.WriteString("**Parameters:**\n\n")
			var rows [][]string
			for _, p := range params {
				req := ""
				if p.Required {
					req = "yes"
				}
				rows = append(rows, []string{
					fmt.Sprintf("`%s`", p.Name),
					fmt.Sprintf("`%s`", p.Type),
					req,
					p.Description,
				})
			}
			sb.WriteString(formatTable(
				[]string{"Parameter", "Type", "Required", "Description"},
				rows,
			))
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("**Security:** %s\n\n", securityLabel(tool)))

		if i < len(tools)-1 {
			sb.WriteString("---\n\n")
		}
	}

	return sb.String()
}
