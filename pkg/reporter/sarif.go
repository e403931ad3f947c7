package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/afmark/pkg/htmlcheck"
	"github.com/yaklabco/afmark/pkg/runner"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a kind of balance issue.
type SARIFRule struct {
	ID               string               `json:"id"`
	Name             string               `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText `json:"shortDescription,omitempty"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single balance issue.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	version := r.opts.ToolVersion
	if version == "" {
		version = "dev"
	}

	output := &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{
				Driver: SARIFDriver{
					Name:           "afmark",
					Version:        version,
					InformationURI: "https://github.com/yaklabco/afmark",
					Rules:          sarifRules(),
				},
			},
			Results: make([]SARIFResult, 0),
		}},
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		uri := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			output.Runs[0].Results = append(output.Runs[0].Results, SARIFResult{
				RuleID:  ruleRenderFailed,
				Level:   "error",
				Message: SARIFMessage{Text: file.Error.Error()},
				Locations: []SARIFLocation{{
					PhysicalLocation: SARIFPhysicalLocation{
						ArtifactLocation: SARIFArtifactLocation{URI: uri},
						Region:           SARIFRegion{StartLine: 1},
					},
				}},
			})
			continue
		}

		for _, issue := range file.Issues {
			output.Runs[0].Results = append(output.Runs[0].Results, SARIFResult{
				RuleID:  ruleID(issue.Kind),
				Level:   "warning",
				Message: SARIFMessage{Text: issueMessage(issue)},
				Locations: []SARIFLocation{{
					PhysicalLocation: SARIFPhysicalLocation{
						ArtifactLocation: SARIFArtifactLocation{URI: uri},
						Region:           SARIFRegion{StartLine: max(issue.Line, 1)},
					},
				}},
			})
		}
	}

	return output
}

// ruleRenderFailed identifies files that could not be rendered at all.
const ruleRenderFailed = "render-failed"

func sarifRules() []SARIFRule {
	return []SARIFRule{
		{
			ID:               ruleID(htmlcheck.Unclosed),
			Name:             "UnclosedElement",
			ShortDescription: SARIFMultiformatText{Text: "Rendered HTML opens an element that is never closed"},
			DefaultConfig:    &SARIFRuleConfig{Level: "warning"},
		},
		{
			ID:               ruleID(htmlcheck.Unexpected),
			Name:             "UnexpectedEndTag",
			ShortDescription: SARIFMultiformatText{Text: "Rendered HTML closes an element that was never opened"},
			DefaultConfig:    &SARIFRuleConfig{Level: "warning"},
		},
		{
			ID:               ruleRenderFailed,
			Name:             "RenderFailed",
			ShortDescription: SARIFMultiformatText{Text: "The file could not be rendered"},
			DefaultConfig:    &SARIFRuleConfig{Level: "error"},
		},
	}
}
