package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/nlacforge/promptimprove/pkg/domainerr"
)

// Repository loads raw catalog records from a pluggable source. It is
// pure I/O — no domain transformation happens here, matching spec.md
// §4.1; skipping invalid records and building Exemplars is the job of
// catalog.Load.
type Repository interface {
	// LoadCatalog returns the raw, unvalidated exemplar records as a
	// Result, failing with a domainerr.DomainError tagged FILE_IO or
	// DATA_CORRUPTION.
	LoadCatalog() domainerr.Result[[]RawExemplar]
}

// RawExemplar mirrors the on-disk JSON shape before validation: an
// "inputs" object, an "outputs" object, and optional metadata.
type RawExemplar struct {
	Inputs   rawInputs      `json:"inputs"`
	Outputs  rawOutputs     `json:"outputs"`
	Metadata map[string]any `json:"metadata"`
}

type rawInputs struct {
	OriginalIdea string `json:"original_idea"`
	Context      string `json:"context"`
}

type rawOutputs struct {
	ImprovedPrompt string   `json:"improved_prompt"`
	Role           string   `json:"role"`
	Directive      string   `json:"directive"`
	Framework      string   `json:"framework"`
	Guardrails     []string `json:"guardrails"`
	ExpectedOutput *string  `json:"expected_output"`
}

// wrappedCatalog is the `{"examples": [...]}` on-disk shape.
type wrappedCatalog struct {
	Examples []RawExemplar `json:"examples"`
}

// FileSystemRepository loads the catalog artifact from a local JSON
// file, accepting either the wrapped or bare-list format (spec.md §4.1,
// §6).
type FileSystemRepository struct {
	Path string
}

// NewFileSystemRepository creates a repository rooted at path.
func NewFileSystemRepository(path string) *FileSystemRepository {
	return &FileSystemRepository{Path: path}
}

func (r *FileSystemRepository) LoadCatalog() domainerr.Result[[]RawExemplar] {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domainerr.Failure[[]RawExemplar](domainerr.New(domainerr.CategoryFileIO,
				fmt.Sprintf("catalog not found at %s", r.Path),
				domainerr.FileNotFound,
				map[string]string{"path": r.Path}))
		}
		return domainerr.Failure[[]RawExemplar](domainerr.New(domainerr.CategoryFileIO,
			fmt.Sprintf("failed to read catalog at %s: %v", r.Path, err),
			domainerr.FileReadFailed,
			map[string]string{"path": r.Path}))
	}

	if !isValidUTF8(data) {
		pos := firstInvalidUTF8Offset(data)
		return domainerr.Failure[[]RawExemplar](domainerr.New(domainerr.CategoryDataCorruption,
			fmt.Sprintf("failed to decode catalog at %s: invalid encoding at position %d", r.Path, pos),
			domainerr.FileUnicodeError,
			map[string]string{"path": r.Path}))
	}

	var wrapped wrappedCatalog
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Examples != nil {
		return domainerr.Success(wrapped.Examples, nil)
	}

	var bare []RawExemplar
	if err := json.Unmarshal(data, &bare); err == nil {
		return domainerr.Success(bare, nil)
	}

	// Neither shape parsed: report precise line/column like the
	// original Python repository does.
	var syn *json.SyntaxError
	var raw any
	err = json.Unmarshal(data, &raw)
	if errors.As(err, &syn) {
		line, col := lineColFromOffset(data, syn.Offset)
		return domainerr.Failure[[]RawExemplar](domainerr.New(domainerr.CategoryDataCorruption,
			fmt.Sprintf("failed to parse JSON from catalog at %s: line %d, column %d: %v", r.Path, line, col, syn),
			domainerr.DataCorruptionCatalog,
			map[string]string{"path": r.Path}))
	}

	return domainerr.Failure[[]RawExemplar](domainerr.New(domainerr.CategoryDataCorruption,
		fmt.Sprintf("invalid catalog format at %s: expected {\"examples\":[...]} or a bare array", r.Path),
		domainerr.DataCorruptionCatalog,
		map[string]string{"path": r.Path}))
}

// NewRawExemplar builds a RawExemplar from its fields, for callers
// (tests, in-process seeders) that have catalog data as Go values
// rather than a JSON document.
func NewRawExemplar(idea, context, improvedPrompt, role, directive, framework string, guardrails []string, expectedOutput *string, metadata map[string]any) RawExemplar {
	return RawExemplar{
		Inputs:   rawInputs{OriginalIdea: idea, Context: context},
		Outputs: rawOutputs{
			ImprovedPrompt: improvedPrompt,
			Role:           role,
			Directive:      directive,
			Framework:      framework,
			Guardrails:     guardrails,
			ExpectedOutput: expectedOutput,
		},
		Metadata: metadata,
	}
}

// StaticRepository wraps a pre-loaded slice of raw records, used in
// tests and anywhere a caller already has catalog data in memory.
type StaticRepository struct {
	Records []RawExemplar
}

func (r *StaticRepository) LoadCatalog() domainerr.Result[[]RawExemplar] {
	return domainerr.Success(r.Records, nil)
}

func isValidUTF8(b []byte) bool {
	return json.Valid(b) || utf8Valid(b)
}

func utf8Valid(b []byte) bool {
	return !strings.ContainsRune(string(b), '�')
}

func firstInvalidUTF8Offset(b []byte) int {
	for i, r := range string(b) {
		if r == '�' {
			return i
		}
	}
	return 0
}

func lineColFromOffset(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Load reads raw records from repo, converts them into validated
// Exemplars, and applies the skip-rate policy from spec.md §4.3:
//   - < 5% invalid: warn
//   - 5% <= skip < 20%: log at ERROR as a quality-degradation signal and
//     surface it as a "catalog_quality_degraded" flag on the returned
//     Result, per spec.md's degradation-flag propagation (§3, §9)
//   - >= 20% (or all/zero valid): fail with DATA_CORRUPTION
func Load(repo Repository) domainerr.Result[Catalog] {
	loaded := repo.LoadCatalog()
	records, ok := loaded.Value()
	if !ok {
		derr, _ := loaded.Error()
		return domainerr.Failure[Catalog](derr)
	}

	exemplars := make([]Exemplar, 0, len(records))
	skipped := 0
	for idx, rec := range records {
		if strings.TrimSpace(rec.Inputs.OriginalIdea) == "" || strings.TrimSpace(rec.Outputs.ImprovedPrompt) == "" {
			slog.Warn("skipping catalog entry with missing required field", "index", idx)
			skipped++
			continue
		}
		exemplars = append(exemplars, Exemplar{
			InputIdea:      rec.Inputs.OriginalIdea,
			InputContext:   rec.Inputs.Context,
			ImprovedPrompt: rec.Outputs.ImprovedPrompt,
			Role:           rec.Outputs.Role,
			Directive:      rec.Outputs.Directive,
			Framework:      rec.Outputs.Framework,
			Guardrails:     rec.Outputs.Guardrails,
			ExpectedOutput: rec.Outputs.ExpectedOutput,
			Metadata:       rec.Metadata,
		})
	}

	total := len(records)
	if total == 0 || len(exemplars) == 0 {
		return domainerr.Failure[Catalog](domainerr.New(domainerr.CategoryDataCorruption,
			"catalog has no valid exemplars after validation",
			domainerr.DataCorruptionCatalog, nil))
	}

	skipRate := float64(skipped) / float64(total)
	degraded := false
	switch {
	case skipRate >= 0.20:
		return domainerr.Failure[Catalog](domainerr.New(domainerr.CategoryDataCorruption,
			fmt.Sprintf("catalog skip rate %.1f%% exceeds quality threshold", skipRate*100),
			domainerr.DataCorruptionCatalog,
			map[string]string{"skip_rate": fmt.Sprintf("%.4f", skipRate)}))
	case skipRate >= 0.05:
		degraded = true
		slog.Error("catalog quality degradation: high skip rate", "skip_rate", skipRate, "skipped", skipped, "total", total)
	case skipped > 0:
		slog.Warn("catalog load skipped invalid entries", "skip_rate", skipRate, "skipped", skipped, "total", total)
	}

	return domainerr.Success(Catalog{Exemplars: exemplars}, map[string]bool{"catalog_quality_degraded": degraded})
}
