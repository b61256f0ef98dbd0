package vcf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inodb/vibe-mdr/internal/annotation"
)

func TestParser_Rows(t *testing.T) {
	testFile := findTestFile(t, "s1_ann.vcf")

	parser, err := NewParser(testFile)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer parser.Close()

	want := []annotation.Row{
		{GeneField: "gyrA", ChangeField: "p.Ser83Ile", Line: 4},
		{GeneField: "parC,parE", ChangeField: "p.Ser80Ile,", Line: 5},
		{GeneField: "nan", ChangeField: "nan", Line: 6},
	}

	for i, w := range want {
		row, err := parser.Next()
		if err != nil {
			t.Fatalf("Failed to read row %d: %v", i, err)
		}
		if row == nil {
			t.Fatalf("Expected row %d, got nil", i)
		}
		if *row != w {
			t.Errorf("Row %d: got %+v, want %+v", i, *row, w)
		}
	}

	row, err := parser.Next()
	if err != nil {
		t.Fatalf("Error checking for more rows: %v", err)
	}
	if row != nil {
		t.Error("Expected no more rows")
	}
}

func TestParser_Header(t *testing.T) {
	testFile := findTestFile(t, "s1_ann.vcf")

	parser, err := NewParser(testFile)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer parser.Close()

	header := parser.Header()
	if len(header) != 3 {
		t.Fatalf("Expected 3 header lines, got %d", len(header))
	}
	if header[0] != "##fileformat=VCFv4.2" {
		t.Errorf("Missing ##fileformat header, got %q", header[0])
	}

	names := parser.SampleNames()
	if len(names) != 1 || names[0] != "S1" {
		t.Errorf("Expected sample names [S1], got %v", names)
	}
}

func TestParser_MalformedLineIsSkippable(t *testing.T) {
	data := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"chr1\t100\t.\tA\n" +
		"chr1\tabc\t.\tA\tG\t.\tPASS\t.\n" +
		"chr1\t300\t.\tA\tG\t.\tPASS\tANN=G|missense_variant|MODERATE|rpoB|g1|transcript|t1|protein_coding|1/1|c.1465C>G|p.His489Asp\n"

	parser, err := NewParserFromReader(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	for _, line := range []string{"line 2", "line 3"} {
		_, err := parser.Next()
		var rowErr annotation.RowError
		if !errors.As(err, &rowErr) || !rowErr.Skippable() {
			t.Fatalf("Expected skippable row error, got %v", err)
		}
		if !strings.Contains(err.Error(), line) {
			t.Errorf("Expected error at %s, got %q", line, err)
		}
	}

	row, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if row.GeneField != "rpoB" || row.ChangeField != "p.His489Asp" {
		t.Errorf("Unexpected row %+v", *row)
	}
}

func TestParser_MissingChromHeader(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("##fileformat=VCFv4.2\n"))
	if err == nil {
		t.Fatal("Expected error for missing #CHROM line")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
}

func TestVariant_Effects(t *testing.T) {
	v := &Variant{Info: map[string]string{
		"ANN": "T|missense_variant|MODERATE|vanA|g1|transcript|t1|protein_coding|1/1|c.10A>T|p.Lys4Ter,T|intergenic_region|MODIFIER|vanA-vanH",
	}}

	effects := v.Effects()
	if len(effects) != 2 {
		t.Fatalf("Expected 2 effects, got %d", len(effects))
	}
	if effects[0].Gene != "vanA" || effects[0].HGVSp != "p.Lys4Ter" {
		t.Errorf("Unexpected first effect %+v", effects[0])
	}
	if effects[1].Gene != "vanA-vanH" || effects[1].HGVSp != "" {
		t.Errorf("Truncated entry should have empty HGVS.p, got %+v", effects[1])
	}

	row := v.Row()
	if row.GeneField != "vanA,vanA-vanH" || row.ChangeField != "p.Lys4Ter," {
		t.Errorf("Unexpected row %+v", row)
	}
}

func TestParseInfo(t *testing.T) {
	info := parseInfo("DP=40;SOMATIC;ANN=a|b")
	if info["DP"] != "40" {
		t.Errorf("DP = %q, want 40", info["DP"])
	}
	if v, ok := info["SOMATIC"]; !ok || v != "" {
		t.Errorf("SOMATIC flag = %q, %v", v, ok)
	}
	if info["ANN"] != "a|b" {
		t.Errorf("ANN = %q", info["ANN"])
	}
	if len(parseInfo(".")) != 0 {
		t.Error("Expected empty map for '.'")
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{
		Line:    42,
		Message: "expected at least 8 columns, found 7",
	}

	expected := "vcf parse error at line 42: expected at least 8 columns, found 7"
	if err.Error() != expected {
		t.Errorf("Error message mismatch: got %q, want %q", err.Error(), expected)
	}
}

// findTestFile locates a test file in the testdata directory.
func findTestFile(t *testing.T, name string) string {
	t.Helper()

	p := filepath.Join("testdata", name)
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("Test file not found: %s", name)
	}
	return p
}
