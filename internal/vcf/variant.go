// Package vcf reads snpEff-annotated VCF files.
package vcf

import (
	"strings"

	"github.com/inodb/vibe-mdr/internal/annotation"
)

// ANN sub-field positions defined by the snpEff ANN specification:
// Allele | Annotation | Annotation_Impact | Gene_Name | Gene_ID | Feature_Type |
// Feature_ID | Transcript_BioType | Rank | HGVS.c | HGVS.p | ...
const (
	annGeneName = 3
	annHGVSp    = 10
)

// Variant represents a single VCF record.
type Variant struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
	Info  map[string]string
}

// Effect is one snpEff ANN entry.
type Effect struct {
	Allele string
	Gene   string
	HGVSp  string
}

// Effects parses the ANN INFO field. Entries are comma separated; sub-fields
// are pipe separated.
func (v *Variant) Effects() []Effect {
	ann, ok := v.Info["ANN"]
	if !ok || ann == "" {
		return nil
	}

	entries := strings.Split(ann, ",")
	effects := make([]Effect, 0, len(entries))
	for _, entry := range entries {
		parts := strings.Split(entry, "|")
		e := Effect{Allele: parts[0]}
		if len(parts) > annGeneName {
			e.Gene = parts[annGeneName]
		}
		if len(parts) > annHGVSp {
			e.HGVSp = parts[annHGVSp]
		}
		effects = append(effects, e)
	}
	return effects
}

// Row flattens the variant's effects into the two-column form produced by
// SnpSift extractFields ANN[*].GENE and ANN[*].HGVS_P.
func (v *Variant) Row() annotation.Row {
	effects := v.Effects()
	if len(effects) == 0 {
		return annotation.Row{
			GeneField:   annotation.MissingValue,
			ChangeField: annotation.MissingValue,
		}
	}

	genes := make([]string, len(effects))
	changes := make([]string, len(effects))
	for i, e := range effects {
		genes[i] = e.Gene
		changes[i] = e.HGVSp
	}
	return annotation.Row{
		GeneField:   strings.Join(genes, ","),
		ChangeField: strings.Join(changes, ","),
	}
}
