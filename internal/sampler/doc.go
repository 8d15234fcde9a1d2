// Package sampler turns genomes into labeled neighborhood rows.
//
// Three strategies share one pipeline: pick loci, bind them to sequence, scan
// codon positions in a frame, label each against the annotation, and submit
// the row to a RowWriter (normally a writers.Balanced). Strategies never see
// output formatting; they hand over an id, a neighborhood and a label.
package sampler
