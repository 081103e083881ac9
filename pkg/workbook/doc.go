// Package workbook writes rendered tables to disk.
//
// [Cluster] groups tables into workbooks so that no class appears twice in
// one workbook. [Creator.Create] writes each cluster to its own folder:
//
//	<dst>/[NN/]workbook.xlsx      one sheet per table
//	<dst>/[NN/]expected.ttl.gz    the statements shown in the sheets
//	<dst>/[NN/]provenance.ttl.gz  statement to cell links
//	<dst>/[NN/]provenance.csv.gz  one row per cell
//	<dst>/[NN/]summary.json       run summary and pattern usage per sheet
//
// The NN folder level is only used when there is more than one cluster.
// Cells without an address or without statements are left out of every
// provenance artifact.
package workbook
