// Package patterns turns a knowledge graph and a set of enabled
// spreadsheet patterns into table Setups.
//
// Eight patterns can be toggled (see [Toggles]):
//
//   - NumericInformationAsText: numbers, booleans and dates also as text
//   - AcronymsOrSymbols: acronym label properties and the shortest label
//   - MultipleSurfaceForms: resources labelled by combined partial labels
//   - PropertyValueAsColor: some property values become row colors
//   - PartialFormattingIndicatesRelations: merged values tagged per relation
//   - OutdatedIsFormatted: outdated relations are struck through
//   - IntraCellAdditionalInformation: properties sharing a range share a column
//   - MultipleTypesInATable: classes with overlapping properties share a table
//
// [Generator.Generate] creates one Setup per class and replica. All random
// choices draw from the RNG passed in, so a seed reproduces the Setups.
package patterns
