package kg

// Namespaces.
const (
	NSRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	NSXSD     = "http://www.w3.org/2001/XMLSchema#"
	NSOWL     = "http://www.w3.org/2002/07/owl#"
	NSFOAF    = "http://xmlns.com/foaf/0.1/"
	NSDCTerms = "http://purl.org/dc/terms/"
	NSDC11    = "http://purl.org/dc/elements/1.1/"
	NSPROV    = "http://www.w3.org/ns/prov#"
	NSCSVW    = "http://www.w3.org/ns/csvw#"
	NSSS      = "http://www.dfki.uni-kl.de/~mschroeder/ld/ss#"
	NSGL      = "http://www.dfki.uni-kl.de/~mschroeder/ld/gl#"
	NSExample = "http://example.org#"
	NSBench   = "http://localhost/vocabulary/bench/"
	NSBSBM    = "http://www4.wiwiss.fu-berlin.de/bizer/bsbm/v01/vocabulary/"
)

// Datatypes.
const (
	XSDString      = NSXSD + "string"
	XSDBoolean     = NSXSD + "boolean"
	XSDInteger     = NSXSD + "integer"
	XSDInt         = NSXSD + "int"
	XSDLong        = NSXSD + "long"
	XSDShort       = NSXSD + "short"
	XSDByte        = NSXSD + "byte"
	XSDNonNegInt   = NSXSD + "nonNegativeInteger"
	XSDPositiveInt = NSXSD + "positiveInteger"
	XSDDecimal     = NSXSD + "decimal"
	XSDDouble      = NSXSD + "double"
	XSDFloat       = NSXSD + "float"
	XSDDate        = NSXSD + "date"
	XSDDateTime    = NSXSD + "dateTime"
	XSDGYear       = NSXSD + "gYear"
	RDFLangString  = NSRDF + "langString"
	BSBMUSD        = NSBSBM + "USD"
)

// Frequently used terms.
var (
	RDFType      = IRI(NSRDF + "type")
	RDFProperty  = IRI(NSRDF + "Property")
	RDFStatement = IRI(NSRDF + "Statement")
	RDFSubject   = IRI(NSRDF + "subject")
	RDFPredicate = IRI(NSRDF + "predicate")
	RDFObject    = IRI(NSRDF + "object")

	RDFSLabel    = IRI(NSRDFS + "label")
	RDFSResource = IRI(NSRDFS + "Resource")
	RDFSClass    = IRI(NSRDFS + "Class")

	FOAFName      = IRI(NSFOAF + "name")
	FOAFFirstName = IRI(NSFOAF + "firstName")
	FOAFLastName  = IRI(NSFOAF + "lastName")
	FOAFHomepage  = IRI(NSFOAF + "homepage")

	DCTermsTitle  = IRI(NSDCTerms + "title")
	DCTermsIssued = IRI(NSDCTerms + "issued")
	DC11Title     = IRI(NSDC11 + "title")

	PROVEntity         = IRI(NSPROV + "Entity")
	PROVWasDerivedFrom = IRI(NSPROV + "wasDerivedFrom")

	CSVWCell = IRI(NSCSVW + "Cell")

	SSSheetName = IRI(NSSS + "sheetName")
	SSAddress   = IRI(NSSS + "address")

	GLHasID           = IRI(NSGL + "hasId")
	GLHasAbbreviation = IRI(NSGL + "hasAbbreviation")
	GLWorksAt         = IRI(NSGL + "worksAt")
	GLWasFormerEditor = IRI(NSGL + "wasFormerEditor")

	ExampleName         = IRI(NSExample + "name")
	ExampleEmailAddress = IRI(NSExample + "emailAddress")

	BenchBooktitle = IRI(NSBench + "booktitle")
)

// Prefixes maps the conventional prefix names used when serializing
// artifacts to their namespaces.
var Prefixes = map[string]string{
	"rdf":  NSRDF,
	"rdfs": NSRDFS,
	"xsd":  NSXSD,
	"owl":  NSOWL,
	"foaf": NSFOAF,
	"dct":  NSDCTerms,
	"prov": NSPROV,
	"csvw": NSCSVW,
	"ss":   NSSS,
	"gl":   NSGL,
}
