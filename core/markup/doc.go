// Package markup provides the optional markup-processing capability used by
// the XML and HTML extractors for validation, cleaning, and best-effort
// recovery of malformed documents.
//
// The capability is narrow: an [Engine] can do exactly two things, strictly
// parse text and report the position of the first syntax error, or leniently
// parse text and re-serialize the repaired tree. The extractors accept any
// Engine implementation and degrade gracefully (skipping validation and
// cleaning) when no engine is supplied.
//
// Two engines ship with the package: [XML], built on encoding/xml, and
// [HTML], built on goquery / golang.org/x/net/html. Both are stateless and
// safe for concurrent use. Neither expands custom entities nor touches the
// network; these are fixed security properties, not options.
package markup
