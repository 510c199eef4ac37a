// Package extract pulls structured content (JSON, XML, HTML, and fenced
// source code) out of free-form LLM output. Because language models wrap
// their answers in markdown code fences, surrounding prose, and assorted
// formatting noise, each extractor applies an ordered list of fault-tolerance
// strategies: fence stripping, direct parsing, balanced-span candidate
// location, targeted repair, and optional structural validation, before
// falling back to a clear error.
//
// Four extractors cover the supported formats: [JSONExtractor],
// [XMLExtractor], [HTMLExtractor], and [CodeBlockExtractor]. Each is
// configured once at construction, holds no other state, and is safe for
// concurrent reuse. The [Extract] function dispatches to a default extractor
// by [Format] for the common one-shot case.
//
// Example:
//
//	value, err := extract.Extract("```json\n{\"key\": \"value\"}\n```", extract.FormatJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(value) // map[key:value]
package extract
