// Package document parses form documents: a root object whose `form` member
// carries the form name, the post target and the ordered `items` array of
// field declarations. It also holds the Source and Loader contracts used to
// fetch documents from files, fs.FS entries or URLs, and converts YAML
// documents into order-preserving JSON so both formats share one parser.
package document
