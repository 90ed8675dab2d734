// Package frontmatter reads and writes the plain "Key: value" header that
// prefixes every post file.
//
// A header looks like:
//
//	Title: My post
//	Date: 2024-03-01 09:30
//	Author: Elias Dorneles
//	Status: draft
//
// followed by a blank line and the markdown body. There are no delimiters.
package frontmatter

import "strings"

// Keys lists the recognized keys in the order Build writes them.
var Keys = []string{"title", "date", "author", "status"}

// Metadata maps lowercased header keys to their trimmed values.
type Metadata map[string]string

// Parse splits content into its header metadata and body.
//
// Scanning stops at the first blank line. Lines before it that contain a
// colon become metadata; other lines are dropped but still move the body
// start past them. Without a blank line the whole content is header and the
// body is empty.
func Parse(content string) (Metadata, string) {
	lines := strings.Split(content, "\n")
	meta := Metadata{}
	bodyStart := 0
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			bodyStart = i + 1
			break
		}
		if key, value, ok := strings.Cut(line, ":"); ok {
			meta[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
		}
		bodyStart = i + 1
	}
	return meta, strings.Join(lines[bodyStart:], "\n")
}

// Build renders the recognized keys of meta as header lines. Keys with an
// empty value and keys outside Keys are omitted.
func Build(meta Metadata) string {
	lines := make([]string, 0, len(Keys))
	for _, key := range Keys {
		value := meta[key]
		if value == "" {
			continue
		}
		lines = append(lines, strings.ToUpper(key[:1])+key[1:]+": "+value)
	}
	return strings.Join(lines, "\n")
}

// Document joins a header built from meta and body into file content.
func Document(meta Metadata, body string) string {
	return Build(meta) + "\n\n" + body
}
